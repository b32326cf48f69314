//
// Defines the `LocalNode` type, which is our own node
//
// A `LocalNode` carries the identity this process runs under:
// its keypair, its published endpoint and its lifecycle state.
//
// There should only be one `LocalNode` per program.
//
package node

import (
	"encoding/json"
	"fmt"
	"sync"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
)

type LocalNode struct {
	mu sync.RWMutex

	keypair *keypair.Full

	state           State
	alias           string
	bindEndpoint    *common.Endpoint
	publishEndpoint *common.Endpoint
}

func NewLocalNode(kp *keypair.Full, bindEndpoint *common.Endpoint, alias string) (*LocalNode, error) {
	if len(alias) == 0 {
		alias = MakeAlias(kp.Address())
	}

	return &LocalNode{
		keypair:      kp,
		state:        StateNONE,
		alias:        alias,
		bindEndpoint: bindEndpoint,
	}, nil
}

func (n *LocalNode) String() string {
	return n.Alias()
}

func (n *LocalNode) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.state
}

func (n *LocalNode) SetBooting() {
	n.setState(StateBOOTING)
}

func (n *LocalNode) SetRunning() {
	n.setState(StateRUNNING)
}

func (n *LocalNode) SetTerminating() {
	n.setState(StateTERMINATING)
}

func (n *LocalNode) setState(s State) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.state = s
}

func (n *LocalNode) Address() string {
	return n.keypair.Address()
}

func (n *LocalNode) Keypair() *keypair.Full {
	return n.keypair
}

func (n *LocalNode) Alias() string {
	return n.alias
}

func (n *LocalNode) SetAlias(s string) {
	n.alias = s
}

// Endpoint is the address other parties should reach this node at; the
// publish endpoint wins over the bind address when both are set.
func (n *LocalNode) Endpoint() *common.Endpoint {
	if n.publishEndpoint != nil {
		return n.publishEndpoint
	}

	return n.bindEndpoint
}

func (n *LocalNode) BindEndpoint() *common.Endpoint {
	return n.bindEndpoint
}

func (n *LocalNode) PublishEndpoint() *common.Endpoint {
	return n.publishEndpoint
}

func (n *LocalNode) SetPublishEndpoint(endpoint *common.Endpoint) {
	n.publishEndpoint = endpoint
}

func (n *LocalNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"address":  n.Address(),
		"alias":    n.Alias(),
		"endpoint": n.Endpoint().String(),
		"state":    n.State().String(),
	})
}

func (n *LocalNode) Serialize() ([]byte, error) {
	return json.Marshal(n)
}

func MakeAlias(address string) string {
	l := len(address)
	return fmt.Sprintf("%s.%s", address[:4], address[l-8:l-4])
}
