// Helpers meant for unit tests only.
package node

import (
	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
)

// NewTestLocalNode0 builds a LocalNode on a throwaway key and a memory
// endpoint.
func NewTestLocalNode0() *LocalNode {
	return NewTestLocalNode(keypair.Random(), &common.Endpoint{Scheme: "memory", Host: "unittests"})
}

// NewTestLocalNode panics instead of returning an error, for terser test
// setup.
func NewTestLocalNode(kp *keypair.Full, endpoint *common.Endpoint) *LocalNode {
	ln, err := NewLocalNode(kp, endpoint, MakeAlias(kp.Address()))
	if err != nil {
		panic(err)
	}
	return ln
}
