package node

import (
	"encoding/json"
	"time"

	"maatnet.io/maat/lib/common"
)

type NodeInfo struct {
	Node   NodeInfoNode   `json:"node"`
	Policy NodePolicy     `json:"policy"`
	Ledger NodeLedgerInfo `json:"ledger"`
}

type NodeInfoNode struct {
	Version  NodeVersion      `json:"version"`
	Started  string           `json:"started"`
	State    State            `json:"state"`
	Alias    string           `json:"alias"`
	Address  string           `json:"address"`
	Endpoint *common.Endpoint `json:"endpoint"`
}

type NodePolicy struct {
	NetworkID        string        `json:"network-id"`         // network id
	OperationTimeGap time.Duration `json:"operation-time-gap"` // acceptable `Created` drift of an operation
	TallyScale       uint64        `json:"tally-scale"`        // scale of the vote percentages; see `ledger.TallyScale`
	RateLimitRuleAPI string        `json:"rate-limit-api"`
}

type NodeLedgerInfo struct {
	Administrator string `json:"administrator"`
	Proposals     uint64 `json:"proposals"` // number of proposals ever created
	Active        int    `json:"active"`    // number of proposals still accepting votes
}

type NodeVersion struct {
	Version   string `json:"version"`
	GitCommit string `json:"git-commit"`
	GitState  string `json:"git-state"`
	BuildDate string `json:"build-date"`
}

func NewNodeInfoFromJSON(b []byte) (NodeInfo, error) {
	var info NodeInfo
	err := json.Unmarshal(b, &info)
	return info, err
}
