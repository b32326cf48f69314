package runner

import (
	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/ledger"
	"maatnet.io/maat/lib/node"
	"maatnet.io/maat/lib/version"
)

// NewNodeInfo collects the static part of the node's self description; the
// ledger section is filled per request so it never goes stale.
func NewNodeInfo(nr *NodeRunner) node.NodeInfo {
	localNode := nr.Node()

	return node.NodeInfo{
		Node: node.NodeInfoNode{
			Version: node.NodeVersion{
				Version:   version.Version,
				GitCommit: version.GitCommit,
				GitState:  version.GitState,
				BuildDate: version.BuildDate,
			},
			Started:  common.NowISO8601(),
			State:    localNode.State(),
			Alias:    localNode.Alias(),
			Address:  localNode.Address(),
			Endpoint: localNode.PublishEndpoint(),
		},
		Policy: node.NodePolicy{
			NetworkID:        string(nr.NetworkID()),
			OperationTimeGap: nr.Conf.OperationTimeGap,
			TallyScale:       ledger.TallyScale,
			RateLimitRuleAPI: common.FormatRateLimitRate(nr.Conf.RateLimitRuleAPI.Default),
		},
	}
}
