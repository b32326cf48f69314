package api

import (
	"fmt"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/ledger"
	"maatnet.io/maat/lib/node"
	"maatnet.io/maat/lib/storage"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetProposalsHandlerPattern     = "/proposals"
	GetProposalHandlerPattern      = "/proposals/{id}"
	GetProposalVotesHandlerPattern = "/proposals/{id}/votes"
	GetProposalVoteHandlerPattern  = "/proposals/{id}/votes/{address}"
	GetProposalTallyHandlerPattern = "/proposals/{id}/tally"
	GetAdministratorHandlerPattern = "/administrator"
	PostOperationsPattern          = "/operations"
	GetNodeInfoPattern             = "/"
	PostSubscribePattern           = "/subscribe"
)

type NetworkHandlerAPI struct {
	localNode *node.LocalNode
	storage   *storage.LevelDBBackend
	ledger    *ledger.Ledger
	urlPrefix string
	version   string
	conf      common.Config
	nodeInfo  node.NodeInfo
}

func NewNetworkHandlerAPI(localNode *node.LocalNode, storage *storage.LevelDBBackend, lg *ledger.Ledger, urlPrefix string, conf common.Config, nodeInfo node.NodeInfo) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		localNode: localNode,
		storage:   storage,
		ledger:    lg,
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
		conf:      conf,
		nodeInfo:  nodeInfo,
	}
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}
