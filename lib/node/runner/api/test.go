package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/ledger"
	"maatnet.io/maat/lib/node"
	"maatnet.io/maat/lib/storage"
	"maatnet.io/maat/lib/version"
)

var networkID []byte = []byte("maat-test-network")

const testCreated int64 = 1500000000

func prepareAPIServer() (*httptest.Server, *storage.LevelDBBackend, *keypair.Full, *ledger.Ledger) {
	st := storage.NewTestStorage()

	adminKP := keypair.Random()
	lg := ledger.NewTestLedger(st, adminKP.Address())

	localNode := node.NewTestLocalNode0()
	conf := common.NewConfig(networkID)

	nodeInfo := node.NodeInfo{
		Node: node.NodeInfoNode{
			Version: node.NodeVersion{
				Version:   version.Version,
				GitCommit: version.GitCommit,
				GitState:  version.GitState,
				BuildDate: version.BuildDate,
			},
			State:   localNode.State(),
			Alias:   localNode.Alias(),
			Address: localNode.Address(),
		},
		Policy: node.NodePolicy{
			NetworkID:        string(networkID),
			OperationTimeGap: conf.OperationTimeGap,
			TallyScale:       ledger.TallyScale,
		},
	}

	apiHandler := NewNetworkHandlerAPI(localNode, st, lg, "", conf, nodeInfo)

	router := mux.NewRouter()
	router.HandleFunc(GetProposalsHandlerPattern, apiHandler.GetProposalsHandler).Methods("GET")
	router.HandleFunc(GetProposalHandlerPattern, apiHandler.GetProposalHandler).Methods("GET")
	router.HandleFunc(GetProposalVotesHandlerPattern, apiHandler.GetVotesByProposalHandler).Methods("GET")
	router.HandleFunc(GetProposalVoteHandlerPattern, apiHandler.GetVoteByVoterHandler).Methods("GET")
	router.HandleFunc(GetProposalTallyHandlerPattern, apiHandler.GetProposalTallyHandler).Methods("GET")
	router.HandleFunc(GetAdministratorHandlerPattern, apiHandler.GetAdministratorHandler).Methods("GET")
	router.HandleFunc(PostOperationsPattern, apiHandler.PostOperationsHandler).Methods("POST")
	router.HandleFunc(PostSubscribePattern, apiHandler.PostSubscribeHandler).Methods("POST")
	router.HandleFunc(GetNodeInfoPattern, apiHandler.GetNodeInfoHandler).Methods("GET")
	ts := httptest.NewServer(router)
	return ts, st, adminKP, lg
}

func prepareProposals(lg *ledger.Ledger, adminKP *keypair.Full, count int) []uint64 {
	var ids []uint64
	for i := 0; i < count; i++ {
		id, err := lg.CreateProposal(
			fmt.Sprintf("proposal %d", i),
			"created for unittests",
			adminKP.Address(),
			testCreated,
		)
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
	}
	return ids
}

func prepareVotes(lg *ledger.Ledger, proposalID uint64, yes, no int) []*keypair.Full {
	var voters []*keypair.Full
	for i := 0; i < yes+no; i++ {
		kp := keypair.Random()
		if err := lg.CastVote(proposalID, kp.Address(), i < yes, testCreated); err != nil {
			panic(err)
		}
		voters = append(voters, kp)
	}
	return voters
}

func request(ts *httptest.Server, url string, streaming bool, body ...[]byte) io.ReadCloser {
	// Do a Request
	url = ts.URL + url
	var req *http.Request
	var err error
	if len(body) > 0 {
		req, err = http.NewRequest("POST", url, bytes.NewBuffer(body[0]))
	} else {
		req, err = http.NewRequest("GET", url, nil)
	}
	if err != nil {
		panic(err)
	}
	if streaming {
		req.Header.Set("Accept", "text/event-stream")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		panic(err)
	}
	return resp.Body
}
