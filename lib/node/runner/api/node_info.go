package api

import (
	"net/http"

	"maatnet.io/maat/lib/common"
)

// GetNodeInfoHandler answers the node self-description document. Ledger
// counters are read fresh on every request; the static parts come from the
// snapshot the handler was built with.
func (api NetworkHandlerAPI) GetNodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	info := api.nodeInfo
	info.Node.State = api.localNode.State()

	// no publish endpoint configured; answer with the address the client
	// reached us at
	if info.Node.Endpoint == nil {
		u := common.RequestURLFromRequest(r)
		u.Path = ""
		u.RawQuery = ""
		info.Node.Endpoint = common.NewEndpointFromURL(u)
	}

	if count, err := api.ledger.ProposalCount(); err == nil {
		info.Ledger.Proposals = count
	}
	if ids, err := api.ledger.ActiveProposalIDs(); err == nil {
		info.Ledger.Active = len(ids)
	}
	if admin, err := api.ledger.Administrator(); err == nil {
		info.Ledger.Administrator = admin
	}

	b, err := common.JSONMarshalIndent(info)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(b)
}
