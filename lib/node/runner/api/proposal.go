package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"maatnet.io/maat/lib/common/observer"
	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/network/httputils"
	"maatnet.io/maat/lib/node/runner/api/resource"
)

func parseProposalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.BadRequestParameter.Clone().SetData("id", s)
	}
	return id, nil
}

func (api NetworkHandlerAPI) GetProposalsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var options = p.ListOptions()
	var firstCursor []byte
	var cursor []byte

	readFunc := func() []resource.Resource {
		var rs []resource.Resource
		iterFunc, closeFunc := governance.GetProposals(api.storage, options)
		for {
			pr, hasNext, c := iterFunc()
			if !hasNext {
				break
			}
			cursor = append([]byte{}, c...)
			if len(firstCursor) == 0 {
				firstCursor = append(firstCursor, c...)
			}
			rs = append(rs, resource.NewProposal(pr))
		}
		closeFunc()
		return rs
	}

	rs := readFunc()
	list := p.ResourceList(rs, firstCursor, cursor)
	httputils.MustWriteJSON(w, 200, list)
}

func (api NetworkHandlerAPI) GetProposalHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := parseProposalID(vars["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func() (payload interface{}, err error) {
		p, err := api.ledger.ProposalInfo(id)
		if err != nil {
			return nil, err
		}
		payload = resource.NewProposal(p)
		return payload, nil
	}

	if httputils.IsEventStream(r) {
		event := observer.NewCondition(observer.Prop, observer.Identifier, strconv.FormatUint(id, 10)).String()
		es := NewEventStream(w, r, renderEventResource, DefaultContentType)
		// a subscription to a proposal not yet created just waits for it
		if payload, err := readFunc(); err == nil {
			es.Render(payload)
		}
		es.Run(observer.ResourceObserver, event)
		return
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api NetworkHandlerAPI) GetProposalTallyHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := parseProposalID(vars["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func() (payload interface{}, err error) {
		p, err := api.ledger.ProposalInfo(id)
		if err != nil {
			return nil, err
		}
		payload = resource.NewTally(p)
		return payload, nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}
