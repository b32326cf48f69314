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

func (api NetworkHandlerAPI) GetVotesByProposalHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := parseProposalID(vars["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if found, err := governance.ExistsProposal(api.storage, id); err != nil {
		httputils.WriteJSONError(w, err)
		return
	} else if !found {
		httputils.WriteJSONError(w, errors.ProposalNotFound.Clone().SetData("id", id))
		return
	}

	var options = p.ListOptions()
	var firstCursor []byte
	var cursor []byte

	readFunc := func() []resource.Resource {
		var rs []resource.Resource
		iterFunc, closeFunc := governance.GetVoteRecordsByProposal(api.storage, id, options)
		for {
			v, hasNext, c := iterFunc()
			if !hasNext {
				break
			}
			cursor = append([]byte{}, c...)
			if len(firstCursor) == 0 {
				firstCursor = append(firstCursor, c...)
			}
			rs = append(rs, resource.NewVote(v))
		}
		closeFunc()
		return rs
	}

	if httputils.IsEventStream(r) {
		event := observer.NewCondition(observer.Vote, observer.ProposalID, strconv.FormatUint(id, 10)).String()
		es := NewEventStream(w, r, renderEventResource, DefaultContentType)
		for _, vr := range readFunc() {
			es.Render(vr)
		}
		es.Run(observer.ResourceObserver, event)
		return
	}

	rs := readFunc()
	list := p.ResourceList(rs, firstCursor, cursor)
	httputils.MustWriteJSON(w, 200, list)
}

func (api NetworkHandlerAPI) GetVoteByVoterHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	id, err := parseProposalID(vars["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func() (payload interface{}, err error) {
		if found, err := governance.ExistsProposal(api.storage, id); err != nil {
			return nil, err
		} else if !found {
			return nil, errors.ProposalNotFound.Clone().SetData("id", id)
		}

		found, err := governance.ExistsVoteRecord(api.storage, id, address)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.StorageRecordDoesNotExist.Clone().SetData("id", id).SetData("voter", address)
		}

		v, err := governance.GetVoteRecord(api.storage, id, address)
		if err != nil {
			return nil, err
		}
		payload = resource.NewVote(v)
		return payload, nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}
