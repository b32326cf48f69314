package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/network/httputils"
	"maatnet.io/maat/lib/node/runner/api/resource"
	"maatnet.io/maat/lib/operation"
)

// PostOperationsHandler accepts a signed operation envelope, validates it
// completely and applies it to the ledger. The response carries the
// envelope identity plus the touched resource; rejected envelopes never
// reach the ledger.
func (api NetworkHandlerAPI) PostOperationsHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	var op operation.Operation
	if err := json.Unmarshal(body, &op); err != nil {
		if _, ok := err.(*errors.Error); !ok {
			err = errors.InvalidOperation.Clone().SetData("error", err.Error())
		}
		httputils.WriteJSONError(w, err)
		return
	}

	if err := op.IsWellFormed(api.conf); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	payload, err := api.applyOperation(op)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api NetworkHandlerAPI) applyOperation(op operation.Operation) (resource.Resource, error) {
	now := time.Now().Unix()
	source := op.Source()

	switch payload := op.B.Payload.(type) {
	case operation.CreateProposal:
		id, err := api.ledger.CreateProposal(payload.Title, payload.Description, source, now)
		if err != nil {
			return nil, err
		}
		p, err := api.ledger.ProposalInfo(id)
		if err != nil {
			return nil, err
		}
		return resource.NewOperationPost(op, resource.NewProposal(p)), nil

	case operation.CastVote:
		if err := api.ledger.CastVote(payload.ProposalID, source, payload.Support, now); err != nil {
			return nil, err
		}
		v, err := governance.GetVoteRecord(api.storage, payload.ProposalID, source)
		if err != nil {
			return nil, err
		}
		return resource.NewOperationPost(op, resource.NewVote(v)), nil

	case operation.CloseProposal:
		if err := api.ledger.CloseProposal(payload.ProposalID, source, now); err != nil {
			return nil, err
		}
		p, err := api.ledger.ProposalInfo(payload.ProposalID)
		if err != nil {
			return nil, err
		}
		return resource.NewOperationPost(op, resource.NewProposal(p)), nil

	case operation.TransferAdministrator:
		if err := api.ledger.TransferAdministrator(payload.NewAdmin, source); err != nil {
			return nil, err
		}
		a, err := governance.GetAdministrator(api.storage)
		if err != nil {
			return nil, err
		}
		return resource.NewOperationPost(op, resource.NewAdministrator(a)), nil
	}

	return nil, errors.UnknownOperationType
}
