package operation

import (
	"encoding/json"

	"maatnet.io/maat/lib/common"
)

type CastVote struct {
	ProposalID uint64 `json:"proposal_id"`
	Support    bool   `json:"support"`
}

func NewCastVote(proposalID uint64, support bool) CastVote {
	return CastVote{
		ProposalID: proposalID,
		Support:    support,
	}
}

func (o CastVote) Serialize() (encoded []byte, err error) {
	return json.Marshal(o)
}

// Whether the proposal exists and still accepts votes is the ledger's
// call, not the payload's.
func (o CastVote) IsWellFormed(common.Config) (err error) {
	return
}
