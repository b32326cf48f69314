package operation

import (
	"encoding/json"

	"maatnet.io/maat/lib/common"
)

type CloseProposal struct {
	ProposalID uint64 `json:"proposal_id"`
}

func NewCloseProposal(proposalID uint64) CloseProposal {
	return CloseProposal{
		ProposalID: proposalID,
	}
}

func (o CloseProposal) Serialize() (encoded []byte, err error) {
	return json.Marshal(o)
}

func (o CloseProposal) IsWellFormed(common.Config) (err error) {
	return
}
