package resource

import (
	"strconv"
	"strings"

	"github.com/nvellon/hal"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/governance"
)

type Vote struct {
	v governance.VoteRecord
}

func NewVote(v governance.VoteRecord) *Vote {
	r := &Vote{
		v: v,
	}
	return r
}

func (v Vote) GetMap() hal.Entry {
	return hal.Entry{
		"proposal_id": v.v.ProposalID,
		"voter":       v.v.Voter,
		"support":     v.v.Support,
		"created":     v.v.Created,
	}
}

func (v Vote) Resource() *hal.Resource {
	id := strconv.FormatUint(v.v.ProposalID, 10)

	r := hal.NewResource(v, v.LinkSelf())
	r.AddLink("proposal", hal.NewLink(strings.Replace(URLProposal, "{id}", id, -1)))
	return r
}

func (v Vote) LinkSelf() string {
	id := strconv.FormatUint(v.v.ProposalID, 10)
	link := strings.Replace(URLProposalVote, "{id}", id, -1)
	return strings.Replace(link, "{address}", v.v.Voter, -1)
}

func (v Vote) MarshalJSON() ([]byte, error) {
	r := v.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
