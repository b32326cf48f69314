package resource

import (
	"strconv"
	"strings"

	"github.com/nvellon/hal"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/governance"
)

type Proposal struct {
	p governance.Proposal
}

func NewProposal(p governance.Proposal) *Proposal {
	r := &Proposal{
		p: p,
	}
	return r
}

func (p Proposal) GetMap() hal.Entry {
	return hal.Entry{
		"id":          p.p.ID,
		"title":       p.p.Title,
		"description": p.p.Description,
		"yes_count":   p.p.YesCount,
		"no_count":    p.p.NoCount,
		"active":      p.p.Active,
		"created":     p.p.Created,
		"creator":     p.p.Creator,
	}
}

func (p Proposal) Resource() *hal.Resource {
	id := strconv.FormatUint(p.p.ID, 10)

	r := hal.NewResource(p, p.LinkSelf())
	r.AddLink("votes", hal.NewLink(strings.Replace(URLProposalVotes, "{id}", id, -1)+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	r.AddLink("tally", hal.NewLink(strings.Replace(URLProposalTally, "{id}", id, -1)))
	return r
}

func (p Proposal) LinkSelf() string {
	id := strconv.FormatUint(p.p.ID, 10)
	return strings.Replace(URLProposal, "{id}", id, -1)
}

func (p Proposal) MarshalJSON() ([]byte, error) {
	r := p.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
