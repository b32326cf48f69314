package resource

import (
	"strconv"
	"strings"

	"github.com/nvellon/hal"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/ledger"
)

// Tally is the voting outcome of one proposal, computed from a single
// snapshot of its counters so the percentages and counts always agree.
type Tally struct {
	p governance.Proposal
}

func NewTally(p governance.Proposal) *Tally {
	r := &Tally{
		p: p,
	}
	return r
}

func (t Tally) GetMap() hal.Entry {
	var yesPercent, noPercent uint64
	total := t.p.YesCount + t.p.NoCount
	if total > 0 {
		yesPercent = t.p.YesCount * ledger.TallyScale / total
		noPercent = t.p.NoCount * ledger.TallyScale / total
	}

	return hal.Entry{
		"proposal_id": t.p.ID,
		"yes_count":   t.p.YesCount,
		"no_count":    t.p.NoCount,
		"yes_percent": yesPercent,
		"no_percent":  noPercent,
		"scale":       ledger.TallyScale,
		"approved":    t.p.YesCount > t.p.NoCount,
		"active":      t.p.Active,
	}
}

func (t Tally) Resource() *hal.Resource {
	id := strconv.FormatUint(t.p.ID, 10)

	r := hal.NewResource(t, t.LinkSelf())
	r.AddLink("proposal", hal.NewLink(strings.Replace(URLProposal, "{id}", id, -1)))
	return r
}

func (t Tally) LinkSelf() string {
	id := strconv.FormatUint(t.p.ID, 10)
	return strings.Replace(URLProposalTally, "{id}", id, -1)
}

func (t Tally) MarshalJSON() ([]byte, error) {
	r := t.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
