package resource

import (
	"github.com/nvellon/hal"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/governance"
)

type Administrator struct {
	a governance.Administrator
}

func NewAdministrator(a governance.Administrator) *Administrator {
	r := &Administrator{
		a: a,
	}
	return r
}

func (a Administrator) GetMap() hal.Entry {
	return hal.Entry{
		"address": a.a.Address,
	}
}

func (a Administrator) Resource() *hal.Resource {
	r := hal.NewResource(a, a.LinkSelf())
	r.AddLink("proposals", hal.NewLink(URLProposals+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	return r
}

func (a Administrator) LinkSelf() string {
	return URLAdministrator
}

func (a Administrator) MarshalJSON() ([]byte, error) {
	r := a.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
