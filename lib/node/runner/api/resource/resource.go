package resource

import (
	"github.com/nvellon/hal"
)

// Resource is anything the api can render as a hal document.
type Resource interface {
	LinkSelf() string
	Resource() *hal.Resource
	GetMap() hal.Entry
}

// ResourceList embeds a page of resources under `records` with the
// cursor-based prev/next links alongside.
type ResourceList struct {
	Resources []Resource
	SelfLink  string
	NextLink  string
	PrevLink  string
}

func NewResourceList(list []Resource, selfLink, nextLink, prevLink string) *ResourceList {
	return &ResourceList{
		Resources: list,
		SelfLink:  selfLink,
		NextLink:  nextLink,
		PrevLink:  prevLink,
	}
}

func (l ResourceList) Resource() *hal.Resource {
	page := hal.NewResource(struct{}{}, l.LinkSelf())

	var records hal.ResourceCollection
	for _, r := range l.Resources {
		records = append(records, r.Resource())
	}
	page.EmbedCollection("records", records)

	if l.PrevLink != "" {
		page.AddLink("prev", hal.NewLink(l.PrevLink))
	}
	if l.NextLink != "" {
		page.AddLink("next", hal.NewLink(l.NextLink))
	}

	return page
}

func (l ResourceList) LinkSelf() string {
	return l.SelfLink
}

func (l ResourceList) GetMap() hal.Entry {
	return hal.Entry{}
}
