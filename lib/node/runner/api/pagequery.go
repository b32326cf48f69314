package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/node/runner/api/resource"
	"maatnet.io/maat/lib/storage"
)

const (
	DefaultLimit uint64 = 20
	MaxLimit     uint64 = 100
)

// PageQuery reads the cursor/limit/reverse query params of a list request
// and hands out the matching storage options and page links. Cursors travel
// base64-encoded since storage keys are not always url-safe.
type PageQuery struct {
	request *http.Request
	cursor  []byte
	reverse bool
	limit   uint64
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   DefaultLimit,
	}

	if err := p.parse(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *PageQuery) parse() error {
	query := p.request.URL.Query()

	if raw := query.Get("reverse"); raw != "" {
		reverse, err := common.ParseBoolQueryString(raw)
		if err != nil {
			return err
		}
		p.reverse = reverse
	}

	if raw := query.Get("cursor"); raw != "" {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			// a plain cursor still works, it just was not minted by us
			p.cursor = []byte(raw)
		} else {
			p.cursor = decoded
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return errors.InvalidQueryString.Clone().SetData("limit", raw)
		}
		if limit > MaxLimit {
			return errors.PageQueryLimitMaxExceed
		}
		p.limit = limit
	}

	return nil
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) Cursor() []byte {
	return p.cursor
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) PrevLink(cursor []byte) string {
	return p.pageLink(cursor, true)
}

func (p *PageQuery) NextLink(cursor []byte) string {
	return p.pageLink(cursor, false)
}

func (p *PageQuery) pageLink(cursor []byte, reverse bool) string {
	values := url.Values{
		"reverse": []string{strconv.FormatBool(reverse)},
	}
	if len(cursor) > 0 {
		values.Set("cursor", base64.StdEncoding.EncodeToString(cursor))
	}
	if p.limit > 0 {
		values.Set("limit", strconv.FormatUint(p.limit, 10))
	}

	return fmt.Sprintf("%s?%s", p.request.URL.Path, values.Encode())
}

func (p *PageQuery) ListOptions() storage.ListOptions {
	return storage.ListOptions{Reverse: p.reverse, Cursor: p.cursor, Limit: p.limit}
}

// ResourceList assembles the HAL list; which end of the page feeds `next`
// depends on the iteration direction.
func (p *PageQuery) ResourceList(rs []resource.Resource, firstCursor, lastCursor []byte) *resource.ResourceList {
	if p.reverse {
		return resource.NewResourceList(rs, p.SelfLink(), p.NextLink(firstCursor), p.PrevLink(lastCursor))
	}

	return resource.NewResourceList(rs, p.SelfLink(), p.NextLink(lastCursor), p.PrevLink(firstCursor))
}
