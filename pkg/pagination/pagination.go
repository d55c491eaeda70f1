// Package pagination drains paged list endpoints into a single ordered slice.
//
// Three conventions are supported: RFC 5988 Link headers (Paginate), opaque
// continuation cursors (PaginateCursor) and offset/limit with a reported total
// (PaginateOffset). Pages are always fetched sequentially and items keep the
// provider's order. A failed page aborts the listing with that page's error.
package pagination

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomnomnom/linkheader"

	"github.com/honeycarbs/atsbridge/pkg/logging"
)

const (
	DefaultPageSize      = 100
	DefaultMaxPages      = 100
	DefaultMaxItems      = 10000
	DefaultPageSizeParam = "per_page"
)

// PageFunc fetches one page for the given query parameters
type PageFunc[T any] func(ctx context.Context, params url.Values) ([]T, http.Header, error)

// CursorFunc fetches the page after cursor ("" for the first page) and returns the next cursor
type CursorFunc[T any] func(ctx context.Context, cursor string) ([]T, string, error)

// OffsetFunc fetches limit items starting at offset and returns the reported total
type OffsetFunc[T any] func(ctx context.Context, offset, limit int) ([]T, int, error)

// Pager holds the pagination limits
type Pager struct {
	PageSize      int
	MaxPages      int
	PageSizeParam string
	Logger        *logging.Logger
}

// NewPager returns a Pager with defaults for zero fields
func NewPager(pageSize int, logger *logging.Logger) *Pager {
	p := &Pager{PageSize: pageSize, Logger: logger}
	p.normalize()
	return p
}

// withDefaults returns a copy so a shared Pager is never mutated
func (p *Pager) withDefaults() *Pager {
	c := Pager{}
	if p != nil {
		c = *p
	}
	c.normalize()
	return &c
}

func (p *Pager) normalize() {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.MaxPages <= 0 {
		p.MaxPages = DefaultMaxPages
	}
	if p.PageSizeParam == "" {
		p.PageSizeParam = DefaultPageSizeParam
	}
	p.Logger = logging.OrNop(p.Logger)
}

// Paginate follows rel="next" Link headers until none is returned or MaxPages is reached.
// Reaching the ceiling logs a warning and returns what was collected.
func Paginate[T any](ctx context.Context, p *Pager, fetch PageFunc[T], params url.Values) ([]T, error) {
	p = p.withDefaults()

	cur := cloneValues(params)
	if cur.Get(p.PageSizeParam) == "" {
		cur.Set(p.PageSizeParam, strconv.Itoa(p.PageSize))
	}

	var all []T
	for page := 1; ; page++ {
		if page > p.MaxPages {
			p.Logger.Warn("reached max page limit", "max_pages", p.MaxPages, "items", len(all))
			break
		}

		p.Logger.Debug("fetching page", "page", page)
		items, header, err := fetch(ctx, cur)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		next, ok := NextParams(header)
		if !ok {
			p.Logger.Debug("no more pages", "pages", page, "items", len(all))
			break
		}
		if next.Get(p.PageSizeParam) == "" {
			next.Set(p.PageSizeParam, strconv.Itoa(p.PageSize))
		}
		cur = next
	}

	return all, nil
}

// NextLink returns the URL tagged rel="next" in the Link header, if any
func NextLink(header http.Header) (string, bool) {
	raw := linkHeader(header)
	if raw == "" {
		return "", false
	}

	for _, l := range linkheader.Parse(raw) {
		if l.Rel == "next" && l.URL != "" {
			return l.URL, true
		}
	}
	return "", false
}

// NextParams decodes the query string of the next link
func NextParams(header http.Header) (url.Values, bool) {
	next, ok := NextLink(header)
	if !ok {
		return nil, false
	}

	u, err := url.Parse(next)
	if err != nil {
		return nil, false
	}
	return u.Query(), true
}

// PaginateCursor follows continuation cursors until an empty one is returned
func PaginateCursor[T any](ctx context.Context, p *Pager, fetch CursorFunc[T]) ([]T, error) {
	p = p.withDefaults()

	var (
		all    []T
		cursor string
	)
	for page := 1; ; page++ {
		if page > p.MaxPages {
			p.Logger.Warn("reached max page limit", "max_pages", p.MaxPages, "items", len(all))
			break
		}

		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if next == "" {
			break
		}
		cursor = next
	}

	return all, nil
}

// PaginateOffset accumulates pages until an empty page, the reported total, or maxItems
func PaginateOffset[T any](ctx context.Context, fetch OffsetFunc[T], pageSize, maxItems int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	var all []T
	offset := 0
	for offset < maxItems {
		items, total, err := fetch(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}

		all = append(all, items...)
		offset += len(items)

		if offset >= total {
			break
		}
	}

	return all, nil
}

// linkHeader tolerates non-canonical keys in hand-built headers
func linkHeader(header http.Header) string {
	if v := header.Get("Link"); v != "" {
		return v
	}
	for k, vs := range header {
		if strings.EqualFold(k, "link") && len(vs) > 0 {
			return strings.Join(vs, ", ")
		}
	}
	return ""
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
