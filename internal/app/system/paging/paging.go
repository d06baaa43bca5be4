// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the request names none.
// MaxLimit caps what a client may ask for. MaxPage keeps the skip offset
// far from overflow; later pages are simply empty.
const (
	DefaultLimit = 25
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// Page is a 1-based offset page.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Skip is the number of documents before this page.
func (p Page) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }

// ApplyToFind sets skip and limit on find.
func (p Page) ApplyToFind(find *options.FindOptions) {
	find.SetSkip(p.Skip()).SetLimit(int64(p.Limit))
}

// Parse reads "page" and "limit" from the query string. Missing, non-numeric
// or non-positive values fall back to page 1 and DefaultLimit; page is
// clamped to MaxPage and limit to MaxLimit.
func Parse(r *http.Request) Page {
	return Page{
		Page:  min(positiveInt(query.Get(r, "page"), 1), MaxPage),
		Limit: min(positiveInt(query.Get(r, "limit"), DefaultLimit), MaxLimit),
	}
}

func positiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Pagination links a page to its neighbours. Either side is nil when there
// is no such page.
type Pagination struct {
	Next *Page `json:"next,omitempty"`
	Prev *Page `json:"prev,omitempty"`
}

// Links computes Pagination for p given the total number of matching
// documents.
func Links(p Page, total int64) Pagination {
	var out Pagination
	if p.Skip()+int64(p.Limit) < total {
		out.Next = &Page{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.Page > 1 {
		out.Prev = &Page{Page: p.Page - 1, Limit: p.Limit}
	}
	return out
}
