package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const MaxLimit = 500

// Params holds pagination parameters extracted from a request. A zero
// Limit means the caller asked for every row.
type Params struct {
	Limit  int
	Offset int
}

// FromQuery extracts limit and offset from the query string. Missing or
// non-numeric values fall back to an unbounded first page.
func FromQuery(q url.Values) Params {
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

func (p Params) Unbounded() bool {
	return p.Limit == 0
}

// SQL returns the LIMIT and OFFSET clause for SQL queries. It is empty for
// an unbounded first page.
func (p Params) SQL() string {
	switch {
	case p.Limit > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset)
	case p.Offset > 0:
		return fmt.Sprintf(" OFFSET %d", p.Offset)
	}
	return ""
}

// Window returns the bounds of the page within a slice of n items.
func (p Params) Window(n int) (start, end int) {
	start = p.Offset
	if start > n {
		start = n
	}
	end = n
	if p.Limit > 0 && start+p.Limit < n {
		end = start + p.Limit
	}
	return start, end
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Limit > 0 && p.Offset+p.Limit < total
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}
