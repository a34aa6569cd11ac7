package pagination

import "strconv"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page carries the limit/offset a client asked for.
type Page struct {
	Limit  int
	Offset int
}

// FromQuery parses limit/offset query values, clamping to sane bounds.
func FromQuery(limitStr, offsetStr string) Page {
	limit, _ := strconv.Atoi(limitStr)
	offset, _ := strconv.Atoi(offsetStr)

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Page{Limit: limit, Offset: offset}
}

// FetchLimit is the number of rows to request from the store: one more than
// the page size, so the presence of a following page can be detected without
// a count query.
func (p Page) FetchLimit() int {
	return p.Limit + 1
}

// Trim drops the probe row when the store returned more than a page and
// reports whether more rows remain.
func Trim[T any](rows []T, p Page) ([]T, bool) {
	if len(rows) > p.Limit {
		return rows[:p.Limit], true
	}
	return rows, false
}
