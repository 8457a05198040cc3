// Package listing narrows the bet collection by status and date range
// and slices it into pages. It never reorders: the collection manager
// owns the createdAt-descending sort.
package listing

import (
	"time"

	"myks/internal/core"
)

// StatusAll passes every bet status through the filter.
const StatusAll = "all"

// DefaultPageSize matches the page size offered by the UI by default.
const DefaultPageSize = 10

// Filter describes the narrowing criteria. Zero-value date bounds are
// open ends. Bounds are inclusive day boundaries: From counts from
// 00:00:00.000 and To until 23:59:59.999 of the named day.
type Filter struct {
	Status string
	From   time.Time
	To     time.Time
}

// Apply returns the bets matching the filter, preserving input order.
func Apply(bets []core.Bet, f Filter) []core.Bet {
	var fromBound, toBound time.Time
	if !f.From.IsZero() {
		fromBound = startOfDay(f.From)
	}
	if !f.To.IsZero() {
		toBound = endOfDay(f.To)
	}

	out := make([]core.Bet, 0, len(bets))
	for _, b := range bets {
		if f.Status != "" && f.Status != StatusAll && string(b.Status) != f.Status {
			continue
		}
		created := b.CreatedAt.Time
		if !fromBound.IsZero() && created.Before(fromBound) {
			continue
		}
		if !toBound.IsZero() && created.After(toBound) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Paginate slices a filtered collection into the requested page.
// totalPages is ceil(len/size). A page index past the end clamps to
// the last page rather than returning an empty slice; an empty
// collection clamps to page 1.
func Paginate(bets []core.Bet, page, pageSize int) (items []core.Bet, currentPage, totalPages int) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages = (len(bets) + pageSize - 1) / pageSize

	currentPage = page
	if currentPage > totalPages {
		currentPage = totalPages
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if totalPages == 0 {
		return []core.Bet{}, 1, 0
	}

	start := (currentPage - 1) * pageSize
	end := start + pageSize
	if end > len(bets) {
		end = len(bets)
	}
	return bets[start:end], currentPage, totalPages
}

// Query bundles filter and pagination state. Changing the status
// filter, either date bound, or the page size resets the page index
// to 1, mirroring the UI rule.
type Query struct {
	Filter   Filter
	Page     int
	PageSize int
}

func NewQuery() Query {
	return Query{Filter: Filter{Status: StatusAll}, Page: 1, PageSize: DefaultPageSize}
}

func (q *Query) SetStatus(status string) {
	if q.Filter.Status == status {
		return
	}
	q.Filter.Status = status
	q.Page = 1
}

func (q *Query) SetDateRange(from, to time.Time) {
	if q.Filter.From.Equal(from) && q.Filter.To.Equal(to) {
		return
	}
	q.Filter.From = from
	q.Filter.To = to
	q.Page = 1
}

func (q *Query) SetPageSize(size int) {
	if size < 1 || q.PageSize == size {
		return
	}
	q.PageSize = size
	q.Page = 1
}

// Result is one page of the filtered collection.
type Result struct {
	Bets        []core.Bet
	Page        int
	TotalPages  int
	ResultCount int
}

// Run applies the query against the full collection.
func (q Query) Run(bets []core.Bet) Result {
	filtered := Apply(bets, q.Filter)
	items, page, totalPages := Paginate(filtered, q.Page, q.PageSize)
	return Result{
		Bets:        items,
		Page:        page,
		TotalPages:  totalPages,
		ResultCount: len(filtered),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}
