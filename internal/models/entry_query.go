package models

import (
	"math"
	"strings"
	"time"
)

// DateFilter selects the lower bound applied to created_at.
type DateFilter string

const (
	FilterAll   DateFilter = "all"
	FilterToday DateFilter = "today"
	FilterWeek  DateFilter = "week"
)

// ParseDateFilter maps a query value onto a DateFilter. Unknown values mean all time.
func ParseDateFilter(s string) DateFilter {
	switch DateFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterToday:
		return FilterToday
	case FilterWeek:
		return FilterWeek
	default:
		return FilterAll
	}
}

// Since returns the inclusive lower bound for the filter, or the zero time
// when the filter has no bound.
func (f DateFilter) Since(now time.Time, loc *time.Location) time.Time {
	switch f {
	case FilterToday:
		if loc == nil {
			loc = time.Local
		}
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	case FilterWeek:
		return now.Add(-7 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

// EntryQuery is the admin dashboard's list request.
type EntryQuery struct {
	Search string
	Filter DateFilter
	Page   int
	Limit  int
}

// Offset is the number of matching entries skipped before this page. Pages
// too far out to represent saturate at math.MaxInt, past any real total.
func (q EntryQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Pagination describes where a page sits in the full matching set.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes totalPages as ceil(total/limit).
func NewPagination(total int64, page, limit int) Pagination {
	p := Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return p
}

// EntryPage is one page of entries, newest first.
type EntryPage struct {
	Entries    []GuestEntry `json:"entries"`
	Pagination Pagination   `json:"pagination"`
}
