package core

import "time"

var (
	// MinDate stands in for an absent start filter.
	MinDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	// MaxDate stands in for an absent end filter.
	MaxDate = time.Date(2500, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Filter is what a caller passes to a report. Zero Start or End means absent.
type Filter struct {
	Start            time.Time
	End              time.Time
	FilterByCategory bool
	CategoryID       int64
}

// Query is a Filter with concrete, inclusive bounds.
type Query struct {
	Start            time.Time
	End              time.Time
	FilterByCategory bool
	CategoryID       int64
}

// Normalize fills absent bounds with MinDate and MaxDate.
func (f Filter) Normalize() Query {
	q := Query{
		Start:            NormalizeTime(f.Start),
		End:              NormalizeTime(f.End),
		FilterByCategory: f.FilterByCategory,
		CategoryID:       f.CategoryID,
	}
	if q.Start.IsZero() {
		q.Start = MinDate
	}
	if q.End.IsZero() {
		q.End = MaxDate
	}
	return q
}

// Contains reports whether an item with the given start and category passes q.
func (q Query) Contains(start time.Time, categoryID int64) bool {
	if start.Before(q.Start) || start.After(q.End) {
		return false
	}
	if q.FilterByCategory && categoryID != q.CategoryID {
		return false
	}
	return true
}

// Clamp intersects q with the bounds of m. The returned query may be empty
// (Start after End) when the ranges do not overlap.
func (q Query) Clamp(m Month) Query {
	first, last := m.Bounds()
	out := q
	if first.After(out.Start) {
		out.Start = first
	}
	if last.Before(out.End) {
		out.End = last
	}
	return out
}

// Empty reports whether q can match nothing.
func (q Query) Empty() bool {
	return q.Start.After(q.End)
}

// ForCategory returns q restricted to a single category.
func (q Query) ForCategory(id int64) Query {
	q.FilterByCategory = true
	q.CategoryID = id
	return q
}
