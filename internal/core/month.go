package core

import (
	"fmt"
	"time"
)

// Month identifies one calendar month bucket.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the bucket t falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses the "YYYY-MM" storage key.
func ParseMonthKey(key string) (Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return MonthOf(t), nil
}

// Key is the "YYYY-MM" form used for grouping.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label is the "YYYY/MM" display form.
func (m Month) Label() string {
	return fmt.Sprintf("%04d/%02d", m.Year, int(m.Month))
}

// Bounds returns the first and the last instant of the month.
func (m Month) Bounds() (time.Time, time.Time) {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Next returns the following month.
func (m Month) Next() Month {
	first, _ := m.Bounds()
	return MonthOf(first.AddDate(0, 1, 0))
}
