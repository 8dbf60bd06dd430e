package core

import "time"

// TotalsLabel keys the terminal grand-totals record of a cross-tab.
const TotalsLabel = "TOTALS"

// CalendarItem is an event joined with its category as seen by one query.
type CalendarItem struct {
	CategoryID          int64
	EventID             int64
	Start               time.Time
	CategoryDescription string
	ShortDescription    string
	DurationMinutes     float64
	// RunningBusyTime is the sum of DurationMinutes over every item of the
	// same result up to and including this one.
	RunningBusyTime float64
}

// CalendarItemsByMonth groups items under a "YYYY/MM" label.
type CalendarItemsByMonth struct {
	Month         string
	Items         []CalendarItem
	TotalBusyTime float64
}

// CalendarItemsByCategory groups items under a category description.
type CalendarItemsByCategory struct {
	Category      string
	Items         []CalendarItem
	TotalBusyTime float64
}

// CategorySubtotal is one category's share of a month.
type CategorySubtotal struct {
	Category      string
	Items         []CalendarItem
	TotalBusyTime float64
}

// MonthBreakdown is one month of a cross-tab.
type MonthBreakdown struct {
	Month         string
	TotalBusyTime float64
	Categories    []CategorySubtotal
}

// CategoryTotal is a category's grand total across all months of a cross-tab.
type CategoryTotal struct {
	Category      string
	TotalBusyTime float64
}

// CrossTab is the month×category view with the category grand totals.
type CrossTab struct {
	Months []MonthBreakdown
	Totals []CategoryTotal
}

// CrossTabRecordKind tags the records produced by CrossTab.Records.
type CrossTabRecordKind int

const (
	MonthRecord CrossTabRecordKind = iota
	TotalsRecord
)

// CrossTabRecord is one entry of the flattened cross-tab: either a month or
// the terminal totals entry keyed TotalsLabel.
type CrossTabRecord struct {
	Kind   CrossTabRecordKind
	Key    string
	Month  *MonthBreakdown
	Totals []CategoryTotal
}

// Records flattens the cross-tab into month records followed by one totals record.
func (c CrossTab) Records() []CrossTabRecord {
	out := make([]CrossTabRecord, 0, len(c.Months)+1)
	for i := range c.Months {
		out = append(out, CrossTabRecord{Kind: MonthRecord, Key: c.Months[i].Month, Month: &c.Months[i]})
	}
	return append(out, CrossTabRecord{Kind: TotalsRecord, Key: TotalsLabel, Totals: c.Totals})
}
