package core

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMonthKeyAndLabel(t *testing.T) {
	m := MonthOf(time.Date(2018, 1, 10, 10, 0, 0, 0, time.UTC))
	if m.Key() != "2018-01" || m.Label() != "2018/01" {
		t.Fatalf("unexpected key/label %q %q", m.Key(), m.Label())
	}
	parsed, err := ParseMonthKey("2018-01")
	if err != nil || parsed != m {
		t.Fatalf("ParseMonthKey = %v, %v", parsed, err)
	}
	if _, err := ParseMonthKey("2018/01"); err == nil {
		t.Fatalf("expected error for display label")
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := Month{Year: 2024, Month: time.February}.Bounds()
	if !first.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first %v", first)
	}
	if last.Day() != 29 || last.Hour() != 23 || last.Minute() != 59 || last.Second() != 59 {
		t.Fatalf("unexpected last %v", last)
	}
	if next := (Month{Year: 2024, Month: time.December}).Next(); next != (Month{Year: 2025, Month: time.January}) {
		t.Fatalf("unexpected next %v", next)
	}
}

func TestFilterNormalize(t *testing.T) {
	q := Filter{}.Normalize()
	if !q.Start.Equal(MinDate) || !q.End.Equal(MaxDate) {
		t.Fatalf("expected wide-open defaults, got %v..%v", q.Start, q.End)
	}

	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	q = Filter{Start: start, FilterByCategory: true, CategoryID: 3}.Normalize()
	if !q.Start.Equal(start) || !q.End.Equal(MaxDate) || !q.FilterByCategory || q.CategoryID != 3 {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestQueryContainsInclusive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	q := Query{Start: start, End: end, FilterByCategory: true, CategoryID: 2}

	tests := []struct {
		name string
		at   time.Time
		cat  int64
		want bool
	}{
		{"at start", start, 2, true},
		{"at end", end, 2, true},
		{"before", start.Add(-time.Second), 2, false},
		{"after", end.Add(time.Second), 2, false},
		{"other category", start, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := q.Contains(tt.at, tt.cat); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryClamp(t *testing.T) {
	q := Filter{Start: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}.Normalize()

	jan := q.Clamp(Month{Year: 2024, Month: time.January})
	if !jan.Start.Equal(q.Start) {
		t.Fatalf("mid-month start should be kept, got %v", jan.Start)
	}
	if jan.End.Month() != time.January || jan.End.Day() != 31 {
		t.Fatalf("end should be clamped to end of January, got %v", jan.End)
	}

	dec := q.Clamp(Month{Year: 2023, Month: time.December})
	if !dec.Empty() {
		t.Fatalf("December 2023 should not overlap, got %v..%v", dec.Start, dec.End)
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("add event: %w", ErrReferentialIntegrity), KindReferentialIntegrity},
		{fmt.Errorf("update event 3: %w", ErrNotFound), KindNotFound},
		{ErrDuplicateSubmission, KindDuplicateSubmission},
		{QueryFailed("query items", errors.New("disk I/O error")), KindQueryFailed},
		{ErrEmptyDescription, KindValidation},
		{errors.New("boom"), KindInternal},
	}
	for i, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestQueryFailedKeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := QueryFailed("list months", cause)
	if !errors.Is(err, ErrQueryFailed) || !errors.Is(err, cause) {
		t.Fatalf("expected both sentinel and cause, got %v", err)
	}
}

func TestCrossTabRecords(t *testing.T) {
	ct := CrossTab{
		Months: []MonthBreakdown{{Month: "2024/01", TotalBusyTime: 10}},
		Totals: []CategoryTotal{{Category: "Work", TotalBusyTime: 10}},
	}
	recs := ct.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Kind != MonthRecord || recs[0].Key != "2024/01" || recs[0].Month.TotalBusyTime != 10 {
		t.Fatalf("unexpected month record %+v", recs[0])
	}
	if recs[1].Kind != TotalsRecord || recs[1].Key != TotalsLabel || len(recs[1].Totals) != 1 {
		t.Fatalf("unexpected totals record %+v", recs[1])
	}
}
