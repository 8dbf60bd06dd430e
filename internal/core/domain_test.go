package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCategoryValidate(t *testing.T) {
	good := Category{Description: "Work", Type: WorkType}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		c    Category
		want error
	}{
		{Category{Description: "  ", Type: WorkType}, ErrEmptyDescription},
		{Category{Description: string(make([]byte, 101)) + "x", Type: WorkType}, ErrDescriptionTooLong},
		{Category{Description: "Gym", Type: "Sport"}, ErrInvalidCategoryType},
	}
	for i, tc := range bads {
		if err := tc.c.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestParseCategoryType(t *testing.T) {
	got, err := ParseCategoryType(" holiday ")
	if err != nil || got != HolidayType {
		t.Fatalf("expected Holiday, got %q (err=%v)", got, err)
	}
	if _, err := ParseCategoryType("meeting"); !errors.Is(err, ErrInvalidCategoryType) {
		t.Fatalf("expected ErrInvalidCategoryType, got %v", err)
	}
}

func TestEventInputValidate(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	good := EventInput{Start: start, DurationMinutes: 0, Details: "", CategoryID: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []EventInput{
		{Start: time.Time{}, DurationMinutes: 1, CategoryID: 1},
		{Start: start, DurationMinutes: -1, CategoryID: 1},
		{Start: start, DurationMinutes: math.NaN(), CategoryID: 1},
		{Start: start, DurationMinutes: math.Inf(1), CategoryID: 1},
		{Start: start, DurationMinutes: 1, CategoryID: 0},
		{Start: start, DurationMinutes: 1, CategoryID: 1, Details: string(make([]byte, 501))},
		{Start: start, DurationMinutes: MaxDurationMinutes + 1, CategoryID: 1},
		{Start: time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC), DurationMinutes: 1, CategoryID: 1},
		{Start: time.Date(0, 12, 31, 0, 0, 0, 0, time.UTC), DurationMinutes: 1, CategoryID: 1},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	edges := []EventInput{
		{Start: time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC), DurationMinutes: MaxDurationMinutes, CategoryID: 1},
		{Start: time.Date(1, 1, 1, 0, 0, 1, 0, time.UTC), DurationMinutes: 1, CategoryID: 1},
	}
	for i, e := range edges {
		if err := e.Validate(); err != nil {
			t.Fatalf("edge %d: expected ok, got %v", i, err)
		}
	}
}

func TestEventInputValidateStartYear(t *testing.T) {
	e := EventInput{Start: time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC), DurationMinutes: 5, CategoryID: 1}
	err := e.Validate()
	if !errors.Is(err, ErrInvalidStart) || KindOf(err) != KindValidation {
		t.Fatalf("expected validation ErrInvalidStart, got %v", err)
	}
}

func TestEventInputEqual(t *testing.T) {
	a := EventInput{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DurationMinutes: 60, Details: "gym", CategoryID: 1}
	b := a
	b.Start = a.Start.In(time.FixedZone("X", 3600))
	if !a.Equal(b) {
		t.Fatalf("same instant in another zone should be equal")
	}
	b = a
	b.Details = "swim"
	if a.Equal(b) {
		t.Fatalf("different details should not be equal")
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-01 10:30", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-01 10:30:15", time.Date(2024, 1, 1, 10, 30, 15, 0, time.UTC), true},
		{"2024-01-01T10:30", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{"01/01/2024", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want) {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	in := time.Date(2024, 3, 4, 5, 6, 7, 999, time.FixedZone("X", -7200))
	got := NormalizeTime(in)
	want := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if FormatTimestamp(in) != "2024-03-04 05:06:07" {
		t.Fatalf("unexpected format %q", FormatTimestamp(in))
	}
}
