package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	EventType       CategoryType = "Event"
	AllDayEventType CategoryType = "AllDayEvent"
	HolidayType     CategoryType = "Holiday"
	VacationType    CategoryType = "Vacation"
	WorkType        CategoryType = "Work"
)

// TimestampLayout is the wall-clock form timestamps are persisted and compared in.
const TimestampLayout = "2006-01-02 15:04:05"

type (
	CategoryType string

	Category struct {
		ID          int64
		Description string
		Type        CategoryType
	}

	// EventInput is the user-supplied part of an event, without the store-assigned id.
	EventInput struct {
		Start           time.Time
		DurationMinutes float64
		Details         string
		CategoryID      int64
	}

	Event struct {
		ID int64
		EventInput
	}
)

// MaxDurationMinutes is the longest duration that still fits a time.Duration.
const MaxDurationMinutes = float64(math.MaxInt64 / int64(time.Minute))

var (
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = errors.New("description too long (max 100 characters)")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrZeroStart           = errors.New("start date cannot be zero")
	ErrInvalidStart        = errors.New("start year must be between 1 and 9999")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrDetailsTooLong      = errors.New("details too long (max 500 characters)")
	ErrInvalidCategoryID   = errors.New("invalid category id")
)

// CategoryTypes returns the closed set of category types in display order.
func CategoryTypes() []CategoryType {
	return []CategoryType{EventType, AllDayEventType, HolidayType, VacationType, WorkType}
}

// ParseCategoryType matches s against the known types, ignoring case.
func ParseCategoryType(s string) (CategoryType, error) {
	s = strings.TrimSpace(s)
	for _, t := range CategoryTypes() {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategoryType, s)
}

func (t CategoryType) IsValid() bool {
	for _, known := range CategoryTypes() {
		if t == known {
			return true
		}
	}
	return false
}

func (t CategoryType) String() string {
	return string(t)
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(c.Description) > 100 {
		return ErrDescriptionTooLong
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategoryType, c.Type)
	}
	return nil
}

// DefaultCategories is the roster a fresh calendar is seeded with.
func DefaultCategories() []Category {
	return []Category{
		{Description: "Appointment", Type: EventType},
		{Description: "Birthday", Type: AllDayEventType},
		{Description: "Holiday", Type: HolidayType},
		{Description: "Vacation", Type: VacationType},
		{Description: "Work", Type: WorkType},
	}
}

func (e EventInput) Validate() error {
	if e.Start.IsZero() {
		return ErrZeroStart
	}
	if y := NormalizeTime(e.Start).Year(); y < 1 || y > 9999 {
		return fmt.Errorf("%w: %d", ErrInvalidStart, y)
	}
	if e.DurationMinutes < 0 || e.DurationMinutes > MaxDurationMinutes ||
		math.IsNaN(e.DurationMinutes) || math.IsInf(e.DurationMinutes, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, e.DurationMinutes)
	}
	if len(e.Details) > 500 {
		return ErrDetailsTooLong
	}
	if e.CategoryID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCategoryID, e.CategoryID)
	}
	return nil
}

// Equal reports whether both inputs carry exactly the same tuple.
func (e EventInput) Equal(o EventInput) bool {
	return e.Start.Equal(o.Start) &&
		e.DurationMinutes == o.DurationMinutes &&
		e.Details == o.Details &&
		e.CategoryID == o.CategoryID
}

// NormalizeTime drops the zone and sub-second part, keeping the wall clock reading.
func NormalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// FormatTimestamp renders t in TimestampLayout after normalisation.
func FormatTimestamp(t time.Time) string {
	return NormalizeTime(t).Format(TimestampLayout)
}

// ParseTimestamp accepts a date, a date with minutes, or a full TimestampLayout value.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimestampLayout, "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
