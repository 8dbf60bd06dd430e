// Package export writes projected calendar items in interchange formats.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"calendar/internal/core"
)

// ProductID identifies this program in exported calendars.
const ProductID = "-//calendar//busy time report//EN"

// floatingLayout is an iCalendar DATE-TIME without zone. Stored event times
// carry no zone, so they are exported as floating local times.
const floatingLayout = "20060102T150405"

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("calendar/events"))

// EventUID is the stable iCalendar UID of an event id.
func EventUID(eventID int64) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprint(eventID))).String()
}

// NewCalendar builds a VCALENDAR with one VEVENT per item, in item order.
func NewCalendar(items []core.CalendarItem, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	for _, it := range items {
		cal.Children = append(cal.Children, toVEvent(it, stamp))
	}
	return cal
}

// WriteICS encodes items as an iCalendar stream.
func WriteICS(w io.Writer, items []core.CalendarItem, stamp time.Time) error {
	if err := ical.NewEncoder(w).Encode(NewCalendar(items, stamp)); err != nil {
		return fmt.Errorf("encode icalendar: %w", err)
	}
	return nil
}

func toVEvent(it core.CalendarItem, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, EventUID(it.EventID))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())

	end := it.Start.Add(span(it.DurationMinutes)).Truncate(time.Second)
	ve.Props.Set(floating(ical.PropDateTimeStart, it.Start))
	ve.Props.Set(floating(ical.PropDateTimeEnd, end))

	summary := it.ShortDescription
	if summary == "" {
		summary = it.CategoryDescription
	}
	ve.Props.SetText(ical.PropSummary, summary)
	ve.Props.SetText(ical.PropCategories, it.CategoryDescription)
	return ve
}

// span converts minutes to a duration, clamped to [0, core.MaxDurationMinutes].
func span(minutes float64) time.Duration {
	switch {
	case !(minutes > 0):
		return 0
	case minutes >= core.MaxDurationMinutes:
		return time.Duration(core.MaxDurationMinutes) * time.Minute
	}
	return time.Duration(minutes * float64(time.Minute))
}

func floating(name string, t time.Time) *ical.Prop {
	p := ical.NewProp(name)
	p.Value = t.Format(floatingLayout)
	return p
}
