// Package report derives the chronological, per-month, per-category and
// month×category views of a calendar from a ports.ItemReader.
package report

import (
	"context"
	"errors"
	"sort"

	"calendar/internal/core"
	"calendar/internal/ports"
)

// Engine answers report queries against one store handle.
type Engine struct {
	reader ports.ItemReader
}

func NewEngine(reader ports.ItemReader) *Engine {
	return &Engine{reader: reader}
}

// Project returns the items matching f in chronological order, each carrying
// the running busy time of the result so far.
func (e *Engine) Project(ctx context.Context, f core.Filter) ([]core.CalendarItem, error) {
	var items []core.CalendarItem
	err := e.view(ctx, func(r ports.ItemReader) error {
		var err error
		items, err = project(ctx, r, f.Normalize())
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// view runs fn inside one snapshot when the reader supports it.
func (e *Engine) view(ctx context.Context, fn func(ports.ItemReader) error) error {
	s, ok := e.reader.(ports.Snapshotter)
	if !ok {
		return fn(e.reader)
	}
	err := s.ReadSnapshot(ctx, fn)
	if err != nil && !errors.Is(err, core.ErrQueryFailed) {
		return core.QueryFailed("read snapshot", err)
	}
	return err
}

func project(ctx context.Context, r ports.ItemReader, q core.Query) ([]core.CalendarItem, error) {
	if q.Empty() {
		return []core.CalendarItem{}, nil
	}
	items, err := r.QueryItems(ctx, q)
	if err != nil {
		return nil, core.QueryFailed("project calendar items", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Start.Equal(items[j].Start) {
			return items[i].Start.Before(items[j].Start)
		}
		return items[i].EventID < items[j].EventID
	})
	out := make([]core.CalendarItem, len(items))
	var running float64
	for i, it := range items {
		running += it.DurationMinutes
		it.RunningBusyTime = running
		out[i] = it
	}
	return out, nil
}

func busyTime(items []core.CalendarItem) float64 {
	var total float64
	for _, it := range items {
		total += it.DurationMinutes
	}
	return total
}
