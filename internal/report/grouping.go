package report

import (
	"context"
	"sort"

	"calendar/internal/core"
	"calendar/internal/ports"
)

// GroupByMonth returns one group per month holding matching items, oldest
// first. Each month is projected on its own bounds intersected with f, so a
// filter starting mid-month is honoured exactly.
func (e *Engine) GroupByMonth(ctx context.Context, f core.Filter) ([]core.CalendarItemsByMonth, error) {
	var out []core.CalendarItemsByMonth
	err := e.view(ctx, func(r ports.ItemReader) error {
		var err error
		out, err = groupByMonth(ctx, r, f.Normalize())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GroupByCategory returns one group per category with matching items,
// ordered by category description.
func (e *Engine) GroupByCategory(ctx context.Context, f core.Filter) ([]core.CalendarItemsByCategory, error) {
	var out []core.CalendarItemsByCategory
	err := e.view(ctx, func(r ports.ItemReader) error {
		var err error
		out, err = groupByCategory(ctx, r, f.Normalize())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GroupByMonthAndCategory splits every month by category and closes with the
// per-category grand totals.
func (e *Engine) GroupByMonthAndCategory(ctx context.Context, f core.Filter) (core.CrossTab, error) {
	var out core.CrossTab
	err := e.view(ctx, func(r ports.ItemReader) error {
		var err error
		out, err = crossTab(ctx, r, f.Normalize())
		return err
	})
	if err != nil {
		return core.CrossTab{}, err
	}
	return out, nil
}

func groupByMonth(ctx context.Context, r ports.ItemReader, q core.Query) ([]core.CalendarItemsByMonth, error) {
	months, err := r.ListMonths(ctx, q)
	if err != nil {
		return nil, core.QueryFailed("list months", err)
	}
	sort.SliceStable(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})

	out := make([]core.CalendarItemsByMonth, 0, len(months))
	for _, m := range months {
		items, err := project(ctx, r, q.Clamp(m))
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, core.CalendarItemsByMonth{
			Month:         m.Label(),
			Items:         items,
			TotalBusyTime: busyTime(items),
		})
	}
	return out, nil
}

func groupByCategory(ctx context.Context, r ports.ItemReader, q core.Query) ([]core.CalendarItemsByCategory, error) {
	cats, err := r.ListActiveCategories(ctx, q)
	if err != nil {
		return nil, core.QueryFailed("list active categories", err)
	}

	out := make([]core.CalendarItemsByCategory, 0, len(cats))
	for _, c := range cats {
		if q.FilterByCategory && c.ID != q.CategoryID {
			continue
		}
		items, err := project(ctx, r, q.ForCategory(c.ID))
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, core.CalendarItemsByCategory{
			Category:      c.Description,
			Items:         items,
			TotalBusyTime: busyTime(items),
		})
	}
	return out, nil
}

func crossTab(ctx context.Context, r ports.ItemReader, q core.Query) (core.CrossTab, error) {
	months, err := groupByMonth(ctx, r, q)
	if err != nil {
		return core.CrossTab{}, err
	}

	grand := map[string]float64{}
	out := core.CrossTab{Months: make([]core.MonthBreakdown, 0, len(months))}
	for _, m := range months {
		breakdown := core.MonthBreakdown{Month: m.Month, TotalBusyTime: m.TotalBusyTime}
		for _, part := range partitionByCategory(m.Items) {
			if part.TotalBusyTime == 0 {
				continue
			}
			breakdown.Categories = append(breakdown.Categories, part)
			grand[part.Category] += part.TotalBusyTime
		}
		out.Months = append(out.Months, breakdown)
	}

	roster, err := r.ListCategories(ctx)
	if err != nil {
		return core.CrossTab{}, core.QueryFailed("list categories", err)
	}
	seen := map[string]bool{}
	for _, c := range roster {
		total, ok := grand[c.Description]
		if !ok || seen[c.Description] {
			continue
		}
		seen[c.Description] = true
		out.Totals = append(out.Totals, core.CategoryTotal{Category: c.Description, TotalBusyTime: total})
	}
	return out, nil
}

// partitionByCategory splits chronologically ordered items by category
// description, keeping item order inside each partition.
func partitionByCategory(items []core.CalendarItem) []core.CategorySubtotal {
	index := map[string]int{}
	var parts []core.CategorySubtotal
	for _, it := range items {
		i, ok := index[it.CategoryDescription]
		if !ok {
			i = len(parts)
			index[it.CategoryDescription] = i
			parts = append(parts, core.CategorySubtotal{Category: it.CategoryDescription})
		}
		parts[i].Items = append(parts[i].Items, it)
		parts[i].TotalBusyTime += it.DurationMinutes
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].Category < parts[j].Category
	})
	return parts
}
