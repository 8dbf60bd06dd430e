package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"calendar/internal/core"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func minutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeCategories(w io.Writer, cats []core.Category) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tTYPE")
	for _, c := range cats {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Description, c.Type)
	}
	return tw.Flush()
}

func writeEvents(w io.Writer, events []core.Event) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTART\tMINUTES\tCATEGORY\tDETAILS")
	for _, e := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			e.ID, core.FormatTimestamp(e.Start), minutes(e.DurationMinutes), e.CategoryID, e.Details)
	}
	return tw.Flush()
}

func writeItemRows(tw io.Writer, indent string, items []core.CalendarItem) {
	for _, it := range items {
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n", indent,
			core.FormatTimestamp(it.Start), it.CategoryDescription, it.ShortDescription,
			minutes(it.DurationMinutes), minutes(it.RunningBusyTime))
	}
}

func writeItems(w io.Writer, items []core.CalendarItem) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "START\tCATEGORY\tDETAILS\tMINUTES\tRUNNING")
	writeItemRows(tw, "", items)
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\t\n", minutes(busy(items)))
	return tw.Flush()
}

func writeMonths(w io.Writer, groups []core.CalendarItemsByMonth) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tMINUTES")
	var total float64
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\n", g.Month, minutes(g.TotalBusyTime))
		total += g.TotalBusyTime
	}
	fmt.Fprintf(tw, "TOTAL\t%s\n", minutes(total))
	return tw.Flush()
}

func writeCategoryGroups(w io.Writer, groups []core.CalendarItemsByCategory) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tMINUTES\tITEMS")
	var total float64
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", g.Category, minutes(g.TotalBusyTime), len(g.Items))
		total += g.TotalBusyTime
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t\n", minutes(total))
	return tw.Flush()
}

func writeCrossTab(w io.Writer, ct core.CrossTab) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tCATEGORY\tMINUTES")
	for _, rec := range ct.Records() {
		switch rec.Kind {
		case core.MonthRecord:
			fmt.Fprintf(tw, "%s\t\t%s\n", rec.Key, minutes(rec.Month.TotalBusyTime))
			for _, c := range rec.Month.Categories {
				fmt.Fprintf(tw, "\t%s\t%s\n", c.Category, minutes(c.TotalBusyTime))
			}
		case core.TotalsRecord:
			for _, t := range rec.Totals {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Key, t.Category, minutes(t.TotalBusyTime))
			}
		}
	}
	return tw.Flush()
}

func busy(items []core.CalendarItem) float64 {
	if len(items) == 0 {
		return 0
	}
	return items[len(items)-1].RunningBusyTime
}
