package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"calendar/internal/core"
	"calendar/internal/export"
)

func categoryCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "Manage categories.",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a category.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Required: true},
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: string(core.EventType),
						Usage: "one of " + typeNames()},
				},
				Action: func(c *cli.Context) error {
					typ, err := core.ParseCategoryType(c.String("type"))
					if err != nil {
						return err
					}
					if err := s.open(c); err != nil {
						return err
					}
					id, err := s.service().AddCategory(c.Context, c.String("description"), typ)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, id)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List categories ordered by description.",
				Action: func(c *cli.Context) error {
					if err := s.open(c); err != nil {
						return err
					}
					cats, err := s.service().ListCategories(c.Context)
					if err != nil {
						return err
					}
					return writeCategories(c.App.Writer, cats)
				},
			},
		},
	}
}

func eventFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "start", Required: required, Usage: `"YYYY-MM-DD HH:MM" or "YYYY-MM-DD"`},
		&cli.Int64Flag{Name: "category", Required: required, Usage: "category id"},
		&cli.StringFlag{Name: "duration", Required: required, Usage: `minutes ("90", "1.5") or a Go duration ("1h30m")`},
		&cli.StringFlag{Name: "details", Usage: "short description"},
	}
}

func eventInput(c *cli.Context) (core.EventInput, error) {
	start, err := core.ParseTimestamp(c.String("start"))
	if err != nil {
		return core.EventInput{}, err
	}
	minutes, err := core.ParseDurationMinutes(c.String("duration"))
	if err != nil {
		return core.EventInput{}, err
	}
	return core.EventInput{
		Start:           start,
		DurationMinutes: minutes,
		Details:         c.String("details"),
		CategoryID:      c.Int64("category"),
	}, nil
}

func eventCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "event",
		Usage: "Manage events.",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add an event.",
				Flags: eventFlags(true),
				Action: func(c *cli.Context) error {
					in, err := eventInput(c)
					if err != nil {
						return err
					}
					if err := s.open(c); err != nil {
						return err
					}
					id, err := s.service().AddEvent(c.Context, in)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, id)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Replace an event.",
				Flags: append([]cli.Flag{&cli.Int64Flag{Name: "id", Required: true}}, eventFlags(true)...),
				Action: func(c *cli.Context) error {
					in, err := eventInput(c)
					if err != nil {
						return err
					}
					if err := s.open(c); err != nil {
						return err
					}
					return s.service().UpdateEvent(c.Context, core.Event{ID: c.Int64("id"), EventInput: in})
				},
			},
			{
				Name:  "delete",
				Usage: "Delete an event.",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					if err := s.open(c); err != nil {
						return err
					}
					return s.service().DeleteEvent(c.Context, c.Int64("id"))
				},
			},
			{
				Name:  "list",
				Usage: "List events in chronological order.",
				Action: func(c *cli.Context) error {
					if err := s.open(c); err != nil {
						return err
					}
					events, err := s.service().ListEvents(c.Context)
					if err != nil {
						return err
					}
					return writeEvents(c.App.Writer, events)
				},
			},
		},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "inclusive lower bound"},
		&cli.StringFlag{Name: "to", Usage: "inclusive upper bound; a bare date covers the whole day"},
		&cli.Int64Flag{Name: "category", Usage: "only this category id"},
	}
}

func reportFilter(c *cli.Context) (core.Filter, error) {
	var f core.Filter
	if v := c.String("from"); v != "" {
		t, err := core.ParseTimestamp(v)
		if err != nil {
			return f, err
		}
		f.Start = t
	}
	if v := c.String("to"); v != "" {
		t, err := core.ParseTimestamp(v)
		if err != nil {
			return f, err
		}
		if len(strings.TrimSpace(v)) == len(time.DateOnly) {
			t = t.Add(24*time.Hour - time.Second)
		}
		f.End = t
	}
	if c.IsSet("category") {
		f.FilterByCategory = true
		f.CategoryID = c.Int64("category")
	}
	return f, nil
}

func reportCommand(s *session) *cli.Command {
	run := func(fn func(c *cli.Context, f core.Filter) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			f, err := reportFilter(c)
			if err != nil {
				return err
			}
			if err := s.open(c); err != nil {
				return err
			}
			return fn(c, f)
		}
	}
	return &cli.Command{
		Name:  "report",
		Usage: "Busy-time reports.",
		Subcommands: []*cli.Command{
			{
				Name:  "items",
				Usage: "Matching items with running busy time.",
				Flags: reportFlags(),
				Action: run(func(c *cli.Context, f core.Filter) error {
					items, err := s.engine().Project(c.Context, f)
					if err != nil {
						return err
					}
					return writeItems(c.App.Writer, items)
				}),
			},
			{
				Name:  "months",
				Usage: "Items grouped by month.",
				Flags: reportFlags(),
				Action: run(func(c *cli.Context, f core.Filter) error {
					groups, err := s.engine().GroupByMonth(c.Context, f)
					if err != nil {
						return err
					}
					return writeMonths(c.App.Writer, groups)
				}),
			},
			{
				Name:  "categories",
				Usage: "Items grouped by category.",
				Flags: reportFlags(),
				Action: run(func(c *cli.Context, f core.Filter) error {
					groups, err := s.engine().GroupByCategory(c.Context, f)
					if err != nil {
						return err
					}
					return writeCategoryGroups(c.App.Writer, groups)
				}),
			},
			{
				Name:  "crosstab",
				Usage: "Per-month category subtotals followed by grand totals.",
				Flags: reportFlags(),
				Action: run(func(c *cli.Context, f core.Filter) error {
					ct, err := s.engine().GroupByMonthAndCategory(c.Context, f)
					if err != nil {
						return err
					}
					return writeCrossTab(c.App.Writer, ct)
				}),
			},
			{
				Name:  "ics",
				Usage: "Matching items as an iCalendar stream.",
				Flags: append(reportFlags(), &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write to this file instead of stdout"}),
				Action: run(func(c *cli.Context, f core.Filter) error {
					items, err := s.engine().Project(c.Context, f)
					if err != nil {
						return err
					}
					path := c.String("out")
					if path == "" {
						return export.WriteICS(c.App.Writer, items, time.Now())
					}
					file, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("create %s: %w", path, err)
					}
					if err := export.WriteICS(file, items, time.Now()); err != nil {
						file.Close()
						return err
					}
					return file.Close()
				}),
			},
		},
	}
}

func typeNames() string {
	types := core.CategoryTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
