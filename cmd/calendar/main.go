package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"calendar/internal/backend"
	appcli "calendar/internal/cli"
	"calendar/internal/config"
	"calendar/internal/core"
	"calendar/internal/report"
	"calendar/internal/services"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	appcli.LoadEnvFile()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "calendar: %s: %v\n", core.KindOf(err), err)
		os.Exit(1)
	}
}

// session holds what one invocation opens lazily.
type session struct {
	logger  *slog.Logger
	manager *backend.Manager
	store   backend.Backend
	cfg     *config.Config
}

// open loads config, applies the global flags and opens the backend once.
func (s *session) open(c *cli.Context) error {
	if s.store != nil {
		return nil
	}
	cfg, err := appcli.LoadAndValidateConfig(func(cfg *config.Config) {
		if c.IsSet("db") {
			cfg.SQLiteDBPath = c.String("db")
		}
		if c.IsSet("backend") {
			cfg.DataBackend = c.String("backend")
		}
	})
	if err != nil {
		return err
	}
	logger, err := appcli.SetupLogger(cfg, c.App.ErrWriter)
	if err != nil {
		return err
	}
	s.logger = logger
	s.manager = backend.NewManager(backend.NewFactory(logger), logger)
	store, err := appcli.OpenBackend(c.Context, s.manager, cfg)
	if err != nil {
		return err
	}
	s.store = store
	s.cfg = cfg
	return nil
}

func (s *session) close(c *cli.Context) error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Close(c.Context)
}

func (s *session) service() *services.CalendarService {
	return services.NewCalendarService(s.store, s.logger)
}

func (s *session) engine() *report.Engine {
	return report.NewEngine(s.store)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	s := &session{}
	return &cli.App{
		Name:      "calendar",
		Usage:     "Record calendar events and report busy time by month and category.",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides CALENDAR_DB_PATH)"},
			&cli.StringFlag{Name: "backend", Usage: "storage backend: sqlite or memory (overrides CALENDAR_BACKEND)"},
		},
		Commands: []*cli.Command{
			initCommand(s),
			categoryCommand(s),
			eventCommand(s),
			reportCommand(s),
		},
		After: s.close,
	}
}

func initCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create or migrate the calendar store.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "seed", Usage: "Add the default categories when none exist."},
		},
		Action: func(c *cli.Context) error {
			if err := s.open(c); err != nil {
				return err
			}
			if s.cfg.DataBackend == config.BackendSQLite {
				fmt.Fprintf(c.App.Writer, "initialized %s\n", s.cfg.SQLiteDBPath)
			} else {
				fmt.Fprintf(c.App.Writer, "initialized %s backend\n", s.cfg.DataBackend)
			}
			if !c.Bool("seed") {
				return nil
			}
			n, err := s.service().SeedDefaultCategories(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "seeded %d categories\n", n)
			return nil
		},
	}
}
