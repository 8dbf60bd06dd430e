package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"calendar/internal/cache"
	"calendar/internal/core"
	"calendar/internal/ports"

	_ "modernc.org/sqlite"
)

var _ ports.Store = (*SQLiteRepository)(nil)

// categoryCacheSize bounds the id lookup cache. Categories are never
// modified once created, so entries never go stale.
const categoryCacheSize = 256

type SQLiteRepository struct {
	db         *sql.DB
	queries    *Queries
	path       string
	categories *cache.LRU[int64, core.Category]
}

// DSN returns the connection string used for the calendar file at dbPath.
func DSN(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}
	dbPath = filepath.Clean(dbPath)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(DSN(dbPath)); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:         db,
		queries:    New(db),
		path:       dbPath,
		categories: cache.NewLRU[int64, core.Category](categoryCacheSize),
	}, nil
}

// Path returns the calendar file backing the repository.
func (r *SQLiteRepository) Path() string {
	return r.path
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// withTx runs fn in a transaction scoped to one mutating operation.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// AddCategory implements ports.CategoryStore
func (r *SQLiteRepository) AddCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	var created Category
	err := r.withTx(ctx, func(q *Queries) error {
		var err error
		created, err = q.CreateCategory(ctx, CreateCategoryParams{
			Description: strings.TrimSpace(c.Description),
			Type:        c.Type.String(),
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	r.categories.Set(created.ID, toCategory(created))

	slog.InfoContext(ctx, "Category saved to SQLite",
		"id", created.ID,
		"description", created.Description,
		"type", created.Type)

	return created.ID, nil
}

// ListCategories implements ports.CategoryStore
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	return loadCategories(ctx, r.queries)
}

// GetCategory implements ports.CategoryStore
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	if c, ok := r.categories.Get(id); ok {
		return c, nil
	}
	c, err := r.queries.GetCategory(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category by id: %w", err)
	}
	cat := toCategory(c)
	r.categories.Set(id, cat)
	return cat, nil
}

// AddEvent implements ports.EventStore
func (r *SQLiteRepository) AddEvent(ctx context.Context, e core.EventInput) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := r.withTx(ctx, func(q *Queries) error {
		if err := r.requireCategory(ctx, q, e.CategoryID); err != nil {
			return err
		}
		var err error
		id, err = q.CreateEvent(ctx, CreateEventParams{
			StartDatetime:   core.FormatTimestamp(e.Start),
			DurationMinutes: e.DurationMinutes,
			Details:         e.Details,
			CategoryID:      e.CategoryID,
		})
		return mapConstraintError(err)
	})
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}

	slog.InfoContext(ctx, "Event saved to SQLite",
		"id", id,
		"start", core.FormatTimestamp(e.Start),
		"duration_minutes", e.DurationMinutes,
		"category_id", e.CategoryID)

	return id, nil
}

// UpdateEvent implements ports.EventStore
func (r *SQLiteRepository) UpdateEvent(ctx context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	err := r.withTx(ctx, func(q *Queries) error {
		// An unknown id wins over an unknown category.
		if _, err := q.GetEvent(ctx, e.ID); errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get event by id: %w", err)
		}
		if err := r.requireCategory(ctx, q, e.CategoryID); err != nil {
			return err
		}
		n, err := q.UpdateEvent(ctx, UpdateEventParams{
			StartDatetime:   core.FormatTimestamp(e.Start),
			DurationMinutes: e.DurationMinutes,
			Details:         e.Details,
			CategoryID:      e.CategoryID,
			ID:              e.ID,
		})
		if err != nil {
			return mapConstraintError(err)
		}
		if n == 0 {
			return core.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update event %d: %w", e.ID, err)
	}

	slog.InfoContext(ctx, "Event updated in SQLite", "id", e.ID)
	return nil
}

// DeleteEvent implements ports.EventStore. Deleting a missing id is not an error.
func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id int64) error {
	err := r.withTx(ctx, func(q *Queries) error {
		return q.DeleteEvent(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Event deleted from SQLite", "id", id)
	return nil
}

// GetEvent implements ports.EventStore
func (r *SQLiteRepository) GetEvent(ctx context.Context, id int64) (core.Event, error) {
	e, err := r.queries.GetEvent(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Event{}, fmt.Errorf("event %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Event{}, fmt.Errorf("get event by id: %w", err)
	}
	return toEvent(e)
}

// ListEvents implements ports.EventStore
func (r *SQLiteRepository) ListEvents(ctx context.Context) ([]core.Event, error) {
	rows, err := r.queries.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]core.Event, 0, len(rows))
	for _, row := range rows {
		e, err := toEvent(row)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// CountEvents returns the number of stored events.
func (r *SQLiteRepository) CountEvents(ctx context.Context) (int64, error) {
	n, err := r.queries.CountEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// QueryItems implements ports.ItemReader
func (r *SQLiteRepository) QueryItems(ctx context.Context, q core.Query) ([]core.CalendarItem, error) {
	return reader{r.queries}.QueryItems(ctx, q)
}

// ListMonths implements ports.ItemReader
func (r *SQLiteRepository) ListMonths(ctx context.Context, q core.Query) ([]core.Month, error) {
	return reader{r.queries}.ListMonths(ctx, q)
}

// ListActiveCategories implements ports.ItemReader
func (r *SQLiteRepository) ListActiveCategories(ctx context.Context, q core.Query) ([]core.Category, error) {
	return reader{r.queries}.ListActiveCategories(ctx, q)
}

// ReadSnapshot implements ports.Snapshotter. Every read inside fn runs in one
// deferred transaction and so sees a single database snapshot.
func (r *SQLiteRepository) ReadSnapshot(ctx context.Context, fn func(ports.ItemReader) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(reader{r.queries.WithTx(tx)}); err != nil {
		return err
	}
	return tx.Commit()
}

// reader serves ports.ItemReader from whichever Queries it is bound to.
type reader struct {
	q *Queries
}

func (rd reader) ListCategories(ctx context.Context) ([]core.Category, error) {
	return loadCategories(ctx, rd.q)
}

func (rd reader) QueryItems(ctx context.Context, q core.Query) ([]core.CalendarItem, error) {
	rows, err := rd.q.QueryItems(ctx, rangeParams(q))
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	items := make([]core.CalendarItem, 0, len(rows))
	for _, row := range rows {
		start, err := parseStoredTime(row.StartDatetime)
		if err != nil {
			return nil, err
		}
		items = append(items, core.CalendarItem{
			CategoryID:          row.CategoryID,
			EventID:             row.EventID,
			Start:               start,
			CategoryDescription: row.CategoryDescription,
			ShortDescription:    row.Details,
			DurationMinutes:     row.DurationMinutes,
		})
	}
	return items, nil
}

func (rd reader) ListMonths(ctx context.Context, q core.Query) ([]core.Month, error) {
	keys, err := rd.q.ListMonths(ctx, rangeParams(q))
	if err != nil {
		return nil, fmt.Errorf("list months: %w", err)
	}
	months := make([]core.Month, 0, len(keys))
	for _, key := range keys {
		m, err := core.ParseMonthKey(key)
		if err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, nil
}

func (rd reader) ListActiveCategories(ctx context.Context, q core.Query) ([]core.Category, error) {
	rows, err := rd.q.ListActiveCategories(ctx, rangeParams(q))
	if err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	out := make([]core.Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, toCategory(c))
	}
	return out, nil
}

func loadCategories(ctx context.Context, q *Queries) ([]core.Category, error) {
	rows, err := q.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, toCategory(c))
	}
	return out, nil
}

// requireCategory fails with core.ErrReferentialIntegrity unless id names a
// category. Cached ids skip the lookup; the foreign key still guards the write.
func (r *SQLiteRepository) requireCategory(ctx context.Context, q *Queries, id int64) error {
	if _, ok := r.categories.Get(id); ok {
		return nil
	}
	ok, err := q.CategoryExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check category %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrReferentialIntegrity)
	}
	return nil
}

// mapConstraintError turns SQLite's foreign key failure into the domain error.
func mapConstraintError(err error) error {
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %v", core.ErrReferentialIntegrity, err)
	}
	return err
}

func rangeParams(q core.Query) RangeParams {
	return RangeParams{
		Start:            core.FormatTimestamp(q.Start),
		End:              core.FormatTimestamp(q.End),
		FilterByCategory: q.FilterByCategory,
		CategoryID:       q.CategoryID,
	}
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(core.TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func toCategory(c Category) core.Category {
	return core.Category{ID: c.ID, Description: c.Description, Type: core.CategoryType(c.Type)}
}

func toEvent(e Event) (core.Event, error) {
	start, err := parseStoredTime(e.StartDatetime)
	if err != nil {
		return core.Event{}, err
	}
	return core.Event{
		ID: e.ID,
		EventInput: core.EventInput{
			Start:           start,
			DurationMinutes: e.DurationMinutes,
			Details:         e.Details,
			CategoryID:      e.CategoryID,
		},
	}, nil
}
