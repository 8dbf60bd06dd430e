package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"calendar/internal/core"
	"calendar/internal/ports"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "calendar.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustAddCategory(t *testing.T, repo *SQLiteRepository, desc string, typ core.CategoryType) int64 {
	t.Helper()
	id, err := repo.AddCategory(context.Background(), core.Category{Description: desc, Type: typ})
	if err != nil {
		t.Fatalf("add category %q: %v", desc, err)
	}
	return id
}

func mustAddEvent(t *testing.T, repo *SQLiteRepository, start time.Time, dur float64, details string, cat int64) int64 {
	t.Helper()
	id, err := repo.AddEvent(context.Background(), core.EventInput{
		Start:           start,
		DurationMinutes: dur,
		Details:         details,
		CategoryID:      cat,
	})
	if err != nil {
		t.Fatalf("add event %q: %v", details, err)
	}
	return id
}

func TestMigrationsApplied(t *testing.T) {
	repo := newTestRepo(t)
	version, dirty, err := SchemaVersion(DSN(repo.Path()))
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 1 || dirty {
		t.Fatalf("expected clean version 1, got %d dirty=%v", version, dirty)
	}

	// Reopening an existing file is a no-op migration.
	again, err := NewSQLiteRepository(repo.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	again.Close()
}

func TestCategoriesOrderedByDescription(t *testing.T) {
	repo := newTestRepo(t)
	mustAddCategory(t, repo, "Work", core.WorkType)
	mustAddCategory(t, repo, "Birthday", core.AllDayEventType)
	mustAddCategory(t, repo, "Holiday", core.HolidayType)

	cats, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	want := []string{"Birthday", "Holiday", "Work"}
	if len(cats) != len(want) {
		t.Fatalf("expected %d categories, got %v", len(want), cats)
	}
	for i, c := range cats {
		if c.Description != want[i] {
			t.Fatalf("position %d: expected %q, got %q", i, want[i], c.Description)
		}
	}

	got, err := repo.GetCategory(context.Background(), cats[0].ID)
	if err != nil || got.Type != core.AllDayEventType {
		t.Fatalf("get category: %+v err=%v", got, err)
	}
	if _, err := repo.GetCategory(context.Background(), 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddEventReferentialIntegrity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddEvent(ctx, core.EventInput{
		Start:           time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		CategoryID:      7,
	})
	if !errors.Is(err, core.ErrReferentialIntegrity) {
		t.Fatalf("expected ErrReferentialIntegrity, got %v", err)
	}
	n, _ := repo.CountEvents(ctx)
	if n != 0 {
		t.Fatalf("store changed after rejected write: %d events", n)
	}
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	work := mustAddCategory(t, repo, "Work", core.WorkType)
	gym := mustAddCategory(t, repo, "Gym", core.EventType)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	id := mustAddEvent(t, repo, start, 30, "standup", work)

	updated := core.Event{ID: id, EventInput: core.EventInput{Start: start.Add(time.Hour), DurationMinutes: 45, Details: "gym", CategoryID: gym}}
	if err := repo.UpdateEvent(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !got.Start.Equal(start.Add(time.Hour)) || got.DurationMinutes != 45 || got.Details != "gym" || got.CategoryID != gym {
		t.Fatalf("update not persisted: %+v", got)
	}

	missing := updated
	missing.ID = 404
	if err := repo.UpdateEvent(ctx, missing); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	badCat := updated
	badCat.CategoryID = 99
	if err := repo.UpdateEvent(ctx, badCat); !errors.Is(err, core.ErrReferentialIntegrity) {
		t.Fatalf("expected ErrReferentialIntegrity, got %v", err)
	}

	missingBoth := badCat
	missingBoth.ID = 404
	if err := repo.UpdateEvent(ctx, missingBoth); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown id should win over unknown category, got %v", err)
	}

	if err := repo.DeleteEvent(ctx, -2); err != nil {
		t.Fatalf("delete of missing id should succeed, got %v", err)
	}
	if n, _ := repo.CountEvents(ctx); n != 1 {
		t.Fatalf("missing delete changed the store: %d events", n)
	}
	if err := repo.DeleteEvent(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetEvent(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListEventsCopyOut(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	work := mustAddCategory(t, repo, "Work", core.WorkType)
	mustAddEvent(t, repo, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), 10, "b", work)
	mustAddEvent(t, repo, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 20, "a", work)

	evs, err := repo.ListEvents(ctx)
	if err != nil || len(evs) != 2 {
		t.Fatalf("list events: %v err=%v", evs, err)
	}
	if evs[0].Details != "a" || evs[1].Details != "b" {
		t.Fatalf("events should be chronological: %+v", evs)
	}
	evs[0].Details = "mutated"
	again, _ := repo.ListEvents(ctx)
	if again[0].Details != "a" {
		t.Fatalf("mutating the returned list changed stored state")
	}
}

func TestItemReaderQueries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	work := mustAddCategory(t, repo, "Work", core.WorkType)
	gym := mustAddCategory(t, repo, "Gym", core.EventType)
	mustAddEvent(t, repo, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), 10, "feb", work)
	mustAddEvent(t, repo, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 20, "jan gym", gym)
	mustAddEvent(t, repo, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 30, "jan work", work)

	var r ports.ItemReader = repo
	all := core.Filter{}.Normalize()

	items, err := r.QueryItems(ctx, all)
	if err != nil {
		t.Fatalf("query items: %v", err)
	}
	if len(items) != 3 || items[0].ShortDescription != "jan gym" || items[1].ShortDescription != "jan work" || items[2].ShortDescription != "feb" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[0].CategoryDescription != "Gym" || items[0].CategoryID != gym {
		t.Fatalf("category not joined: %+v", items[0])
	}

	onlyWork, _ := r.QueryItems(ctx, all.ForCategory(work))
	if len(onlyWork) != 2 {
		t.Fatalf("expected 2 work items, got %d", len(onlyWork))
	}

	months, err := r.ListMonths(ctx, all)
	if err != nil || len(months) != 2 || months[0].Label() != "2024/01" || months[1].Label() != "2024/02" {
		t.Fatalf("unexpected months: %v err=%v", months, err)
	}

	feb := all.Clamp(core.Month{Year: 2024, Month: time.February})
	active, err := r.ListActiveCategories(ctx, feb)
	if err != nil || len(active) != 1 || active[0].ID != work {
		t.Fatalf("unexpected active categories: %v err=%v", active, err)
	}

	empty := all.Clamp(core.Month{Year: 2023, Month: time.March})
	none, err := r.QueryItems(ctx, empty)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no items, got %v err=%v", none, err)
	}
}

func TestReadSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	work := mustAddCategory(t, repo, "Work", core.WorkType)
	mustAddEvent(t, repo, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 30, "a", work)

	var count int
	err := repo.ReadSnapshot(ctx, func(r ports.ItemReader) error {
		items, err := r.QueryItems(ctx, core.Filter{}.Normalize())
		count = len(items)
		return err
	})
	if err != nil || count != 1 {
		t.Fatalf("snapshot read: count=%d err=%v", count, err)
	}

	boom := errors.New("boom")
	if err := repo.ReadSnapshot(ctx, func(ports.ItemReader) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestStoredTimeHasNoZone(t *testing.T) {
	repo := newTestRepo(t)
	work := mustAddCategory(t, repo, "Work", core.WorkType)
	local := time.Date(2024, 6, 1, 8, 30, 15, 500, time.FixedZone("CEST", 2*3600))
	id := mustAddEvent(t, repo, local, 5, "", work)

	got, err := repo.GetEvent(context.Background(), id)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	want := time.Date(2024, 6, 1, 8, 30, 15, 0, time.UTC)
	if !got.Start.Equal(want) {
		t.Fatalf("expected wall clock %v, got %v", want, got.Start)
	}
}

func TestAddEventRejectsOutOfRangeYear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	work := mustAddCategory(t, repo, "Work", core.WorkType)

	_, err := repo.AddEvent(ctx, core.EventInput{
		Start:           time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 5,
		CategoryID:      work,
	})
	if !errors.Is(err, core.ErrInvalidStart) {
		t.Fatalf("expected ErrInvalidStart, got %v", err)
	}

	mustAddEvent(t, repo, time.Date(9999, 12, 31, 23, 0, 0, 0, time.UTC), 5, "last", work)
	evs, err := repo.ListEvents(ctx)
	if err != nil || len(evs) != 1 || evs[0].Start.Year() != 9999 {
		t.Fatalf("list after rejected write: %v err=%v", evs, err)
	}
}
