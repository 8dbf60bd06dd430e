package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"calendar/internal/core"
	"calendar/internal/ports"
)

var _ ports.Store = (*Store)(nil)

type Store struct {
	mu        sync.Mutex
	cats      []core.Category
	events    []core.Event
	nextCatID int64
	nextEvtID int64
}

// New stores cats as given, assigning ids in order. Repeated descriptions
// are kept, as AddCategory keeps them.
func New(cats []core.Category) *Store {
	s := &Store{nextCatID: 1, nextEvtID: 1}
	for _, c := range cats {
		c.Description = strings.TrimSpace(c.Description)
		c.ID = s.nextCatID
		s.nextCatID++
		s.cats = append(s.cats, c)
	}
	return s
}

// NewFromFiles seeds categories from base/seed_categories.txt, one
// "Description,Type" pair per line. The default roster is used when the
// file is missing or empty.
func NewFromFiles(base string) *Store {
	cats := readCategories(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = core.DefaultCategories()
	}
	return New(cats)
}

func (s *Store) AddCategory(_ context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextCatID
	c.Description = strings.TrimSpace(c.Description)
	s.nextCatID++
	s.cats = append(s.cats, c)
	return c.ID, nil
}

// ListCategories returns a copy ordered by description, then id.
func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCategories(s.cats), nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.category(id); ok {
		return c, nil
	}
	return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
}

func (s *Store) AddEvent(_ context.Context, e core.EventInput) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.category(e.CategoryID); !ok {
		return 0, fmt.Errorf("create event: category %d: %w", e.CategoryID, core.ErrReferentialIntegrity)
	}
	e.Start = core.NormalizeTime(e.Start)
	ev := core.Event{ID: s.nextEvtID, EventInput: e}
	s.nextEvtID++
	s.events = append(s.events, ev)
	return ev.ID, nil
}

func (s *Store) UpdateEvent(_ context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.events {
		if s.events[i].ID == e.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("update event %d: %w", e.ID, core.ErrNotFound)
	}
	if _, ok := s.category(e.CategoryID); !ok {
		return fmt.Errorf("update event %d: category %d: %w", e.ID, e.CategoryID, core.ErrReferentialIntegrity)
	}
	e.Start = core.NormalizeTime(e.Start)
	s.events[idx] = e
	return nil
}

// DeleteEvent removes the event; a missing id is a no-op.
func (s *Store) DeleteEvent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) GetEvent(_ context.Context, id int64) (core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Event{}, fmt.Errorf("event %d: %w", id, core.ErrNotFound)
}

// ListEvents returns a copy ordered by start, then id.
func (s *Store) ListEvents(_ context.Context) ([]core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedEvents(s.events), nil
}

func (s *Store) QueryItems(_ context.Context, q core.Query) ([]core.CalendarItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.CalendarItem
	for _, e := range sortedEvents(s.events) {
		if !q.Contains(e.Start, e.CategoryID) {
			continue
		}
		c, ok := s.category(e.CategoryID)
		if !ok {
			continue
		}
		out = append(out, core.CalendarItem{
			CategoryID:          e.CategoryID,
			EventID:             e.ID,
			Start:               e.Start,
			CategoryDescription: c.Description,
			ShortDescription:    e.Details,
			DurationMinutes:     e.DurationMinutes,
		})
	}
	return out, nil
}

func (s *Store) ListMonths(_ context.Context, q core.Query) ([]core.Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[core.Month]struct{}{}
	var out []core.Month
	for _, e := range sortedEvents(s.events) {
		if !q.Contains(e.Start, e.CategoryID) {
			continue
		}
		m := core.MonthOf(e.Start)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) ListActiveCategories(_ context.Context, q core.Query) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := map[int64]struct{}{}
	for _, e := range s.events {
		if q.Contains(e.Start, e.CategoryID) {
			active[e.CategoryID] = struct{}{}
		}
	}
	var out []core.Category
	for _, c := range sortedCategories(s.cats) {
		if _, ok := active[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ReadSnapshot runs fn against a private copy taken under the lock.
func (s *Store) ReadSnapshot(_ context.Context, fn func(ports.ItemReader) error) error {
	s.mu.Lock()
	snap := &Store{
		cats:      append([]core.Category(nil), s.cats...),
		events:    append([]core.Event(nil), s.events...),
		nextCatID: s.nextCatID,
		nextEvtID: s.nextEvtID,
	}
	s.mu.Unlock()
	return fn(snap)
}

func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *Store) category(id int64) (core.Category, bool) {
	for _, c := range s.cats {
		if c.ID == id {
			return c, true
		}
	}
	return core.Category{}, false
}

func sortedCategories(in []core.Category) []core.Category {
	out := append([]core.Category(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Description != out[j].Description {
			return out[i].Description < out[j].Description
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortedEvents(in []core.Event) []core.Event {
	out := append([]core.Event(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func readCategories(path string) []core.Category {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Category
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		desc, typ, ok := strings.Cut(line, ",")
		if !ok {
			typ = string(core.EventType)
		}
		t, err := core.ParseCategoryType(typ)
		if err != nil {
			continue
		}
		c := core.Category{Description: strings.TrimSpace(desc), Type: t}
		if c.Validate() != nil {
			continue
		}
		out = append(out, c)
	}
	return dedupe(out)
}

// dedupe drops repeated descriptions, keeping the first occurrence.
func dedupe(in []core.Category) []core.Category {
	seen := map[string]struct{}{}
	out := make([]core.Category, 0, len(in))
	for _, c := range in {
		c.Description = strings.TrimSpace(c.Description)
		if c.Description == "" {
			continue
		}
		if _, ok := seen[c.Description]; ok {
			continue
		}
		seen[c.Description] = struct{}{}
		out = append(out, c)
	}
	return out
}
