package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"calendar/internal/core"
	applog "calendar/internal/log"
	"calendar/internal/ports"
)

// MutationStore is what the service writes through.
type MutationStore interface {
	ports.CategoryStore
	ports.EventStore
}

// CalendarService validates mutations and suppresses repeated submissions
// before handing them to the store.
type CalendarService struct {
	store  MutationStore
	logger *slog.Logger

	mu         sync.Mutex
	lastAdd    *core.EventInput
	lastUpdate *core.Event
}

func NewCalendarService(store MutationStore, logger *slog.Logger) *CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{
		store:  store,
		logger: logger.With(applog.FieldComponent, applog.ComponentCalendar),
	}
}

// AddCategory creates a category and returns its id.
func (s *CalendarService) AddCategory(ctx context.Context, description string, typ core.CategoryType) (int64, error) {
	c := core.Category{Description: description, Type: typ}
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.AddCategory(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("add category: %w", err)
	}
	s.logger.InfoContext(ctx, "Category added", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithCategory(id, description).ToSlice()...)
	return id, nil
}

// AddEvent stores e unless it repeats the previous successful add exactly.
// A rejected repeat clears the remembered add, so a third identical call is
// accepted.
func (s *CalendarService) AddEvent(ctx context.Context, e core.EventInput) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastAdd != nil && s.lastAdd.Equal(e) {
		s.lastAdd = nil
		s.logger.WarnContext(ctx, "Duplicate event submission rejected", applog.NewFields().
			WithOperation(applog.OpCreate).
			WithEvent(0, e).ToSlice()...)
		return 0, fmt.Errorf("add event: %w", core.ErrDuplicateSubmission)
	}

	id, err := s.store.AddEvent(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("add event: %w", err)
	}
	last := e
	s.lastAdd = &last

	s.logger.InfoContext(ctx, "Event added", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithEvent(id, e).ToSlice()...)
	return id, nil
}

// UpdateEvent replaces an existing event. Repeating the previous successful
// update is rejected as a duplicate; an unknown id is core.ErrNotFound.
func (s *CalendarService) UpdateEvent(ctx context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastUpdate != nil && s.lastUpdate.ID == e.ID && s.lastUpdate.EventInput.Equal(e.EventInput) {
		s.lastUpdate = nil
		s.logger.WarnContext(ctx, "Duplicate event update rejected", applog.NewFields().
			WithOperation(applog.OpUpdate).
			WithEvent(e.ID, e.EventInput).ToSlice()...)
		return fmt.Errorf("update event %d: %w", e.ID, core.ErrDuplicateSubmission)
	}

	if err := s.store.UpdateEvent(ctx, e); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.WarnContext(ctx, "Update of unknown event rejected", applog.NewFields().
				WithOperation(applog.OpUpdate).
				WithEvent(e.ID, e.EventInput).ToSlice()...)
		}
		return fmt.Errorf("update event: %w", err)
	}
	last := e
	s.lastUpdate = &last

	s.logger.InfoContext(ctx, "Event updated", applog.NewFields().
		WithOperation(applog.OpUpdate).
		WithEvent(e.ID, e.EventInput).ToSlice()...)
	return nil
}

// DeleteEvent removes the event with id. The store treats an unknown id as a
// no-op; the caller still gets core.ErrNotFound for it.
func (s *CalendarService) DeleteEvent(ctx context.Context, id int64) error {
	_, lookupErr := s.store.GetEvent(ctx, id)
	if lookupErr != nil && !errors.Is(lookupErr, core.ErrNotFound) {
		return fmt.Errorf("delete event: %w", lookupErr)
	}

	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if lookupErr != nil {
		s.logger.WarnContext(ctx, "Delete of unknown event", applog.NewFields().
			WithOperation(applog.OpDelete).
			WithEventID(id).ToSlice()...)
		return fmt.Errorf("delete event %d: %w", id, core.ErrNotFound)
	}

	s.logger.InfoContext(ctx, "Event deleted", applog.NewFields().
		WithOperation(applog.OpDelete).
		WithEventID(id).ToSlice()...)
	return nil
}

// ListCategories returns the category roster ordered by description.
func (s *CalendarService) ListCategories(ctx context.Context) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, core.QueryFailed("list categories", err)
	}
	return cats, nil
}

// ListEvents returns every event in chronological order.
func (s *CalendarService) ListEvents(ctx context.Context) ([]core.Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, core.QueryFailed("list events", err)
	}
	return events, nil
}

// SeedDefaultCategories adds core.DefaultCategories when the roster is empty
// and reports how many were added.
func (s *CalendarService) SeedDefaultCategories(ctx context.Context) (int, error) {
	existing, err := s.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.InfoContext(ctx, "Category roster already present, skipping seed", applog.FieldCount, len(existing))
		return 0, nil
	}
	added := 0
	for _, c := range core.DefaultCategories() {
		if _, err := s.AddCategory(ctx, c.Description, c.Type); err != nil {
			return added, fmt.Errorf("seed categories: %w", err)
		}
		added++
	}
	return added, nil
}
