package ports

import (
	"context"
	"io"

	"calendar/internal/core"
)

// Ports consumed by the report engine and the mutation service.
type (
	CategoryStore interface {
		AddCategory(ctx context.Context, c core.Category) (id int64, err error)
		// ListCategories returns categories ordered by description, then id.
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
	}

	EventStore interface {
		// AddEvent fails with core.ErrReferentialIntegrity when the category is unknown.
		AddEvent(ctx context.Context, e core.EventInput) (id int64, err error)
		// UpdateEvent fails with core.ErrNotFound when no event has e.ID.
		UpdateEvent(ctx context.Context, e core.Event) error
		// DeleteEvent succeeds even when id does not exist.
		DeleteEvent(ctx context.Context, id int64) error
		GetEvent(ctx context.Context, id int64) (core.Event, error)
		// ListEvents returns events ordered by start, then id.
		ListEvents(ctx context.Context) ([]core.Event, error)
	}

	// ItemReader is the read side the report engine is built on.
	ItemReader interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		// QueryItems returns the events matching q joined with their category,
		// ordered by start then event id. RunningBusyTime is left at zero.
		QueryItems(ctx context.Context, q core.Query) ([]core.CalendarItem, error)
		// ListMonths returns the distinct months holding a matching event, ascending.
		ListMonths(ctx context.Context, q core.Query) ([]core.Month, error)
		// ListActiveCategories returns the categories with at least one matching
		// event, ordered by description then id.
		ListActiveCategories(ctx context.Context, q core.Query) ([]core.Category, error)
	}

	// Snapshotter runs fn against a single consistent view of the store.
	Snapshotter interface {
		ReadSnapshot(ctx context.Context, fn func(ItemReader) error) error
	}

	Store interface {
		CategoryStore
		EventStore
		ItemReader
		Snapshotter
		io.Closer
	}
)
