package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Category mirrors a row of the categories table.
type Category struct {
	ID          int64
	Description string
	Type        string
}

// Event mirrors a row of the events table.
type Event struct {
	ID              int64
	StartDatetime   string
	DurationMinutes float64
	Details         string
	CategoryID      int64
}

// ItemRow is an event joined with its category.
type ItemRow struct {
	EventID             int64
	CategoryID          int64
	StartDatetime       string
	CategoryDescription string
	Details             string
	DurationMinutes     float64
}

// RangeParams selects events by inclusive start bounds and an optional category.
type RangeParams struct {
	Start            string
	End              string
	FilterByCategory bool
	CategoryID       int64
}

func (p RangeParams) args() []interface{} {
	return []interface{}{p.Start, p.End, p.FilterByCategory, p.CategoryID}
}

const rangeWhere = `
WHERE e.start_datetime >= ? AND e.start_datetime <= ?
  AND (NOT ? OR e.category_id = ?)`

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (description, type) VALUES (?, ?)
RETURNING id, description, type`

type CreateCategoryParams struct {
	Description string
	Type        string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory, arg.Description, arg.Type)
	var i Category
	err := row.Scan(&i.ID, &i.Description, &i.Type)
	return i, err
}

const getCategory = `-- name: GetCategory :one
SELECT id, description, type FROM categories WHERE id = ?`

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategory, id)
	var i Category
	err := row.Scan(&i.ID, &i.Description, &i.Type)
	return i, err
}

const categoryExists = `-- name: CategoryExists :one
SELECT EXISTS (SELECT 1 FROM categories WHERE id = ?)`

func (q *Queries) CategoryExists(ctx context.Context, id int64) (bool, error) {
	row := q.db.QueryRowContext(ctx, categoryExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, description, type FROM categories ORDER BY description, id`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Description, &i.Type); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createEvent = `-- name: CreateEvent :one
INSERT INTO events (start_datetime, duration_minutes, details, category_id)
VALUES (?, ?, ?, ?)
RETURNING id`

type CreateEventParams struct {
	StartDatetime   string
	DurationMinutes float64
	Details         string
	CategoryID      int64
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.StartDatetime, arg.DurationMinutes, arg.Details, arg.CategoryID)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateEvent = `-- name: UpdateEvent :execrows
UPDATE events
SET start_datetime = ?, duration_minutes = ?, details = ?, category_id = ?
WHERE id = ?`

type UpdateEventParams struct {
	StartDatetime   string
	DurationMinutes float64
	Details         string
	CategoryID      int64
	ID              int64
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateEvent,
		arg.StartDatetime, arg.DurationMinutes, arg.Details, arg.CategoryID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteEvent = `-- name: DeleteEvent :exec
DELETE FROM events WHERE id = ?`

func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteEvent, id)
	return err
}

const getEvent = `-- name: GetEvent :one
SELECT id, start_datetime, duration_minutes, details, category_id FROM events WHERE id = ?`

func (q *Queries) GetEvent(ctx context.Context, id int64) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEvent, id)
	var i Event
	err := row.Scan(&i.ID, &i.StartDatetime, &i.DurationMinutes, &i.Details, &i.CategoryID)
	return i, err
}

const listEvents = `-- name: ListEvents :many
SELECT id, start_datetime, duration_minutes, details, category_id
FROM events ORDER BY start_datetime, id`

func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(&i.ID, &i.StartDatetime, &i.DurationMinutes, &i.Details, &i.CategoryID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const queryItems = `-- name: QueryItems :many
SELECT e.id, e.category_id, e.start_datetime, c.description, e.details, e.duration_minutes
FROM events e
JOIN categories c ON c.id = e.category_id` + rangeWhere + `
ORDER BY e.start_datetime, e.id`

func (q *Queries) QueryItems(ctx context.Context, arg RangeParams) ([]ItemRow, error) {
	rows, err := q.db.QueryContext(ctx, queryItems, arg.args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemRow
	for rows.Next() {
		var i ItemRow
		if err := rows.Scan(
			&i.EventID,
			&i.CategoryID,
			&i.StartDatetime,
			&i.CategoryDescription,
			&i.Details,
			&i.DurationMinutes,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listMonths = `-- name: ListMonths :many
SELECT DISTINCT strftime('%Y-%m', e.start_datetime) AS month
FROM events e` + rangeWhere + `
ORDER BY month`

func (q *Queries) ListMonths(ctx context.Context, arg RangeParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listMonths, arg.args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var month string
		if err := rows.Scan(&month); err != nil {
			return nil, err
		}
		items = append(items, month)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listActiveCategories = `-- name: ListActiveCategories :many
SELECT c.id, c.description, c.type
FROM categories c
WHERE EXISTS (
    SELECT 1 FROM events e` + rangeWhere + `
      AND e.category_id = c.id
)
ORDER BY c.description, c.id`

func (q *Queries) ListActiveCategories(ctx context.Context, arg RangeParams) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listActiveCategories, arg.args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Description, &i.Type); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEvents = `-- name: CountEvents :one
SELECT COUNT(*) FROM events`

func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countEvents)
	var count int64
	err := row.Scan(&count)
	return count, err
}
