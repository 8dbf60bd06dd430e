package log

import "calendar/internal/core"

// Common field names for structured logging
const (
	FieldComponent       = "component"
	FieldOperation       = "operation"
	FieldError           = "error"
	FieldErrorKind       = "error_kind"
	FieldEventID         = "event_id"
	FieldCategoryID      = "category_id"
	FieldCategory        = "category"
	FieldStart           = "start"
	FieldDurationMinutes = "duration_minutes"
	FieldDetails         = "details"
	FieldMonth           = "month"
	FieldBackend         = "backend"
	FieldDBPath          = "db_path"
	FieldCount           = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCLI      = "cli"
	ComponentCalendar = "calendar"
	ComponentReport   = "report"
	ComponentStorage  = "storage"
	ComponentBackend  = "backend"
	ComponentConfig   = "config"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpReport   = "report"
	OpOpen     = "open"
	OpClose    = "close"
	OpValidate = "validate"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error and its kind
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorKind] = core.KindOf(err)
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEventID adds the event id; zero ids are skipped
func (f LogFields) WithEventID(id int64) LogFields {
	if id != 0 {
		f[FieldEventID] = id
	}
	return f
}

// WithEvent adds event-related fields
func (f LogFields) WithEvent(id int64, e core.EventInput) LogFields {
	f.WithEventID(id)
	f[FieldStart] = core.FormatTimestamp(e.Start)
	f[FieldDurationMinutes] = e.DurationMinutes
	f[FieldCategoryID] = e.CategoryID
	if e.Details != "" {
		f[FieldDetails] = e.Details
	}
	return f
}

// WithCategory adds category fields
func (f LogFields) WithCategory(id int64, description string) LogFields {
	f[FieldCategoryID] = id
	f[FieldCategory] = description
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
