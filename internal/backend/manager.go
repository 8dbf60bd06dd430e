package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	applog "calendar/internal/log"
)

// ErrNoBackend is returned by Current before the first successful Open.
var ErrNoBackend = errors.New("no backend open")

// Manager owns at most one open backend. Opening another one closes the
// current backend first and only proceeds once that close has returned.
type Manager struct {
	factory Factory
	logger  *slog.Logger

	mu      sync.Mutex
	current *BackendResult
	config  Config
}

func NewManager(factory Factory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		factory: factory,
		logger:  logger.With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// Open replaces the current backend with one built from config. A failure
// to close the previous backend is returned and nothing new is opened.
func (m *Manager) Open(ctx context.Context, config Config) (Backend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.closeLocked(ctx); err != nil {
		return nil, fmt.Errorf("close previous backend: %w", err)
	}

	res, err := m.factory.CreateBackend(ctx, config)
	if err != nil {
		return nil, err
	}
	m.current = res
	m.config = config
	m.logger.InfoContext(ctx, "Backend opened", applog.FieldBackend, config.Type.String())
	return res.Backend, nil
}

// Current returns the open backend.
func (m *Manager) Current() (Backend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoBackend
	}
	return m.current.Backend, nil
}

// Config returns the configuration of the open backend.
func (m *Manager) Config() (Config, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config, m.current != nil
}

// Close releases the open backend, if any.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked(ctx)
}

func (m *Manager) closeLocked(ctx context.Context) error {
	if m.current == nil {
		return nil
	}
	res := m.current
	m.current = nil
	m.config = Config{}
	if res.Cleanup == nil {
		return nil
	}
	if err := res.Cleanup(); err != nil {
		m.logger.ErrorContext(ctx, "Backend close failed", applog.NewFields().
			WithOperation(applog.OpClose).
			WithError(err).ToSlice()...)
		return err
	}
	m.logger.InfoContext(ctx, "Backend closed")
	return nil
}
