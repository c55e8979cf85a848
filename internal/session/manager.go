// Package session keeps one editor page per browser page load.
//
// Every GET of the editor creates a fresh Session with its own catalog, so a
// reload starts from an empty list. Sessions that stop receiving requests are
// swept after an idle timeout and their catalogs purged.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"katalog/internal/editor"
	"katalog/internal/messages"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for catalog IDs with no live session.
var ErrSessionNotFound = errors.New("session not found")

// RepositoryFactory opens the storage for a new catalog.
type RepositoryFactory func(catalogID string) (repositories.CatalogRepository, error)

// Session is one loaded editor page.
type Session struct {
	ID string

	mu       sync.Mutex
	page     *editor.Page
	catalog  *services.CatalogService
	lastSeen atomic.Int64
}

// Do runs fn with exclusive access to the page and its catalog.
// Calls on the same session never overlap.
func (s *Session) Do(fn func(page *editor.Page, catalog *services.CatalogService) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.page, s.catalog)
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// Options configures a Manager.
type Options struct {
	Messages    messages.Set
	Publisher   services.EventPublisher // may be nil
	IdleTimeout time.Duration
	Logger      *zap.Logger
}

// Manager is the registry of live sessions.
type Manager struct {
	newRepo     RepositoryFactory
	msgs        messages.Set
	publisher   services.EventPublisher
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a new Manager.
func NewManager(newRepo RepositoryFactory, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		newRepo:     newRepo,
		msgs:        opts.Messages,
		publisher:   opts.Publisher,
		idleTimeout: opts.IdleTimeout,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Create starts a new session over an empty catalog.
func (m *Manager) Create() (*Session, error) {
	id := uuid.NewString()
	repo, err := m.newRepo(id)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	catalog := services.NewCatalogService(id, repo, m.publisher, m.logger)
	s := &Session{
		ID:      id,
		page:    editor.NewPage(catalog, m.msgs),
		catalog: catalog,
	}
	s.touch(m.now())

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("catalog_id", id))
	return s, nil
}

// Get returns the live session for catalogID and marks it as used.
func (m *Manager) Get(catalogID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[catalogID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the idle timeout and returns how many it removed.
func (m *Manager) Sweep() int {
	now := m.now()

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTimeout {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.close(s)
	}
	if len(expired) > 0 {
		m.logger.Info("idle sessions swept", zap.Int("count", len(expired)), zap.Int("remaining", m.Len()))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close removes every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		m.close(s)
	}
}

func (m *Manager) close(s *Session) {
	err := s.Do(func(_ *editor.Page, catalog *services.CatalogService) error {
		return catalog.Close()
	})
	if err != nil {
		m.logger.Warn("failed to purge catalog", zap.String("catalog_id", s.ID), zap.Error(err))
	}
}
