package session

import (
	"log/slog"
	"sync"

	"github.com/portiva/portiva/internal/credential"
	"github.com/portiva/portiva/internal/gate"
	"github.com/portiva/portiva/internal/guard"
	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/menu"
)

// Manager owns one Controller per browser session. Controllers are created
// on first use and dropped on logout; the credential itself lives in the
// store with its own TTL, so an evicted controller simply re-bootstraps.
type Manager struct {
	store    credential.Store
	resolver identity.Resolver
	lookup   gate.ProfileLookup
	tree     menu.Tree
	logger   *slog.Logger

	mu             sync.Mutex
	controllers    map[string]*Controller
	resolveFailure func()
}

// NewManager constructs a Manager.
func NewManager(store credential.Store, resolver identity.Resolver, lookup gate.ProfileLookup, tree menu.Tree, logger *slog.Logger) *Manager {
	return &Manager{
		store:       store,
		resolver:    resolver,
		lookup:      lookup,
		tree:        tree,
		logger:      logger,
		controllers: make(map[string]*Controller),
	}
}

// OnResolveFailure registers a callback propagated to every guard the
// manager creates. Set before the first controller is requested.
func (m *Manager) OnResolveFailure(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolveFailure = fn
}

// Controller returns the controller for sessionID, creating it on demand.
func (m *Manager) Controller(sessionID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.controllers[sessionID]; ok {
		return c
	}
	g := guard.New(m.store, m.resolver, m.logger)
	if m.resolveFailure != nil {
		g.OnResolveFailure(m.resolveFailure)
	}
	c := NewController(
		sessionID,
		m.store,
		g,
		gate.New(m.lookup, m.logger),
		m.tree,
		m.logger,
	)
	m.controllers[sessionID] = c
	return c
}

// Drop forgets the controller for sessionID.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, sessionID)
}
