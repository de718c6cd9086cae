package auth

import (
	"context"
	"sinemagic_server/mirror"
	"sinemagic_server/structs"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
)

// ClientFactory builds the remote auth client for a client's mirror.
type ClientFactory func(store mirror.Store) RemoteAuth

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Manager owns one auth store per client id. Each store sees only its
// client's slice of the mirror.
type Manager struct {
	mirror  mirror.Store
	factory ClientFactory
	cfg     *structs.AuthConfig
	logger  *gecho.Logger

	mu     sync.Mutex
	stores map[string]*entry
}

// NewManager builds a manager. A nil factory means no remote auth.
func NewManager(base mirror.Store, factory ClientFactory, cfg *structs.AuthConfig, logger *gecho.Logger) *Manager {
	return &Manager{
		mirror:  base,
		factory: factory,
		cfg:     cfg,
		logger:  logger,
		stores:  make(map[string]*entry),
	}
}

func clientPrefix(clientID string) string {
	return "client:" + clientID + ":"
}

// Get returns the bootstrapped store for clientID, creating it on first
// use.
func (m *Manager) Get(ctx context.Context, clientID string) *Store {
	m.mu.Lock()
	e, ok := m.stores[clientID]
	if !ok {
		scoped := mirror.NewScoped(m.mirror, clientPrefix(clientID))
		opts := Options{
			Mirror:      scoped,
			Logger:      m.logger,
			Timeout:     m.cfg.SessionTimeout,
			DemoEnabled: m.cfg.DemoEnabled,
			DemoEmail:   m.cfg.DemoEmail,
		}
		if m.factory != nil {
			opts.Remote = m.factory(scoped)
		}
		e = &entry{store: NewStore(opts)}
		m.stores[clientID] = e
	}
	e.lastSeen = time.Now()
	m.mu.Unlock()

	e.store.Bootstrap(ctx)
	return e.store
}

// Sweep drops stores not used for longer than idle. Their mirror data
// stays, so the client bootstraps again on its next request.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	var stale []*Store
	for id, e := range m.stores {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.store)
			delete(m.stores, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		m.logger.Debug("Swept idle auth stores", gecho.Field("count", len(stale)))
	}
	return len(stale)
}

// Run sweeps idle stores every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(idle)
		}
	}
}

func (m *Manager) Close() {
	m.mu.Lock()
	stores := m.stores
	m.stores = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range stores {
		e.store.Close()
	}
}
