// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/sheetlens/internal/cache"
	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/metrics"
)

// Config tunes view lifetime and fetch limits.
type Config struct {
	// IdleTimeout evicts views untouched for this long. Zero disables
	// eviction.
	IdleTimeout time.Duration

	// FetchRate and FetchBurst bound loads per user. A zero rate means
	// unlimited.
	FetchRate  float64
	FetchBurst int

	// SweepInterval is how often Serve evicts idle views.
	SweepInterval time.Duration
}

// Manager owns the open views, one per user and dashboard.
type Manager struct {
	cfg   Config
	cache *cache.Cache

	mu       sync.Mutex
	views    map[Key]*View
	limiters map[string]*rate.Limiter
}

// NewManager creates a manager memoizing renders in c.
func NewManager(cfg Config, c *cache.Cache) *Manager {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.FetchBurst < 1 {
		cfg.FetchBurst = 1
	}
	return &Manager{
		cfg:      cfg,
		cache:    c,
		views:    make(map[Key]*View),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Open returns the view for a user and dashboard, creating it on first use.
func (m *Manager) Open(userID, dashboardID string) *View {
	key := Key{UserID: userID, DashboardID: dashboardID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.views[key]; ok {
		v.touch()
		return v
	}
	v := newView(key, m.cache, m.limiterLocked(userID))
	m.views[key] = v
	metrics.ActiveViews.Set(float64(len(m.views)))
	return v
}

// Lookup returns an existing view without creating one.
func (m *Manager) Lookup(userID, dashboardID string) (*View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[Key{UserID: userID, DashboardID: dashboardID}]
	return v, ok
}

func (m *Manager) limiterLocked(userID string) *rate.Limiter {
	if l, ok := m.limiters[userID]; ok {
		return l
	}
	limit := rate.Inf
	if m.cfg.FetchRate > 0 {
		limit = rate.Limit(m.cfg.FetchRate)
	}
	l := rate.NewLimiter(limit, m.cfg.FetchBurst)
	m.limiters[userID] = l
	return l
}

// Close closes and forgets a view. Closing an unknown view is a no-op.
func (m *Manager) Close(userID, dashboardID string) {
	key := Key{UserID: userID, DashboardID: dashboardID}

	m.mu.Lock()
	v, ok := m.views[key]
	delete(m.views, key)
	metrics.ActiveViews.Set(float64(len(m.views)))
	m.mu.Unlock()

	if ok {
		v.Close()
	}
}

// Len returns the number of open views.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// EvictIdle closes views idle since before now-IdleTimeout and returns how
// many were closed.
func (m *Manager) EvictIdle(now time.Time) int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-m.cfg.IdleTimeout).UnixNano()

	var idle []*View
	m.mu.Lock()
	for key, v := range m.views {
		if v.lastUsed.Load() < cutoff {
			idle = append(idle, v)
			delete(m.views, key)
		}
	}
	users := make(map[string]bool, len(m.views))
	for key := range m.views {
		users[key.UserID] = true
	}
	for userID := range m.limiters {
		if !users[userID] {
			delete(m.limiters, userID)
		}
	}
	metrics.ActiveViews.Set(float64(len(m.views)))
	m.mu.Unlock()

	for _, v := range idle {
		v.Close()
	}
	return len(idle)
}

// Serve implements suture.Service, evicting idle views until ctx ends.
func (m *Manager) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if n := m.EvictIdle(now); n > 0 {
				logging.Debug().Int("evicted", n).Int("open", m.Len()).Msg("Evicted idle dashboard views")
			}
		}
	}
}

func (m *Manager) String() string { return "view-manager" }
