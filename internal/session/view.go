// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/sheetlens/internal/cache"
	"github.com/tomtom215/sheetlens/internal/chartdata"
	"github.com/tomtom215/sheetlens/internal/dataset"
	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/metrics"
	"github.com/tomtom215/sheetlens/internal/sheets"
)

var (
	// ErrStale is returned when a fetch completes after a newer fetch, a
	// switch, or a close superseded it. The result has been discarded.
	ErrStale = errors.New("stale fetch result discarded")

	// ErrRateLimited is returned when a user exceeds the fetch rate.
	ErrRateLimited = errors.New("fetch rate limit exceeded")

	// ErrNotLoaded is returned by operations that need a dataset before any
	// load has committed.
	ErrNotLoaded = errors.New("no dataset loaded")
)

// Key identifies a view: one user looking at one dashboard.
type Key struct {
	UserID      string
	DashboardID string
}

func (k Key) prefix() string {
	return "view:" + k.UserID + "/" + k.DashboardID + ":"
}

// Ticket is the generation a fetch was started under.
type Ticket struct {
	gen uint64
}

// Generation returns the ticket's generation number.
func (t Ticket) Generation() uint64 { return t.gen }

// State is a snapshot of what a view currently shows.
type State struct {
	DashboardID string                 `json:"dashboardId"`
	SourceID    string                 `json:"sourceId,omitempty"`
	Tab         string                 `json:"tab,omitempty"`
	Version     string                 `json:"version,omitempty"`
	Headers     []string               `json:"headers"`
	RowCount    int                    `json:"rowCount"`
	Loaded      bool                   `json:"loaded"`
	Empty       bool                   `json:"empty"`
	XKey        string                 `json:"xKey,omitempty"`
	YKey        string                 `json:"yKey,omitempty"`
	Settings    chartdata.ViewSettings `json:"settings"`
	Charts      []chartdata.ChartSpec  `json:"charts"`
	Generation  uint64                 `json:"generation"`
	LoadedAt    *time.Time             `json:"loadedAt,omitempty"`
}

// View is the state behind one open dashboard: the current dataset, its
// chart registry and the fetch generation counter. Only the completion of
// the most recent fetch is ever applied.
type View struct {
	key      Key
	cache    *cache.Cache
	limiter  *rate.Limiter
	registry *chartdata.Registry

	gen      atomic.Uint64
	lastUsed atomic.Int64

	mu       sync.RWMutex
	cancel   context.CancelFunc
	table    *dataset.Table
	sourceID string
	tab      string
	loadedAt time.Time
}

func newView(key Key, c *cache.Cache, limiter *rate.Limiter) *View {
	v := &View{
		key:      key,
		cache:    c,
		limiter:  limiter,
		registry: chartdata.NewRegistry(),
	}
	v.touch()
	return v
}

func (v *View) touch() { v.lastUsed.Store(time.Now().UnixNano()) }

// Key returns the view's identity.
func (v *View) Key() Key { return v.key }

// Charts returns the chart registry bound to the view's dataset.
func (v *View) Charts() *chartdata.Registry {
	v.touch()
	return v.registry
}

// Generation returns the current fetch generation.
func (v *View) Generation() uint64 { return v.gen.Load() }

// Begin starts a fetch. It advances the generation, cancels the context of
// any fetch still in flight, and returns the ticket plus a context for the
// new fetch. The caller must call cancel when the fetch returns.
func (v *View) Begin(ctx context.Context) (Ticket, context.Context, context.CancelFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.touch()
	return Ticket{gen: v.gen.Add(1)}, fctx, cancel
}

// Current reports whether t is still the latest generation.
func (v *View) Current(t Ticket) bool {
	return v.gen.Load() == t.gen
}

// Commit installs the fetched table if t is still current, rebinding the
// chart registry and dropping memoized renders. A superseded ticket returns
// ErrStale and leaves the view untouched.
func (v *View) Commit(t Ticket, tbl *dataset.Table, sourceID, tab string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.gen.Load() != t.gen {
		metrics.StaleFetchesDropped.Inc()
		return ErrStale
	}
	if tbl == nil {
		tbl = dataset.Empty()
	}
	v.table = tbl
	v.sourceID = sourceID
	v.tab = tab
	v.loadedAt = time.Now()
	v.cancel = nil
	v.registry.Bind(tbl)
	v.cache.DeletePrefix(v.key.prefix())
	return nil
}

// Switch supersedes any in-flight fetch and discards the dataset and charts
// of the previous selection. The view reads as not loaded until the next
// commit.
func (v *View) Switch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.supersedeLocked()
	v.releaseLocked()
}

func (v *View) supersedeLocked() {
	v.gen.Add(1)
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.cache.DeletePrefix(v.key.prefix())
}

// Close supersedes in-flight fetches and releases the dataset and charts,
// exactly as Switch does. The manager also forgets the view.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.supersedeLocked()
	v.releaseLocked()
}

func (v *View) releaseLocked() {
	v.table = nil
	v.sourceID, v.tab = "", ""
	v.loadedAt = time.Time{}
	v.registry.Bind(nil)
}

// Table returns the committed dataset, or nil before the first load.
func (v *View) Table() *dataset.Table {
	v.mu.RLock()
	defer v.mu.RUnlock()
	v.touch()
	return v.table
}

// Load fetches a dataset from src and commits it under a fresh ticket.
// Fetch failures wrap chartdata.ErrDataUnavailable; a load overtaken by a
// newer one returns ErrStale whether it succeeded or not.
func (v *View) Load(ctx context.Context, src sheets.Source, sourceID, tab, rangeRef string) (*dataset.Table, error) {
	if v.limiter != nil && !v.limiter.Allow() {
		return nil, ErrRateLimited
	}

	ticket, fctx, cancel := v.Begin(ctx)
	defer cancel()

	tbl, err := src.Fetch(fctx, sourceID, tab, rangeRef)
	if err != nil {
		if !v.Current(ticket) {
			metrics.StaleFetchesDropped.Inc()
			return nil, ErrStale
		}
		logging.Ctx(ctx).Warn().Err(err).Str("source_id", sourceID).Str("tab", tab).
			Msg("Dataset fetch failed")
		return nil, fmt.Errorf("%w: %w", chartdata.ErrDataUnavailable, err)
	}

	if err := v.Commit(ticket, tbl, sourceID, tab); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Debug().Str("source_id", sourceID).Str("tab", tab).Int("rows", tbl.Len()).
		Uint64("generation", ticket.gen).Msg("Dataset loaded")
	return tbl, nil
}

// State returns a snapshot of the view.
func (v *View) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	v.touch()

	st := State{
		DashboardID: v.key.DashboardID,
		SourceID:    v.sourceID,
		Tab:         v.tab,
		Headers:     []string{},
		Charts:      v.registry.List(),
		Generation:  v.gen.Load(),
		Settings:    chartdata.DefaultSettings(0),
	}
	if v.table == nil {
		st.Empty = true
		return st
	}

	loadedAt := v.loadedAt
	st.Loaded = true
	st.LoadedAt = &loadedAt
	st.Version = v.table.Version()
	st.Headers = v.table.Headers()
	st.RowCount = v.table.Len()
	st.Empty = v.table.IsEmpty()
	st.Settings = chartdata.DefaultSettings(st.RowCount)
	if x, y, err := chartdata.InferKeys(v.table); err == nil {
		st.XKey, st.YKey = x, y
	}
	return st
}

// renderKey is the memoization identity of one chart render.
type renderKey struct {
	Version  string                 `json:"version"`
	Settings chartdata.ViewSettings `json:"settings"`
	Type     chartdata.ChartType    `json:"type"`
	XKey     string                 `json:"xKey"`
	YKey     string                 `json:"yKey"`
	ZKey     string                 `json:"zKey"`
}

// Render renders every registered chart against the current dataset with
// the given settings. Results are memoized per (dataset version, settings,
// bindings, chart type); each chart fails independently.
func (v *View) Render(ctx context.Context, settings chartdata.ViewSettings) ([]chartdata.ChartResult, error) {
	v.mu.RLock()
	tbl := v.table
	specs := v.registry.List()
	v.mu.RUnlock()
	v.touch()

	if tbl == nil {
		return nil, ErrNotLoaded
	}

	results := make([]chartdata.ChartResult, len(specs))
	for i, spec := range specs {
		results[i] = v.renderOne(ctx, tbl, spec, settings)
	}
	return results, nil
}

func (v *View) renderOne(ctx context.Context, tbl *dataset.Table, spec chartdata.ChartSpec, settings chartdata.ViewSettings) chartdata.ChartResult {
	key := v.key.prefix() + cache.GenerateKey("render", renderKey{
		Version:  tbl.Version(),
		Settings: settings,
		Type:     spec.Type,
		XKey:     spec.XKey,
		YKey:     spec.YKey,
		ZKey:     spec.ZKey,
	})
	if cached, ok := v.cache.Get(key); ok {
		if res, ok := cached.(chartdata.ChartResult); ok {
			res.Spec = spec
			return res
		}
	}

	start := time.Now()
	res := chartdata.RenderChart(tbl, spec, settings)
	failed := res.Error != ""
	metrics.RecordChartRender(string(res.Settings.ViewMode), string(spec.Type), time.Since(start), failed)
	if failed {
		logging.Ctx(ctx).Warn().Str("chart_id", spec.ID).Str("chart_type", string(spec.Type)).
			Str("error", res.Error).Msg("Chart render failed")
		return res
	}
	v.cache.Set(key, res)
	return res
}
