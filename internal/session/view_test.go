// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/sheetlens/internal/cache"
	"github.com/tomtom215/sheetlens/internal/chartdata"
	"github.com/tomtom215/sheetlens/internal/dataset"
	"github.com/tomtom215/sheetlens/internal/sheets"
)

// blockingSource blocks fetches of "slow" until their context ends and
// answers everything else immediately.
type blockingSource struct {
	started chan struct{}
	err     error
}

func (s *blockingSource) Fetch(ctx context.Context, sourceID, _, _ string) (*dataset.Table, error) {
	if sourceID == "slow" {
		close(s.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return salesTable(), nil
}

func (s *blockingSource) ListTabs(_ context.Context, sourceID string) (*sheets.SheetInfo, error) {
	return &sheets.SheetInfo{Title: sourceID}, nil
}

func salesTable() *dataset.Table {
	return dataset.New(
		[]string{"Month", "Revenue", "Region"},
		[][]string{
			{"Jan", "100", "North"},
			{"Feb", "150", "South"},
			{"Mar", "120", "North"},
		},
	)
}

func newTestManager(cfg Config) *Manager {
	return NewManager(cfg, cache.New("test-render", time.Minute, 0))
}

func TestCommitRejectsStaleTicket(t *testing.T) {
	t.Parallel()

	v := newTestManager(Config{}).Open("u1", "d1")
	first, _, cancel1 := v.Begin(context.Background())
	defer cancel1()
	second, _, cancel2 := v.Begin(context.Background())
	defer cancel2()

	if v.Current(first) || !v.Current(second) {
		t.Fatal("only the newest ticket should be current")
	}
	if err := v.Commit(first, salesTable(), "a", ""); !errors.Is(err, ErrStale) {
		t.Fatalf("Commit(first) = %v, want ErrStale", err)
	}
	if v.Table() != nil {
		t.Fatal("stale commit must not install a table")
	}
	if err := v.Commit(second, salesTable(), "b", "Orders"); err != nil {
		t.Fatalf("Commit(second) = %v", err)
	}
	st := v.State()
	if !st.Loaded || st.SourceID != "b" || st.Tab != "Orders" || st.RowCount != 3 {
		t.Errorf("State() = %+v", st)
	}
}

func TestBeginCancelsPreviousFetch(t *testing.T) {
	t.Parallel()

	v := newTestManager(Config{}).Open("u1", "d1")
	_, ctx1, cancel1 := v.Begin(context.Background())
	defer cancel1()
	_, _, cancel2 := v.Begin(context.Background())
	defer cancel2()

	select {
	case <-ctx1.Done():
	case <-time.After(time.Second):
		t.Fatal("previous fetch context was not canceled")
	}
}

func TestLoadSupersededReturnsStale(t *testing.T) {
	t.Parallel()

	src := &blockingSource{started: make(chan struct{})}
	v := newTestManager(Config{}).Open("u1", "d1")

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = v.Load(context.Background(), src, "slow", "", "")
	}()

	<-src.started
	tbl, err := v.Load(context.Background(), src, "fast", "", "")
	if err != nil {
		t.Fatalf("Load(fast) error = %v", err)
	}
	wg.Wait()

	if !errors.Is(slowErr, ErrStale) {
		t.Errorf("Load(slow) err = %v, want ErrStale", slowErr)
	}
	if v.Table() != tbl || v.State().SourceID != "fast" {
		t.Error("the newer load must win")
	}
}

func TestLoadWrapsDataUnavailable(t *testing.T) {
	t.Parallel()

	fetchErr := &sheets.FetchError{Op: "fetch", SourceID: "x", Kind: sheets.ErrNotFound}
	src := &blockingSource{err: fetchErr}
	v := newTestManager(Config{}).Open("u1", "d1")

	_, err := v.Load(context.Background(), src, "x", "", "")
	if !errors.Is(err, chartdata.ErrDataUnavailable) || !errors.Is(err, sheets.ErrNotFound) {
		t.Errorf("Load() err = %v", err)
	}
	if v.State().Loaded {
		t.Error("failed load must not mark the view loaded")
	}
}

func TestLoadRateLimited(t *testing.T) {
	t.Parallel()

	m := newTestManager(Config{FetchRate: 0.001, FetchBurst: 1})
	src := &blockingSource{}
	v := m.Open("u1", "d1")

	if _, err := v.Load(context.Background(), src, "fast", "", ""); err != nil {
		t.Fatalf("first Load() = %v", err)
	}
	if _, err := v.Load(context.Background(), src, "fast", "", ""); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second Load() = %v, want ErrRateLimited", err)
	}
	// The limiter is per user, not per view.
	if _, err := m.Open("u1", "d2").Load(context.Background(), src, "fast", "", ""); !errors.Is(err, ErrRateLimited) {
		t.Errorf("other dashboard Load() = %v, want ErrRateLimited", err)
	}
	if _, err := m.Open("u2", "d1").Load(context.Background(), src, "fast", "", ""); err != nil {
		t.Errorf("other user Load() = %v", err)
	}
}

func TestSwitchAndClose(t *testing.T) {
	t.Parallel()

	v := newTestManager(Config{}).Open("u1", "d1")
	ticket, ctx, cancel := v.Begin(context.Background())
	defer cancel()

	v.Switch()
	if ctx.Err() == nil {
		t.Error("Switch must cancel the in-flight fetch")
	}
	if err := v.Commit(ticket, salesTable(), "a", ""); !errors.Is(err, ErrStale) {
		t.Errorf("Commit after Switch = %v, want ErrStale", err)
	}

	ticket, _, cancel = v.Begin(context.Background())
	defer cancel()
	if err := v.Commit(ticket, salesTable(), "a", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Charts().Add(chartdata.ChartSpec{Type: chartdata.ChartBar}); err != nil {
		t.Fatal(err)
	}

	v.Close()
	st := v.State()
	if st.Loaded || len(st.Charts) != 0 || !st.Empty {
		t.Errorf("State() after Close = %+v", st)
	}
}

func TestSwitchDiscardsPreviousSelection(t *testing.T) {
	t.Parallel()

	v := newTestManager(Config{}).Open("u1", "d1")
	if _, err := v.Load(context.Background(), &blockingSource{}, "old-source", "Sheet1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Charts().Add(chartdata.ChartSpec{Type: chartdata.ChartBar}); err != nil {
		t.Fatal(err)
	}

	v.Switch()
	st := v.State()
	if st.Loaded || st.SourceID != "" || st.Tab != "" || st.RowCount != 0 || len(st.Charts) != 0 {
		t.Errorf("State() after Switch = %+v", st)
	}
	if v.Table() != nil {
		t.Error("Table() after Switch should be nil")
	}
	if _, err := v.Render(context.Background(), chartdata.ViewSettings{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Render() after Switch = %v, want ErrNotLoaded", err)
	}

	if _, err := v.Load(context.Background(), &blockingSource{}, "new-source", "", ""); err != nil {
		t.Fatal(err)
	}
	if st := v.State(); !st.Loaded || st.SourceID != "new-source" {
		t.Errorf("State() after reload = %+v", st)
	}
}

func TestStateInfersKeysAndDefaults(t *testing.T) {
	t.Parallel()

	v := newTestManager(Config{}).Open("u1", "d1")
	if st := v.State(); st.Loaded || !st.Empty || len(st.Headers) != 0 {
		t.Errorf("fresh State() = %+v", st)
	}

	ticket, _, cancel := v.Begin(context.Background())
	defer cancel()
	if err := v.Commit(ticket, salesTable(), "sales", ""); err != nil {
		t.Fatal(err)
	}
	st := v.State()
	if st.XKey != "Month" || st.YKey != "Revenue" {
		t.Errorf("keys = %s/%s", st.XKey, st.YKey)
	}
	if st.Settings.ViewMode != chartdata.ViewAll || st.Settings.SampleSize != chartdata.DefaultSampleSize {
		t.Errorf("Settings = %+v", st.Settings)
	}
	if st.LoadedAt == nil || st.Version == "" {
		t.Error("loaded state must carry version and time")
	}
}

func TestRenderMemoizes(t *testing.T) {
	t.Parallel()

	c := cache.New("test-memo", time.Minute, 0)
	m := NewManager(Config{}, c)
	v := m.Open("u1", "d1")

	if _, err := v.Render(context.Background(), chartdata.ViewSettings{}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Render() before load = %v", err)
	}

	src := &blockingSource{}
	if _, err := v.Load(context.Background(), src, "sales", "", ""); err != nil {
		t.Fatal(err)
	}
	bar, _ := v.Charts().Add(chartdata.ChartSpec{Type: chartdata.ChartBar, Title: "Bars"})
	twin, _ := v.Charts().Add(chartdata.ChartSpec{Type: chartdata.ChartBar, Title: "Twin"})

	settings := chartdata.ViewSettings{ShowTrendline: true}
	first, err := v.Render(context.Background(), settings)
	if err != nil || len(first) != 2 {
		t.Fatalf("Render() = %v, %v", first, err)
	}
	if first[0].Spec.ID != bar.ID || first[1].Spec.ID != twin.ID || first[1].Spec.Title != "Twin" {
		t.Error("memoized result must carry its own spec")
	}
	if first[0].Trendline == nil {
		t.Error("bar chart with showTrendline should have a trendline")
	}
	hits := c.GetStats().Hits
	if hits != 1 {
		t.Errorf("identical bindings should share a memo entry, hits = %d", hits)
	}

	if _, err := v.Render(context.Background(), settings); err != nil {
		t.Fatal(err)
	}
	if got := c.GetStats().Hits; got != hits+2 {
		t.Errorf("second render hits = %d, want %d", got, hits+2)
	}

	v.Switch()
	if c.Len() != 0 {
		t.Errorf("Switch should drop memoized renders, Len() = %d", c.Len())
	}
}
