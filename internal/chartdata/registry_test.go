// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import (
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

func salesTable() *dataset.Table {
	return dataset.FromRecords([]string{"Product", "Sales", "Region"}, []map[string]string{
		{"Product": "X", "Sales": "10", "Region": "North"},
		{"Product": "Y", "Sales": "20", "Region": "South"},
	})
}

func TestRegistryAddDefaults(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Bind(salesTable())

	first, err := r.Add(ChartSpec{})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if first.ID == "" || first.Title != "Chart 1" || first.Type != ChartBar {
		t.Errorf("unexpected defaults %+v", first)
	}
	if first.XKey != "Product" || first.YKey != "Sales" || first.ZKey != "" {
		t.Errorf("keys = %s/%s/%s", first.XKey, first.YKey, first.ZKey)
	}

	bubble, err := r.Add(ChartSpec{Type: ChartBubble, Title: "Bubbles"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if bubble.Title != "Bubbles" || bubble.ZKey != "Region" {
		t.Errorf("bubble = %+v", bubble)
	}
	if bubble.ID == first.ID {
		t.Error("ids must be unique")
	}

	if _, err := r.Add(ChartSpec{Type: "radar"}); !errors.Is(err, ErrInvalidChartType) {
		t.Errorf("Add(radar) err = %v, want ErrInvalidChartType", err)
	}
}

func TestRegistryDefaultTitlesNeverRepeat(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Bind(salesTable())

	first, _ := r.Add(ChartSpec{})
	second, _ := r.Add(ChartSpec{})
	if err := r.Remove(first.ID); err != nil {
		t.Fatal(err)
	}
	third, _ := r.Add(ChartSpec{})
	if third.Title != "Chart 3" || third.Title == second.Title {
		t.Errorf("titles after remove = %q, %q", second.Title, third.Title)
	}

	r.Bind(monthTable())
	if fresh, _ := r.Add(ChartSpec{}); fresh.Title != "Chart 1" {
		t.Errorf("title after rebinding = %q, want Chart 1", fresh.Title)
	}
}

func TestRegistryAddWithoutDataset(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	spec, err := r.Add(ChartSpec{Type: ChartLine})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if spec.XKey != "" || spec.YKey != "" {
		t.Errorf("unbound registry should leave keys empty, got %+v", spec)
	}
}

func TestRegistryUpdateRemoveOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Bind(salesTable())

	a, _ := r.Add(ChartSpec{Title: "a"})
	b, _ := r.Add(ChartSpec{Title: "b"})
	c, _ := r.Add(ChartSpec{Title: "c"})

	updated, err := r.Update(b.ID, ChartSpec{ID: "ignored", Title: "b2", Type: ChartPie, XKey: "Region", YKey: "Sales"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != b.ID {
		t.Errorf("Update() changed id to %s", updated.ID)
	}

	list := r.List()
	if len(list) != 3 || list[1].Title != "b2" || list[1].Type != ChartPie {
		t.Fatalf("update did not keep position: %+v", list)
	}

	if err := r.Remove(a.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	list = r.List()
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != c.ID {
		t.Errorf("unexpected order after remove: %+v", list)
	}

	if err := r.Remove(a.ID); !errors.Is(err, ErrChartNotFound) {
		t.Errorf("second Remove() err = %v", err)
	}
	if _, err := r.Update("missing", ChartSpec{}); !errors.Is(err, ErrChartNotFound) {
		t.Errorf("Update(missing) err = %v", err)
	}
	if _, ok := r.Get(c.ID); !ok {
		t.Error("Get() should find existing chart")
	}
}

func TestRegistryBindClears(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	tbl := salesTable()
	r.Bind(tbl)
	_, _ = r.Add(ChartSpec{})

	r.Bind(tbl)
	if r.Len() != 1 {
		t.Error("rebinding the same dataset must keep charts")
	}

	r.Bind(monthTable())
	if r.Len() != 0 {
		t.Error("binding a new dataset must clear charts")
	}
	spec, _ := r.Add(ChartSpec{})
	if spec.XKey != "Month" || spec.Title != "Chart 1" {
		t.Errorf("defaults should follow the new dataset, got %+v", spec)
	}

	r.Bind(nil)
	if r.Len() != 0 || r.BoundVersion() != "" {
		t.Error("Bind(nil) must clear and detach")
	}
}

func TestRegistryListIsCopy(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, _ = r.Add(ChartSpec{Title: "x"})
	list := r.List()
	list[0].Title = "mutated"
	if r.List()[0].Title != "x" {
		t.Error("List() must return a copy")
	}
}

func TestRegistryConcurrentAdd(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Bind(salesTable())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Add(ChartSpec{})
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, s := range r.List() {
		if seen[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seen[s.ID] = true
	}
	if len(seen) != 50 {
		t.Errorf("got %d charts, want 50", len(seen))
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	cat := Catalog()
	if len(cat) != 10 {
		t.Fatalf("catalog has %d types, want 10", len(cat))
	}
	geometric := 0
	for _, info := range cat {
		if info.Type.Geometric() != info.Geometric {
			t.Errorf("%s geometric mismatch", info.Type)
		}
		if info.Geometric {
			geometric++
		}
	}
	if geometric != 4 {
		t.Errorf("got %d geometric types, want 4", geometric)
	}
	if _, err := ParseChartType("heatmap"); err != nil {
		t.Errorf("ParseChartType(heatmap) error = %v", err)
	}
	if _, err := ParseChartType("gantt"); !errors.Is(err, ErrInvalidChartType) {
		t.Errorf("ParseChartType(gantt) err = %v", err)
	}
}
