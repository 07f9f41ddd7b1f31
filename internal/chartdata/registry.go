// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package chartdata

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

// Registry is an ordered collection of chart specs bound to one dataset.
//
// Insertion order is display order. Binding a different dataset clears the
// registry so no spec keeps referencing headers from a previous dataset.
// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	specs   []ChartSpec
	headers []string
	version string
	added   int
	newID   func() string
}

// NewRegistry creates an empty registry with no bound dataset.
func NewRegistry() *Registry {
	return &Registry{
		specs: []ChartSpec{},
		newID: func() string { return uuid.New().String() },
	}
}

// Bind attaches the registry to t. When t differs from the currently bound
// dataset every spec is removed. Binding nil detaches and clears.
func (r *Registry) Bind(t *dataset.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t == nil {
		r.specs = []ChartSpec{}
		r.headers = nil
		r.version = ""
		r.added = 0
		return
	}
	if t.Version() == r.version {
		return
	}
	r.specs = []ChartSpec{}
	r.added = 0
	r.headers = t.Headers()
	r.version = t.Version()
}

// BoundVersion returns the version of the bound dataset, or "".
func (r *Registry) BoundVersion() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Add appends spec with a fresh id. Empty fields take defaults from the bound
// dataset: title "Chart N" where N counts every chart added since the last
// bind, type bar, x = first header, y = second header,
// and z = third header for bubble charts.
func (r *Registry) Add(spec ChartSpec) (ChartSpec, error) {
	if spec.Type == "" {
		spec.Type = ChartBar
	}
	if !spec.Type.Valid() {
		return ChartSpec{}, fmt.Errorf("%w: %q", ErrInvalidChartType, spec.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	spec.ID = r.newID()
	if spec.Title == "" {
		spec.Title = fmt.Sprintf("Chart %d", r.added+1)
	}
	if spec.XKey == "" {
		spec.XKey = headerAt(r.headers, 0)
	}
	if spec.YKey == "" {
		spec.YKey = headerAt(r.headers, 1)
	}
	if spec.ZKey == "" && spec.Type == ChartBubble {
		spec.ZKey = headerAt(r.headers, 2)
	}

	r.specs = append(r.specs, spec)
	r.added++
	return spec, nil
}

// Update replaces the spec with the given id, keeping its position and id.
func (r *Registry) Update(id string, spec ChartSpec) (ChartSpec, error) {
	if spec.Type == "" {
		spec.Type = ChartBar
	}
	if !spec.Type.Valid() {
		return ChartSpec{}, fmt.Errorf("%w: %q", ErrInvalidChartType, spec.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.specs {
		if r.specs[i].ID == id {
			spec.ID = id
			r.specs[i] = spec
			return spec, nil
		}
	}
	return ChartSpec{}, fmt.Errorf("%w: %s", ErrChartNotFound, id)
}

// Remove deletes the spec with the given id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.specs {
		if r.specs[i].ID == id {
			r.specs = append(r.specs[:i], r.specs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrChartNotFound, id)
}

// Get returns the spec with the given id.
func (r *Registry) Get(id string) (ChartSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.specs {
		if s.ID == id {
			return s, true
		}
	}
	return ChartSpec{}, false
}

// List returns a copy of the specs in display order.
func (r *Registry) List() []ChartSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ChartSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Len returns the number of specs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}

func headerAt(headers []string, i int) string {
	if i < len(headers) {
		return headers[i]
	}
	return ""
}
