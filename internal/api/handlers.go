// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/sheetlens/internal/auth"
	"github.com/tomtom215/sheetlens/internal/config"
	"github.com/tomtom215/sheetlens/internal/models"
	"github.com/tomtom215/sheetlens/internal/session"
	"github.com/tomtom215/sheetlens/internal/sheets"
)

// DashboardStore persists dashboards scoped to their owner.
type DashboardStore interface {
	CreateDashboard(ctx context.Context, d *models.Dashboard) error
	ListDashboards(ctx context.Context, userID string) ([]models.Dashboard, error)
	GetDashboard(ctx context.Context, userID, id string) (*models.Dashboard, error)
	UpdateDashboard(ctx context.Context, userID, id string, in models.DashboardInput) (*models.Dashboard, error)
	DeleteDashboard(ctx context.Context, userID, id string) error
}

// Store is everything the handlers need from the database.
type Store interface {
	DashboardStore
	Ping(ctx context.Context) error
}

// SourceCatalog lists the workbooks available to open.
type SourceCatalog interface {
	Available() ([]string, error)
}

// BreakerStatus reports the state of the circuit breaker in front of the
// data source.
type BreakerStatus interface {
	State() string
}

// Deps are the collaborators of a Handler. Catalog and Breaker are optional.
type Deps struct {
	Config  *config.Config
	Store   Store
	Auth    *auth.Service
	Source  sheets.Source
	Views   *session.Manager
	Catalog SourceCatalog
	Breaker BreakerStatus
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness, readiness and health
//   - handlers_auth.go: register, login, logout, me
//   - handlers_dashboards.go: dashboard CRUD
//   - handlers_data.go: raw spreadsheet access
//   - handlers_view.go: per-dashboard views, table and charts
type Handler struct {
	cfg       *config.Config
	store     Store
	auth      *auth.Service
	source    sheets.Source
	views     *session.Manager
	catalog   SourceCatalog
	breaker   BreakerStatus
	startTime time.Time
}

// NewHandler creates the API handler. Config, Store, Auth, Source and Views
// are required.
func NewHandler(d Deps) (*Handler, error) {
	switch {
	case d.Config == nil:
		return nil, errors.New("api: config is required")
	case d.Store == nil:
		return nil, errors.New("api: store is required")
	case d.Auth == nil:
		return nil, errors.New("api: auth service is required")
	case d.Source == nil:
		return nil, errors.New("api: data source is required")
	case d.Views == nil:
		return nil, errors.New("api: view manager is required")
	}

	return &Handler{
		cfg:       d.Config,
		store:     d.Store,
		auth:      d.Auth,
		source:    d.Source,
		views:     d.Views,
		catalog:   d.Catalog,
		breaker:   d.Breaker,
		startTime: time.Now(),
	}, nil
}
