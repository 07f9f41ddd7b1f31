// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/sheetlens/internal/auth"
	"github.com/tomtom215/sheetlens/internal/cache"
	"github.com/tomtom215/sheetlens/internal/config"
	"github.com/tomtom215/sheetlens/internal/database"
	"github.com/tomtom215/sheetlens/internal/dataset"
	"github.com/tomtom215/sheetlens/internal/models"
	"github.com/tomtom215/sheetlens/internal/session"
	"github.com/tomtom215/sheetlens/internal/sheets"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_purposes_12345"

// memStore is an in-memory user and dashboard store.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	dashboards map[string]*models.Dashboard
	clock      time.Time
	pingErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		dashboards: map[string]*models.Dashboard{},
		clock:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

func (s *memStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return database.ErrEmailTaken
		}
	}
	u.ID = uuid.New().String()
	u.CreatedAt = s.tick()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) removeUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *memStore) CreateDashboard(_ context.Context, d *models.Dashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = uuid.New().String()
	d.CreatedAt = s.tick()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	s.dashboards[d.ID] = &cp
	return nil
}

func (s *memStore) ListDashboards(_ context.Context, userID string) ([]models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.Dashboard{}
	for _, d := range s.dashboards {
		if d.UserID == userID {
			list = append(list, *d)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *memStore) GetDashboard(_ context.Context, userID, id string) (*models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dashboards[id]
	if !ok || d.UserID != userID {
		return nil, database.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *memStore) UpdateDashboard(_ context.Context, userID, id string, in models.DashboardInput) (*models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dashboards[id]
	if !ok || d.UserID != userID {
		return nil, database.ErrNotFound
	}
	in.Apply(d)
	d.UpdatedAt = s.tick()
	cp := *d
	return &cp, nil
}

func (s *memStore) DeleteDashboard(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dashboards[id]
	if !ok || d.UserID != userID {
		return database.ErrNotFound
	}
	delete(s.dashboards, id)
	return nil
}

// gatedSource serves a fixed table. While hold is set, every fetch blocks
// until its context ends.
type gatedSource struct {
	hold    atomic.Bool
	started chan struct{}
	calls   atomic.Int32
	err     error
}

func newGatedSource() *gatedSource {
	return &gatedSource{started: make(chan struct{}, 16)}
}

func (s *gatedSource) Fetch(ctx context.Context, sourceID, _, _ string) (*dataset.Table, error) {
	s.calls.Add(1)
	if s.hold.Load() {
		s.started <- struct{}{}
		<-ctx.Done()
		return nil, &sheets.FetchError{Op: "fetch", SourceID: sourceID, Kind: sheets.ErrFetch, Err: ctx.Err()}
	}
	if s.err != nil {
		return nil, s.err
	}
	return dataset.New(
		[]string{"Month", "Revenue"},
		[][]string{{"Jan", "100"}, {"Feb", "200"}, {"Mar", "300"}},
	), nil
}

func (s *gatedSource) ListTabs(_ context.Context, sourceID string) (*sheets.SheetInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &sheets.SheetInfo{Title: sourceID, Tabs: []sheets.Tab{{ID: 0, Title: "Data", Index: 0}}}, nil
}

func (s *gatedSource) Available() ([]string, error) {
	return []string{"gated"}, nil
}

type testServer struct {
	router http.Handler
	store  *memStore
	source *gatedSource
	views  *session.Manager
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Security: config.SecurityConfig{
			JWTSecret:         testSecret,
			SessionTimeout:    time.Hour,
			BcryptCost:        4,
			RateLimitDisabled: true,
		},
		Sheets: config.SheetsConfig{
			DefaultRange: sheets.DefaultRange,
			DemoEnabled:  true,
		},
		Charts: config.ChartsConfig{DefaultSampleSize: 100, TablePageSize: 25},
	}
}

func newTestServer(t *testing.T, viewCfg session.Config) *testServer {
	t.Helper()

	cfg := testConfig()
	store := newMemStore()
	src := newGatedSource()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	authSvc, err := auth.NewService(store, jwtManager, cfg.Security.BcryptCost)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	views := session.NewManager(viewCfg, cache.New("render-test", time.Minute, 100))

	h, err := NewHandler(Deps{
		Config:  cfg,
		Store:   store,
		Auth:    authSvc,
		Source:  sheets.NewMux(sheets.NewDemoSource(), src),
		Views:   views,
		Catalog: src,
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	return &testServer{
		router: NewRouter(h, auth.NewMiddleware(jwtManager, store, WriteAuthError)),
		store:  store,
		source: src,
		views:  views,
	}
}

// envelope is the decoded API response.
type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Error    *APIError       `json:"error"`
	Metadata *APIMeta        `json:"metadata"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v\n%s", method, path, err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

// register creates a user and returns its token and id.
func (ts *testServer) register(t *testing.T, email string) (token, userID string) {
	t.Helper()
	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decodeData(t, env, &resp)
	return resp.Token, resp.User.ID
}

// createDashboard creates a dashboard for the token's user and returns it.
func (ts *testServer) createDashboard(t *testing.T, token, sourceID string) models.Dashboard {
	t.Helper()
	rec, env := ts.do(t, http.MethodPost, "/api/v1/dashboards", token, map[string]string{
		"title":    "Dashboard " + sourceID,
		"sourceId": sourceID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create dashboard status = %d, body %s", rec.Code, rec.Body.String())
	}
	var d models.Dashboard
	decodeData(t, env, &d)
	return d
}

func TestNewHandlerRequiresDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Deps{}); err == nil {
		t.Error("NewHandler(Deps{}) should fail")
	}
	if _, err := NewHandler(Deps{Config: testConfig(), Store: newMemStore()}); err == nil {
		t.Error("NewHandler without auth should fail")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	rec, env := ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("health status = %d", rec.Code)
	}
	var health HealthStatus
	decodeData(t, env, &health)
	if health.Status != "OK" || !health.DatabaseConnected {
		t.Errorf("health = %+v", health)
	}
	if env.Metadata == nil || env.Metadata.RequestID == "" {
		t.Error("metadata should carry the request id")
	}

	ts.store.mu.Lock()
	ts.store.pingErr = errors.New("disk gone")
	ts.store.mu.Unlock()

	_, env = ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	decodeData(t, env, &health)
	if health.Status != "degraded" || health.DatabaseConnected {
		t.Errorf("degraded health = %+v", health)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/health/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeUnavailable {
		t.Errorf("ready status = %d, error %+v", rec.Code, env.Error)
	}
	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/health/live", "", nil); rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	rec, env := ts.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route = %d %+v", rec.Code, env.Error)
	}
	rec, env = ts.do(t, http.MethodPatch, "/api/v1/health", "", nil)
	if rec.Code != http.StatusMethodNotAllowed || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("wrong method = %d %+v", rec.Code, env.Error)
	}
}

func TestChartTypesIsPublic(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	rec, env := ts.do(t, http.MethodGet, "/api/v1/charts/types", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var catalog ChartCatalog
	decodeData(t, env, &catalog)
	if len(catalog.Types) != 10 || catalog.Types[0].Type != "bar" {
		t.Errorf("types = %+v", catalog.Types)
	}
	if len(catalog.ViewModes) != 3 || len(catalog.AggregateFunctions) != 5 {
		t.Errorf("catalog = %+v", catalog)
	}
}

func TestSecurityHeadersOnAPI(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("headers = %v", rec.Header())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}
