// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/sheetlens/internal/models"
	"github.com/tomtom215/sheetlens/internal/session"
)

func TestDashboardsRequireAuth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	for _, path := range []string{"/api/v1/dashboards", "/api/v1/data/sources", "/api/v1/dashboards/x/view"} {
		rec, env := ts.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized || env.Error.Code != ErrCodeUnauthorized {
			t.Errorf("%s: %d %+v", path, rec.Code, env.Error)
		}
	}
}

func TestDashboardCRUD(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})
	token, userID := ts.register(t, "owner@example.com")

	var list []models.Dashboard
	rec, env := ts.do(t, http.MethodGet, "/api/v1/dashboards", token, nil)
	decodeData(t, env, &list)
	if rec.Code != http.StatusOK || list == nil || len(list) != 0 {
		t.Fatalf("empty list = %d %s", rec.Code, env.Data)
	}

	first := ts.createDashboard(t, token, "demo-sales")
	second := ts.createDashboard(t, token, "demo-users")
	if first.UserID != userID || first.SourceID != "demo-sales" || first.ID == "" {
		t.Errorf("created = %+v", first)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/dashboards", token, nil)
	decodeData(t, env, &list)
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("list should be newest first: %+v", list)
	}

	var got models.Dashboard
	rec, env = ts.do(t, http.MethodGet, "/api/v1/dashboards/"+first.ID, token, nil)
	decodeData(t, env, &got)
	if rec.Code != http.StatusOK || got.Title != first.Title {
		t.Errorf("get = %d %+v", rec.Code, got)
	}

	rec, env = ts.do(t, http.MethodPut, "/api/v1/dashboards/"+first.ID, token, map[string]string{
		"title":       " Renamed ",
		"description": "quarterly",
		"sourceId":    "demo-financial",
		"tabName":     "Financials",
	})
	decodeData(t, env, &got)
	if rec.Code != http.StatusOK || got.Title != "Renamed" || got.SourceID != "demo-financial" || got.TabName != "Financials" {
		t.Errorf("update = %d %+v", rec.Code, got)
	}

	rec, env = ts.do(t, http.MethodDelete, "/api/v1/dashboards/"+first.ID, token, nil)
	var msg map[string]string
	decodeData(t, env, &msg)
	if rec.Code != http.StatusOK || msg["message"] != "Dashboard deleted successfully" {
		t.Errorf("delete = %d %v", rec.Code, msg)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/dashboards/"+first.ID, token, nil)
	if rec.Code != http.StatusNotFound || env.Error.Message != msgDashboardNotFound {
		t.Errorf("get deleted = %d %+v", rec.Code, env.Error)
	}
}

func TestDashboardCreateValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})
	token, _ := ts.register(t, "v@example.com")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing title", map[string]string{"sourceId": "demo-sales"}},
		{"blank title", map[string]string{"title": "   ", "sourceId": "demo-sales"}},
		{"missing source", map[string]string{"title": "T"}},
		{"path traversal source", map[string]string{"title": "T", "sourceId": "../etc/passwd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodPost, "/api/v1/dashboards", token, tt.body)
			if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
				t.Errorf("status = %d, error %+v", rec.Code, env.Error)
			}
		})
	}
}

func TestDashboardsAreScopedToOwner(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})
	ownerToken, _ := ts.register(t, "owner@example.com")
	otherToken, _ := ts.register(t, "other@example.com")
	d := ts.createDashboard(t, ownerToken, "demo-sales")

	checks := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/v1/dashboards/" + d.ID, nil},
		{http.MethodPut, "/api/v1/dashboards/" + d.ID, map[string]string{"title": "mine", "sourceId": "demo-sales"}},
		{http.MethodDelete, "/api/v1/dashboards/" + d.ID, nil},
		{http.MethodGet, "/api/v1/dashboards/" + d.ID + "/view", nil},
		{http.MethodPost, "/api/v1/dashboards/" + d.ID + "/view/load", nil},
	}
	for _, c := range checks {
		rec, env := ts.do(t, c.method, c.path, otherToken, c.body)
		if rec.Code != http.StatusNotFound || env.Error.Message != msgDashboardNotFound {
			t.Errorf("%s %s as other user = %d %+v", c.method, c.path, rec.Code, env.Error)
		}
	}

	var list []models.Dashboard
	_, env := ts.do(t, http.MethodGet, "/api/v1/dashboards", otherToken, nil)
	decodeData(t, env, &list)
	if len(list) != 0 {
		t.Errorf("other user sees %d dashboards", len(list))
	}
}
