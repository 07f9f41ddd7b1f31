// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/models"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	resp, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.io", Password: "secret1", Name: "A"}, "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	gone, err := svc.Register(ctx, models.RegisterRequest{Email: "gone@b.io", Password: "secret1", Name: "G"}, "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	store.remove(gone.User.ID)

	mw := NewMiddleware(svc.jwt, store, func(w http.ResponseWriter, _ *http.Request, code int, _ string) {
		w.WriteHeader(code)
	})

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok || p.ID != resp.User.ID {
			t.Errorf("principal = %+v, %v", p, ok)
		}
		if logging.UserIDFromContext(r.Context()) != resp.User.ID {
			t.Error("user id missing from logging context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"bearer", "Bearer " + resp.Token, "", http.StatusNoContent},
		{"lowercase scheme", "bearer " + resp.Token, "", http.StatusNoContent},
		{"cookie", "", resp.Token, http.StatusNoContent},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + resp.Token, "", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", "", http.StatusUnauthorized},
		{"invalid token", "Bearer abc.def.ghi", "", http.StatusUnauthorized},
		{"deleted user", "Bearer " + gone.Token, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthenticateStoreFailure(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	resp, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@b.io", Password: "secret1", Name: "A"}, "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	store.failing = errors.New("db down")

	handler := NewMiddleware(svc.jwt, store, nil).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	h.ServeHTTP(rec, req)

	for _, header := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Strict-Transport-Security"} {
		if rec.Header().Get(header) == "" {
			t.Errorf("missing %s", header)
		}
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	if got := ClientIP(req); got != "192.0.2.7" {
		t.Errorf("ClientIP() = %q", got)
	}
	req.RemoteAddr = "192.0.2.8"
	if got := ClientIP(req); got != "192.0.2.8" {
		t.Errorf("ClientIP() without port = %q", got)
	}
}
