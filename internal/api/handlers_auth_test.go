// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/sheetlens/internal/auth"
	"github.com/tomtom215/sheetlens/internal/models"
	"github.com/tomtom215/sheetlens/internal/session"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "  Alice@Example.com ",
		"password": "secret123",
		"name":     "Alice",
	})
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decodeData(t, env, &resp)
	if resp.Token == "" || resp.User.Email != "alice@example.com" || resp.User.Name != "Alice" {
		t.Errorf("response = %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("password hash leaked into the response")
	}
	if c := rec.Result().Cookies(); len(c) != 1 || c[0].Name != auth.TokenCookie || !c[0].HttpOnly {
		t.Errorf("cookies = %+v", c)
	}

	rec, env = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "another1",
		"name":     "Alice Again",
	})
	if rec.Code != http.StatusBadRequest || env.Error.Message != "User already exists with this email" {
		t.Errorf("duplicate = %d %+v", rec.Code, env.Error)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	tests := []struct {
		name      string
		body      map[string]string
		wantField string
	}{
		{"short password", map[string]string{"email": "a@b.co", "password": "12345", "name": "A"}, "password"},
		{"bad email", map[string]string{"email": "nope", "password": "secret123", "name": "A"}, "email"},
		{"missing name", map[string]string{"email": "a@b.co", "password": "secret123"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"field":"`+tt.wantField+`"`) {
				t.Errorf("details should name %s: %s", tt.wantField, rec.Body.String())
			}
		})
	}
}

func TestRegisterRejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), msgInvalidJSON) {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})
	ts.register(t, "bob@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"ok", "bob@example.com", "secret123", http.StatusOK},
		{"case insensitive email", "BOB@example.com", "secret123", http.StatusOK},
		{"wrong password", "bob@example.com", "wrong-pass", http.StatusUnauthorized},
		{"unknown email", "eve@example.com", "secret123", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && env.Error.Message != "Invalid email or password" {
				t.Errorf("message = %q", env.Error.Message)
			}
			if tt.want == http.StatusOK {
				var resp models.AuthResponse
				decodeData(t, env, &resp)
				if resp.Token == "" || resp.User.Email != "bob@example.com" {
					t.Errorf("response = %+v", resp)
				}
			}
		})
	}
}

func TestMe(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})
	token, userID := ts.register(t, "carol@example.com")

	rec, env := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		User models.Principal `json:"user"`
	}
	decodeData(t, env, &body)
	if body.User.ID != userID || body.User.Email != "carol@example.com" {
		t.Errorf("me = %+v", body.User)
	}

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"no token", "", "Access denied. No token provided."},
		{"garbage token", "not-a-jwt", "Invalid token."},
	}
	for _, tt := range tests {
		rec, env := ts.do(t, http.MethodGet, "/api/v1/auth/me", tt.token, nil)
		if rec.Code != http.StatusUnauthorized || env.Error.Code != ErrCodeUnauthorized || env.Error.Message != tt.message {
			t.Errorf("%s: %d %+v", tt.name, rec.Code, env.Error)
		}
	}

	ts.store.removeUser(userID)
	rec, env = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized || env.Error.Message != "Invalid token. User not found." {
		t.Errorf("deleted user: %d %+v", rec.Code, env.Error)
	}
}

func TestTokenCookieAuthenticates(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, session.Config{})
	token, _ := ts.register(t, "dave@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: token})
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("cookie auth status = %d", rec.Code)
	}

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	cookies := rec.Result().Cookies()
	if rec.Code != http.StatusOK || len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("logout = %d, cookies %+v", rec.Code, cookies)
	}
}
