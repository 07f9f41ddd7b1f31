// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/sheetlens/internal/auth"
	"github.com/tomtom215/sheetlens/internal/models"
)

// Register creates an account and signs the user in.
//
// POST /api/v1/auth/register {email, password, name}
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(msgInvalidJSON)
		return
	}
	req.Normalize()
	if !validateRequest(w, r, &req) {
		return
	}

	resp, err := h.auth.Register(r.Context(), req, auth.ClientIP(r))
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		NewResponseWriter(w, r).BadRequest("User already exists with this email")
		return
	case errors.Is(err, auth.ErrPasswordTooLong):
		NewResponseWriter(w, r).BadRequest("Password must be at most 72 bytes")
		return
	case err != nil:
		writeServiceError(w, r, err, "")
		return
	}

	h.setTokenCookie(w, r, resp.Token, resp.ExpiresAt)
	NewResponseWriter(w, r).Created(resp)
}

// Login verifies credentials and returns a fresh token.
//
// POST /api/v1/auth/login {email, password}
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(msgInvalidJSON)
		return
	}
	req.Email = models.NormalizeEmail(req.Email)
	if !validateRequest(w, r, &req) {
		return
	}

	resp, err := h.auth.Login(r.Context(), req, auth.ClientIP(r))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		NewResponseWriter(w, r).Unauthorized("Invalid email or password")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	h.setTokenCookie(w, r, resp.Token, resp.ExpiresAt)
	WriteSuccess(w, r, resp)
}

// Logout clears the token cookie. Bearer tokens stay valid until they
// expire; clients drop them.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	WriteSuccess(w, r, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, map[string]interface{}{"user": p})
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil || h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
