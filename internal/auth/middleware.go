// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/models"
)

type contextKey string

// PrincipalContextKey holds the *models.Principal of an authenticated request.
const PrincipalContextKey contextKey = "principal"

// TokenCookie is the cookie read when no Authorization header is sent.
const TokenCookie = "token"

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware authenticates requests with bearer tokens.
type Middleware struct {
	jwt     *JWTManager
	users   UserStore
	onError ErrorWriter
}

// NewMiddleware creates the authentication middleware. A nil onError falls
// back to http.Error.
func NewMiddleware(jwtManager *JWTManager, users UserStore, onError ErrorWriter) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{jwt: jwtManager, users: users, onError: onError}
}

// Authenticate rejects requests without a valid token for an existing user
// and stores the Principal in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			m.onError(w, r, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.LogAuth(r.Context(), logging.AuthTokenInvalid, "", ClientIP(r), err.Error())
			m.onError(w, r, http.StatusUnauthorized, "Invalid token.")
			return
		}

		principal, err := lookupPrincipal(r.Context(), m.users, claims.UserID)
		if errors.Is(err, ErrUnknownUser) {
			logging.LogAuth(r.Context(), logging.AuthTokenInvalid, claims.Email, ClientIP(r), "user not found")
			m.onError(w, r, http.StatusUnauthorized, "Invalid token. User not found.")
			return
		}
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authentication lookup failed")
			m.onError(w, r, http.StatusInternalServerError, "Authentication service error.")
			return
		}

		ctx := ContextWithPrincipal(r.Context(), principal)
		ctx = logging.ContextWithUserID(ctx, principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads "Authorization: Bearer <token>" (scheme is
// case-insensitive) or the token cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(TokenCookie)
		if err != nil || cookie.Value == "" {
			return "", errors.New("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// ContextWithPrincipal stores p in ctx.
func ContextWithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(*models.Principal)
	return p, ok && p != nil
}

// ClientIP returns the host part of RemoteAddr. Proxy headers are resolved
// earlier by chi's RealIP middleware.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders adds security headers to all responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The API serves JSON only; nothing may be framed, scripted or embedded.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.Header.Get("X-Forwarded-Proto") == "https" || r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}
