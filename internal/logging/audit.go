// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package logging

import (
	"context"
	"strings"
)

// AuthEvent names an authentication outcome written to the audit stream.
type AuthEvent string

const (
	AuthRegister     AuthEvent = "auth.register"
	AuthLoginSuccess AuthEvent = "auth.login.success"
	AuthLoginFailure AuthEvent = "auth.login.failure"
	AuthTokenInvalid AuthEvent = "auth.token.invalid"
)

// LogAuth writes an authentication event. Emails are masked.
func LogAuth(ctx context.Context, event AuthEvent, email, ip, reason string) {
	e := Ctx(ctx).Info()
	if event == AuthLoginFailure || event == AuthTokenInvalid {
		e = Ctx(ctx).Warn()
	}
	e = e.Str("event", string(event)).Str("ip", ip)
	if email != "" {
		e = e.Str("email", SanitizeEmail(email))
	}
	if reason != "" {
		e = e.Str("reason", reason)
	}
	e.Msg("Auth event")
}

// SanitizeToken masks a token, keeping the first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail masks the local part of an address:
// "john.doe@example.com" becomes "jo***@example.com".
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}
