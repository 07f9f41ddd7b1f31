// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

/*
Package auth provides local email/password identity for the API.

Key Components:

  - HashPassword / CheckPassword: bcrypt with a configurable cost
  - JWTManager: HS256 token issuance and validation (golang-jwt/jwt/v5)
  - Service: register, login and principal lookup over a UserStore
  - Middleware: bearer-token (or "token" cookie) authentication that puts the
    Principal into the request context
  - SecurityHeaders: response hardening headers for the JSON API

Tokens carry the user id and email and expire after SESSION_TIMEOUT
(default 7 days). Every authenticated request re-reads the user so a token
for a deleted account is rejected.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	svc := auth.NewService(db, jwtManager, cfg.Security.BcryptCost)
	mw := auth.NewMiddleware(jwtManager, db, nil)
	r.With(mw.Authenticate).Get("/api/v1/auth/me", handler.Me)
*/
package auth
