// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

// Package models provides the persisted records and request payloads shared
// by the database and API layers.
//
// Request payloads carry go-playground/validator tags and are checked by
// internal/validation before any handler touches the database. Records never
// expose secrets over JSON: User.PasswordHash is tagged json:"-".
package models
