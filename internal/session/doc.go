// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

// Package session holds per-dashboard view state for signed-in users.
//
// Every load takes a ticket from the view's generation counter. Starting a
// new load cancels the previous one, and a completion whose ticket is no
// longer current is dropped with ErrStale, so a slow fetch can never
// overwrite the result of a newer one. Switching tabs or closing the view
// advances the generation the same way.
package session
