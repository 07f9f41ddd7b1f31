// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package sheets

import (
	"context"
	"errors"
	"fmt"
)

// Failure kinds reported by a Source. Match with errors.Is.
var (
	ErrNotFound         = errors.New("source not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidRange     = errors.New("invalid range")
	ErrFetch            = errors.New("fetch failed")
)

// FetchError describes a failed source operation. Kind is one of the
// package sentinels; Err is the underlying cause, if any.
type FetchError struct {
	Op       string
	SourceID string
	Kind     error
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sheets: %s %q: %v", e.Op, e.SourceID, e.Kind)
	}
	return fmt.Sprintf("sheets: %s %q: %v: %v", e.Op, e.SourceID, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, sourceID string, kind, err error) *FetchError {
	return &FetchError{Op: op, SourceID: sourceID, Kind: kind, Err: err}
}

// Kind classifies err into a short label for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "fetch_error"
	}
}

// clientError reports whether err was caused by the request rather than the
// source being unhealthy. Client errors do not count against the breaker.
func clientError(err error) bool {
	switch Kind(err) {
	case "not_found", "permission_denied", "invalid_range", "canceled":
		return true
	}
	return false
}
