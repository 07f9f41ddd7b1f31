// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package sheets

import (
	"context"
	"regexp"
	"strings"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

// DefaultRange is read when a fetch does not name a range.
const DefaultRange = "A1:Z1000"

// Tab is one sheet within a source.
type Tab struct {
	ID    int    `json:"sheetId"`
	Title string `json:"title"`
	Index int    `json:"index"`
}

// SheetInfo lists the tabs of a source. An empty Tabs slice means there is
// nothing to select.
type SheetInfo struct {
	Title string `json:"title"`
	Tabs  []Tab  `json:"sheets"`
}

// Source turns a tabular resource into a dataset.
//
// Fetch reads sheetName (the first tab when empty) restricted to rangeRef
// (DefaultRange when empty). The first row of the range becomes the headers.
// An empty result is a valid, empty table. Failures are *FetchError values
// whose Kind is ErrNotFound, ErrPermissionDenied, ErrInvalidRange or ErrFetch.
type Source interface {
	Fetch(ctx context.Context, sourceID, sheetName, rangeRef string) (*dataset.Table, error)
	ListTabs(ctx context.Context, sourceID string) (*SheetInfo, error)
}

// ConnectionStatus is the result of TestConnection.
type ConnectionStatus struct {
	SourceID string `json:"sourceId"`
	Title    string `json:"title"`
	Tabs     int    `json:"tabs"`
}

// TestConnection checks that sourceID can be opened by listing its tabs.
func TestConnection(ctx context.Context, src Source, sourceID string) (*ConnectionStatus, error) {
	info, err := src.ListTabs(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return &ConnectionStatus{SourceID: sourceID, Title: info.Title, Tabs: len(info.Tabs)}, nil
}

var sourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ValidSourceID reports whether id is safe to use as a source identifier.
func ValidSourceID(id string) bool {
	return sourceIDPattern.MatchString(id) && !strings.Contains(id, "..")
}
