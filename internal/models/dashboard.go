// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package models

import (
	"strings"
	"time"
)

// Dashboard binds a spreadsheet source to its owner. Chart configurations
// are not persisted; they live in the dashboard's view.
type Dashboard struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SourceID    string    `json:"sourceId"`
	TabName     string    `json:"tabName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DashboardInput is the body of dashboard create and update requests.
// Update replaces every field.
type DashboardInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	SourceID    string `json:"sourceId" validate:"required,max=128,sourceid"`
	TabName     string `json:"tabName" validate:"max=128"`
}

// Normalize trims surrounding whitespace from every field.
func (in *DashboardInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.SourceID = strings.TrimSpace(in.SourceID)
	in.TabName = strings.TrimSpace(in.TabName)
}

// Apply copies the input onto d.
func (in DashboardInput) Apply(d *Dashboard) {
	d.Title = in.Title
	d.Description = in.Description
	d.SourceID = in.SourceID
	d.TabName = in.TabName
}
