// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/sheetlens/internal/metrics"
	"github.com/tomtom215/sheetlens/internal/models"
)

const dashboardColumns = `id, user_id, title, description, source_id, tab_name, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDashboard(row rowScanner) (*models.Dashboard, error) {
	var d models.Dashboard
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &d.SourceID, &d.TabName, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// recordQuery reports a query to metrics. ErrNotFound is an answer, not a
// failure.
func recordQuery(op, table string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordDBQuery(op, table, time.Since(start), err)
}

// CreateDashboard inserts a dashboard for d.UserID. ID and timestamps are
// assigned here.
func (db *DB) CreateDashboard(ctx context.Context, d *models.Dashboard) (err error) {
	defer func(start time.Time) { recordQuery("insert", "dashboards", start, err) }(time.Now())

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = db.timestamp()
	d.UpdatedAt = d.CreatedAt

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO dashboards (`+dashboardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Title, d.Description, d.SourceID, d.TabName, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}
	return nil
}

// ListDashboards returns the user's dashboards, newest first.
func (db *DB) ListDashboards(ctx context.Context, userID string) (list []models.Dashboard, err error) {
	defer func(start time.Time) { recordQuery("select", "dashboards", start, err) }(time.Now())

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+dashboardColumns+` FROM dashboards WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	defer closeWithLog(rows, "dashboard rows")

	list = make([]models.Dashboard, 0)
	for rows.Next() {
		d, err := scanDashboard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dashboard: %w", err)
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboards: %w", err)
	}
	return list, nil
}

// GetDashboard returns the dashboard if it exists and belongs to userID.
func (db *DB) GetDashboard(ctx context.Context, userID, id string) (d *models.Dashboard, err error) {
	defer func(start time.Time) { recordQuery("select", "dashboards", start, err) }(time.Now())

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	d, err = scanDashboard(db.conn.QueryRowContext(ctx,
		`SELECT `+dashboardColumns+` FROM dashboards WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}
	return d, nil
}

// UpdateDashboard replaces the editable fields of a dashboard owned by
// userID and returns the stored result.
func (db *DB) UpdateDashboard(ctx context.Context, userID, id string, in models.DashboardInput) (d *models.Dashboard, err error) {
	start := time.Now()
	defer func() { recordQuery("update", "dashboards", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE dashboards SET title = ?, description = ?, source_id = ?, tab_name = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		in.Title, in.Description, in.SourceID, in.TabName, db.timestamp(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update dashboard: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	d, err = scanDashboard(db.conn.QueryRowContext(ctx,
		`SELECT `+dashboardColumns+` FROM dashboards WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload dashboard: %w", err)
	}
	return d, nil
}

// DeleteDashboard removes a dashboard owned by userID.
func (db *DB) DeleteDashboard(ctx context.Context, userID, id string) (err error) {
	defer func(start time.Time) { recordQuery("delete", "dashboards", start, err) }(time.Now())

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM dashboards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
