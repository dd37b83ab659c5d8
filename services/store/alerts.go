// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"fmt"
	"time"
)

// CreateAlert files an alert against a supplier.
func (s *Store) CreateAlert(ctx context.Context, a *Alert) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (supplier_id, alert_type, severity, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.SupplierID, a.AlertType, a.Severity, a.Message, now)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.CreatedAt = now
	return nil
}

// ListAlerts returns all alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context) ([]Alert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, supplier_id, alert_type, severity, message, created_at
		FROM alerts ORDER BY id DESC`)
}

// AlertsByCompany returns alerts for every supplier mapped to a company.
func (s *Store) AlertsByCompany(ctx context.Context, companyID int64) ([]Alert, error) {
	return s.queryAlerts(ctx, `
		SELECT a.id, a.supplier_id, a.alert_type, a.severity, a.message, a.created_at
		FROM alerts a
		WHERE a.supplier_id IN (
			SELECT DISTINCT supplier_id FROM company_supplier_mappings WHERE company_id = ?
		)
		ORDER BY a.id DESC`, companyID)
}

// AlertsAfter returns alerts with an id greater than afterID, in ascending
// order. The websocket feed polls with this to stream new alerts.
func (s *Store) AlertsAfter(ctx context.Context, afterID int64) ([]Alert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, supplier_id, alert_type, severity, message, created_at
		FROM alerts WHERE id > ? ORDER BY id`, afterID)
}

// DeleteAlert removes an alert by id.
func (s *Store) DeleteAlert(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryAlerts(ctx context.Context, query string, args ...any) ([]Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []Alert{}
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.SupplierID, &a.AlertType, &a.Severity,
			&a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
