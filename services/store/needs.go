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

// CreateNeed inserts a company need.
func (s *Store) CreateNeed(ctx context.Context, n *CompanyNeed) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO company_needs (company_id, crop_type, required_volume, created_at)
		VALUES (?, ?, ?, ?)`,
		n.CompanyID, n.CropType, n.RequiredVolume, now)
	if err != nil {
		return fmt.Errorf("failed to insert need: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = id
	n.CreatedAt = now
	return nil
}

// ListNeeds returns all needs ordered by id.
func (s *Store) ListNeeds(ctx context.Context) ([]CompanyNeed, error) {
	return s.queryNeeds(ctx, `
		SELECT id, company_id, crop_type, required_volume, created_at
		FROM company_needs ORDER BY id`)
}

// NeedsByCompany returns all needs for one company.
func (s *Store) NeedsByCompany(ctx context.Context, companyID int64) ([]CompanyNeed, error) {
	return s.queryNeeds(ctx, `
		SELECT id, company_id, crop_type, required_volume, created_at
		FROM company_needs WHERE company_id = ? ORDER BY id`, companyID)
}

// DeleteNeed removes a need by id.
func (s *Store) DeleteNeed(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM company_needs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete need: %w", err)
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

func (s *Store) queryNeeds(ctx context.Context, query string, args ...any) ([]CompanyNeed, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query needs: %w", err)
	}
	defer rows.Close()

	needs := []CompanyNeed{}
	for rows.Next() {
		var n CompanyNeed
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.CropType, &n.RequiredVolume, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan need: %w", err)
		}
		needs = append(needs, n)
	}
	return needs, rows.Err()
}
