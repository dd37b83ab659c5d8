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

// CreateRecommendation stores a supplier substitution proposal.
func (s *Store) CreateRecommendation(ctx context.Context, r *Recommendation) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendations (company_id, risky_supplier_id, alternative_supplier_id, reasoning, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.CompanyID, r.RiskySupplierID, r.AlternativeSupplierID, r.Reasoning, now)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	r.CreatedAt = now
	return nil
}

// ListRecommendations returns all recommendations, newest first.
func (s *Store) ListRecommendations(ctx context.Context) ([]Recommendation, error) {
	return s.queryRecommendations(ctx, `
		SELECT id, company_id, risky_supplier_id, alternative_supplier_id, reasoning, created_at
		FROM recommendations ORDER BY id DESC`)
}

// RecommendationsByCompany returns recommendations for one company.
func (s *Store) RecommendationsByCompany(ctx context.Context, companyID int64) ([]Recommendation, error) {
	return s.queryRecommendations(ctx, `
		SELECT id, company_id, risky_supplier_id, alternative_supplier_id, reasoning, created_at
		FROM recommendations WHERE company_id = ? ORDER BY id DESC`, companyID)
}

// DeleteRecommendation removes a recommendation by id.
func (s *Store) DeleteRecommendation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recommendations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
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

func (s *Store) queryRecommendations(ctx context.Context, query string, args ...any) ([]Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	recs := []Recommendation{}
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.RiskySupplierID,
			&r.AlternativeSupplierID, &r.Reasoning, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
