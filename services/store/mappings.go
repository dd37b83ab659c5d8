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

// CreateMapping links a company to a supplier for one crop.
func (s *Store) CreateMapping(ctx context.Context, m *Mapping) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO company_supplier_mappings (company_id, supplier_id, crop_type, agreed_volume, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.CompanyID, m.SupplierID, m.CropType, m.AgreedVolume, now)
	if err != nil {
		return fmt.Errorf("failed to insert mapping: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

// ListMappings returns all mappings ordered by id.
func (s *Store) ListMappings(ctx context.Context) ([]Mapping, error) {
	return s.queryMappings(ctx, `
		SELECT id, company_id, supplier_id, crop_type, agreed_volume, created_at
		FROM company_supplier_mappings ORDER BY id`)
}

// MappingsByCompany returns all mappings for one company.
func (s *Store) MappingsByCompany(ctx context.Context, companyID int64) ([]Mapping, error) {
	return s.queryMappings(ctx, `
		SELECT id, company_id, supplier_id, crop_type, agreed_volume, created_at
		FROM company_supplier_mappings WHERE company_id = ? ORDER BY id`, companyID)
}

// MappingsBySupplier returns all mappings for one supplier.
func (s *Store) MappingsBySupplier(ctx context.Context, supplierID int64) ([]Mapping, error) {
	return s.queryMappings(ctx, `
		SELECT id, company_id, supplier_id, crop_type, agreed_volume, created_at
		FROM company_supplier_mappings WHERE supplier_id = ? ORDER BY id`, supplierID)
}

// DeleteMapping removes a mapping by id.
func (s *Store) DeleteMapping(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM company_supplier_mappings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
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

func (s *Store) queryMappings(ctx context.Context, query string, args ...any) ([]Mapping, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	mappings := []Mapping{}
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.SupplierID, &m.CropType,
			&m.AgreedVolume, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
