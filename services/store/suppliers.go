// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateSupplier inserts a supplier and sets its ID and timestamp.
func (s *Store) CreateSupplier(ctx context.Context, sup *Supplier) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (name, country, city, street, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sup.Name, sup.Country, sup.City, sup.Street, sup.Latitude, sup.Longitude, now)
	if err != nil {
		return fmt.Errorf("failed to insert supplier: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sup.ID = id
	sup.CreatedAt = now
	return nil
}

// GetSupplier fetches a supplier by id. Returns ErrNotFound if missing.
func (s *Store) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, country, city, street, latitude, longitude, created_at
		FROM suppliers WHERE id = ?`, id)
	return scanSupplier(row)
}

// ListSuppliers returns all suppliers ordered by id.
func (s *Store) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.querySuppliers(ctx, `
		SELECT id, name, country, city, street, latitude, longitude, created_at
		FROM suppliers ORDER BY id`)
}

// SuppliersByCompany returns the distinct suppliers mapped to a company.
func (s *Store) SuppliersByCompany(ctx context.Context, companyID int64) ([]Supplier, error) {
	return s.querySuppliers(ctx, `
		SELECT DISTINCT s.id, s.name, s.country, s.city, s.street, s.latitude, s.longitude, s.created_at
		FROM suppliers s
		JOIN company_supplier_mappings m ON m.supplier_id = s.id
		WHERE m.company_id = ?
		ORDER BY s.id`, companyID)
}

// DeleteSupplier removes a supplier by id.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
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

// CreateStock inserts a supplier stock row.
func (s *Store) CreateStock(ctx context.Context, st *SupplierStock) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_stocks (supplier_id, crop_type, remaining_volume, price, expiry_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.SupplierID, st.CropType, st.RemainingVolume, st.Price, st.ExpiryDate, now)
	if err != nil {
		return fmt.Errorf("failed to insert stock: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = id
	st.CreatedAt = now
	return nil
}

// ListStocks returns all stocks ordered by id.
func (s *Store) ListStocks(ctx context.Context) ([]SupplierStock, error) {
	return s.queryStocks(ctx, `
		SELECT id, supplier_id, crop_type, remaining_volume, price, expiry_date, created_at
		FROM supplier_stocks ORDER BY id`)
}

// StocksBySupplier returns all stocks of one supplier.
func (s *Store) StocksBySupplier(ctx context.Context, supplierID int64) ([]SupplierStock, error) {
	return s.queryStocks(ctx, `
		SELECT id, supplier_id, crop_type, remaining_volume, price, expiry_date, created_at
		FROM supplier_stocks WHERE supplier_id = ? ORDER BY id`, supplierID)
}

// StocksByCrop returns all stocks of one crop across suppliers.
func (s *Store) StocksByCrop(ctx context.Context, crop CropType) ([]SupplierStock, error) {
	return s.queryStocks(ctx, `
		SELECT id, supplier_id, crop_type, remaining_volume, price, expiry_date, created_at
		FROM supplier_stocks WHERE crop_type = ? ORDER BY id`, crop)
}

// DeleteStock removes a stock row by id.
func (s *Store) DeleteStock(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM supplier_stocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
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

func (s *Store) querySuppliers(ctx context.Context, query string, args ...any) ([]Supplier, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []Supplier{}
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *sup)
	}
	return suppliers, rows.Err()
}

func (s *Store) queryStocks(ctx context.Context, query string, args ...any) ([]SupplierStock, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	stocks := []SupplierStock{}
	for rows.Next() {
		var st SupplierStock
		if err := rows.Scan(&st.ID, &st.SupplierID, &st.CropType, &st.RemainingVolume,
			&st.Price, &st.ExpiryDate, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, st)
	}
	return stocks, rows.Err()
}

func scanSupplier(row scanner) (*Supplier, error) {
	var sup Supplier
	err := row.Scan(&sup.ID, &sup.Name, &sup.Country, &sup.City, &sup.Street,
		&sup.Latitude, &sup.Longitude, &sup.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan supplier: %w", err)
	}
	return &sup, nil
}
