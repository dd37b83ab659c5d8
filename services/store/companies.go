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

// CreateCompany inserts a company and sets its ID and timestamps.
func (s *Store) CreateCompany(ctx context.Context, c *Company) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (name, budget_limit, preferred_transport_mode,
			country, city, street, latitude, longitude, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.BudgetLimit, c.PreferredTransportMode,
		c.Country, c.City, c.Street, c.Latitude, c.Longitude, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %q: %w", c.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert company: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read company id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// CreateCompanyWithUser inserts a company and its login credential in
// one transaction. Either both rows land or neither does, so a failed
// credential insert cannot leave a company nobody can log in as.
func (s *Store) CreateCompanyWithUser(ctx context.Context, c *Company, u *CompanyUser) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO companies (name, budget_limit, preferred_transport_mode,
			country, city, street, latitude, longitude, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.BudgetLimit, c.PreferredTransportMode,
		c.Country, c.City, c.Street, c.Latitude, c.Longitude, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %q: %w", c.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert company: %w", err)
	}
	companyID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read company id: %w", err)
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO company_users (company_id, password_hash, created_at)
		VALUES (?, ?, ?)`,
		companyID, u.PasswordHash, now)
	if err != nil {
		return fmt.Errorf("failed to insert company user: %w", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read company user id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit company: %w", err)
	}

	c.ID = companyID
	c.CreatedAt = now
	c.UpdatedAt = now
	u.ID = userID
	u.CompanyID = companyID
	u.CreatedAt = now
	return nil
}

// GetCompany fetches a company by id. Returns ErrNotFound if missing.
func (s *Store) GetCompany(ctx context.Context, id int64) (*Company, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, budget_limit, preferred_transport_mode,
			country, city, street, latitude, longitude, created_at, updated_at
		FROM companies WHERE id = ?`, id)
	return scanCompany(row)
}

// GetCompanyByName fetches a company by its unique name.
func (s *Store) GetCompanyByName(ctx context.Context, name string) (*Company, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, budget_limit, preferred_transport_mode,
			country, city, street, latitude, longitude, created_at, updated_at
		FROM companies WHERE name = ?`, name)
	return scanCompany(row)
}

// ListCompanies returns all companies ordered by id.
func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, budget_limit, preferred_transport_mode,
			country, city, street, latitude, longitude, created_at, updated_at
		FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

// DeleteCompany removes a company. Child rows cascade.
func (s *Store) DeleteCompany(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
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

// CreateCompanyUser inserts a login credential for a company.
func (s *Store) CreateCompanyUser(ctx context.Context, u *CompanyUser) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO company_users (company_id, password_hash, created_at)
		VALUES (?, ?, ?)`,
		u.CompanyID, u.PasswordHash, now)
	if err != nil {
		return fmt.Errorf("failed to insert company user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	u.CreatedAt = now
	return nil
}

// GetCompanyUser fetches the credential row for a company.
func (s *Store) GetCompanyUser(ctx context.Context, companyID int64) (*CompanyUser, error) {
	var u CompanyUser
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, password_hash, created_at
		FROM company_users WHERE company_id = ?`, companyID).
		Scan(&u.ID, &u.CompanyID, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company user: %w", err)
	}
	return &u, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (*Company, error) {
	var (
		c    Company
		mode sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.BudgetLimit, &mode,
		&c.Country, &c.City, &c.Street, &c.Latitude, &c.Longitude,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan company: %w", err)
	}
	if mode.Valid {
		m := TransportMode(mode.String)
		c.PreferredTransportMode = &m
	}
	return &c, nil
}
