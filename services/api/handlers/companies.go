// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/croppulse/croppulse/services/api/datatypes"
	"github.com/croppulse/croppulse/services/store"
)

// CreateCompany registers a company together with its login password.
func CreateCompany(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateCompanyRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		company := store.Company{
			Name:        req.Name,
			BudgetLimit: req.BudgetLimit,
			Country:     req.Country,
			City:        req.City,
			Street:      req.Street,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		}
		if req.PreferredTransportMode != nil {
			mode := store.TransportMode(strings.ToLower(*req.PreferredTransportMode))
			company.PreferredTransportMode = &mode
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		user := store.CompanyUser{PasswordHash: string(hash)}
		if err := s.CreateCompanyWithUser(c.Request.Context(), &company, &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": "company name already registered"})
				return
			}
			slog.Error("Failed to create company", "name", req.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		slog.Info("Company created", "company_id", company.ID, "name", company.Name)
		c.JSON(http.StatusCreated, company)
	}
}

// ListCompanies returns every registered company.
func ListCompanies(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		companies, err := s.ListCompanies(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, companies)
	}
}

// DeleteCompany removes a company and its dependent rows.
func DeleteCompany(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteCompany(c.Request.Context(), id); err != nil {
			writeStoreError(c, err, "company")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
	}
}
