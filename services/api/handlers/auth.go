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
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/croppulse/croppulse/services/api/datatypes"
	"github.com/croppulse/croppulse/services/api/middleware"
	"github.com/croppulse/croppulse/services/store"
)

// Login checks the company credentials and issues a bearer token.
// Bad names and bad passwords answer identically so the endpoint does
// not leak which companies exist.
func Login(s *store.Store, secret []byte, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.LoginRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		company, err := s.GetCompanyByName(c.Request.Context(), req.CompanyName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		user, err := s.GetCompanyUser(c.Request.Context(), company.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := middleware.IssueToken(secret, company.ID, tokenTTL)
		if err != nil {
			slog.Error("Failed to issue token", "company_id", company.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		slog.Info("Company logged in", "company_id", company.ID)
		c.JSON(http.StatusOK, datatypes.LoginResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}
