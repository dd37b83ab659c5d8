// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/croppulse/croppulse/services/api/datatypes"
	"github.com/croppulse/croppulse/services/store"
)

// CreateNeed records a company's crop demand.
func CreateNeed(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateNeedRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		crop, ok := cropParam(c, req.CropType)
		if !ok {
			return
		}

		need := store.CompanyNeed{
			CompanyID:      req.CompanyID,
			CropType:       crop,
			RequiredVolume: req.RequiredVolume,
		}
		if err := s.CreateNeed(c.Request.Context(), &need); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, need)
	}
}

// ListNeeds returns every recorded need.
func ListNeeds(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		needs, err := s.ListNeeds(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, needs)
	}
}

// NeedsByCompany returns the needs of one company.
func NeedsByCompany(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := idParam(c, "companyId")
		if !ok {
			return
		}
		needs, err := s.NeedsByCompany(c.Request.Context(), companyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, needs)
	}
}

// DeleteNeed removes a need.
func DeleteNeed(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteNeed(c.Request.Context(), id); err != nil {
			writeStoreError(c, err, "need")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "need deleted"})
	}
}
