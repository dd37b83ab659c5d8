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

// CreateMapping links a company to a supplier for one crop.
func CreateMapping(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateMappingRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		crop, ok := cropParam(c, req.CropType)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if _, err := s.GetCompany(ctx, req.CompanyID); err != nil {
			writeStoreError(c, err, "company")
			return
		}
		if _, err := s.GetSupplier(ctx, req.SupplierID); err != nil {
			writeStoreError(c, err, "supplier")
			return
		}

		mapping := store.Mapping{
			CompanyID:    req.CompanyID,
			SupplierID:   req.SupplierID,
			CropType:     crop,
			AgreedVolume: req.AgreedVolume,
		}
		if err := s.CreateMapping(ctx, &mapping); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, mapping)
	}
}

// ListMappings returns every mapping.
func ListMappings(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		mappings, err := s.ListMappings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, mappings)
	}
}

// SuppliersByCompany returns the distinct suppliers mapped to a company.
func SuppliersByCompany(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := idParam(c, "companyId")
		if !ok {
			return
		}
		suppliers, err := s.SuppliersByCompany(c.Request.Context(), companyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, suppliers)
	}
}

// DeleteMapping removes a mapping.
func DeleteMapping(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteMapping(c.Request.Context(), id); err != nil {
			writeStoreError(c, err, "mapping")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "mapping deleted"})
	}
}
