// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/croppulse/croppulse/services/api/datatypes"
	"github.com/croppulse/croppulse/services/store"
)

// CreateSupplier registers a supplier.
func CreateSupplier(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateSupplierRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		supplier := store.Supplier{
			Name:      req.Name,
			Country:   req.Country,
			City:      req.City,
			Street:    req.Street,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		}
		if err := s.CreateSupplier(c.Request.Context(), &supplier); err != nil {
			slog.Error("Failed to create supplier", "name", req.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, supplier)
	}
}

// ListSuppliers returns every supplier.
func ListSuppliers(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		suppliers, err := s.ListSuppliers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, suppliers)
	}
}

// DeleteSupplier removes a supplier and its dependent rows.
func DeleteSupplier(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteSupplier(c.Request.Context(), id); err != nil {
			writeStoreError(c, err, "supplier")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "supplier deleted"})
	}
}

// CreateStock records a supplier's inventory of one crop.
func CreateStock(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateStockRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		crop, ok := cropParam(c, req.CropType)
		if !ok {
			return
		}

		stock := store.SupplierStock{
			SupplierID:      req.SupplierID,
			CropType:        crop,
			RemainingVolume: req.RemainingVolume,
			Price:           req.Price,
			ExpiryDate:      req.ExpiryDate,
		}
		if err := s.CreateStock(c.Request.Context(), &stock); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, stock)
	}
}

// StocksBySupplier returns the stock rows of one supplier.
func StocksBySupplier(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplierID, ok := idParam(c, "supplierId")
		if !ok {
			return
		}

		// 404 for suppliers that do not exist, not an empty list.
		if _, err := s.GetSupplier(c.Request.Context(), supplierID); err != nil {
			writeStoreError(c, err, "supplier")
			return
		}

		stocks, err := s.StocksBySupplier(c.Request.Context(), supplierID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stocks)
	}
}
