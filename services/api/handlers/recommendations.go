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
	"github.com/croppulse/croppulse/services/api/observability"
	"github.com/croppulse/croppulse/services/recommend"
	"github.com/croppulse/croppulse/services/store"
)

// CreateRecommendation stores a recommendation manually.
func CreateRecommendation(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateRecommendationRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		rec := store.Recommendation{
			CompanyID:             req.CompanyID,
			RiskySupplierID:       req.RiskySupplierID,
			AlternativeSupplierID: req.AlternativeSupplierID,
			Reasoning:             req.Reasoning,
		}
		if err := s.CreateRecommendation(c.Request.Context(), &rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

// ListRecommendations returns every recommendation, newest first.
func ListRecommendations(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := s.ListRecommendations(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}

// RecommendationsByCompany returns the recommendations of one company.
func RecommendationsByCompany(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := idParam(c, "companyId")
		if !ok {
			return
		}
		recs, err := s.RecommendationsByCompany(c.Request.Context(), companyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}

// DeleteRecommendation removes a recommendation.
func DeleteRecommendation(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteRecommendation(c.Request.Context(), id); err != nil {
			writeStoreError(c, err, "recommendation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "recommendation deleted"})
	}
}

// Advise classifies the company's supplier coverage for a crop and,
// for suppliers in trouble, asks the advisor for substitutes.
func Advise(s *store.Store, advisor *recommend.Advisor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.AdviseRequest
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

		assessments, err := recommend.EvaluateCompany(ctx, s, req.CompanyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := datatypes.AdviseResponse{
			Assessments:     []datatypes.AssessmentView{},
			Recommendations: []store.Recommendation{},
		}
		for _, a := range assessments {
			if a.CropType != crop {
				continue
			}
			resp.Assessments = append(resp.Assessments, datatypes.AssessmentView{
				SupplierID:      a.SupplierID,
				CropType:        string(a.CropType),
				AgreedVolume:    a.AgreedVolume,
				RemainingVolume: a.RemainingVolume,
				Status:          string(a.Status),
			})
			if !a.Status.NeedsAlert() {
				continue
			}

			recs, err := advisor.Advise(ctx, req.CompanyID, a.SupplierID, crop)
			observability.RecordExternalCall("llm", err)
			if err != nil {
				slog.Warn("Advisor failed for supplier", "supplier_id", a.SupplierID, "error", err)
				continue
			}
			resp.Recommendations = append(resp.Recommendations, recs...)
		}

		c.JSON(http.StatusOK, resp)
	}
}
