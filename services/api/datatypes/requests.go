// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the request and response shapes of the
// HTTP API plus their custom validators.
package datatypes

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/croppulse/croppulse/pkg/validation"
	"github.com/croppulse/croppulse/services/llm"
	"github.com/croppulse/croppulse/services/store"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("croptype", func(fl validator.FieldLevel) bool {
			return validation.ValidateCropType(fl.Field().String()) == nil
		})
		v.RegisterValidation("transportmode", func(fl validator.FieldLevel) bool {
			return validation.ValidateTransportMode(fl.Field().String()) == nil
		})
	}
}

// LoginRequest authenticates a company account.
type LoginRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token for subsequent requests.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateCompanyRequest registers a company and its login password.
type CreateCompanyRequest struct {
	Name                   string   `json:"name" binding:"required"`
	Password               string   `json:"password" binding:"required,min=8"`
	BudgetLimit            *float64 `json:"budget_limit"`
	PreferredTransportMode *string  `json:"preferred_transport_modes" binding:"omitempty,transportmode"`
	Country                string   `json:"country" binding:"required"`
	City                   string   `json:"city" binding:"required"`
	Street                 *string  `json:"street"`
	Latitude               float64  `json:"latitude" binding:"min=-90,max=90"`
	Longitude              float64  `json:"longitude" binding:"min=-180,max=180"`
}

// CreateNeedRequest records a company's crop demand.
type CreateNeedRequest struct {
	CompanyID      int64   `json:"company_id" binding:"required"`
	CropType       string  `json:"crop_type" binding:"required,croptype"`
	RequiredVolume float64 `json:"required_volume" binding:"required,gt=0"`
}

// CreateSupplierRequest registers a supplier.
type CreateSupplierRequest struct {
	Name      string  `json:"name" binding:"required"`
	Country   string  `json:"country" binding:"required"`
	City      string  `json:"city" binding:"required"`
	Street    *string `json:"street"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// CreateStockRequest records a supplier's inventory of one crop.
type CreateStockRequest struct {
	SupplierID      int64      `json:"supplier_id" binding:"required"`
	CropType        string     `json:"crop_type" binding:"required,croptype"`
	RemainingVolume float64    `json:"remaining_volume" binding:"min=0"`
	Price           *float64   `json:"price"`
	ExpiryDate      *time.Time `json:"expiry_date"`
}

// CreateMappingRequest links a company to a supplier for one crop.
type CreateMappingRequest struct {
	CompanyID    int64   `json:"company_id" binding:"required"`
	SupplierID   int64   `json:"supplier_id" binding:"required"`
	CropType     string  `json:"crop_type" binding:"required,croptype"`
	AgreedVolume float64 `json:"agreed_volume" binding:"required,gt=0"`
}

// CreateAlertRequest files an alert manually.
type CreateAlertRequest struct {
	SupplierID int64  `json:"supplier_id" binding:"required"`
	AlertType  string `json:"alert_type" binding:"required,oneof=climate_risk waste_risk"`
	Severity   string `json:"severity" binding:"required,oneof=green yellow red"`
	Message    string `json:"message" binding:"required"`
}

// CreateRecommendationRequest stores a recommendation manually.
type CreateRecommendationRequest struct {
	CompanyID             int64   `json:"company_id" binding:"required"`
	RiskySupplierID       int64   `json:"risky_supplier_id" binding:"required"`
	AlternativeSupplierID int64   `json:"alternative_supplier_id" binding:"required"`
	Reasoning             *string `json:"reasoning"`
}

// AdviseRequest asks the advisor for substitute suppliers.
type AdviseRequest struct {
	CompanyID int64  `json:"company_id" binding:"required"`
	CropType  string `json:"crop_type" binding:"required,croptype"`
}

// AdviseResponse returns the coverage verdicts and any persisted
// recommendations.
type AdviseResponse struct {
	Assessments     []AssessmentView       `json:"assessments"`
	Recommendations []store.Recommendation `json:"recommendations"`
}

// AssessmentView is the JSON rendering of one coverage verdict.
type AssessmentView struct {
	SupplierID      int64   `json:"supplier_id"`
	CropType        string  `json:"crop_type"`
	AgreedVolume    float64 `json:"agreed_volume"`
	RemainingVolume float64 `json:"remaining_volume"`
	Status          string  `json:"status"`
}

// ChatRequest is one user turn with optional prior history.
type ChatRequest struct {
	Message             string        `json:"message" binding:"required"`
	ConversationHistory []llm.Message `json:"conversation_history"`
	SessionID           string        `json:"session_id"`
}

// ChatResponse returns the assistant answer and the updated history.
type ChatResponse struct {
	RequestID           string        `json:"request_id"`
	SessionID           string        `json:"session_id"`
	Response            string        `json:"response"`
	ConversationHistory []llm.Message `json:"conversation_history"`
}
