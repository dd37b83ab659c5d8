// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store implements SQLite persistence for the supply chain
// entities: companies, needs, suppliers, stocks, mappings, alerts and
// recommendations.
package store

import "time"

// TransportMode is how goods move between a supplier and a company.
type TransportMode string

const (
	TransportTruck TransportMode = "truck"
	TransportTrain TransportMode = "train"
	TransportShip  TransportMode = "ship"
	TransportAir   TransportMode = "air"
)

// CropType is the produce category tracked in stocks and needs.
type CropType string

const (
	CropWheat    CropType = "wheat"
	CropRice     CropType = "rice"
	CropPotatoes CropType = "potatoes"
	CropCorn     CropType = "corn"
	CropBarley   CropType = "barley"
)

// CropTypes lists every known crop, in a stable order. Used by the
// seeder and by validation error messages.
var CropTypes = []CropType{CropWheat, CropRice, CropPotatoes, CropCorn, CropBarley}

// AlertType distinguishes why an alert was filed.
type AlertType string

const (
	AlertClimateRisk AlertType = "climate_risk"
	AlertWasteRisk   AlertType = "waste_risk"
)

// Severity is the traffic-light severity of an alert.
type Severity string

const (
	SeverityGreen  Severity = "green"
	SeverityYellow Severity = "yellow"
	SeverityRed    Severity = "red"
)

// Company is a buyer of produce with a fixed location.
type Company struct {
	ID                     int64          `json:"id"`
	Name                   string         `json:"name"`
	BudgetLimit            *float64       `json:"budget_limit,omitempty"`
	PreferredTransportMode *TransportMode `json:"preferred_transport_modes,omitempty"`
	Country                string         `json:"country"`
	City                   string         `json:"city"`
	Street                 *string        `json:"street,omitempty"`
	Latitude               float64        `json:"latitude"`
	Longitude              float64        `json:"longitude"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// CompanyUser holds the login credential for a company account.
// The password is stored as a bcrypt hash, never in the clear.
type CompanyUser struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CompanyNeed is a company's demand for a crop.
type CompanyNeed struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	CropType       CropType  `json:"crop_type"`
	RequiredVolume float64   `json:"required_volume"`
	CreatedAt      time.Time `json:"created_at"`
}

// Supplier is a producer of crops with a fixed location.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Street    *string   `json:"street,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// SupplierStock is a supplier's remaining inventory of one crop.
type SupplierStock struct {
	ID              int64      `json:"id"`
	SupplierID      int64      `json:"supplier_id"`
	CropType        CropType   `json:"crop_type"`
	RemainingVolume float64    `json:"remaining_volume"`
	Price           *float64   `json:"price,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Mapping links a company to a supplier for one crop at an agreed volume.
type Mapping struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	SupplierID   int64     `json:"supplier_id"`
	CropType     CropType  `json:"crop_type"`
	AgreedVolume float64   `json:"agreed_volume"`
	CreatedAt    time.Time `json:"created_at"`
}

// Alert flags a supplier-level risk condition.
type Alert struct {
	ID         int64     `json:"id"`
	SupplierID int64     `json:"supplier_id"`
	AlertType  AlertType `json:"alert_type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recommendation proposes an alternative supplier for a risky one.
type Recommendation struct {
	ID                    int64     `json:"id"`
	CompanyID             int64     `json:"company_id"`
	RiskySupplierID       int64     `json:"risky_supplier_id"`
	AlternativeSupplierID int64     `json:"alternative_supplier_id"`
	Reasoning             *string   `json:"reasoning,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}
