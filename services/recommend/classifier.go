// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package recommend classifies supply coverage and proposes alternative
// suppliers when a supplier turns risky.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/croppulse/croppulse/services/store"
)

// Status grades how well a supplier's stock covers the agreed volume.
type Status string

const (
	StatusCritical Status = "critical"
	StatusRisk     Status = "risk"
	StatusStable   Status = "stable"
	StatusSurplus  Status = "surplus"
)

// Classification thresholds on the relative difference
// (remaining - required) / required.
const (
	criticalThreshold = -0.1
	surplusThreshold  = 0.1
)

// Classify grades remaining stock against the required volume.
func Classify(required, remaining float64) Status {
	if required <= 0 {
		return StatusSurplus
	}
	diff := (remaining - required) / required
	switch {
	case diff < criticalThreshold:
		return StatusCritical
	case diff < 0:
		return StatusRisk
	case diff < surplusThreshold:
		return StatusStable
	default:
		return StatusSurplus
	}
}

// Severity maps a status to the alert traffic light.
func (s Status) Severity() store.Severity {
	switch s {
	case StatusCritical:
		return store.SeverityRed
	case StatusRisk:
		return store.SeverityYellow
	default:
		return store.SeverityGreen
	}
}

// NeedsAlert reports whether the status warrants filing an alert.
func (s Status) NeedsAlert() bool {
	return s == StatusCritical || s == StatusRisk
}

// Assessment is the coverage verdict for one supplier mapping.
type Assessment struct {
	CompanyID       int64          `json:"company_id"`
	SupplierID      int64          `json:"supplier_id"`
	CropType        store.CropType `json:"crop_type"`
	AgreedVolume    float64        `json:"agreed_volume"`
	RemainingVolume float64        `json:"remaining_volume"`
	Status          Status         `json:"status"`
	ExpiringSoon    bool           `json:"expiring_soon"`
}

// expiryWindow is how close an expiry date must be to count as a waste
// risk rather than a climate risk.
const expiryWindow = 7 * 24 * time.Hour

// EvaluateCompany grades every supplier mapping of a company against
// the supplier's remaining stock of the mapped crop.
func EvaluateCompany(ctx context.Context, s *store.Store, companyID int64) ([]Assessment, error) {
	mappings, err := s.MappingsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}

	assessments := make([]Assessment, 0, len(mappings))
	for _, m := range mappings {
		stocks, err := s.StocksBySupplier(ctx, m.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stocks for supplier %d: %w", m.SupplierID, err)
		}

		var remaining float64
		expiringSoon := false
		cutoff := time.Now().UTC().Add(expiryWindow)
		for _, st := range stocks {
			if st.CropType != m.CropType {
				continue
			}
			remaining += st.RemainingVolume
			if st.ExpiryDate != nil && st.ExpiryDate.Before(cutoff) {
				expiringSoon = true
			}
		}

		assessments = append(assessments, Assessment{
			CompanyID:       m.CompanyID,
			SupplierID:      m.SupplierID,
			CropType:        m.CropType,
			AgreedVolume:    m.AgreedVolume,
			RemainingVolume: remaining,
			Status:          Classify(m.AgreedVolume, remaining),
			ExpiringSoon:    expiringSoon,
		})
	}
	return assessments, nil
}

// AlertFor converts a risky assessment into an alert row, or nil when
// the assessment does not warrant one.
func AlertFor(a Assessment) *store.Alert {
	if !a.Status.NeedsAlert() {
		return nil
	}
	alertType := store.AlertClimateRisk
	if a.ExpiringSoon {
		alertType = store.AlertWasteRisk
	}
	return &store.Alert{
		SupplierID: a.SupplierID,
		AlertType:  alertType,
		Severity:   a.Status.Severity(),
		Message: fmt.Sprintf("Supplier %d covers %.1f of %.1f tons of %s (%s)",
			a.SupplierID, a.RemainingVolume, a.AgreedVolume, a.CropType, a.Status),
	}
}
