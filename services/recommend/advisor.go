// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/services/llm"
	"github.com/croppulse/croppulse/services/store"
)

// maxAlternatives is how many substitute suppliers the advisor asks
// the model for.
const maxAlternatives = 3

// parseAttempts is how many times the model may retry producing valid
// JSON before the call fails.
const parseAttempts = 2

// Advisor asks a language model to rank substitute suppliers for a
// risky one and persists the result.
type Advisor struct {
	store  *store.Store
	client llm.LLMClient
}

func NewAdvisor(s *store.Store, client llm.LLMClient) *Advisor {
	return &Advisor{store: s, client: client}
}

// candidate is one substitute supplier offered to the model.
type candidate struct {
	supplier   store.Supplier
	stockTons  float64
	distanceKm float64
}

// alternative is one entry of the model's JSON answer.
type alternative struct {
	SupplierID int64  `json:"supplier_id"`
	Reasoning  string `json:"reasoning"`
}

// Advise finds suppliers that stock the given crop, asks the model to
// pick the best alternatives to the risky supplier and stores them as
// recommendations for the company.
func (a *Advisor) Advise(ctx context.Context, companyID, riskySupplierID int64, crop store.CropType) ([]store.Recommendation, error) {
	company, err := a.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	candidates, err := a.findCandidates(ctx, company, riskySupplierID, crop)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no alternative suppliers stock %s", crop)
	}

	alternatives, err := a.rankWithModel(ctx, candidates, crop)
	if err != nil {
		return nil, err
	}

	recommendations := make([]store.Recommendation, 0, len(alternatives))
	for _, alt := range alternatives {
		if !validCandidate(candidates, alt.SupplierID) {
			slog.Warn("Model proposed a supplier outside the candidate set, skipping",
				"supplier_id", alt.SupplierID)
			continue
		}
		reasoning := alt.Reasoning
		rec := store.Recommendation{
			CompanyID:             companyID,
			RiskySupplierID:       riskySupplierID,
			AlternativeSupplierID: alt.SupplierID,
			Reasoning:             &reasoning,
		}
		if err := a.store.CreateRecommendation(ctx, &rec); err != nil {
			return nil, fmt.Errorf("failed to persist recommendation: %w", err)
		}
		recommendations = append(recommendations, rec)
	}
	if len(recommendations) == 0 {
		return nil, fmt.Errorf("model produced no usable alternatives")
	}
	return recommendations, nil
}

// findCandidates lists suppliers with stock of the crop, excluding the
// risky supplier, sorted by distance from the company.
func (a *Advisor) findCandidates(ctx context.Context, company *store.Company, riskySupplierID int64, crop store.CropType) ([]candidate, error) {
	stocks, err := a.store.StocksByCrop(ctx, crop)
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}

	tonsBySupplier := map[int64]float64{}
	for _, st := range stocks {
		if st.SupplierID == riskySupplierID || st.RemainingVolume <= 0 {
			continue
		}
		tonsBySupplier[st.SupplierID] += st.RemainingVolume
	}

	from := geo.Point{Lat: company.Latitude, Lon: company.Longitude}
	candidates := make([]candidate, 0, len(tonsBySupplier))
	for supplierID, tons := range tonsBySupplier {
		sup, err := a.store.GetSupplier(ctx, supplierID)
		if err != nil {
			return nil, fmt.Errorf("failed to load supplier %d: %w", supplierID, err)
		}
		candidates = append(candidates, candidate{
			supplier:   *sup,
			stockTons:  tons,
			distanceKm: geo.HaversineKm(from, geo.Point{Lat: sup.Latitude, Lon: sup.Longitude}),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distanceKm < candidates[j].distanceKm
	})
	return candidates, nil
}

// rankWithModel prompts the model for a strict JSON ranking, retrying
// once when the answer does not parse.
func (a *Advisor) rankWithModel(ctx context.Context, candidates []candidate, crop store.CropType) ([]alternative, error) {
	prompt := buildPrompt(candidates, crop)

	var lastErr error
	for attempt := 1; attempt <= parseAttempts; attempt++ {
		raw, err := a.client.Generate(ctx, prompt, llm.GenerationParams{})
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}

		alternatives, err := parseAlternatives(raw)
		if err == nil {
			return alternatives, nil
		}
		lastErr = err
		slog.Warn("Model answer did not parse, retrying", "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("model produced invalid JSON after %d attempts: %w", parseAttempts, lastErr)
}

func buildPrompt(candidates []candidate, crop store.CropType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A supplier of %s has become unreliable. Pick the best %d alternative suppliers from these candidates:\n",
		crop, maxAlternatives)
	for _, c := range candidates {
		fmt.Fprintf(&b, "- id=%d name=%s country=%s stock_tons=%.1f distance_km=%.1f\n",
			c.supplier.ID, c.supplier.Name, c.supplier.Country, c.stockTons, c.distanceKm)
	}
	fmt.Fprintf(&b, "Prefer nearby suppliers with enough stock. Respond ONLY with a JSON array of at most %d objects, ", maxAlternatives)
	b.WriteString(`each shaped like {"supplier_id": <id>, "reasoning": "<one sentence>"}. No prose, no markdown fences.`)
	return b.String()
}

// parseAlternatives accepts the raw model output, tolerating markdown
// code fences around the JSON.
func parseAlternatives(raw string) ([]alternative, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var alternatives []alternative
	if err := json.Unmarshal([]byte(cleaned), &alternatives); err != nil {
		return nil, fmt.Errorf("failed to parse alternatives: %w", err)
	}
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("empty alternatives array")
	}
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}
	return alternatives, nil
}

func validCandidate(candidates []candidate, supplierID int64) bool {
	for _, c := range candidates {
		if c.supplier.ID == supplierID {
			return true
		}
	}
	return false
}
