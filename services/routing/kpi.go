// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routing

import (
	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/services/store"
)

// TransportParams holds the per-mode cost, emission and speed factors
// behind the dashboard KPIs.
type TransportParams struct {
	CostPerKm   float64 `yaml:"cost_per_km" json:"cost_per_km"`
	CO2PerTonKm float64 `yaml:"co2_per_ton_km" json:"co2_per_ton_km"`
	SpeedKmh    float64 `yaml:"speed_kmh" json:"speed_kmh"`
}

// Params maps each transport mode to its factors.
type Params map[store.TransportMode]TransportParams

// DefaultParams returns the built-in factors. Cost is EUR per km,
// emissions are tonnes CO2 per tonne-km.
func DefaultParams() Params {
	return Params{
		store.TransportTruck: {CostPerKm: 1.2, CO2PerTonKm: 0.12, SpeedKmh: 60},
		store.TransportTrain: {CostPerKm: 0.6, CO2PerTonKm: 0.04, SpeedKmh: 80},
		store.TransportShip:  {CostPerKm: 0.3, CO2PerTonKm: 0.02, SpeedKmh: 35},
		store.TransportAir:   {CostPerKm: 4.5, CO2PerTonKm: 0.60, SpeedKmh: 750},
	}
}

// ForMode returns the factors for mode, falling back to truck when the
// mode is unknown.
func (p Params) ForMode(mode store.TransportMode) TransportParams {
	if tp, ok := p[mode]; ok {
		return tp
	}
	return p[store.TransportTruck]
}

// Leg is one company-to-supplier shipment.
type Leg struct {
	From       geo.Point           `json:"from"`
	To         geo.Point           `json:"to"`
	Mode       store.TransportMode `json:"mode"`
	VolumeTons float64             `json:"volume_tons"`

	// DistanceKm overrides the great-circle estimate when a routed
	// distance is available. Zero means estimate from coordinates.
	DistanceKm float64 `json:"distance_km"`
}

// LegKPI is the computed cost, emission and time figures of one leg.
type LegKPI struct {
	DistanceKm    float64 `json:"distance_km"`
	CostEUR       float64 `json:"cost_eur"`
	CO2Tonnes     float64 `json:"co2_tonnes"`
	DurationHours float64 `json:"duration_hours"`
}

// Summary aggregates leg KPIs for a whole supply network.
type Summary struct {
	Legs               []LegKPI `json:"legs"`
	TotalDistanceKm    float64  `json:"total_distance_km"`
	TotalCostEUR       float64  `json:"total_cost_eur"`
	TotalCO2Tonnes     float64  `json:"total_co2_tonnes"`
	TotalDurationHours float64  `json:"total_duration_hours"`
}

// ComputeKPIs evaluates every leg against the transport factors.
func ComputeKPIs(legs []Leg, params Params) Summary {
	summary := Summary{Legs: make([]LegKPI, 0, len(legs))}
	for _, leg := range legs {
		tp := params.ForMode(leg.Mode)

		dist := leg.DistanceKm
		if dist <= 0 {
			dist = geo.HaversineKm(leg.From, leg.To)
		}

		kpi := LegKPI{
			DistanceKm: dist,
			CostEUR:    dist * tp.CostPerKm,
			CO2Tonnes:  dist * leg.VolumeTons * tp.CO2PerTonKm,
		}
		if tp.SpeedKmh > 0 {
			kpi.DurationHours = dist / tp.SpeedKmh
		}

		summary.Legs = append(summary.Legs, kpi)
		summary.TotalDistanceKm += kpi.DistanceKm
		summary.TotalCostEUR += kpi.CostEUR
		summary.TotalCO2Tonnes += kpi.CO2Tonnes
		summary.TotalDurationHours += kpi.DurationHours
	}
	return summary
}
