// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package satellite wraps an external geo-analytics service that
// serves vegetation, climate and traffic data derived from satellite
// imagery. When no service is configured every call answers with
// deterministic mock data so demos work offline.
package satellite

import "github.com/croppulse/croppulse/pkg/geo"

// NDVIStats summarizes vegetation health around a point. NDVI ranges
// from -1 (water, bare soil) to 1 (dense vegetation).
type NDVIStats struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	Mocked bool    `json:"mocked"`
}

// NDVISample is one dated NDVI observation in a time series.
type NDVISample struct {
	Date string  `json:"date"`
	NDVI float64 `json:"ndvi"`
}

// NDVITimeSeries is a sequence of NDVI observations for a point.
type NDVITimeSeries struct {
	Samples []NDVISample `json:"samples"`
	Mocked  bool         `json:"mocked"`
}

// RegionTile is a rendered NDVI overlay for a bounding box.
type RegionTile struct {
	TileURL string     `json:"tile_url"`
	Bounds  geo.Bounds `json:"bounds"`
	Mocked  bool       `json:"mocked"`
}

// Climate is the current weather and soil state at a point.
type Climate struct {
	TemperatureC    float64 `json:"temperature_c"`
	PrecipitationMm float64 `json:"precipitation_mm"`
	SoilMoisture    float64 `json:"soil_moisture"`
	DroughtIndex    float64 `json:"drought_index"`
	Mocked          bool    `json:"mocked"`
}

// SegmentRisk is the climate risk of one sampled point along a route.
type SegmentRisk struct {
	Point     geo.Point `json:"point"`
	RiskScore float64   `json:"risk_score"`
}

// RouteRisk is the climate risk profile of a whole route.
type RouteRisk struct {
	Segments    []SegmentRisk `json:"segments"`
	OverallRisk float64       `json:"overall_risk"`
	Mocked      bool          `json:"mocked"`
}

// Traffic is the road congestion estimate around a point.
type Traffic struct {
	CongestionLevel float64 `json:"congestion_level"`
	DelayMinutes    float64 `json:"delay_minutes"`
	Mocked          bool    `json:"mocked"`
}

// SupplierConditions bundles the per-supplier satellite view used by
// the dashboard map.
type SupplierConditions struct {
	SupplierID int64     `json:"supplier_id"`
	NDVI       NDVIStats `json:"ndvi"`
	Climate    Climate   `json:"climate"`
}
