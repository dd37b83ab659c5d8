// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/services/store"
)

// ============================================================================
// Polyline Decoding
// ============================================================================

func TestDecodePolyline_KnownVector(t *testing.T) {
	// Reference example from the encoded polyline format docs.
	points, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Lat, 1e-5)
	assert.InDelta(t, -120.2, points[0].Lon, 1e-5)
	assert.InDelta(t, 40.7, points[1].Lat, 1e-5)
	assert.InDelta(t, -120.95, points[1].Lon, 1e-5)
	assert.InDelta(t, 43.252, points[2].Lat, 1e-5)
	assert.InDelta(t, -126.453, points[2].Lon, 1e-5)
}

func TestDecodePolyline_Empty(t *testing.T) {
	points, err := DecodePolyline("")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestDecodePolyline_Truncated(t *testing.T) {
	_, err := DecodePolyline("_p~iF")
	assert.Error(t, err)
}

// ============================================================================
// Transport KPIs
// ============================================================================

func TestComputeKPIs_FixedDistance(t *testing.T) {
	legs := []Leg{
		{Mode: store.TransportTruck, VolumeTons: 10, DistanceKm: 100},
		{Mode: store.TransportTrain, VolumeTons: 10, DistanceKm: 100},
	}

	summary := ComputeKPIs(legs, DefaultParams())
	require.Len(t, summary.Legs, 2)

	// 10 t over 100 km by truck: 100 * 10 * 0.12 = 120 t CO2.
	truck := summary.Legs[0]
	assert.InDelta(t, 120.0, truck.CostEUR, 0.001)
	assert.InDelta(t, 120.0, truck.CO2Tonnes, 0.001)
	assert.InDelta(t, 100.0/60.0, truck.DurationHours, 0.001)

	train := summary.Legs[1]
	assert.InDelta(t, 60.0, train.CostEUR, 0.001)
	assert.InDelta(t, 40.0, train.CO2Tonnes, 0.001)

	assert.InDelta(t, 200.0, summary.TotalDistanceKm, 0.001)
	assert.InDelta(t, 180.0, summary.TotalCostEUR, 0.001)
	assert.InDelta(t, 160.0, summary.TotalCO2Tonnes, 0.001)
}

func TestComputeKPIs_EstimatesDistanceFromCoordinates(t *testing.T) {
	zurich := geo.Point{Lat: 47.3769, Lon: 8.5417}
	bern := geo.Point{Lat: 46.9480, Lon: 7.4474}

	summary := ComputeKPIs([]Leg{
		{From: zurich, To: bern, Mode: store.TransportTruck, VolumeTons: 1},
	}, DefaultParams())

	require.Len(t, summary.Legs, 1)
	assert.InDelta(t, 95.0, summary.Legs[0].DistanceKm, 5.0)
}

func TestParams_UnknownModeFallsBackToTruck(t *testing.T) {
	p := DefaultParams()
	tp := p.ForMode(store.TransportMode("zeppelin"))
	assert.InDelta(t, 1.2, tp.CostPerKm, 0.001)
}

// ============================================================================
// OSRM Client
// ============================================================================

func TestRoute_ParsesOSRMResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":123456.0,"duration":5400.0,"geometry":"_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL)
	route, err := c.Route(context.Background(), geo.Point{Lat: 47.0, Lon: 8.0}, geo.Point{Lat: 45.0, Lon: 9.0})
	require.NoError(t, err)

	assert.InDelta(t, 123.456, route.DistanceKm, 0.001)
	assert.InDelta(t, 90.0, route.DurationMinutes, 0.001)
	assert.Len(t, route.Geometry, 3)
}

func TestRoute_NoRouteFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL)
	_, err := c.Route(context.Background(), geo.Point{Lat: 47.0, Lon: 8.0}, geo.Point{Lat: 45.0, Lon: 9.0})
	assert.Error(t, err)
}

func TestRoute_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL)
	_, err := c.Route(context.Background(), geo.Point{Lat: 47.0, Lon: 8.0}, geo.Point{Lat: 45.0, Lon: 9.0})
	assert.Error(t, err)
}

func TestFallbackRoute_StraightLine(t *testing.T) {
	zurich := geo.Point{Lat: 47.3769, Lon: 8.5417}
	bern := geo.Point{Lat: 46.9480, Lon: 7.4474}

	route := FallbackRoute(zurich, bern, 60)
	assert.InDelta(t, 95.0, route.DistanceKm, 5.0)
	assert.InDelta(t, route.DistanceKm, route.DurationMinutes, 6.0)
	require.Len(t, route.Geometry, 2)
	assert.Equal(t, zurich, route.Geometry[0])
}
