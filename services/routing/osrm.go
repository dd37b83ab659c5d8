// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package routing wraps the OSRM HTTP API and computes transport cost,
// emission and duration figures for supply legs.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/croppulse/croppulse/pkg/geo"
)

const defaultOSRMBaseURL = "https://router.project-osrm.org"

// Route is one routed path between two points.
type Route struct {
	DistanceKm      float64     `json:"distance_km"`
	DurationMinutes float64     `json:"duration_minutes"`
	Geometry        []geo.Point `json:"geometry"`
}

// Client calls an OSRM routing server. Requests are rate limited
// because the public demo server rejects bursty clients.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient builds a client for the server at OSRM_BASE_URL, defaulting
// to the public OSRM demo instance.
func NewClient() *Client {
	baseURL := os.Getenv("OSRM_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}
	return NewClientWithURL(baseURL)
}

// NewClientWithURL builds a client for a specific OSRM server.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

// Route fetches the driving route from a to b with its full geometry.
func (c *Client) Route(ctx context.Context, from, to geo.Point) (*Route, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// OSRM takes lon,lat pairs.
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=polyline",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build OSRM request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OSRM request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OSRM response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSRM returned status %d", resp.StatusCode)
	}

	var parsed osrmResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse OSRM response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("OSRM found no route (code %q)", parsed.Code)
	}

	r := parsed.Routes[0]
	geometry, err := DecodePolyline(r.Geometry)
	if err != nil {
		slog.Warn("Failed to decode OSRM geometry, returning endpoints only", "error", err)
		geometry = []geo.Point{from, to}
	}

	return &Route{
		DistanceKm:      r.Distance / 1000.0,
		DurationMinutes: r.Duration / 60.0,
		Geometry:        geometry,
	}, nil
}

// FallbackRoute estimates a route as the straight line between the
// endpoints, using the per-mode speed for duration. Used when the OSRM
// server is unreachable.
func FallbackRoute(from, to geo.Point, speedKmh float64) *Route {
	dist := geo.HaversineKm(from, to)
	route := &Route{
		DistanceKm: dist,
		Geometry:   []geo.Point{from, to},
	}
	if speedKmh > 0 {
		route.DurationMinutes = dist / speedKmh * 60.0
	}
	return route
}
