// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/services/store"
)

// Client queries the geo-analytics service configured through
// GEO_SERVICE_URL. A client without a base URL serves mock data.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient reads GEO_SERVICE_URL from the environment. An empty value
// is not an error; the client falls back to mock data.
func NewClient() *Client {
	baseURL := os.Getenv("GEO_SERVICE_URL")
	if baseURL == "" {
		slog.Warn("GEO_SERVICE_URL not set, satellite data will be mocked")
	}
	return NewClientWithURL(baseURL)
}

// NewClientWithURL builds a client for a specific geo-analytics server.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Available reports whether a real geo-analytics service is configured.
func (c *Client) Available() bool {
	return c.baseURL != ""
}

// Default analysis windows the upstream service assumes when callers
// have no opinion. Climate uses a wider radius than NDVI.
const (
	DefaultNDVIRadiusM    = 1000
	DefaultClimateRadiusM = 5000
	DefaultDaysBack       = 30
)

// NDVI returns vegetation statistics within radiusM meters of a point,
// looking daysBack days for imagery. Falls back to mock data when the
// service is unconfigured or unreachable.
func (c *Client) NDVI(ctx context.Context, p geo.Point, radiusM, daysBack int) (*NDVIStats, error) {
	if !c.Available() {
		return mockNDVI(p), nil
	}
	var stats NDVIStats
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", p.Lat))
	q.Set("lon", fmt.Sprintf("%f", p.Lon))
	q.Set("radius", strconv.Itoa(radiusM))
	q.Set("days_back", strconv.Itoa(daysBack))
	if err := c.getJSON(ctx, "/v1/ndvi/point", q, &stats); err != nil {
		slog.Warn("NDVI lookup failed, using mock data", "error", err)
		return mockNDVI(p), nil
	}
	return &stats, nil
}

// NDVITimeSeries returns dated NDVI observations between start and end
// within radiusM meters of a point.
func (c *Client) NDVITimeSeries(ctx context.Context, p geo.Point, radiusM int, start, end time.Time) (*NDVITimeSeries, error) {
	if !c.Available() {
		return mockNDVITimeSeries(p, start, end), nil
	}
	var series NDVITimeSeries
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", p.Lat))
	q.Set("lon", fmt.Sprintf("%f", p.Lon))
	q.Set("radius", strconv.Itoa(radiusM))
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))
	if err := c.getJSON(ctx, "/v1/ndvi/timeseries", q, &series); err != nil {
		slog.Warn("NDVI time series lookup failed, using mock data", "error", err)
		return mockNDVITimeSeries(p, start, end), nil
	}
	return &series, nil
}

// RegionNDVI returns a rendered NDVI tile overlay for a bounding box.
func (c *Client) RegionNDVI(ctx context.Context, b geo.Bounds) (*RegionTile, error) {
	if !c.Available() {
		return mockRegionTile(b), nil
	}
	var tile RegionTile
	q := url.Values{}
	q.Set("north", fmt.Sprintf("%f", b.North))
	q.Set("south", fmt.Sprintf("%f", b.South))
	q.Set("east", fmt.Sprintf("%f", b.East))
	q.Set("west", fmt.Sprintf("%f", b.West))
	if err := c.getJSON(ctx, "/v1/ndvi/region", q, &tile); err != nil {
		slog.Warn("Region NDVI lookup failed, using mock data", "error", err)
		return mockRegionTile(b), nil
	}
	return &tile, nil
}

// Climate returns current weather and soil conditions within radiusM
// meters of a point.
func (c *Client) Climate(ctx context.Context, p geo.Point, radiusM int) (*Climate, error) {
	if !c.Available() {
		return mockClimate(p), nil
	}
	var climate Climate
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", p.Lat))
	q.Set("lon", fmt.Sprintf("%f", p.Lon))
	q.Set("radius", strconv.Itoa(radiusM))
	if err := c.getJSON(ctx, "/v1/climate", q, &climate); err != nil {
		slog.Warn("Climate lookup failed, using mock data", "error", err)
		return mockClimate(p), nil
	}
	return &climate, nil
}

// routeRiskSamples is how many points a route is sampled at.
const routeRiskSamples = 8

// RouteClimateRisk samples climate risk along a route and aggregates
// it into an overall score.
func (c *Client) RouteClimateRisk(ctx context.Context, route []geo.Point) (*RouteRisk, error) {
	if len(route) < 2 {
		return nil, fmt.Errorf("route needs at least two points")
	}
	samples := geo.Interpolate(route[0], route[len(route)-1], routeRiskSamples)

	risk := &RouteRisk{Segments: make([]SegmentRisk, len(samples))}
	mocked := !c.Available()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range samples {
		g.Go(func() error {
			climate, err := c.Climate(gctx, p, DefaultClimateRadiusM)
			if err != nil {
				return err
			}
			if climate.Mocked {
				mocked = true
			}
			risk.Segments[i] = SegmentRisk{Point: p, RiskScore: climate.DroughtIndex}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total float64
	for _, s := range risk.Segments {
		total += s.RiskScore
	}
	risk.OverallRisk = total / float64(len(risk.Segments))
	risk.Mocked = mocked
	return risk, nil
}

// Traffic returns the congestion estimate around a point.
func (c *Client) Traffic(ctx context.Context, p geo.Point) (*Traffic, error) {
	if !c.Available() {
		return mockTraffic(p), nil
	}
	var traffic Traffic
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", p.Lat))
	q.Set("lon", fmt.Sprintf("%f", p.Lon))
	if err := c.getJSON(ctx, "/v1/traffic", q, &traffic); err != nil {
		slog.Warn("Traffic lookup failed, using mock data", "error", err)
		return mockTraffic(p), nil
	}
	return &traffic, nil
}

// SupplierConditions fetches NDVI and climate for every supplier
// concurrently. One failing supplier fails the whole call.
func (c *Client) SupplierConditions(ctx context.Context, suppliers []store.Supplier) ([]SupplierConditions, error) {
	conditions := make([]SupplierConditions, len(suppliers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, sup := range suppliers {
		g.Go(func() error {
			p := geo.Point{Lat: sup.Latitude, Lon: sup.Longitude}
			ndvi, err := c.NDVI(gctx, p, DefaultNDVIRadiusM, DefaultDaysBack)
			if err != nil {
				return fmt.Errorf("supplier %d NDVI: %w", sup.ID, err)
			}
			climate, err := c.Climate(gctx, p, DefaultClimateRadiusM)
			if err != nil {
				return fmt.Errorf("supplier %d climate: %w", sup.ID, err)
			}
			conditions[i] = SupplierConditions{
				SupplierID: sup.ID,
				NDVI:       *ndvi,
				Climate:    *climate,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return conditions, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geo service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read geo service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo service returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse geo service response: %w", err)
	}
	return nil
}
