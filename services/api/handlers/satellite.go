// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/pkg/validation"
	"github.com/croppulse/croppulse/services/api/observability"
	"github.com/croppulse/croppulse/services/satellite"
	"github.com/croppulse/croppulse/services/store"
)

// swissBounds is the default region for the national NDVI composite.
var swissBounds = geo.Bounds{North: 47.81, South: 45.82, East: 10.49, West: 5.96}

// SatelliteHealth reports whether a real geo-analytics service is
// configured or mock data is being served.
func SatelliteHealth(sat *satellite.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"available": sat.Available(),
			"mocked":    !sat.Available(),
		})
	}
}

// SupplierNDVI returns vegetation statistics around a supplier site.
func SupplierNDVI(s *store.Store, sat *satellite.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sup, p, ok := supplierPoint(c, s)
		if !ok {
			return
		}
		radius, ok := radiusParam(c, satellite.DefaultNDVIRadiusM)
		if !ok {
			return
		}
		daysBack, ok := daysBackParam(c)
		if !ok {
			return
		}

		stats, err := sat.NDVI(c.Request.Context(), p, radius, daysBack)
		observability.RecordExternalCall("geo", err)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"supplier_id": sup.ID, "ndvi": stats})
	}
}

// SupplierNDVITimeSeries returns an NDVI series for a supplier site,
// months_back months long (default 6).
func SupplierNDVITimeSeries(s *store.Store, sat *satellite.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sup, p, ok := supplierPoint(c, s)
		if !ok {
			return
		}
		radius, ok := radiusParam(c, satellite.DefaultNDVIRadiusM)
		if !ok {
			return
		}

		monthsBack, err := strconv.Atoi(c.DefaultQuery("months_back", "6"))
		if err != nil || monthsBack <= 0 || monthsBack > 60 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months_back must be between 1 and 60"})
			return
		}

		end := time.Now().UTC()
		start := end.AddDate(0, -monthsBack, 0)
		series, err := sat.NDVITimeSeries(c.Request.Context(), p, radius, start, end)
		observability.RecordExternalCall("geo", err)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"supplier_id": sup.ID, "timeseries": series})
	}
}

// PointNDVI returns vegetation statistics around an arbitrary point.
func PointNDVI(sat *satellite.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := pointQuery(c, "lat", "lon")
		if !ok {
			return
		}
		radius, ok := radiusParam(c, satellite.DefaultNDVIRadiusM)
		if !ok {
			return
		}
		daysBack, ok := daysBackParam(c)
		if !ok {
			return
		}

		stats, err := sat.NDVI(c.Request.Context(), p, radius, daysBack)
		observability.RecordExternalCall("geo", err)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// RegionNDVI returns the national NDVI composite tile URL.
func RegionNDVI(sat *satellite.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tile, err := sat.RegionNDVI(c.Request.Context(), swissBounds)
		observability.RecordExternalCall("geo", err)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, tile)
	}
}

// SupplierClimate returns weather and soil conditions at a supplier
// site.
func SupplierClimate(s *store.Store, sat *satellite.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sup, p, ok := supplierPoint(c, s)
		if !ok {
			return
		}
		radius, ok := radiusParam(c, satellite.DefaultClimateRadiusM)
		if !ok {
			return
		}

		climate, err := sat.Climate(c.Request.Context(), p, radius)
		observability.RecordExternalCall("geo", err)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"supplier_id": sup.ID, "climate": climate})
	}
}

// RouteClimate samples climate risk along the route from a supplier to
// headquarters.
func RouteClimate(s *store.Store, sat *satellite.Client, hq geo.Point) gin.HandlerFunc {
	return func(c *gin.Context) {
		sup, p, ok := supplierPoint(c, s)
		if !ok {
			return
		}

		risk, err := sat.RouteClimateRisk(c.Request.Context(), []geo.Point{p, hq})
		observability.RecordExternalCall("geo", err)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"supplier_id": sup.ID, "route_risk": risk})
	}
}

// RouteTraffic returns the congestion estimate near a supplier site.
func RouteTraffic(s *store.Store, sat *satellite.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sup, p, ok := supplierPoint(c, s)
		if !ok {
			return
		}

		traffic, err := sat.Traffic(c.Request.Context(), p)
		observability.RecordExternalCall("geo", err)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"supplier_id": sup.ID, "traffic": traffic})
	}
}

// supplierPoint resolves the supplierId path parameter to a supplier
// and its coordinates. Writes the error response itself.
func supplierPoint(c *gin.Context, s *store.Store) (*store.Supplier, geo.Point, bool) {
	supplierID, ok := idParam(c, "supplierId")
	if !ok {
		return nil, geo.Point{}, false
	}
	sup, err := s.GetSupplier(c.Request.Context(), supplierID)
	if err != nil {
		writeStoreError(c, err, "supplier")
		return nil, geo.Point{}, false
	}
	return sup, geo.Point{Lat: sup.Latitude, Lon: sup.Longitude}, true
}

// radiusParam parses the optional radius query parameter (meters).
// Writes the 400 response itself and returns false on bad input.
func radiusParam(c *gin.Context, defaultM int) (int, bool) {
	raw := c.Query("radius")
	if raw == "" {
		return defaultM, true
	}
	radius, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "radius must be an integer"})
		return 0, false
	}
	if err := validation.ValidateRadius(radius); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return radius, true
}

// daysBackParam parses the optional days_back query parameter.
func daysBackParam(c *gin.Context) (int, bool) {
	daysBack, err := strconv.Atoi(c.DefaultQuery("days_back", strconv.Itoa(satellite.DefaultDaysBack)))
	if err != nil || daysBack <= 0 || daysBack > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_back must be between 1 and 365"})
		return 0, false
	}
	return daysBack, true
}
