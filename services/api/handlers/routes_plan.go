// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/pkg/validation"
	"github.com/croppulse/croppulse/services/api/observability"
	"github.com/croppulse/croppulse/services/routing"
	"github.com/croppulse/croppulse/services/store"
)

// PlanRoute routes a shipment between two points and computes its
// cost, emission and duration figures. When the routing server is
// unreachable the leg falls back to the great-circle estimate.
func PlanRoute(osrm *routing.Client, params routing.Params) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, ok := pointQuery(c, "from_lat", "from_lon")
		if !ok {
			return
		}
		to, ok := pointQuery(c, "to_lat", "to_lon")
		if !ok {
			return
		}

		mode := strings.ToLower(c.DefaultQuery("mode", string(store.TransportTruck)))
		if err := validation.ValidateTransportMode(mode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		volumeKg, err := strconv.ParseFloat(c.DefaultQuery("volume_kg", "1000"), 64)
		if err != nil || volumeKg <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "volume_kg must be a positive number"})
			return
		}

		transportMode := store.TransportMode(mode)
		route, err := osrm.Route(c.Request.Context(), from, to)
		observability.RecordExternalCall("osrm", err)
		fallback := false
		if err != nil {
			slog.Warn("OSRM routing failed, using straight-line estimate", "error", err)
			route = routing.FallbackRoute(from, to, params.ForMode(transportMode).SpeedKmh)
			fallback = true
		}

		summary := routing.ComputeKPIs([]routing.Leg{{
			From:       from,
			To:         to,
			Mode:       transportMode,
			VolumeTons: volumeKg / 1000.0,
			DistanceKm: route.DistanceKm,
		}}, params)
		leg := summary.Legs[0]

		c.JSON(http.StatusOK, gin.H{
			"geometry":    route.Geometry,
			"distance_km": leg.DistanceKm,
			"duration_h":  leg.DurationHours,
			"cost":        leg.CostEUR,
			"co2_tonnes":  leg.CO2Tonnes,
			"mode":        mode,
			"fallback":    fallback,
		})
	}
}

// pointQuery parses a lat/lon pair from the query string. Writes the
// 400 response itself on bad input.
func pointQuery(c *gin.Context, latKey, lonKey string) (geo.Point, bool) {
	lat, latErr := strconv.ParseFloat(c.Query(latKey), 64)
	lon, lonErr := strconv.ParseFloat(c.Query(lonKey), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": latKey + " and " + lonKey + " are required numbers"})
		return geo.Point{}, false
	}
	if err := validation.ValidateCoordinates(lat, lon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lon: lon}, true
}
