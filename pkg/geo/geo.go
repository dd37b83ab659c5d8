// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package geo provides coordinate value types and great-circle distance
// math shared by the routing and satellite services.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate (WGS 84).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a geographic bounding box.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether p lies inside the bounding box.
func (b Bounds) Contains(p Point) bool {
	return p.Lat <= b.North && p.Lat >= b.South &&
		p.Lon <= b.East && p.Lon >= b.West
}

// Center returns the midpoint of the bounding box.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.North + b.South) / 2,
		Lon: (b.East + b.West) / 2,
	}
}

// HaversineKm returns the great-circle distance between a and b in
// kilometers.
func HaversineKm(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Interpolate returns count evenly spaced points between a and b,
// inclusive of both endpoints. Used for sampling climate conditions
// along a transport route.
func Interpolate(a, b Point, count int) []Point {
	if count < 2 {
		return []Point{a}
	}
	points := make([]Point, count)
	for i := 0; i < count; i++ {
		t := float64(i) / float64(count-1)
		points[i] = Point{
			Lat: a.Lat + (b.Lat-a.Lat)*t,
			Lon: a.Lon + (b.Lon-a.Lon)*t,
		}
	}
	return points
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
