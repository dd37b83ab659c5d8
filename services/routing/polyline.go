// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routing

import (
	"fmt"

	"github.com/croppulse/croppulse/pkg/geo"
)

// DecodePolyline decodes a Google encoded polyline with precision 5,
// the format OSRM returns route geometries in.
func DecodePolyline(encoded string) ([]geo.Point, error) {
	points := []geo.Point{}
	var lat, lon int64

	for i := 0; i < len(encoded); {
		dLat, n, err := decodeValue(encoded[i:])
		if err != nil {
			return nil, fmt.Errorf("bad polyline at offset %d: %w", i, err)
		}
		i += n
		lat += dLat

		dLon, n, err := decodeValue(encoded[i:])
		if err != nil {
			return nil, fmt.Errorf("bad polyline at offset %d: %w", i, err)
		}
		i += n
		lon += dLon

		points = append(points, geo.Point{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}
	return points, nil
}

// decodeValue reads one zigzag varint from s and returns the signed
// delta and the number of bytes consumed.
func decodeValue(s string) (int64, int, error) {
	var result int64
	var shift uint
	for i := 0; i < len(s); i++ {
		b := int64(s[i]) - 63
		if b < 0 {
			return 0, 0, fmt.Errorf("invalid character %q", s[i])
		}
		result |= (b & 0x1f) << shift
		if b < 0x20 {
			if result&1 != 0 {
				return ^(result >> 1), i + 1, nil
			}
			return result >> 1, i + 1, nil
		}
		shift += 5
	}
	return 0, 0, fmt.Errorf("truncated value")
}
