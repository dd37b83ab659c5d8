// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package satellite

import (
	"fmt"
	"math"
	"time"

	"github.com/croppulse/croppulse/pkg/geo"
)

// Mock data is derived from the coordinates so the same location
// always reports the same conditions. Values stay inside realistic
// ranges for European growing regions.

func mockNDVI(p geo.Point) *NDVIStats {
	mean := 0.45 + 0.25*coordNoise(p, 1)
	return &NDVIStats{
		Mean:   round3(mean),
		Min:    round3(mean - 0.15),
		Max:    round3(math.Min(mean+0.2, 0.95)),
		StdDev: round3(0.05 + 0.03*math.Abs(coordNoise(p, 2))),
		Mocked: true,
	}
}

func mockNDVITimeSeries(p geo.Point, start, end time.Time) *NDVITimeSeries {
	series := &NDVITimeSeries{Mocked: true}
	base := 0.45 + 0.25*coordNoise(p, 1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		seasonal := 0.1 * math.Sin(2*math.Pi*float64(d.YearDay())/365.0)
		series.Samples = append(series.Samples, NDVISample{
			Date: d.Format("2006-01-02"),
			NDVI: round3(base + seasonal),
		})
	}
	return series
}

func mockRegionTile(b geo.Bounds) *RegionTile {
	center := b.Center()
	return &RegionTile{
		TileURL: fmt.Sprintf("https://tiles.croppulse.io/mock/ndvi/%.4f/%.4f/{z}/{x}/{y}.png",
			center.Lat, center.Lon),
		Bounds: b,
		Mocked: true,
	}
}

func mockClimate(p geo.Point) *Climate {
	return &Climate{
		TemperatureC:    round3(14.0 + 10.0*coordNoise(p, 3)),
		PrecipitationMm: round3(math.Abs(40.0 * coordNoise(p, 4))),
		SoilMoisture:    round3(0.25 + 0.15*math.Abs(coordNoise(p, 5))),
		DroughtIndex:    round3(0.3 + 0.3*math.Abs(coordNoise(p, 6))),
		Mocked:          true,
	}
}

func mockTraffic(p geo.Point) *Traffic {
	congestion := 0.2 + 0.5*math.Abs(coordNoise(p, 7))
	return &Traffic{
		CongestionLevel: round3(congestion),
		DelayMinutes:    round3(congestion * 45.0),
		Mocked:          true,
	}
}

// coordNoise maps coordinates to a stable value in [-1, 1].
func coordNoise(p geo.Point, seed float64) float64 {
	return math.Sin(p.Lat*12.9898*seed + p.Lon*78.233)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
