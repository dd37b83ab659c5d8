// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for user-provided
// values that end up in database queries or outbound service calls.
package validation

import (
	"fmt"
	"strings"
)

// cropTypes is the closed set of crops the platform tracks.
var cropTypes = map[string]struct{}{
	"wheat":    {},
	"rice":     {},
	"potatoes": {},
	"corn":     {},
	"barley":   {},
}

// transportModes is the closed set of supported transport modes.
var transportModes = map[string]struct{}{
	"truck": {},
	"train": {},
	"ship":  {},
	"air":   {},
}

// ValidateCropType validates a crop type name.
//
// Valid values: wheat, rice, potatoes, corn, barley (case-insensitive).
// Returns an error if the crop is empty or unknown.
func ValidateCropType(crop string) error {
	if crop == "" {
		return fmt.Errorf("crop type cannot be empty")
	}
	if _, ok := cropTypes[strings.ToLower(crop)]; !ok {
		return fmt.Errorf("unknown crop type: %q", crop)
	}
	return nil
}

// ValidateTransportMode validates a transport mode name.
//
// Valid values: truck, train, ship, air (case-insensitive).
func ValidateTransportMode(mode string) error {
	if mode == "" {
		return fmt.Errorf("transport mode cannot be empty")
	}
	if _, ok := transportModes[strings.ToLower(mode)]; !ok {
		return fmt.Errorf("unknown transport mode: %q", mode)
	}
	return nil
}

// SanitizeCropType normalizes and validates a crop type.
// Returns the lowercase crop name if valid.
//
//	crop, err := validation.SanitizeCropType(userInput)
//	if err != nil {
//	    return err
//	}
//	// Safe to use as an enum value
func SanitizeCropType(crop string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(crop))
	if err := ValidateCropType(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateCoordinates validates a latitude/longitude pair.
//
// Latitude must be in [-90, 90], longitude in [-180, 180]. NaN and
// infinities are rejected by the range checks.
func ValidateCoordinates(lat, lon float64) error {
	if !(lat >= -90 && lat <= 90) {
		return fmt.Errorf("latitude out of range: %v", lat)
	}
	if !(lon >= -180 && lon <= 180) {
		return fmt.Errorf("longitude out of range: %v", lon)
	}
	return nil
}

// ValidateRadius validates a satellite query radius in meters.
// The upstream geo-analytics service rejects areas larger than 100km.
func ValidateRadius(radius int) error {
	if radius <= 0 {
		return fmt.Errorf("radius must be positive, got %d", radius)
	}
	if radius > 100_000 {
		return fmt.Errorf("radius too large: %d (max 100000m)", radius)
	}
	return nil
}
