// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCropType_Valid(t *testing.T) {
	for _, crop := range []string{"wheat", "rice", "potatoes", "corn", "barley", "Wheat", "BARLEY"} {
		assert.NoError(t, ValidateCropType(crop), "crop %q should be valid", crop)
	}
}

func TestValidateCropType_Invalid(t *testing.T) {
	for _, crop := range []string{"", "soybean", "wheat; DROP TABLE suppliers", "wh eat"} {
		assert.Error(t, ValidateCropType(crop), "crop %q should be invalid", crop)
	}
}

func TestSanitizeCropType(t *testing.T) {
	crop, err := SanitizeCropType("  Potatoes ")
	require.NoError(t, err)
	assert.Equal(t, "potatoes", crop)

	_, err = SanitizeCropType("plutonium")
	assert.Error(t, err)
}

func TestValidateTransportMode(t *testing.T) {
	assert.NoError(t, ValidateTransportMode("truck"))
	assert.NoError(t, ValidateTransportMode("Train"))
	assert.Error(t, ValidateTransportMode(""))
	assert.Error(t, ValidateTransportMode("teleport"))
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(47.3769, 8.5417))
	assert.NoError(t, ValidateCoordinates(-90, 180))
	assert.Error(t, ValidateCoordinates(90.1, 0))
	assert.Error(t, ValidateCoordinates(0, -180.5))
	assert.Error(t, ValidateCoordinates(math.NaN(), 0))
}

func TestValidateRadius(t *testing.T) {
	assert.NoError(t, ValidateRadius(1000))
	assert.Error(t, ValidateRadius(0))
	assert.Error(t, ValidateRadius(-5))
	assert.Error(t, ValidateRadius(200_000))
}
