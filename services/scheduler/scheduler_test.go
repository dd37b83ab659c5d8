// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croppulse/croppulse/services/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "croppulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedRiskyMapping(t *testing.T, s *store.Store, companyName string) int64 {
	t.Helper()
	ctx := context.Background()

	c := &store.Company{Name: companyName, Country: "CH", City: "Zurich", Latitude: 47.38, Longitude: 8.54}
	require.NoError(t, s.CreateCompany(ctx, c))
	sup := &store.Supplier{Name: companyName + " supplier", Country: "IT", City: "Milan", Latitude: 45.46, Longitude: 9.19}
	require.NoError(t, s.CreateSupplier(ctx, sup))

	require.NoError(t, s.CreateMapping(ctx, &store.Mapping{
		CompanyID: c.ID, SupplierID: sup.ID, CropType: store.CropWheat, AgreedVolume: 100,
	}))
	require.NoError(t, s.CreateStock(ctx, &store.SupplierStock{
		SupplierID: sup.ID, CropType: store.CropWheat, RemainingVolume: 40,
	}))
	return sup.ID
}

// ============================================================================
// RunOnce
// ============================================================================

func TestRunOnce_FilesAlertForUndersupply(t *testing.T) {
	s := newTestStore(t)
	supplierID := seedRiskyMapping(t, s, "Alpine Foods")

	e, err := NewEvaluator(s, time.Hour, nil)
	require.NoError(t, err)

	filed, err := e.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, filed)

	alerts, err := s.ListAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, supplierID, alerts[0].SupplierID)
	assert.Equal(t, store.SeverityRed, alerts[0].Severity)
	assert.Equal(t, store.AlertClimateRisk, alerts[0].AlertType)
}

func TestRunOnce_NoAlertsForHealthyCoverage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &store.Company{Name: "Alpine Foods", Country: "CH", City: "Zurich", Latitude: 47.38, Longitude: 8.54}
	require.NoError(t, s.CreateCompany(ctx, c))
	sup := &store.Supplier{Name: "Po Valley Grains", Country: "IT", City: "Milan", Latitude: 45.46, Longitude: 9.19}
	require.NoError(t, s.CreateSupplier(ctx, sup))
	require.NoError(t, s.CreateMapping(ctx, &store.Mapping{
		CompanyID: c.ID, SupplierID: sup.ID, CropType: store.CropWheat, AgreedVolume: 100,
	}))
	require.NoError(t, s.CreateStock(ctx, &store.SupplierStock{
		SupplierID: sup.ID, CropType: store.CropWheat, RemainingVolume: 500,
	}))

	e, err := NewEvaluator(s, time.Hour, nil)
	require.NoError(t, err)

	filed, err := e.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, filed)
}

func TestRunOnce_DeduplicatesSharedSupplier(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	supplierID := seedRiskyMapping(t, s, "Alpine Foods")

	// Second company mapped to the same risky supplier at the same
	// agreed volume.
	other := &store.Company{Name: "Nordic Grains", Country: "SE", City: "Malmo", Latitude: 55.6, Longitude: 13.0}
	require.NoError(t, s.CreateCompany(ctx, other))
	require.NoError(t, s.CreateMapping(ctx, &store.Mapping{
		CompanyID: other.ID, SupplierID: supplierID, CropType: store.CropWheat, AgreedVolume: 100,
	}))

	e, err := NewEvaluator(s, time.Hour, nil)
	require.NoError(t, err)

	filed, err := e.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, filed)
}

// ============================================================================
// Lifecycle
// ============================================================================

func TestEvaluator_StartStop(t *testing.T) {
	s := newTestStore(t)

	e, err := NewEvaluator(s, 50*time.Millisecond, nil)
	require.NoError(t, err)

	e.Start()
	time.Sleep(120 * time.Millisecond)
	e.Stop()
}

func TestNewEvaluator_NilStore(t *testing.T) {
	_, err := NewEvaluator(nil, time.Hour, nil)
	assert.Error(t, err)
}

func TestNewEvaluator_DefaultInterval(t *testing.T) {
	s := newTestStore(t)
	e, err := NewEvaluator(s, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, e.interval)
}
