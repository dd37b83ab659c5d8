// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "croppulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCompany(t *testing.T, s *Store, name string) *Company {
	t.Helper()
	c := &Company{
		Name:      name,
		Country:   "Switzerland",
		City:      "Zurich",
		Latitude:  47.3769,
		Longitude: 8.5417,
	}
	require.NoError(t, s.CreateCompany(context.Background(), c))
	return c
}

func seedSupplier(t *testing.T, s *Store, name string) *Supplier {
	t.Helper()
	sup := &Supplier{
		Name:      name,
		Country:   "Italy",
		City:      "Milan",
		Latitude:  45.4642,
		Longitude: 9.19,
	}
	require.NoError(t, s.CreateSupplier(context.Background(), sup))
	return sup
}

// ============================================================================
// Companies
// ============================================================================

func TestCreateCompany_SetsIDAndTimestamps(t *testing.T) {
	s := newTestStore(t)

	budget := 50000.0
	mode := TransportTrain
	c := &Company{
		Name:                   "Alpine Foods",
		BudgetLimit:            &budget,
		PreferredTransportMode: &mode,
		Country:                "Switzerland",
		City:                   "Zurich",
		Latitude:               47.3769,
		Longitude:              8.5417,
	}
	require.NoError(t, s.CreateCompany(context.Background(), c))

	assert.NotZero(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := s.GetCompany(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpine Foods", got.Name)
	require.NotNil(t, got.BudgetLimit)
	assert.InDelta(t, 50000.0, *got.BudgetLimit, 0.001)
	require.NotNil(t, got.PreferredTransportMode)
	assert.Equal(t, TransportTrain, *got.PreferredTransportMode)
}

func TestGetCompany_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCompany(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCompanyByName_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	c := seedCompany(t, s, "Nordic Grains")

	got, err := s.GetCompanyByName(context.Background(), "Nordic Grains")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Nil(t, got.PreferredTransportMode)
}

func TestListCompanies_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)

	companies, err := s.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, companies)
	assert.Empty(t, companies)
}

func TestDeleteCompany_CascadesChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Alpine Foods")

	need := &CompanyNeed{CompanyID: c.ID, CropType: CropWheat, RequiredVolume: 100}
	require.NoError(t, s.CreateNeed(ctx, need))

	require.NoError(t, s.DeleteCompany(ctx, c.ID))

	needs, err := s.ListNeeds(ctx)
	require.NoError(t, err)
	assert.Empty(t, needs)

	assert.ErrorIs(t, s.DeleteCompany(ctx, c.ID), ErrNotFound)
}

func TestCreateCompanyWithUser_BothRowsOrNeither(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &Company{
		Name:      "Alpine Foods",
		Country:   "Switzerland",
		City:      "Zurich",
		Latitude:  47.3769,
		Longitude: 8.5417,
	}
	u := &CompanyUser{PasswordHash: "$2a$10$fakehash"}
	require.NoError(t, s.CreateCompanyWithUser(ctx, c, u))
	assert.NotZero(t, c.ID)
	assert.Equal(t, c.ID, u.CompanyID)

	got, err := s.GetCompanyUser(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)

	// A second company with the same name rolls back completely.
	dup := &Company{
		Name:      "Alpine Foods",
		Country:   "Switzerland",
		City:      "Bern",
		Latitude:  46.948,
		Longitude: 7.4474,
	}
	err = s.CreateCompanyWithUser(ctx, dup, &CompanyUser{PasswordHash: "$2a$10$otherhash"})
	assert.ErrorIs(t, err, ErrDuplicate)

	companies, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}

func TestCreateCompany_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	seedCompany(t, s, "Alpine Foods")

	err := s.CreateCompany(context.Background(), &Company{
		Name:      "Alpine Foods",
		Country:   "Switzerland",
		City:      "Bern",
		Latitude:  46.948,
		Longitude: 7.4474,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCompanyUser_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Alpine Foods")

	u := &CompanyUser{CompanyID: c.ID, PasswordHash: "$2a$10$fakehash"}
	require.NoError(t, s.CreateCompanyUser(ctx, u))

	got, err := s.GetCompanyUser(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)

	_, err = s.GetCompanyUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// Needs
// ============================================================================

func TestNeedsByCompany_FiltersByCompany(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedCompany(t, s, "Company A")
	b := seedCompany(t, s, "Company B")

	require.NoError(t, s.CreateNeed(ctx, &CompanyNeed{CompanyID: a.ID, CropType: CropWheat, RequiredVolume: 100}))
	require.NoError(t, s.CreateNeed(ctx, &CompanyNeed{CompanyID: a.ID, CropType: CropRice, RequiredVolume: 50}))
	require.NoError(t, s.CreateNeed(ctx, &CompanyNeed{CompanyID: b.ID, CropType: CropCorn, RequiredVolume: 30}))

	needs, err := s.NeedsByCompany(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, needs, 2)
	assert.Equal(t, CropWheat, needs[0].CropType)
	assert.Equal(t, CropRice, needs[1].CropType)
}

func TestDeleteNeed_NotFound(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.DeleteNeed(context.Background(), 1234), ErrNotFound)
}

// ============================================================================
// Suppliers and Stocks
// ============================================================================

func TestStocksBySupplier_FiltersBySupplier(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sup1 := seedSupplier(t, s, "Supplier 1")
	sup2 := seedSupplier(t, s, "Supplier 2")

	price := 230.0
	expiry := time.Now().UTC().AddDate(0, 0, 14)
	require.NoError(t, s.CreateStock(ctx, &SupplierStock{
		SupplierID: sup1.ID, CropType: CropWheat, RemainingVolume: 500,
		Price: &price, ExpiryDate: &expiry,
	}))
	require.NoError(t, s.CreateStock(ctx, &SupplierStock{
		SupplierID: sup2.ID, CropType: CropWheat, RemainingVolume: 200,
	}))

	stocks, err := s.StocksBySupplier(ctx, sup1.ID)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.InDelta(t, 500.0, stocks[0].RemainingVolume, 0.001)
	require.NotNil(t, stocks[0].Price)
	assert.InDelta(t, 230.0, *stocks[0].Price, 0.001)
	require.NotNil(t, stocks[0].ExpiryDate)
}

func TestStocksByCrop_FiltersByCrop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sup := seedSupplier(t, s, "Supplier 1")

	require.NoError(t, s.CreateStock(ctx, &SupplierStock{SupplierID: sup.ID, CropType: CropWheat, RemainingVolume: 500}))
	require.NoError(t, s.CreateStock(ctx, &SupplierStock{SupplierID: sup.ID, CropType: CropRice, RemainingVolume: 100}))

	stocks, err := s.StocksByCrop(ctx, CropRice)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, CropRice, stocks[0].CropType)
}

func TestDeleteSupplier_CascadesStocks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sup := seedSupplier(t, s, "Supplier 1")
	require.NoError(t, s.CreateStock(ctx, &SupplierStock{SupplierID: sup.ID, CropType: CropWheat, RemainingVolume: 500}))

	require.NoError(t, s.DeleteSupplier(ctx, sup.ID))

	stocks, err := s.ListStocks(ctx)
	require.NoError(t, err)
	assert.Empty(t, stocks)
}

// ============================================================================
// Mappings
// ============================================================================

func TestSuppliersByCompany_DistinctAcrossCrops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Company A")
	sup1 := seedSupplier(t, s, "Supplier 1")
	sup2 := seedSupplier(t, s, "Supplier 2")
	unmapped := seedSupplier(t, s, "Supplier 3")
	_ = unmapped

	// Same supplier mapped twice for different crops must appear once.
	require.NoError(t, s.CreateMapping(ctx, &Mapping{CompanyID: c.ID, SupplierID: sup1.ID, CropType: CropWheat, AgreedVolume: 100}))
	require.NoError(t, s.CreateMapping(ctx, &Mapping{CompanyID: c.ID, SupplierID: sup1.ID, CropType: CropRice, AgreedVolume: 40}))
	require.NoError(t, s.CreateMapping(ctx, &Mapping{CompanyID: c.ID, SupplierID: sup2.ID, CropType: CropCorn, AgreedVolume: 60}))

	suppliers, err := s.SuppliersByCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, sup1.ID, suppliers[0].ID)
	assert.Equal(t, sup2.ID, suppliers[1].ID)
}

func TestMappingsByCompany_FiltersByCompany(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedCompany(t, s, "Company A")
	b := seedCompany(t, s, "Company B")
	sup := seedSupplier(t, s, "Supplier 1")

	require.NoError(t, s.CreateMapping(ctx, &Mapping{CompanyID: a.ID, SupplierID: sup.ID, CropType: CropWheat, AgreedVolume: 100}))
	require.NoError(t, s.CreateMapping(ctx, &Mapping{CompanyID: b.ID, SupplierID: sup.ID, CropType: CropWheat, AgreedVolume: 20}))

	mappings, err := s.MappingsByCompany(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, a.ID, mappings[0].CompanyID)
}

// ============================================================================
// Alerts
// ============================================================================

func TestAlertsByCompany_OnlyMappedSuppliers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Company A")
	mapped := seedSupplier(t, s, "Mapped Supplier")
	other := seedSupplier(t, s, "Other Supplier")

	require.NoError(t, s.CreateMapping(ctx, &Mapping{CompanyID: c.ID, SupplierID: mapped.ID, CropType: CropWheat, AgreedVolume: 100}))

	require.NoError(t, s.CreateAlert(ctx, &Alert{SupplierID: mapped.ID, AlertType: AlertClimateRisk, Severity: SeverityRed, Message: "drought stress"}))
	require.NoError(t, s.CreateAlert(ctx, &Alert{SupplierID: other.ID, AlertType: AlertWasteRisk, Severity: SeverityYellow, Message: "stock expiring"}))

	alerts, err := s.AlertsByCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, mapped.ID, alerts[0].SupplierID)
	assert.Equal(t, SeverityRed, alerts[0].Severity)
}

func TestAlertsAfter_ReturnsNewerAscending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sup := seedSupplier(t, s, "Supplier 1")

	first := &Alert{SupplierID: sup.ID, AlertType: AlertClimateRisk, Severity: SeverityYellow, Message: "first"}
	require.NoError(t, s.CreateAlert(ctx, first))
	second := &Alert{SupplierID: sup.ID, AlertType: AlertClimateRisk, Severity: SeverityRed, Message: "second"}
	require.NoError(t, s.CreateAlert(ctx, second))
	third := &Alert{SupplierID: sup.ID, AlertType: AlertWasteRisk, Severity: SeverityRed, Message: "third"}
	require.NoError(t, s.CreateAlert(ctx, third))

	alerts, err := s.AlertsAfter(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "second", alerts[0].Message)
	assert.Equal(t, "third", alerts[1].Message)
}

// ============================================================================
// Recommendations
// ============================================================================

func TestRecommendationsByCompany_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Company A")
	risky := seedSupplier(t, s, "Risky Supplier")
	alt1 := seedSupplier(t, s, "Alternative 1")
	alt2 := seedSupplier(t, s, "Alternative 2")

	reason := "closer and cheaper"
	require.NoError(t, s.CreateRecommendation(ctx, &Recommendation{
		CompanyID: c.ID, RiskySupplierID: risky.ID, AlternativeSupplierID: alt1.ID,
	}))
	require.NoError(t, s.CreateRecommendation(ctx, &Recommendation{
		CompanyID: c.ID, RiskySupplierID: risky.ID, AlternativeSupplierID: alt2.ID,
		Reasoning: &reason,
	}))

	recs, err := s.RecommendationsByCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, alt2.ID, recs[0].AlternativeSupplierID)
	require.NotNil(t, recs[0].Reasoning)
	assert.Equal(t, "closer and cheaper", *recs[0].Reasoning)
	assert.Nil(t, recs[1].Reasoning)
}

func TestDeleteRecommendation_NotFound(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.DeleteRecommendation(context.Background(), 77), ErrNotFound)
}
