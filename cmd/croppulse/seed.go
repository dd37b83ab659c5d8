// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/croppulse/croppulse/services/store"
)

// seedPassword is the login for every demo company account.
const seedPassword = "demo-password"

type seedCompany struct {
	company  store.Company
	needs    []store.CompanyNeed
	mappings []seedMapping
}

type seedMapping struct {
	supplier string
	crop     store.CropType
	volume   float64
}

type seedSupplier struct {
	supplier store.Supplier
	stocks   []store.SupplierStock
}

func ptr[T any](v T) *T { return &v }

func demoSuppliers() []seedSupplier {
	shortExpiry := time.Now().Add(5 * 24 * time.Hour)
	return []seedSupplier{
		{
			supplier: store.Supplier{Name: "Po Valley Grains", Country: "IT", City: "Milan", Latitude: 45.4642, Longitude: 9.19},
			stocks: []store.SupplierStock{
				{CropType: store.CropWheat, RemainingVolume: 480, Price: ptr(212.0)},
				{CropType: store.CropRice, RemainingVolume: 350, Price: ptr(390.0)},
			},
		},
		{
			supplier: store.Supplier{Name: "Loire Cereals", Country: "FR", City: "Tours", Latitude: 47.3941, Longitude: 0.6848},
			stocks: []store.SupplierStock{
				{CropType: store.CropWheat, RemainingVolume: 620, Price: ptr(205.0)},
				{CropType: store.CropBarley, RemainingVolume: 280, Price: ptr(188.0)},
			},
		},
		{
			supplier: store.Supplier{Name: "Andalusia Harvest", Country: "ES", City: "Seville", Latitude: 37.3891, Longitude: -5.9845},
			stocks: []store.SupplierStock{
				// Dry season left very little wheat here.
				{CropType: store.CropWheat, RemainingVolume: 45, Price: ptr(238.0)},
				{CropType: store.CropCorn, RemainingVolume: 410, Price: ptr(196.0)},
			},
		},
		{
			supplier: store.Supplier{Name: "Bohemian Fields", Country: "CZ", City: "Plzen", Latitude: 49.7384, Longitude: 13.3736},
			stocks: []store.SupplierStock{
				{CropType: store.CropPotatoes, RemainingVolume: 540, Price: ptr(145.0), ExpiryDate: &shortExpiry},
				{CropType: store.CropBarley, RemainingVolume: 390, Price: ptr(182.0)},
			},
		},
		{
			supplier: store.Supplier{Name: "Aargau Organics", Country: "CH", City: "Aarau", Latitude: 47.3925, Longitude: 8.0442},
			stocks: []store.SupplierStock{
				{CropType: store.CropPotatoes, RemainingVolume: 260, Price: ptr(168.0)},
				{CropType: store.CropWheat, RemainingVolume: 190, Price: ptr(224.0)},
			},
		},
	}
}

func demoCompanies() []seedCompany {
	truck := store.TransportTruck
	train := store.TransportTrain
	return []seedCompany{
		{
			company: store.Company{
				Name: "Alpine Foods AG", Country: "CH", City: "Zurich",
				Latitude: 47.3769, Longitude: 8.5417,
				BudgetLimit: ptr(250000.0), PreferredTransportMode: &train,
			},
			needs: []store.CompanyNeed{
				{CropType: store.CropWheat, RequiredVolume: 600},
				{CropType: store.CropPotatoes, RequiredVolume: 300},
			},
			mappings: []seedMapping{
				{supplier: "Po Valley Grains", crop: store.CropWheat, volume: 300},
				{supplier: "Andalusia Harvest", crop: store.CropWheat, volume: 300},
				{supplier: "Aargau Organics", crop: store.CropPotatoes, volume: 200},
			},
		},
		{
			company: store.Company{
				Name: "Helvetia Mills", Country: "CH", City: "Bern",
				Latitude: 46.948, Longitude: 7.4474,
				PreferredTransportMode: &truck,
			},
			needs: []store.CompanyNeed{
				{CropType: store.CropWheat, RequiredVolume: 450},
				{CropType: store.CropBarley, RequiredVolume: 250},
			},
			mappings: []seedMapping{
				{supplier: "Loire Cereals", crop: store.CropWheat, volume: 450},
				{supplier: "Bohemian Fields", crop: store.CropBarley, volume: 250},
			},
		},
	}
}

func runSeed(cmd *cobra.Command, args []string) {
	s, err := store.Open(config.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open the database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	supplierIDs := make(map[string]int64)
	for _, entry := range demoSuppliers() {
		sup := entry.supplier
		if err := s.CreateSupplier(ctx, &sup); err != nil {
			log.Fatalf("Failed to seed supplier %q: %v", sup.Name, err)
		}
		supplierIDs[sup.Name] = sup.ID
		for _, stock := range entry.stocks {
			stock.SupplierID = sup.ID
			if err := s.CreateStock(ctx, &stock); err != nil {
				log.Fatalf("Failed to seed stock for %q: %v", sup.Name, err)
			}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash the demo password: %v", err)
	}

	for _, entry := range demoCompanies() {
		company := entry.company
		user := store.CompanyUser{PasswordHash: string(hash)}
		if err := s.CreateCompanyWithUser(ctx, &company, &user); err != nil {
			log.Fatalf("Failed to seed company %q: %v", company.Name, err)
		}
		for _, need := range entry.needs {
			need.CompanyID = company.ID
			if err := s.CreateNeed(ctx, &need); err != nil {
				log.Fatalf("Failed to seed need for %q: %v", company.Name, err)
			}
		}
		for _, m := range entry.mappings {
			supplierID, ok := supplierIDs[m.supplier]
			if !ok {
				log.Fatalf("Seed mapping references unknown supplier %q", m.supplier)
			}
			mapping := store.Mapping{
				CompanyID:    company.ID,
				SupplierID:   supplierID,
				CropType:     m.crop,
				AgreedVolume: m.volume,
			}
			if err := s.CreateMapping(ctx, &mapping); err != nil {
				log.Fatalf("Failed to seed mapping for %q: %v", company.Name, err)
			}
		}
	}

	log.Printf("Seeded %d suppliers and %d companies into %s. Every account logs in with %q.",
		len(demoSuppliers()), len(demoCompanies()), config.Database.Path, seedPassword)
}
