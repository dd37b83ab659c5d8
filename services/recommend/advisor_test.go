// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croppulse/croppulse/services/llm"
	"github.com/croppulse/croppulse/services/store"
)

// scriptedLLM returns canned answers in order, one per Generate call.
type scriptedLLM struct {
	answers []string
	calls   int
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	if s.calls >= len(s.answers) {
		return "", fmt.Errorf("no more scripted answers")
	}
	answer := s.answers[s.calls]
	s.calls++
	return answer, nil
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []llm.Message, params llm.GenerationParams) (string, error) {
	return s.Generate(ctx, "", params)
}

func seedAdvisorFixture(t *testing.T, s *store.Store) (companyID, riskyID int64, altIDs []int64) {
	t.Helper()
	ctx := context.Background()

	c := &store.Company{Name: "Alpine Foods", Country: "CH", City: "Zurich", Latitude: 47.3769, Longitude: 8.5417}
	require.NoError(t, s.CreateCompany(ctx, c))

	names := []string{"Risky Grains", "Po Valley Grains", "Loire Cereals", "Andalusia Agro"}
	coords := [][2]float64{{45.0, 9.0}, {45.4642, 9.19}, {47.4, 0.7}, {37.4, -5.9}}
	ids := make([]int64, 0, len(names))
	for i, name := range names {
		sup := &store.Supplier{Name: name, Country: "EU", City: name, Latitude: coords[i][0], Longitude: coords[i][1]}
		require.NoError(t, s.CreateSupplier(ctx, sup))
		require.NoError(t, s.CreateStock(ctx, &store.SupplierStock{
			SupplierID: sup.ID, CropType: store.CropWheat, RemainingVolume: 200,
		}))
		ids = append(ids, sup.ID)
	}
	return c.ID, ids[0], ids[1:]
}

// ============================================================================
// Advise
// ============================================================================

func TestAdvise_PersistsModelChoices(t *testing.T) {
	s := newTestStore(t)
	companyID, riskyID, altIDs := seedAdvisorFixture(t, s)

	answer := fmt.Sprintf(`[{"supplier_id":%d,"reasoning":"closest with stock"},{"supplier_id":%d,"reasoning":"reliable rail link"}]`,
		altIDs[0], altIDs[1])
	advisor := NewAdvisor(s, &scriptedLLM{answers: []string{answer}})

	recs, err := advisor.Advise(context.Background(), companyID, riskyID, store.CropWheat)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, altIDs[0], recs[0].AlternativeSupplierID)
	assert.Equal(t, riskyID, recs[0].RiskySupplierID)
	require.NotNil(t, recs[0].Reasoning)
	assert.Equal(t, "closest with stock", *recs[0].Reasoning)

	stored, err := s.RecommendationsByCompany(context.Background(), companyID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAdvise_RetriesOnInvalidJSON(t *testing.T) {
	s := newTestStore(t)
	companyID, riskyID, altIDs := seedAdvisorFixture(t, s)

	mock := &scriptedLLM{answers: []string{
		"Sure! Here are my picks: supplier 2 looks great.",
		fmt.Sprintf(`[{"supplier_id":%d,"reasoning":"second attempt"}]`, altIDs[0]),
	}}
	advisor := NewAdvisor(s, mock)

	recs, err := advisor.Advise(context.Background(), companyID, riskyID, store.CropWheat)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, mock.calls)
}

func TestAdvise_FailsAfterTwoBadAnswers(t *testing.T) {
	s := newTestStore(t)
	companyID, riskyID, _ := seedAdvisorFixture(t, s)

	advisor := NewAdvisor(s, &scriptedLLM{answers: []string{"nope", "still nope"}})

	_, err := advisor.Advise(context.Background(), companyID, riskyID, store.CropWheat)
	assert.Error(t, err)
}

func TestAdvise_SkipsUnknownSuppliers(t *testing.T) {
	s := newTestStore(t)
	companyID, riskyID, altIDs := seedAdvisorFixture(t, s)

	answer := fmt.Sprintf(`[{"supplier_id":9999,"reasoning":"made up"},{"supplier_id":%d,"reasoning":"real"}]`, altIDs[0])
	advisor := NewAdvisor(s, &scriptedLLM{answers: []string{answer}})

	recs, err := advisor.Advise(context.Background(), companyID, riskyID, store.CropWheat)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, altIDs[0], recs[0].AlternativeSupplierID)
}

func TestAdvise_NoCandidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &store.Company{Name: "Alpine Foods", Country: "CH", City: "Zurich", Latitude: 47.38, Longitude: 8.54}
	require.NoError(t, s.CreateCompany(ctx, c))
	sup := &store.Supplier{Name: "Only Supplier", Country: "IT", City: "Milan", Latitude: 45.46, Longitude: 9.19}
	require.NoError(t, s.CreateSupplier(ctx, sup))

	advisor := NewAdvisor(s, &scriptedLLM{})
	_, err := advisor.Advise(ctx, c.ID, sup.ID, store.CropWheat)
	assert.Error(t, err)
}

// ============================================================================
// Demo Backend Compatibility
// ============================================================================

func TestAdvise_WorksWithDemoBackend(t *testing.T) {
	s := newTestStore(t)
	companyID, riskyID, altIDs := seedAdvisorFixture(t, s)

	advisor := NewAdvisor(s, llm.NewDemoClient())

	recs, err := advisor.Advise(context.Background(), companyID, riskyID, store.CropWheat)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	// Demo ranking follows prompt order, which is sorted by distance.
	assert.Equal(t, altIDs[0], recs[0].AlternativeSupplierID)
}

func TestParseAlternatives_StripsCodeFences(t *testing.T) {
	raw := "```json\n[{\"supplier_id\":4,\"reasoning\":\"ok\"}]\n```"
	alts, err := parseAlternatives(raw)
	require.NoError(t, err)
	require.Len(t, alts, 1)
	assert.Equal(t, int64(4), alts[0].SupplierID)
}
