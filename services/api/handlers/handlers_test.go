// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/croppulse/croppulse/services/store"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "croppulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// doJSON performs a request with a JSON body and returns the recorder.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// doGET performs a GET request and returns the recorder.
func doGET(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorder body into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func seedSupplierRow(t *testing.T, s *store.Store, name string, lat, lon float64) *store.Supplier {
	t.Helper()
	sup := &store.Supplier{Name: name, Country: "IT", City: "Milan", Latitude: lat, Longitude: lon}
	require.NoError(t, s.CreateSupplier(context.Background(), sup))
	return sup
}

func seedCompanyRow(t *testing.T, s *store.Store, name string) *store.Company {
	t.Helper()
	c := &store.Company{Name: name, Country: "CH", City: "Zurich", Latitude: 47.3769, Longitude: 8.5417}
	require.NoError(t, s.CreateCompany(context.Background(), c))
	return c
}
