// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/croppulse/croppulse/services/api/datatypes"
	"github.com/croppulse/croppulse/services/api/observability"
	"github.com/croppulse/croppulse/services/store"
)

// CreateAlert files an alert manually.
func CreateAlert(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateAlertRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		alert := store.Alert{
			SupplierID: req.SupplierID,
			AlertType:  store.AlertType(req.AlertType),
			Severity:   store.Severity(req.Severity),
			Message:    req.Message,
		}
		if err := s.CreateAlert(c.Request.Context(), &alert); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		observability.RecordAlert(req.AlertType)
		c.JSON(http.StatusCreated, alert)
	}
}

// ListAlerts returns every alert, newest first.
func ListAlerts(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		alerts, err := s.ListAlerts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, alerts)
	}
}

// AlertsByCompany returns the alerts of every supplier mapped to a
// company.
func AlertsByCompany(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := idParam(c, "companyId")
		if !ok {
			return
		}
		if _, err := s.GetCompany(c.Request.Context(), companyID); err != nil {
			writeStoreError(c, err, "company")
			return
		}
		alerts, err := s.AlertsByCompany(c.Request.Context(), companyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, alerts)
	}
}

// DeleteAlert removes an alert.
func DeleteAlert(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteAlert(c.Request.Context(), id); err != nil {
			writeStoreError(c, err, "alert")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "alert deleted"})
	}
}

var alertUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

// alertPollInterval is how often the feed checks for new alerts.
const alertPollInterval = 2 * time.Second

// AlertFeed streams newly filed alerts over a websocket. On connect it
// sends the current alerts as a snapshot, then pushes every alert with
// an id greater than the last one seen.
func AlertFeed(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := alertUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		if observability.DefaultMetrics != nil {
			observability.DefaultMetrics.ActiveWebsockets.Inc()
			defer observability.DefaultMetrics.ActiveWebsockets.Dec()
		}
		slog.Info("Alert feed client connected")

		ctx := c.Request.Context()
		var lastID int64

		snapshot, err := s.AlertsAfter(ctx, 0)
		if err != nil {
			slog.Error("Failed to load alert snapshot", "error", err)
			return
		}
		if err := ws.WriteJSON(gin.H{"action": "snapshot", "alerts": snapshot}); err != nil {
			return
		}
		if len(snapshot) > 0 {
			lastID = snapshot[len(snapshot)-1].ID
		}

		// Reads only serve to detect client disconnects.
		disconnected := make(chan struct{})
		go func() {
			defer close(disconnected)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(alertPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-disconnected:
				slog.Info("Alert feed client disconnected")
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				fresh, err := s.AlertsAfter(ctx, lastID)
				if err != nil {
					slog.Warn("Alert feed poll failed", "error", err)
					continue
				}
				for _, alert := range fresh {
					if err := ws.WriteJSON(gin.H{"action": "alert", "alert": alert}); err != nil {
						return
					}
					lastID = alert.ID
				}
			}
		}
	}
}
