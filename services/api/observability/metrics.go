// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the API
// service. Metrics are exposed via the /metrics endpoint.
//
// All metric operations are thread-safe via Prometheus's internal
// locking.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "croppulse"

// APIMetrics holds all Prometheus metrics for the API service.
//
// # Fields
//
//   - RequestsTotal: Counter of HTTP requests by route and status code
//   - RequestDurationSeconds: Histogram of request latency by route
//   - ExternalCallsTotal: Counter of upstream calls (osrm, geo, llm) by outcome
//   - AlertsFiledTotal: Counter of alerts filed by type
//   - ActiveWebsockets: Gauge of connected alert feed clients
type APIMetrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	ExternalCallsTotal     *prometheus.CounterVec
	AlertsFiledTotal       *prometheus.CounterVec
	ActiveWebsockets       prometheus.Gauge
}

// DefaultMetrics is the singleton instance. Initialized by InitMetrics().
var DefaultMetrics *APIMetrics

// InitMetrics creates and registers all metrics. Call once at startup;
// registering twice panics.
func InitMetrics() *APIMetrics {
	DefaultMetrics = &APIMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),

		RequestDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		ExternalCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "external_calls_total",
			Help:      "Upstream service calls by target and outcome.",
		}, []string{"target", "outcome"}),

		AlertsFiledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "alerts_filed_total",
			Help:      "Alerts filed by type.",
		}, []string{"alert_type"}),

		ActiveWebsockets: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "active_websockets",
			Help:      "Connected alert feed clients.",
		}),
	}
	return DefaultMetrics
}

// RecordExternalCall increments the upstream call counter. Safe to call
// when metrics were never initialized.
func RecordExternalCall(target string, err error) {
	if DefaultMetrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	DefaultMetrics.ExternalCallsTotal.WithLabelValues(target, outcome).Inc()
}

// RecordAlert increments the filed alert counter.
func RecordAlert(alertType string) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.AlertsFiledTotal.WithLabelValues(alertType).Inc()
}

// Middleware observes every request's route, status and latency.
func Middleware(m *APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDurationSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
