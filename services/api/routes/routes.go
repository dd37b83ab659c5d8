// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/services/api/handlers"
	"github.com/croppulse/croppulse/services/api/middleware"
	"github.com/croppulse/croppulse/services/api/observability"
	"github.com/croppulse/croppulse/services/llm"
	"github.com/croppulse/croppulse/services/recommend"
	"github.com/croppulse/croppulse/services/routing"
	"github.com/croppulse/croppulse/services/satellite"
	"github.com/croppulse/croppulse/services/store"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Store     *store.Store
	LLM       llm.LLMClient
	Satellite *satellite.Client
	OSRM      *routing.Client
	Params    routing.Params
	JWTSecret []byte
	TokenTTL  time.Duration
	HQ        geo.Point
	UIDir     string
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck)
	if observability.DefaultMetrics != nil {
		router.GET("/metrics", observability.Handler())
	}
	if deps.UIDir != "" {
		router.StaticFS("/ui", http.Dir(deps.UIDir))
	}

	// Friendly redirects into the static pages
	router.GET("/dashboard", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/ui/dashboard.html")
	})
	router.GET("/chat", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/ui/chat.html")
	})

	advisor := recommend.NewAdvisor(deps.Store, deps.LLM)
	authed := middleware.RequireAuth(deps.JWTSecret)

	// API version 1 group. Reads are public, writes need a token.
	v1 := router.Group("/v1")
	{
		v1.POST("/auth/login", handlers.Login(deps.Store, deps.JWTSecret, deps.TokenTTL))

		v1.POST("/companies", handlers.CreateCompany(deps.Store))
		v1.GET("/companies", handlers.ListCompanies(deps.Store))
		v1.DELETE("/companies/:id", authed, handlers.DeleteCompany(deps.Store))

		v1.POST("/needs", authed, handlers.CreateNeed(deps.Store))
		v1.GET("/needs", handlers.ListNeeds(deps.Store))
		v1.GET("/needs/company/:companyId", handlers.NeedsByCompany(deps.Store))
		v1.DELETE("/needs/:id", authed, handlers.DeleteNeed(deps.Store))

		v1.POST("/suppliers", authed, handlers.CreateSupplier(deps.Store))
		v1.GET("/suppliers", handlers.ListSuppliers(deps.Store))
		v1.DELETE("/suppliers/:id", authed, handlers.DeleteSupplier(deps.Store))

		v1.POST("/stocks", authed, handlers.CreateStock(deps.Store))
		v1.GET("/stocks/supplier/:supplierId", handlers.StocksBySupplier(deps.Store))

		v1.POST("/mappings", authed, handlers.CreateMapping(deps.Store))
		v1.GET("/mappings", handlers.ListMappings(deps.Store))
		v1.GET("/mappings/company/:companyId/suppliers", handlers.SuppliersByCompany(deps.Store))
		v1.DELETE("/mappings/:id", authed, handlers.DeleteMapping(deps.Store))

		v1.POST("/alerts", authed, handlers.CreateAlert(deps.Store))
		v1.GET("/alerts", handlers.ListAlerts(deps.Store))
		v1.GET("/alerts/company/:companyId", handlers.AlertsByCompany(deps.Store))
		v1.GET("/alerts/ws", handlers.AlertFeed(deps.Store))
		v1.DELETE("/alerts/:id", authed, handlers.DeleteAlert(deps.Store))

		v1.POST("/recommendations", authed, handlers.CreateRecommendation(deps.Store))
		v1.GET("/recommendations", handlers.ListRecommendations(deps.Store))
		v1.GET("/recommendations/company/:companyId", handlers.RecommendationsByCompany(deps.Store))
		v1.DELETE("/recommendations/:id", authed, handlers.DeleteRecommendation(deps.Store))
		v1.POST("/recommendations/advise", authed, handlers.Advise(deps.Store, advisor))

		v1.POST("/chat", handlers.HandleChat(deps.LLM))

		v1.GET("/routes/plan", handlers.PlanRoute(deps.OSRM, deps.Params))
		v1.GET("/analytics/summary", handlers.AnalyticsSummary(deps.Store, deps.Satellite, deps.Params, deps.HQ))

		// Satellite data routes
		satGroup := v1.Group("/satellite")
		{
			satGroup.GET("/health", handlers.SatelliteHealth(deps.Satellite))
			satGroup.GET("/ndvi/supplier/:supplierId", handlers.SupplierNDVI(deps.Store, deps.Satellite))
			satGroup.GET("/ndvi/timeseries/supplier/:supplierId", handlers.SupplierNDVITimeSeries(deps.Store, deps.Satellite))
			satGroup.GET("/ndvi/region", handlers.RegionNDVI(deps.Satellite))
			satGroup.GET("/ndvi/point", handlers.PointNDVI(deps.Satellite))
			satGroup.GET("/climate/supplier/:supplierId", handlers.SupplierClimate(deps.Store, deps.Satellite))
			satGroup.GET("/climate/route/:supplierId", handlers.RouteClimate(deps.Store, deps.Satellite, deps.HQ))
			satGroup.GET("/traffic/route/:supplierId", handlers.RouteTraffic(deps.Store, deps.Satellite))
		}
	}
}
