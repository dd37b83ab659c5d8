// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/croppulse/croppulse/pkg/logging"
	"github.com/croppulse/croppulse/services/api/observability"
	"github.com/croppulse/croppulse/services/api/routes"
	"github.com/croppulse/croppulse/services/llm"
	"github.com/croppulse/croppulse/services/routing"
	"github.com/croppulse/croppulse/services/satellite"
	"github.com/croppulse/croppulse/services/scheduler"
	"github.com/croppulse/croppulse/services/store"
)

// initTracer wires the OTLP gRPC exporter. Tracing is opt-in: callers
// only invoke this when OTEL_EXPORTER_OTLP_ENDPOINT is set.
func initTracer(otelEndpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("croppulse-api")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// jwtSecret resolves the token signing key: config.yaml first, then
// the JWT_SECRET env var, then a demo default with a loud warning.
func jwtSecret() []byte {
	if config.Auth.JWTSecret != "" {
		return []byte(config.Auth.JWTSecret)
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	slog.Warn("No JWT secret configured, using the demo default. Do not do this in production.")
	return []byte("croppulse-demo-secret")
}

func runServe(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{
		Level:   logging.LevelInfo,
		Service: "api",
		JSON:    jsonLogs,
		LogDir:  os.Getenv("CROPPULSE_LOG_DIR"),
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	metrics := observability.InitMetrics()

	tracingEnabled := false
	if otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); otelEndpoint != "" {
		cleanup, err := initTracer(otelEndpoint)
		if err != nil {
			log.Fatalf("failed to setup the OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
		tracingEnabled = true
		slog.Info("OTLP tracing enabled", "endpoint", otelEndpoint)
	}

	s, err := store.Open(config.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open the database: %v", err)
	}
	defer s.Close()
	slog.Info("Database opened", "path", s.Path())

	llmClient, err := llm.NewClientFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	satClient := satellite.NewClient()
	if satClient.Available() {
		slog.Info("Geo service configured")
	} else {
		slog.Info("GEO_SERVICE_URL not set. Satellite data will be mocked.")
	}
	osrmClient := routing.NewClient()

	var evaluator *scheduler.Evaluator
	if config.Scheduler.Enabled {
		evaluator, err = scheduler.NewEvaluator(s, config.schedulerInterval(), slog.Default())
		if err != nil {
			log.Fatalf("Failed to create the risk evaluator: %v", err)
		}
		evaluator.Start()
		defer evaluator.Stop()
	}

	if jsonLogs {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.Middleware(metrics))
	if tracingEnabled {
		router.Use(otelgin.Middleware("croppulse-api"))
	}

	routes.SetupRoutes(router, routes.Deps{
		Store:     s,
		LLM:       llmClient,
		Satellite: satClient,
		OSRM:      osrmClient,
		Params:    config.transportParams(),
		JWTSecret: jwtSecret(),
		TokenTTL:  config.tokenTTL(),
		HQ:        config.headquarters(),
		UIDir:     config.Server.UIDir,
	})

	srv := &http.Server{
		Addr:              ":" + config.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting the CropPulse API server", "port", config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
