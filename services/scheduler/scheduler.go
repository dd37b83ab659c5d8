// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package scheduler periodically re-evaluates stock coverage and files
// alerts for suppliers that turn risky.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/croppulse/croppulse/services/recommend"
	"github.com/croppulse/croppulse/services/store"
)

// DefaultInterval is how often coverage is re-evaluated when no
// interval is configured.
const DefaultInterval = 30 * time.Minute

// Evaluator runs the coverage check on a fixed interval.
//
// Call Start() to begin evaluation and Stop() to halt it. Safe to use
// from multiple goroutines after creation.
type Evaluator struct {
	store    *store.Store
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	logger   *slog.Logger
}

// NewEvaluator builds an evaluator. A non-positive interval falls back
// to DefaultInterval.
func NewEvaluator(s *store.Store, interval time.Duration, logger *slog.Logger) (*Evaluator, error) {
	if s == nil {
		return nil, errors.New("store must not be nil")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		store:    s,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   logger,
	}, nil
}

// Start begins periodic evaluation in a goroutine.
func (e *Evaluator) Start() {
	go e.run()
}

// Stop signals the evaluation goroutine to stop and waits for it.
func (e *Evaluator) Stop() {
	close(e.stopCh)
	<-e.doneCh
}

func (e *Evaluator) run() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			if n, err := e.RunOnce(context.Background()); err != nil {
				e.logger.Warn("coverage evaluation failed", slog.String("error", err.Error()))
			} else if n > 0 {
				e.logger.Info("coverage evaluation filed alerts", slog.Int("alerts", n))
			}
		}
	}
}

// RunOnce evaluates every company's supplier coverage and files alerts
// for risky mappings. Returns the number of alerts filed. An alert is
// skipped when an identical open alert from the current run already
// exists for the supplier.
func (e *Evaluator) RunOnce(ctx context.Context) (int, error) {
	companies, err := e.store.ListCompanies(ctx)
	if err != nil {
		return 0, err
	}

	filed := 0
	seen := map[string]bool{}
	for _, company := range companies {
		assessments, err := recommend.EvaluateCompany(ctx, e.store, company.ID)
		if err != nil {
			return filed, err
		}
		for _, a := range assessments {
			alert := recommend.AlertFor(a)
			if alert == nil {
				continue
			}
			// Two companies mapped to the same supplier produce the
			// same alert; file it once per run.
			key := alert.Message
			if seen[key] {
				continue
			}
			seen[key] = true
			if err := e.store.CreateAlert(ctx, alert); err != nil {
				return filed, err
			}
			filed++
		}
	}
	return filed, nil
}
