// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"time"

	"github.com/croppulse/croppulse/pkg/geo"
	"github.com/croppulse/croppulse/services/routing"
	"github.com/croppulse/croppulse/services/scheduler"
	"github.com/croppulse/croppulse/services/store"
)

// Config is the top-level config.yaml schema.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	HQ        HQConfig        `yaml:"headquarters"`

	// Transport overrides the built-in cost/emission/speed parameters
	// per mode. Modes not listed keep their defaults.
	Transport map[string]routing.TransportParams `yaml:"transport"`
}

type ServerConfig struct {
	Port  string `yaml:"port"`
	UIDir string `yaml:"ui_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	// JWTSecret signs access tokens. Leave empty to read JWT_SECRET
	// from the environment instead.
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

type SchedulerConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
}

type HQConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// DefaultConfig returns the demo defaults: a local SQLite file, the
// bundled UI, and the Zurich headquarters.
func DefaultConfig() Config {
	return Config{
		Server:    ServerConfig{Port: "8080", UIDir: "ui"},
		Database:  DatabaseConfig{Path: "croppulse.db"},
		Auth:      AuthConfig{TokenTTLMinutes: 60},
		Scheduler: SchedulerConfig{Enabled: true, IntervalMinutes: 30},
		HQ:        HQConfig{Latitude: 47.3769, Longitude: 8.5417},
	}
}

func (c Config) tokenTTL() time.Duration {
	if c.Auth.TokenTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func (c Config) schedulerInterval() time.Duration {
	if c.Scheduler.IntervalMinutes <= 0 {
		return scheduler.DefaultInterval
	}
	return time.Duration(c.Scheduler.IntervalMinutes) * time.Minute
}

func (c Config) headquarters() geo.Point {
	return geo.Point{Lat: c.HQ.Latitude, Lon: c.HQ.Longitude}
}

// transportParams merges config.yaml overrides onto the defaults.
func (c Config) transportParams() routing.Params {
	params := routing.DefaultParams()
	for mode, p := range c.Transport {
		params[store.TransportMode(mode)] = p
	}
	return params
}
