// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonLogs   bool

	rootCmd = &cobra.Command{
		Use:   "croppulse",
		Short: "A cli to run and manage the CropPulse supply chain platform",
		Long: `CropPulse links food companies to climate-resilient suppliers.
				The cli runs the API server, seeds demo data, and inspects
				the local database.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the CropPulse API server",
		Run:   runServe, // Defined in serve.go
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo companies, suppliers and stocks",
		Run:   runSeed, // Defined in seed.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the yaml configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false,
		"Emit JSON logs instead of text")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}
