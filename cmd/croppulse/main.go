// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var config Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// .env is optional; env vars already set always win.
		if err := godotenv.Load(); err == nil {
			log.Println("Loaded environment from .env")
		}

		config = DefaultConfig()
		yamlFile, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Error reading %s: %v", configPath, err)
			}
			log.Printf("%s not found, running with defaults", configPath)
			return
		}
		if err := yaml.Unmarshal(yamlFile, &config); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Println("Configuration loaded successfully.")
	}
}
