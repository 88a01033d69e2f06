// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Pulseboard operator CLI: one-shot snapshots, an interactive terminal
// board, and server health checks. The browser-facing service lives in
// services/dashboard.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/logging"
	"github.com/pulseboard/pulseboard/services/dashboard/config"
)

var (
	cfg       config.Config
	cliLogger *logging.Logger

	flagConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "pulseboard",
	Short: "Project portfolio status dashboard",
	Long: `Pulseboard reads the task and project CSV exports and shows
per-project progress, delays, and upcoming milestones.

Examples:
  pulseboard snapshot          # Print the board once and exit
  pulseboard board             # Interactive terminal board (r to refresh)
  pulseboard health            # Check the dashboard server`,
}

func main() {
	defer func() {
		if cliLogger != nil {
			_ = cliLogger.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "",
		"Path to pulseboard.yaml (default ~/.pulseboard/pulseboard.yaml)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cliLogger = logging.New(logging.Config{
			Level:   logging.LevelInfo,
			LogDir:  "~/.pulseboard/logs",
			Service: "cli",
			Quiet:   true, // keep stderr clean for rendered output
		})

		path := flagConfigPath
		if path == "" {
			if env := os.Getenv("PULSEBOARD_CONFIG"); env != "" {
				path = env
			} else {
				var err error
				path, err = config.DefaultPath()
				if err != nil {
					log.Fatalf("Error resolving config path: %v", err)
				}
			}
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
		cliLogger.Info("configuration loaded", "path", path)
	}

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(healthCmd)
}
