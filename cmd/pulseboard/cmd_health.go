// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/ux"
)

var healthServerURL string

// healthCmd pings the dashboard server's /health endpoint.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the dashboard server is up",
	Run:   runHealthCommand,
}

func init() {
	healthCmd.Flags().StringVar(&healthServerURL, "server", "",
		"Dashboard server base URL (default http://localhost:<configured port>)")
}

func runHealthCommand(cmd *cobra.Command, args []string) {
	base := healthServerURL
	if base == "" {
		base = "http://localhost:" + cfg.Server.Port
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(base + "/health")
	if err != nil {
		fmt.Println(ux.Styles.Danger.Render("dashboard server unreachable: " + err.Error()))
		os.Exit(1)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["status"] != "ok" {
		fmt.Println(ux.Styles.Danger.Render(fmt.Sprintf("dashboard server unhealthy (HTTP %d)", resp.StatusCode)))
		os.Exit(1)
	}

	fmt.Println(ux.Styles.Success.Render("dashboard server is healthy") + " " +
		ux.Styles.Muted.Render(base))
}
