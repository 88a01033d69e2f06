// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the dashboard service's HTTP endpoints.
//
// Every dashboard endpoint runs a complete refresh cycle: the export files
// are re-read from scratch on each request and nothing is cached between
// requests. A degraded refresh still answers 200 with a placeholder
// snapshot; the UI renders the reason instead of the table and never sees a
// stack trace.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/services/dashboard/config"
	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
	"github.com/pulseboard/pulseboard/services/dashboard/loader"
	"github.com/pulseboard/pulseboard/services/dashboard/observability"
	"github.com/pulseboard/pulseboard/services/dashboard/progress"
	"github.com/pulseboard/pulseboard/services/dashboard/snapshot"
)

// Deps carries what the handlers need: the configuration, the clock every
// refresh captures "now" from, and the metrics sink. Metrics may be nil in
// tests.
type Deps struct {
	Cfg     config.Config
	Clock   progress.Clock
	Metrics *observability.DashboardMetrics
}

// refresh runs one full cycle and records it.
func (d Deps) refresh() datatypes.Snapshot {
	start := time.Now()
	result := loader.Load(d.Cfg.Data.TaskFile, d.Cfg.Data.ProjectFile)
	snap := snapshot.Build(result, d.Clock)
	if d.Metrics != nil {
		d.Metrics.ObserveRefresh(string(result.Outcome), len(result.Rows), time.Since(start).Seconds())
	}
	return snap
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDashboard returns the full snapshot for a fresh refresh cycle: the
// counters, the summary table, the delayed set, and the upcoming milestones.
func GetDashboard(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("received dashboard refresh request")
		c.JSON(http.StatusOK, deps.refresh())
	}
}

// GetCounters returns only the four aggregate counters.
func GetCounters(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := deps.refresh()
		c.JSON(http.StatusOK, gin.H{
			"counters":     snap.Counters,
			"generated_at": snap.GeneratedAt,
			"degraded":     snap.Degraded,
		})
	}
}

// GetSummaries returns the project summary list.
func GetSummaries(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := deps.refresh()
		c.JSON(http.StatusOK, gin.H{"summaries": snap.Summaries, "degraded": snap.Degraded})
	}
}

// GetDelays returns the delayed task set.
func GetDelays(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := deps.refresh()
		c.JSON(http.StatusOK, gin.H{"delayed_tasks": snap.DelayedTasks, "degraded": snap.Degraded})
	}
}

// GetMilestones returns the upcoming milestone list, earliest first.
func GetMilestones(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := deps.refresh()
		c.JSON(http.StatusOK, gin.H{"upcoming_milestones": snap.UpcomingMilestones, "degraded": snap.Degraded})
	}
}

// GetPalette exposes the configured tag-to-color mapping so the browser UI
// styles rows without baking colors into business logic.
func GetPalette(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"palette": deps.Cfg.Palette})
	}
}
