// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulseboard/pulseboard/services/dashboard/fileopen"
	"github.com/pulseboard/pulseboard/services/dashboard/handlers"
)

// SetupRoutes registers the dashboard API, the metrics endpoint, and the
// static browser UI.
func SetupRoutes(router *gin.Engine, deps handlers.Deps, opener *fileopen.Opener) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve the browser UI when the directory exists; the API works either way.
	if uiDir := deps.Cfg.Server.UIDir; uiDir != "" {
		if _, err := os.Stat(uiDir); err == nil {
			router.StaticFS("/ui", http.Dir(uiDir))
			router.GET("/", func(c *gin.Context) {
				c.Redirect(http.StatusMovedPermanently, "/ui/index.html")
			})
		}
	}

	// API version 1 group
	v1 := router.Group("/v1")
	{
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("", handlers.GetDashboard(deps))
			dashboard.GET("/counters", handlers.GetCounters(deps))
			dashboard.GET("/summaries", handlers.GetSummaries(deps))
			dashboard.GET("/delays", handlers.GetDelays(deps))
			dashboard.GET("/milestones", handlers.GetMilestones(deps))
			dashboard.GET("/palette", handlers.GetPalette(deps))
		}
		v1.POST("/files/open", handlers.OpenPath(deps, opener))
	}
}
