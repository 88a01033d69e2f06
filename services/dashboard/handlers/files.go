// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
	"github.com/pulseboard/pulseboard/services/dashboard/fileopen"
)

// OpenPath asks the host OS to open a file or folder from a summary row's
// link button. The open is a fire-and-forget side effect; the response only
// tells the UI which notification to flash.
//
// A rejected or failed open is still a 200: "could not open" is a result,
// not a server error.
func OpenPath(deps Deps, opener *fileopen.Opener) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.OpenFileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			slog.Warn("rejected open request", "error", err)
			if deps.Metrics != nil {
				deps.Metrics.ObserveOpen("rejected")
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		slog.Info("open request", "request_id", req.RequestID, "allow_directory", req.AllowDirectory)
		result := opener.Open(req.Path, req.AllowDirectory)

		if deps.Metrics != nil {
			if result.Success {
				deps.Metrics.ObserveOpen("opened")
			} else {
				deps.Metrics.ObserveOpen("failed")
			}
		}
		c.JSON(http.StatusOK, datatypes.OpenFileResponse{
			RequestID: req.RequestID,
			Success:   result.Success,
			Message:   result.Message,
		})
	}
}
