// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/services/dashboard/config"
	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
	"github.com/pulseboard/pulseboard/services/dashboard/observability"
	"github.com/pulseboard/pulseboard/services/dashboard/progress"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const taskHeader = "project_id,project_name,process,line,task_id,task_name," +
	"task_start_date,task_finish_date,task_status,task_milestone\n"

// testDeps builds Deps over a temp task export with the given rows.
func testDeps(t *testing.T, taskRows string) Deps {
	t.Helper()
	dir := t.TempDir()
	taskPath := filepath.Join(dir, "tasks.csv")
	require.NoError(t, os.WriteFile(taskPath, []byte(taskHeader+taskRows), 0644))

	cfg := config.Default()
	cfg.Data.TaskFile = taskPath
	cfg.Data.ProjectFile = filepath.Join(dir, "projects.csv") // absent, join skipped

	return Deps{
		Cfg:     cfg,
		Clock:   progress.FixedClock{T: testNow},
		Metrics: observability.NewDashboardMetrics(nil),
	}
}

func perform(handler gin.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	handler(c)
	return w
}

// =============================================================================
// Health Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	w := perform(HealthCheck, "GET", "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// =============================================================================
// Dashboard Tests
// =============================================================================

func TestGetDashboard(t *testing.T) {
	deps := testDeps(t,
		"p1,Alpha,design,L1,t1,Late task,2025-01-01,2025-05-01,active,\n"+
			"p1,Alpha,design,L1,t2,Done task,2025-01-01,2025-02-01,done,\n"+
			"p2,Beta,build,L2,t3,Launch,2025-06-01,2025-06-20,active,○\n")

	w := perform(GetDashboard(deps), "GET", "/v1/dashboard")

	require.Equal(t, http.StatusOK, w.Code)

	var snap datatypes.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))

	assert.False(t, snap.Degraded)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 2, snap.Counters.TotalProjects)
	assert.Equal(t, 1, snap.Counters.DelayedProjects)
	assert.Equal(t, 1, snap.Counters.MilestonesThisMonth)
	require.Len(t, snap.Summaries, 2)
	assert.Equal(t, "p1", snap.Summaries[0].ProjectID)
	assert.True(t, snap.Summaries[0].HasDelay)
	assert.Equal(t, "danger", snap.Summaries[0].ColorTag)
	require.Len(t, snap.DelayedTasks, 1)
	assert.Equal(t, "t1", snap.DelayedTasks[0].TaskID)
	require.Len(t, snap.UpcomingMilestones, 1)
	assert.Equal(t, "t3", snap.UpcomingMilestones[0].TaskID)
}

func TestGetDashboard_DegradedStillOK(t *testing.T) {
	deps := testDeps(t, "")
	deps.Cfg.Data.TaskFile = filepath.Join(t.TempDir(), "missing.csv")

	w := perform(GetDashboard(deps), "GET", "/v1/dashboard")

	// A degraded refresh is a placeholder board, not a server error.
	require.Equal(t, http.StatusOK, w.Code)

	var snap datatypes.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Degraded)
	assert.NotEmpty(t, snap.Reason)
	assert.Empty(t, snap.Summaries)
}

func TestGetDashboard_StatelessAcrossRequests(t *testing.T) {
	deps := testDeps(t, "p1,Alpha,design,L1,t1,Task,2025-01-01,2025-12-01,active,\n")

	first := perform(GetDashboard(deps), "GET", "/v1/dashboard")
	second := perform(GetDashboard(deps), "GET", "/v1/dashboard")

	var a, b datatypes.Snapshot
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))

	// Each request is a fresh refresh with its own snapshot id.
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Counters, b.Counters)
}

// =============================================================================
// Partial View Tests
// =============================================================================

func TestGetCounters(t *testing.T) {
	deps := testDeps(t, "p1,Alpha,design,L1,t1,Task,2025-01-01,2025-12-01,done,\n")

	w := perform(GetCounters(deps), "GET", "/v1/dashboard/counters")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Counters datatypes.Counters `json:"counters"`
		Degraded bool               `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Counters.TotalProjects)
	assert.Equal(t, 0, body.Counters.ActiveProjects)
	assert.False(t, body.Degraded)
}

func TestGetSummaries(t *testing.T) {
	deps := testDeps(t, "p1,Alpha,design,L1,t1,Task,2025-01-01,2025-12-01,active,\n")

	w := perform(GetSummaries(deps), "GET", "/v1/dashboard/summaries")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Summaries []datatypes.ProjectSummary `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Summaries, 1)
	assert.Equal(t, "Alpha", body.Summaries[0].ProjectName)
}

func TestGetDelays(t *testing.T) {
	deps := testDeps(t, "p1,Alpha,design,L1,t1,Late,2025-01-01,2025-05-01,active,\n")

	w := perform(GetDelays(deps), "GET", "/v1/dashboard/delays")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		DelayedTasks []datatypes.UnifiedRow `json:"delayed_tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.DelayedTasks, 1)
	assert.Equal(t, "t1", body.DelayedTasks[0].TaskID)
}

func TestGetMilestones(t *testing.T) {
	deps := testDeps(t,
		"p1,Alpha,design,L1,t1,Far,2025-01-01,2025-10-01,active,○\n"+
			"p2,Beta,build,L2,t2,Near,2025-01-01,2025-07-01,active,○\n")

	w := perform(GetMilestones(deps), "GET", "/v1/dashboard/milestones")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UpcomingMilestones []datatypes.UnifiedRow `json:"upcoming_milestones"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.UpcomingMilestones, 2)
	assert.Equal(t, "t2", body.UpcomingMilestones[0].TaskID, "earliest milestone first")
}

func TestGetPalette(t *testing.T) {
	deps := testDeps(t, "")

	w := perform(GetPalette(deps), "GET", "/v1/dashboard/palette")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Palette map[string]string `json:"palette"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, deps.Cfg.Palette["danger"], body.Palette["danger"])
}
