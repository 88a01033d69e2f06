// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package snapshot runs one refresh cycle end to end: load, aggregate,
// classify, and assemble the four read-only views the presentation layer
// consumes. A snapshot is immutable once built; nothing is retained between
// refreshes.
package snapshot

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
	"github.com/pulseboard/pulseboard/services/dashboard/loader"
	"github.com/pulseboard/pulseboard/services/dashboard/progress"
)

// Builder runs refresh cycles against a fixed pair of export paths.
type Builder struct {
	TaskPath    string
	ProjectPath string
	Clock       progress.Clock
}

// New returns a Builder reading the given exports on the system clock.
func New(taskPath, projectPath string) *Builder {
	return &Builder{TaskPath: taskPath, ProjectPath: projectPath, Clock: progress.SystemClock{}}
}

// Refresh re-reads both export files and computes a fresh snapshot. The
// wall-clock instant is captured once, so every view inside one snapshot
// agrees on "now".
func (b *Builder) Refresh() datatypes.Snapshot {
	result := loader.Load(b.TaskPath, b.ProjectPath)
	return Build(result, b.Clock)
}

// Build assembles a snapshot from an already-loaded row set.
//
// Degraded loads produce a placeholder snapshot: zero counters, empty
// lists, Degraded set, and a human-readable Reason for the UI to show
// instead of the table. An empty-but-valid dataset is not degraded; it is
// simply a board with nothing on it.
func Build(result loader.Result, clock progress.Clock) datatypes.Snapshot {
	now := clock.Now()
	snap := datatypes.Snapshot{
		ID:                 uuid.NewString(),
		GeneratedAt:        now,
		Summaries:          []datatypes.ProjectSummary{},
		DelayedTasks:       []datatypes.UnifiedRow{},
		UpcomingMilestones: []datatypes.UnifiedRow{},
	}

	if result.Failed() {
		snap.Degraded = true
		snap.Reason = degradedReason(result.Outcome)
		slog.Error("refresh degraded", "outcome", string(result.Outcome), "error", result.Err)
		return snap
	}

	rows := result.Rows
	summaries := progress.Aggregate(rows)
	delayed := progress.Delayed(rows, now)
	upcoming := progress.UpcomingMilestones(rows, now)

	delayedByProject := make(map[string]bool, len(delayed))
	for _, row := range delayed {
		delayedByProject[row.ProjectID] = true
	}

	active := 0
	for i := range summaries {
		s := &summaries[i]
		s.HasDelay = delayedByProject[s.ProjectID]
		s.ColorTag = progress.StatusColor(s.Progress, s.HasDelay)
		s.StatusLabel = progress.StatusLabel(s.Progress, s.HasDelay)
		s.NextMilestone = progress.FormatNextMilestone(upcoming, s.ProjectID, now)
		s.RecentTasks = progress.RecentTasks(rows, s.ProjectID, now)
		if s.Progress < 100 {
			active++
		}
	}

	snap.Summaries = summaries
	if delayed != nil {
		snap.DelayedTasks = delayed
	}
	if upcoming != nil {
		snap.UpcomingMilestones = upcoming
	}
	snap.Counters = datatypes.Counters{
		TotalProjects:       len(summaries),
		ActiveProjects:      active,
		DelayedProjects:     len(delayedByProject),
		MilestonesThisMonth: progress.MilestonesThisMonth(rows, now),
	}

	slog.Info("refresh complete",
		"snapshot_id", snap.ID,
		"projects", snap.Counters.TotalProjects,
		"delayed_projects", snap.Counters.DelayedProjects,
		"rows", len(rows),
		"join_skipped", result.JoinSkipped,
	)
	return snap
}

// degradedReason maps a loader outcome to the single explanatory message
// the table area renders when a refresh cannot produce data.
func degradedReason(outcome loader.Outcome) string {
	switch outcome {
	case loader.OutcomeInputMissing:
		return "task export not found; check the configured data paths"
	case loader.OutcomeInputMalformed:
		return "task export could not be parsed; the board has no data to show"
	default:
		return "refresh failed"
	}
}

// GeneratedStamp formats a snapshot's generation time the way the header's
// "last updated" line shows it.
func GeneratedStamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
