// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the wire and domain types shared by the dashboard
// service: task rows, project summaries, refresh snapshots, and the request
// types accepted by the HTTP handlers.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var portfolioValidate = validator.New()

// =============================================================================
// Unified Rows
// =============================================================================

// UnifiedRow is one task row from the task export, enriched with the
// (possibly absent) project-level path fields via the left join.
//
// Date fields are nil when the source value was missing or unparseable;
// rows with absent dates are retained but excluded from any filter that
// requires the missing date. Path fields are nil when the project export
// carried no validated value for this project.
//
// Identity: (ProjectID, TaskID) is unique within one refresh. Rows are
// immutable once loaded and live for a single refresh cycle.
type UnifiedRow struct {
	ProjectID   string     `json:"project_id"`
	ProjectName string     `json:"project_name"`
	Process     string     `json:"process"`
	Line        string     `json:"line"`
	TaskID      string     `json:"task_id"`
	TaskName    string     `json:"task_name"`
	StartDate   *time.Time `json:"task_start_date,omitempty"`
	FinishDate  *time.Time `json:"task_finish_date,omitempty"`
	Status      string     `json:"task_status"`
	Milestone   bool       `json:"task_milestone"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`

	// Joined from the project export. Nil when the join was skipped or the
	// path failed validation.
	ProjectPath *string `json:"project_path,omitempty"`
	ChartPath   *string `json:"ganttchart_path,omitempty"`
}

// =============================================================================
// Project Summaries
// =============================================================================

// ProjectSummary is one aggregated row per project id, derived from all of
// its task rows during a single refresh.
//
// Name, Process, Line and the path fields come from the first row seen for
// the project in input order. Progress is completed/total*100 rounded to two
// decimals; by convention it is 0 when TotalTasks is 0. DurationDays is
// FinishDate − StartDate in whole days and passes through negative spans
// unclamped when the source dates are inverted.
type ProjectSummary struct {
	ProjectID      string     `json:"project_id"`
	ProjectName    string     `json:"project_name"`
	Process        string     `json:"process"`
	Line           string     `json:"line"`
	TotalTasks     int        `json:"total_tasks"`
	CompletedTasks int        `json:"completed_tasks"`
	MilestoneCount int        `json:"milestone_count"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	FinishDate     *time.Time `json:"end_date,omitempty"`
	ProjectPath    *string    `json:"project_path,omitempty"`
	ChartPath      *string    `json:"ganttchart_path,omitempty"`
	Progress       float64    `json:"progress"`
	DurationDays   int        `json:"duration"`
	HasDuration    bool       `json:"has_duration"`

	// Presentation fields filled in by the snapshot builder.
	HasDelay      bool        `json:"has_delay"`
	ColorTag      string      `json:"color_tag"`
	StatusLabel   string      `json:"status_label"`
	NextMilestone string      `json:"next_milestone"`
	RecentTasks   RecentTasks `json:"recent_tasks"`
}

// RecentTasks is the per-project digest shown alongside each summary row:
// the most overdue delayed task, the nearest in-flight task, and the next
// two tasks by planned start. Empty strings mean "none".
type RecentTasks struct {
	Delayed    string `json:"delayed,omitempty"`
	InProgress string `json:"in_progress,omitempty"`
	Next       string `json:"next,omitempty"`
	NextAfter  string `json:"next_after,omitempty"`
}

// =============================================================================
// Snapshots
// =============================================================================

// Counters holds the four aggregate values rendered at the top of the board.
type Counters struct {
	TotalProjects       int `json:"total_projects"`
	ActiveProjects      int `json:"active_projects"`
	DelayedProjects     int `json:"delayed_projects"`
	MilestonesThisMonth int `json:"milestone_projects"`
}

// Snapshot is the immutable result of one refresh cycle: the four read-only
// views consumed by the presentation layer, stamped with a fresh id and the
// wall-clock time the refresh was computed against.
//
// Degraded snapshots (load failure, malformed input, empty aggregation)
// carry zeroed counters, empty lists, and a Reason string the UI renders as
// a placeholder message instead of the table.
type Snapshot struct {
	ID                 string           `json:"id"`
	GeneratedAt        time.Time        `json:"generated_at"`
	Counters           Counters         `json:"counters"`
	Summaries          []ProjectSummary `json:"summaries"`
	DelayedTasks       []UnifiedRow     `json:"delayed_tasks"`
	UpcomingMilestones []UnifiedRow     `json:"upcoming_milestones"`
	Degraded           bool             `json:"degraded"`
	Reason             string           `json:"reason,omitempty"`
}

// =============================================================================
// Open File Request Types
// =============================================================================

// OpenFileRequest asks the service to open a file or folder with the host
// OS's native "open" mechanism. The action is a fire-and-forget side effect;
// the response is purely informational.
//
// # Validation
//
// Uses go-playground/validator:
//   - RequestID: optional, must be a valid UUID v4 when present
//   - Path: required, capped at 4096 bytes
type OpenFileRequest struct {
	RequestID      string `json:"request_id" validate:"omitempty,uuid4"`
	Path           string `json:"path" validate:"required,max=4096"`
	AllowDirectory bool   `json:"allow_directory"`
}

// Validate validates the request fields after JSON binding.
func (r *OpenFileRequest) Validate() error {
	return portfolioValidate.Struct(r)
}

// EnsureDefaults populates the request id when the client did not send one,
// so every open attempt is traceable in the logs.
func (r *OpenFileRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}

// OpenFileResponse reports the outcome of an open attempt.
type OpenFileResponse struct {
	RequestID string `json:"request_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}
