// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package progress computes the per-project metrics for one refresh cycle:
// delay detection, the group-by aggregation into project summaries, milestone
// lookups, and the threshold classification helpers.
//
// All filters that compare against "now" take the instant explicitly; the
// snapshot builder captures it once per refresh from a Clock.
package progress

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
)

// DoneStatus is the distinguished task status meaning the task is finished.
// The status column is otherwise free text.
const DoneStatus = "done"

// isDone compares a status value against DoneStatus, tolerating case and
// surrounding whitespace from hand-edited exports.
func isDone(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), DoneStatus)
}

// =============================================================================
// Delay Detection
// =============================================================================

// Delayed returns the rows whose finish date has passed while the task is
// not done. Rows without a finish date are excluded: a task cannot be late
// against a date it does not have.
func Delayed(rows []datatypes.UnifiedRow, now time.Time) []datatypes.UnifiedRow {
	var delayed []datatypes.UnifiedRow
	for _, row := range rows {
		if row.FinishDate != nil && row.FinishDate.Before(now) && !isDone(row.Status) {
			delayed = append(delayed, row)
		}
	}
	return delayed
}

// DelayedProjectCount returns the number of distinct projects with at least
// one delayed task. Always <= the number of distinct projects in rows.
func DelayedProjectCount(rows []datatypes.UnifiedRow, now time.Time) int {
	seen := make(map[string]bool)
	for _, row := range Delayed(rows, now) {
		seen[row.ProjectID] = true
	}
	return len(seen)
}

// =============================================================================
// Aggregation
// =============================================================================

// Aggregate groups the unified rows by project id into one summary per
// project, in first-seen input order. Name, process, line, and both path
// fields take the first row encountered for the group; the loader guarantees
// the order is the task export's row order.
//
// Progress is completed/total*100 rounded to two decimals. A group always
// has at least one row, so the division is safe; callers constructing
// summaries by other means get the documented total==0 convention from
// PercentComplete.
func Aggregate(rows []datatypes.UnifiedRow) []datatypes.ProjectSummary {
	var order []string
	groups := make(map[string]*datatypes.ProjectSummary)

	for _, row := range rows {
		summary, ok := groups[row.ProjectID]
		if !ok {
			summary = &datatypes.ProjectSummary{
				ProjectID:   row.ProjectID,
				ProjectName: row.ProjectName,
				Process:     row.Process,
				Line:        row.Line,
				ProjectPath: row.ProjectPath,
				ChartPath:   row.ChartPath,
			}
			groups[row.ProjectID] = summary
			order = append(order, row.ProjectID)
		}

		summary.TotalTasks++
		if isDone(row.Status) {
			summary.CompletedTasks++
		}
		if row.Milestone {
			summary.MilestoneCount++
		}
		if row.StartDate != nil {
			if summary.StartDate == nil || row.StartDate.Before(*summary.StartDate) {
				summary.StartDate = row.StartDate
			}
		}
		if row.FinishDate != nil {
			if summary.FinishDate == nil || row.FinishDate.After(*summary.FinishDate) {
				summary.FinishDate = row.FinishDate
			}
		}
	}

	summaries := make([]datatypes.ProjectSummary, 0, len(order))
	for _, id := range order {
		summary := groups[id]
		summary.Progress = PercentComplete(summary.CompletedTasks, summary.TotalTasks)
		if summary.StartDate != nil && summary.FinishDate != nil {
			// Inverted date spans pass through as negative durations; the
			// source data is not corrected here.
			summary.DurationDays = int(summary.FinishDate.Sub(*summary.StartDate).Hours() / 24)
			summary.HasDuration = true
		}
		summaries = append(summaries, *summary)
	}

	if len(summaries) == 0 && len(rows) > 0 {
		slog.Error("aggregation produced no summaries from non-empty input", "rows", len(rows))
	}
	return summaries
}

// PercentComplete returns completed/total*100 rounded to two decimals.
// By convention it is 0 when total is 0; that case is unreachable through
// Aggregate but must not divide by zero for direct callers.
func PercentComplete(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

// =============================================================================
// Classification
// =============================================================================

// Color tags attached to summary rows. The palette mapping tag to an actual
// color lives in the service configuration; business logic never sees hex.
const (
	ColorDanger  = "danger"
	ColorSuccess = "success"
	ColorInfo    = "info"
	ColorWarning = "warning"
	ColorNeutral = "neutral"
)

// Status labels attached to summary rows.
const (
	LabelDelayed    = "delayed"
	LabelDone       = "done"
	LabelInProgress = "in_progress"
)

// StatusColor classifies a project's health into a color tag. A delay wins
// over any percentage; band boundaries are inclusive on the lower end, so
// exactly 90 is success and exactly 70 is info.
func StatusColor(percent float64, hasDelay bool) string {
	switch {
	case hasDelay:
		return ColorDanger
	case percent >= 90:
		return ColorSuccess
	case percent >= 70:
		return ColorInfo
	case percent >= 50:
		return ColorWarning
	default:
		return ColorNeutral
	}
}

// StatusLabel classifies a project's state: delayed wins, a fully complete
// project is done, anything else is in progress.
func StatusLabel(percent float64, hasDelay bool) string {
	switch {
	case hasDelay:
		return LabelDelayed
	case percent == 100:
		return LabelDone
	default:
		return LabelInProgress
	}
}

// =============================================================================
// Milestones
// =============================================================================

// UpcomingMilestones returns the milestone-marked rows finishing strictly
// after now, ordered ascending by finish date. The sort is stable so rows
// sharing a finish date keep input order.
func UpcomingMilestones(rows []datatypes.UnifiedRow, now time.Time) []datatypes.UnifiedRow {
	var upcoming []datatypes.UnifiedRow
	for _, row := range rows {
		if row.Milestone && row.FinishDate != nil && row.FinishDate.After(now) {
			upcoming = append(upcoming, row)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].FinishDate.Before(*upcoming[j].FinishDate)
	})
	return upcoming
}

// FormatNextMilestone renders the next milestone for a project as
// "name (in Nd)", with N the whole days until the finish date, truncated.
// Returns "-" when the project has no upcoming milestone.
//
// upcoming must already be sorted ascending, as UpcomingMilestones returns it.
func FormatNextMilestone(upcoming []datatypes.UnifiedRow, projectID string, now time.Time) string {
	for _, row := range upcoming {
		if row.ProjectID != projectID {
			continue
		}
		daysUntil := int(row.FinishDate.Sub(now).Hours() / 24)
		return fmt.Sprintf("%s (in %dd)", row.TaskName, daysUntil)
	}
	return "-"
}

// MilestonesThisMonth counts the distinct projects with at least one
// milestone task finishing in the current calendar month.
//
// Only the month number is compared; the year is not checked, so a
// milestone twelve months out counts as well. This matches the upstream
// planner's long-standing behavior and is preserved until the requirement
// is confirmed either way.
func MilestonesThisMonth(rows []datatypes.UnifiedRow, now time.Time) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.Milestone && row.FinishDate != nil && row.FinishDate.Month() == now.Month() {
			seen[row.ProjectID] = true
		}
	}
	return len(seen)
}

// =============================================================================
// Recent Task Digest
// =============================================================================

// RecentTasks builds the per-project digest of noteworthy tasks: the most
// overdue delayed task, the nearest in-flight task (start <= now <= finish,
// not done), and the next two not-started tasks by planned start date.
func RecentTasks(rows []datatypes.UnifiedRow, projectID string, now time.Time) datatypes.RecentTasks {
	var delayed, inProgress, next []datatypes.UnifiedRow
	for _, row := range rows {
		if row.ProjectID != projectID || isDone(row.Status) {
			continue
		}
		switch {
		case row.FinishDate != nil && row.FinishDate.Before(now):
			delayed = append(delayed, row)
		case row.StartDate != nil && row.FinishDate != nil &&
			!row.StartDate.After(now) && !row.FinishDate.Before(now):
			inProgress = append(inProgress, row)
		case row.StartDate != nil && row.StartDate.After(now):
			next = append(next, row)
		}
	}

	sort.SliceStable(delayed, func(i, j int) bool {
		return delayed[i].FinishDate.Before(*delayed[j].FinishDate)
	})
	sort.SliceStable(inProgress, func(i, j int) bool {
		return inProgress[i].FinishDate.Before(*inProgress[j].FinishDate)
	})
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].StartDate.Before(*next[j].StartDate)
	})

	digest := datatypes.RecentTasks{}
	if len(delayed) > 0 {
		digest.Delayed = delayed[0].TaskName
	}
	if len(inProgress) > 0 {
		digest.InProgress = inProgress[0].TaskName
	}
	if len(next) > 0 {
		digest.Next = next[0].TaskName
	}
	if len(next) > 1 {
		digest.NextAfter = next[1].TaskName
	}
	return digest
}
