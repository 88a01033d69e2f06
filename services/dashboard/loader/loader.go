// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package loader reads the two CSV exports that feed a refresh cycle and
// produces the unified row set consumed by every downstream computation.
//
// # Description
//
// Load reads the task-level export, best-effort joins the project-level
// export on project id (left semantics, first-seen wins), validates the
// auxiliary path columns, and coerces the date columns. Failures degrade:
// a missing or malformed task file yields an empty result with a typed
// Outcome, a missing or incomplete project file only skips the join. No
// error escapes the Loader boundary as a panic or a raw return.
//
// # Assumptions
//
//   - Both files are whole-file, synchronous reads per refresh; nothing is
//     cached between refreshes.
//   - The task export carries a header row naming the required columns.
package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
	"github.com/pulseboard/pulseboard/services/dashboard/pathcheck"
)

// =============================================================================
// Outcomes
// =============================================================================

// Outcome classifies how a load ended, so callers can tell "zero projects"
// apart from "load failed" without string-matching log output.
type Outcome string

const (
	// OutcomeOK means the task export parsed and produced at least one row.
	OutcomeOK Outcome = "ok"

	// OutcomeEmptyInput means the task export parsed but carried no rows.
	OutcomeEmptyInput Outcome = "empty_input"

	// OutcomeInputMissing means the task export could not be opened.
	OutcomeInputMissing Outcome = "input_missing"

	// OutcomeInputMalformed means the task export could not be parsed or
	// lacks a required column.
	OutcomeInputMalformed Outcome = "input_malformed"
)

// Result is the typed outcome of one load. Rows is never nil.
type Result struct {
	Rows    []datatypes.UnifiedRow
	Outcome Outcome

	// JoinSkipped is set when the project export was absent or missing the
	// expected path columns; task rows are returned unjoined in that case.
	JoinSkipped bool

	// Err carries the underlying cause for degraded outcomes. It is
	// informational: callers render a placeholder state, they do not branch
	// on its contents.
	Err error
}

// Failed reports whether the load degraded to an empty dataset.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeInputMissing || r.Outcome == OutcomeInputMalformed
}

// =============================================================================
// Column layout
// =============================================================================

// requiredTaskColumns must all be present in the task export header.
var requiredTaskColumns = []string{
	"project_id", "project_name", "process", "line",
	"task_id", "task_name", "task_start_date", "task_finish_date",
	"task_status", "task_milestone",
}

// Date columns beyond start/finish are coerced when present and logged and
// skipped when absent; an absent column is not an empty column.
var optionalDateColumns = []string{"created_at"}

// dateLayouts are tried in order when coercing date-like values.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// milestoneMarks are the values of task_milestone treated as "set".
// The circle mark is what the upstream planner exports.
var milestoneMarks = map[string]bool{
	"○": true, "o": true, "yes": true, "y": true, "true": true, "1": true,
}

// =============================================================================
// Load
// =============================================================================

// Load reads the task export at taskPath and the project export at
// projectPath and returns the unified row set for one refresh cycle.
//
// Both paths are explicit: the service does not derive one file name from
// the other. Input row order from the task export is preserved exactly; the
// join never reorders rows.
func Load(taskPath, projectPath string) Result {
	slog.Info("loading task data", "path", taskPath)

	records, err := readCSV(taskPath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Error("task data file not found", "path", taskPath)
			return Result{Rows: []datatypes.UnifiedRow{}, Outcome: OutcomeInputMissing, Err: err}
		}
		slog.Error("failed to parse task data", "path", taskPath, "error", err)
		return Result{Rows: []datatypes.UnifiedRow{}, Outcome: OutcomeInputMalformed, Err: err}
	}
	if len(records) == 0 {
		slog.Error("task data file has no header row", "path", taskPath)
		return Result{
			Rows:    []datatypes.UnifiedRow{},
			Outcome: OutcomeInputMalformed,
			Err:     fmt.Errorf("task export %s is empty", taskPath),
		}
	}

	cols, err := indexColumns(records[0], requiredTaskColumns)
	if err != nil {
		slog.Error("task data is missing required columns", "path", taskPath, "error", err)
		return Result{Rows: []datatypes.UnifiedRow{}, Outcome: OutcomeInputMalformed, Err: err}
	}
	for _, name := range optionalDateColumns {
		if _, ok := cols[name]; !ok {
			slog.Warn("column not found in task data, skipping", "column", name)
		}
	}

	rows := make([]datatypes.UnifiedRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, parseTaskRow(record, cols))
	}

	result := Result{Rows: rows, Outcome: OutcomeOK}
	if len(rows) == 0 {
		result.Outcome = OutcomeEmptyInput
	}

	aux, ok := loadProjectPaths(projectPath)
	if !ok {
		result.JoinSkipped = true
		slog.Info("data loaded without project join", "rows", len(rows))
		return result
	}

	for i := range result.Rows {
		if paths, found := aux[result.Rows[i].ProjectID]; found {
			result.Rows[i].ProjectPath = paths.projectPath
			result.Rows[i].ChartPath = paths.chartPath
		}
	}

	slog.Info("data loaded successfully", "rows", len(rows), "projects_joined", len(aux))
	return result
}

// =============================================================================
// Task export parsing
// =============================================================================

// indexColumns maps header names to positions and fails when any required
// name is absent.
func indexColumns(header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseTaskRow(record []string, cols map[string]int) datatypes.UnifiedRow {
	return datatypes.UnifiedRow{
		ProjectID:   field(record, cols, "project_id"),
		ProjectName: field(record, cols, "project_name"),
		Process:     field(record, cols, "process"),
		Line:        field(record, cols, "line"),
		TaskID:      field(record, cols, "task_id"),
		TaskName:    field(record, cols, "task_name"),
		StartDate:   parseDate(field(record, cols, "task_start_date")),
		FinishDate:  parseDate(field(record, cols, "task_finish_date")),
		Status:      field(record, cols, "task_status"),
		Milestone:   milestoneMarks[strings.ToLower(strings.TrimSpace(field(record, cols, "task_milestone")))],
		CreatedAt:   parseDate(field(record, cols, "created_at")),
	}
}

// field returns the named column value, or "" when the column is absent or
// the record is short.
func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseDate coerces a date-like string, returning nil for empty or
// unparseable values. Unparseable dates never fail the row.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	slog.Warn("unparseable date value, treating as absent", "value", value)
	return nil
}

// =============================================================================
// Project export join
// =============================================================================

type auxPaths struct {
	projectPath *string
	chartPath   *string
}

// loadProjectPaths reads the project export and returns validated path
// fields keyed by project id. The second return is false when the join must
// be skipped; that is a degraded-but-expected condition, not an error.
func loadProjectPaths(projectPath string) (map[string]auxPaths, bool) {
	slog.Info("loading project data", "path", projectPath)

	records, err := readCSV(projectPath)
	if err != nil {
		slog.Error("project data unavailable, skipping join", "path", projectPath, "error", err)
		return nil, false
	}
	if len(records) == 0 {
		slog.Error("project data file has no header row", "path", projectPath)
		return nil, false
	}

	cols, err := indexColumns(records[0], []string{"project_id", "project_path", "ganttchart_path"})
	if err != nil {
		slog.Error("project data is missing path columns, skipping join", "error", err)
		return nil, false
	}

	aux := make(map[string]auxPaths, len(records)-1)
	for _, record := range records[1:] {
		id := field(record, cols, "project_id")
		if id == "" {
			continue
		}
		// First-seen wins for duplicate project ids.
		if _, seen := aux[id]; seen {
			continue
		}
		aux[id] = auxPaths{
			projectPath: validatedPath(field(record, cols, "project_path"), true),
			chartPath:   validatedPath(field(record, cols, "ganttchart_path"), false),
		}
	}
	return aux, true
}

// validatedPath runs a raw export value through the path validator; invalid
// or missing paths become absent rather than errors.
func validatedPath(raw string, allowDirectories bool) *string {
	if raw == "" {
		return nil
	}
	normalized, ok := pathcheck.Validate(raw, allowDirectories)
	if !ok {
		return nil
	}
	return &normalized
}

// readCSV slurps a whole CSV file. Records may have ragged lengths; short
// records surface as absent fields rather than parse failures.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
