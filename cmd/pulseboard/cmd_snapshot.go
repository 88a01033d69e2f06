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
	"os"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/ux"
	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
	"github.com/pulseboard/pulseboard/services/dashboard/snapshot"
)

var snapshotJSONOutput bool

// snapshotCmd renders the board once and exits. It runs the refresh
// pipeline locally against the configured exports; no server is needed.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the current board and exit",
	Long: `Reads the task and project exports, runs one refresh cycle, and
prints the counters and the per-project summary table.

Examples:
  pulseboard snapshot          # Styled terminal output
  pulseboard snapshot --json   # Snapshot JSON for scripting`,
	Run: runSnapshotCommand,
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotJSONOutput, "json", false,
		"Output the raw snapshot as JSON")
}

func runSnapshotCommand(cmd *cobra.Command, args []string) {
	snap := snapshot.New(cfg.Data.TaskFile, cfg.Data.ProjectFile).Refresh()
	cliLogger.Info("snapshot rendered", "snapshot_id", snap.ID, "degraded", snap.Degraded)

	if snapshotJSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode snapshot: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(renderSnapshot(snap))
}

// renderSnapshot formats a snapshot for the terminal: header, the four
// counters, then one line per project summary.
func renderSnapshot(snap datatypes.Snapshot) string {
	out := ux.Styles.Title.Render("Pulseboard") + "  " +
		ux.Styles.Subtitle.Render("updated "+snapshot.GeneratedStamp(snap.GeneratedAt)) + "\n\n"

	if snap.Degraded {
		out += ux.Styles.Danger.Render(snap.Reason) + "\n"
		return out
	}

	c := snap.Counters
	out += ux.Styles.Counter.Render(fmt.Sprintf("Projects %d", c.TotalProjects)) +
		ux.Styles.Counter.Render(fmt.Sprintf("Active %d", c.ActiveProjects)) +
		ux.Styles.Counter.Render(ux.Styles.Danger.Render(fmt.Sprintf("Delayed %d", c.DelayedProjects))) +
		ux.Styles.Counter.Render(fmt.Sprintf("Milestones this month %d", c.MilestonesThisMonth)) + "\n\n"

	if len(snap.Summaries) == 0 {
		out += ux.Styles.Muted.Render("no projects in the exports") + "\n"
		return out
	}

	for _, s := range snap.Summaries {
		out += fmt.Sprintf("%-20s %s  %s  %s\n",
			s.ProjectName,
			ux.ProgressBar(s.Progress, 10, s.ColorTag),
			ux.TagStyle(s.ColorTag).Render(s.StatusLabel),
			ux.Styles.Muted.Render(s.NextMilestone),
		)
	}
	return out
}
