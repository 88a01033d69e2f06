// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/ux"
	"github.com/pulseboard/pulseboard/services/dashboard/datatypes"
	"github.com/pulseboard/pulseboard/services/dashboard/snapshot"
)

// boardCmd runs the interactive terminal board. Like the browser UI it is
// strictly manual-refresh: a keypress triggers one refresh cycle, nothing
// runs in the background.
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive terminal board (r to refresh, q to quit)",
	Run: func(cmd *cobra.Command, args []string) {
		builder := snapshot.New(cfg.Data.TaskFile, cfg.Data.ProjectFile)
		model := newBoardModel(builder)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			log.Fatalf("board terminated: %v", err)
		}
	},
}

// refreshedMsg carries a freshly built snapshot into the update loop.
type refreshedMsg struct {
	snap datatypes.Snapshot
}

// boardModel is the bubbletea model for the terminal board.
type boardModel struct {
	builder *snapshot.Builder
	snap    datatypes.Snapshot
	table   table.Model
	ready   bool
}

func newBoardModel(builder *snapshot.Builder) *boardModel {
	columns := []table.Column{
		{Title: "Project", Width: 24},
		{Title: "Progress", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Tasks", Width: 9},
		{Title: "Next milestone", Width: 28},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ux.ColorAccent)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("0")).Background(ux.ColorAccent)
	t.SetStyles(styles)

	return &boardModel{builder: builder, table: t}
}

// Init triggers the first refresh so the board never starts empty.
func (m *boardModel) Init() tea.Cmd {
	return m.refresh()
}

// refresh runs one refresh cycle off the update loop.
func (m *boardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{snap: m.builder.Refresh()}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		}
	case refreshedMsg:
		m.snap = msg.snap
		m.ready = true
		m.table.SetRows(summaryRows(msg.snap.Summaries))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *boardModel) View() string {
	if !m.ready {
		return ux.Styles.Muted.Render("loading…")
	}

	header := ux.Styles.Title.Render("Pulseboard") + "  " +
		ux.Styles.Subtitle.Render("updated "+snapshot.GeneratedStamp(m.snap.GeneratedAt))

	if m.snap.Degraded {
		return header + "\n\n" + ux.Styles.Danger.Render(m.snap.Reason) +
			"\n\n" + ux.Styles.Muted.Render("r refresh · q quit")
	}

	c := m.snap.Counters
	counters := lipgloss.JoinHorizontal(lipgloss.Top,
		ux.Styles.Box.Render(fmt.Sprintf("Projects\n%d", c.TotalProjects)),
		ux.Styles.Box.Render(fmt.Sprintf("Active\n%d", c.ActiveProjects)),
		ux.Styles.Box.Render(ux.Styles.Danger.Render(fmt.Sprintf("Delayed\n%d", c.DelayedProjects))),
		ux.Styles.Box.Render(fmt.Sprintf("Milestones\n%d", c.MilestonesThisMonth)),
	)

	return header + "\n" + counters + "\n" + m.table.View() +
		"\n" + ux.Styles.Muted.Render("r refresh · q quit")
}

// summaryRows converts project summaries into table rows, preserving the
// aggregator's first-seen order.
func summaryRows(summaries []datatypes.ProjectSummary) []table.Row {
	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, table.Row{
			s.ProjectName,
			ux.ProgressBar(s.Progress, 10, s.ColorTag),
			s.StatusLabel,
			fmt.Sprintf("%d/%d", s.CompletedTasks, s.TotalTasks),
			s.NextMilestone,
		})
	}
	return rows
}
