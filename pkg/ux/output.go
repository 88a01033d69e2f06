// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the Pulseboard CLI.
package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pulseboard terminal palette. The semantic colors mirror the dashboard's
// status tags so a terminal board reads the same as the browser one.
var (
	ColorAccent  = lipgloss.Color("#60cdff") // headers, links
	ColorSuccess = lipgloss.Color("#50ff96") // on-track projects
	ColorWarning = lipgloss.Color("#ffeb45") // at-risk projects
	ColorDanger  = lipgloss.Color("#ff5f5f") // delayed projects
	ColorNeutral = lipgloss.Color("#c8c8c8") // early-stage projects
	ColorMuted   = lipgloss.Color("#6b7680") // secondary text
)

// Styles provides pre-configured lipgloss styles for CLI output.
var Styles = struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Danger   lipgloss.Style
	Neutral  lipgloss.Style
	Box      lipgloss.Style
	Counter  lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Subtitle: lipgloss.NewStyle().Foreground(ColorMuted),
	Bold:     lipgloss.NewStyle().Bold(true),
	Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
	Success:  lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:  lipgloss.NewStyle().Foreground(ColorWarning),
	Danger:   lipgloss.NewStyle().Foreground(ColorDanger),
	Neutral:  lipgloss.NewStyle().Foreground(ColorNeutral),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1),
	Counter: lipgloss.NewStyle().Bold(true).Padding(0, 2),
}

// TagStyle maps a dashboard color tag to its terminal style. Unknown tags
// render neutral.
func TagStyle(tag string) lipgloss.Style {
	switch tag {
	case "success":
		return Styles.Success
	case "warning":
		return Styles.Warning
	case "danger":
		return Styles.Danger
	case "info":
		return Styles.Title
	default:
		return Styles.Neutral
	}
}

// ProgressBar renders a fixed-width textual progress bar like
// "[██████····] 60.0%", colored by the given tag.
func ProgressBar(percent float64, width int, tag string) string {
	if width <= 0 {
		width = 10
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
	return TagStyle(tag).Render(fmt.Sprintf("[%s] %.1f%%", bar, percent))
}
