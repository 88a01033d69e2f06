// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package fileopen dispatches "open this file/folder" requests to the host
// operating system's native opener. The action is a fire-and-forget side
// effect: it never participates in the data pipeline and its result is
// purely informational.
package fileopen

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/pulseboard/pulseboard/services/dashboard/pathcheck"
)

// Result reports an open attempt back to the caller.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Opener opens validated paths with the platform's native mechanism.
//
// GOOS and Run are injectable so tests can exercise the platform dispatch
// without launching anything.
type Opener struct {
	// GOOS overrides runtime.GOOS when non-empty.
	GOOS string

	// Run executes the chosen command. Defaults to (*exec.Cmd).Run.
	Run func(name string, args ...string) error
}

// New returns an Opener bound to the real OS.
func New() *Opener {
	return &Opener{}
}

// Open validates path and hands it to the OS opener. allowDirectory comes
// from which link button was pressed: the folder button permits directory
// targets, the chart button does not.
func (o *Opener) Open(path string, allowDirectory bool) Result {
	slog.Info("attempting to open path", "path", path, "allow_directory", allowDirectory)

	validated, ok := pathcheck.Validate(path, allowDirectory)
	if !ok {
		return Result{Success: false, Message: "Invalid path specified"}
	}

	name, args, err := o.command(validated)
	if err != nil {
		slog.Error("cannot open path on this platform", "error", err)
		return Result{Success: false, Message: err.Error()}
	}

	if err := o.run(name, args...); err != nil {
		slog.Error("failed to open path", "path", validated, "error", err)
		return Result{Success: false, Message: fmt.Sprintf("Failed to open: %v", err)}
	}

	slog.Info("opened path", "path", validated)
	return Result{Success: true, Message: "Opened successfully"}
}

// command picks the platform opener for a validated path.
func (o *Opener) command(path string) (string, []string, error) {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "windows":
		// start is a cmd builtin; the empty string is the window title slot.
		return "cmd", []string{"/c", "start", "", path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "linux":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

func (o *Opener) run(name string, args ...string) error {
	if o.Run != nil {
		return o.Run(name, args...)
	}
	return exec.Command(name, args...).Run()
}
