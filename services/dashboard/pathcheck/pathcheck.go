// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package pathcheck validates and normalizes file-system paths before they
// are handed to the UI as open-file links or to the OS opener.
//
// # Description
//
// Validation applies, in order: normalization, a directory policy, an
// extension allow-list for regular files, a character denylist, an existence
// check, and a read-permission check. A path failing any step is reported as
// invalid, never as an error: an invalid path simply means "no link
// available" to the caller.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package pathcheck

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// validExtensions is the allow-list of openable document types.
var validExtensions = []string{
	".xlsx", ".xls", ".xlsm", ".xltx", ".xltm",
	".xml", ".mpp", ".mpt", ".pdf",
	".html", ".htm", ".csv",
}

// deniedChars are rejected anywhere in a normalized path.
const deniedChars = `<>|"?*`

// Validate normalizes path and verifies it may be exposed as an open target.
//
// Returns the normalized absolute path and true when valid. Directories pass
// the extension check only when allowDirectories is set. The zero value and
// false are returned for empty, denied, missing, or unreadable paths.
func Validate(path string, allowDirectories bool) (string, bool) {
	if strings.TrimSpace(path) == "" {
		return "", false
	}

	normalized, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		slog.Warn("path normalization failed", "path", path, "error", err)
		return "", false
	}

	if strings.ContainsAny(normalized, deniedChars) {
		slog.Warn("path contains denied characters", "path", normalized)
		return "", false
	}

	info, err := os.Stat(normalized)
	if err != nil {
		slog.Warn("path does not exist", "path", normalized)
		return "", false
	}

	if info.IsDir() {
		if !allowDirectories {
			slog.Warn("path is a directory but directories are not allowed", "path", normalized)
			return "", false
		}
	} else if !hasValidExtension(normalized) {
		slog.Warn("invalid file extension", "path", normalized)
		return "", false
	}

	if !readable(normalized, info.IsDir()) {
		slog.Warn("no read permission for path", "path", normalized)
		return "", false
	}

	return normalized, true
}

// hasValidExtension reports whether the path ends in an allow-listed
// document extension. Comparison is case-insensitive.
func hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range validExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// readable probes the path for read access by actually opening it, which is
// the only check that holds up across platforms and ACLs.
func readable(path string, isDir bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	if isDir {
		// An empty directory returns io.EOF, which still means readable.
		_, err = f.Readdirnames(1)
		return err == nil || errors.Is(err, io.EOF)
	}
	return true
}
