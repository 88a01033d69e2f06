// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config holds the dashboard configuration: where the two CSV
// exports live, how the service listens, and the color palette the
// presentation layers map status tags onto.
//
// Configuration is an explicit value passed into the pieces that need it;
// business logic never reads globals or hard-coded paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Data    DataConfig        `yaml:"data"`
	Server  ServerConfig      `yaml:"server"`
	Palette map[string]string `yaml:"palette"`
}

// DataConfig names the two export files read on every refresh. Both paths
// are explicit; neither is derived from the other.
type DataConfig struct {
	TaskFile    string `yaml:"task_file"`
	ProjectFile string `yaml:"project_file"`
}

// ServerConfig controls the HTTP listener and the static UI directory.
type ServerConfig struct {
	Port  string `yaml:"port"`
	UIDir string `yaml:"ui_dir"`
}

// Default returns the configuration written on first run.
//
// The palette keys are the color tags produced by classification; values
// are whatever the presentation layer wants (hex here). Changing a color
// never touches business logic.
func Default() Config {
	return Config{
		Data: DataConfig{
			TaskFile:    "data/exports/dashboard.csv",
			ProjectFile: "data/exports/projects.csv",
		},
		Server: ServerConfig{
			Port:  "12310",
			UIDir: "ui",
		},
		Palette: map[string]string{
			"success": "#50ff96",
			"warning": "#ffeb45",
			"danger":  "#ff5f5f",
			"info":    "#60cdff",
			"neutral": "#c8c8c8",
		},
	}
}

// Load reads the config at path, creating it with defaults on first run,
// then applies environment overrides.
//
// Environment overrides (all optional):
//   - PULSEBOARD_TASK_FILE
//   - PULSEBOARD_PROJECT_FILE
//   - DASHBOARD_PORT
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// DefaultPath returns ~/.pulseboard/pulseboard.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".pulseboard", "pulseboard.yaml"), nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PULSEBOARD_TASK_FILE"); v != "" {
		cfg.Data.TaskFile = v
	}
	if v := os.Getenv("PULSEBOARD_PROJECT_FILE"); v != "" {
		cfg.Data.ProjectFile = v
	}
	if v := os.Getenv("DASHBOARD_PORT"); v != "" {
		cfg.Server.Port = v
	}
}
