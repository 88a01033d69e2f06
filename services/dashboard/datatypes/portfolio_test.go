// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

// =============================================================================
// OpenFileRequest Tests
// =============================================================================

func TestOpenFileRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     OpenFileRequest
		wantErr bool
	}{
		{
			name: "valid with request id",
			req:  OpenFileRequest{RequestID: uuid.NewString(), Path: "/data/chart.html"},
		},
		{
			name: "valid without request id",
			req:  OpenFileRequest{Path: "/data/chart.html"},
		},
		{
			name:    "missing path",
			req:     OpenFileRequest{RequestID: uuid.NewString()},
			wantErr: true,
		},
		{
			name:    "bad request id",
			req:     OpenFileRequest{RequestID: "not-a-uuid", Path: "/data/chart.html"},
			wantErr: true,
		},
		{
			name:    "path too long",
			req:     OpenFileRequest{Path: "/" + strings.Repeat("a", 4096)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenFileRequest_EnsureDefaults(t *testing.T) {
	req := OpenFileRequest{Path: "/data/chart.html"}
	req.EnsureDefaults()

	if req.RequestID == "" {
		t.Fatal("EnsureDefaults must mint a request id")
	}
	if err := uuid.Validate(req.RequestID); err != nil {
		t.Errorf("minted id %q is not a uuid: %v", req.RequestID, err)
	}

	fixed := uuid.NewString()
	req = OpenFileRequest{RequestID: fixed, Path: "/data/chart.html"}
	req.EnsureDefaults()
	if req.RequestID != fixed {
		t.Error("a client-supplied request id must be kept")
	}
}
