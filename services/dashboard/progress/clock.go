// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package progress

import "time"

// Clock supplies the wall-clock time a refresh is computed against.
//
// Delay and milestone filters compare against the time their caller
// captured, not the dataset's load time, so repeated calls near a date
// boundary may legitimately differ. Injecting the clock keeps every
// computation deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. For tests and for callers
// that must hold one "now" across an entire refresh.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }
