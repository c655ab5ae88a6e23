// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtime

import "github.com/open-modular/open-modular/syncutil"

// TimedIO is a self-paced stand-in for the IO role, used for headless runs,
// tests, and benchmarks where no physical device drives the phase loop
// (spec §9: "in the absence of a device, a fixed-rate timer takes its
// place"). In a live run the platform's audio callback plays this role
// directly instead (see package audio's AudioIO), since there IO has no
// loop of its own to pace.
type TimedIO struct {
	Timer *syncutil.Timer
	Stats *Statistics
}

// NewTimedIO creates a TimedIO paced at one block per Next call.
func NewTimedIO(stats *Statistics) *TimedIO {
	return &TimedIO{Timer: syncutil.NewTimer(), Stats: stats}
}

// ConfigurePhase resets the frame pacing timer, so that IOPhase waits one
// block duration from the start of this block. TimedIO has no capability
// requests to serve.
func (t *TimedIO) ConfigurePhase() error {
	t.Timer.Reset()
	return nil
}

// ComputePhase does nothing: IO does no work on the Phase-1 hot path.
func (t *TimedIO) ComputePhase() error { return nil }

// IOPhase blocks until the next block-rate tick, pacing the whole loop the
// way a real audio callback's invocation rate would.
func (t *TimedIO) IOPhase() error {
	t.Timer.Next()
	return nil
}
