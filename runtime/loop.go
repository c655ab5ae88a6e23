// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runtime implements the three-phase process loop skeleton (spec
// §4.5/§4.7, component C7), the Compute/Control/IO worker roles (C8), the
// Control->Compute edit command ring, and Runtime, which wires the three
// roles together and drives them as goroutines (the Go analogue of
// original_source's std::thread::scope in runtime.rs).
package runtime

import (
	"github.com/open-modular/open-modular/syncutil"
)

// Barriers holds the three phase-closing barrier groups shared by every
// worker role for one engine run: Phase0 closes "configure", Phase1 closes
// "compute", Phase2 closes "io" (spec §4.5).
type Barriers struct {
	Phase0 *syncutil.BarrierGroup
	Phase1 *syncutil.BarrierGroup
	Phase2 *syncutil.BarrierGroup
}

// NewBarriers creates a fresh set of barrier groups with the given panic
// policy, shared by all participants of one engine run.
func NewBarriers(policy syncutil.PanicPolicy) Barriers {
	return Barriers{
		Phase0: syncutil.NewBarrierGroup(policy),
		Phase1: syncutil.NewBarrierGroup(policy),
		Phase2: syncutil.NewBarrierGroup(policy),
	}
}

// Worker is the three-phase loop contract a self-paced role (Compute,
// Control, or a headless/test IO stand-in) implements. Each method runs
// during its named phase, between the previous barrier and the next.
type Worker interface {
	// ConfigurePhase runs Phase-0 bookkeeping.
	ConfigurePhase() error
	// ComputePhase runs Phase-1 work.
	ComputePhase() error
	// IOPhase runs Phase-2 work.
	IOPhase() error
}

// RunLoop joins w to all three barrier groups and repeatedly drives
// Phase-0 -> barrier -> Phase-1 -> barrier -> Phase-2 -> barrier, checking
// the shared exit flag at the top of each iteration's Phase-0 (spec §4.5:
// "a worker exits the loop when, at the start of Phase-0, the shared exit
// flag is set"). On any phase error or barrier poison, it signals exit,
// leaves all three barriers so other participants unblock, and returns the
// error.
func RunLoop(exit *syncutil.Exit, barriers Barriers, w Worker) error {
	p0 := barriers.Phase0.Join()
	p1 := barriers.Phase1.Join()
	p2 := barriers.Phase2.Join()
	defer func() {
		p0.Leave()
		p1.Leave()
		p2.Leave()
	}()

	for {
		if exit.Signaled() {
			return nil
		}

		if err := w.ConfigurePhase(); err != nil {
			exit.Signal()
			p0.Poison()
			return err
		}
		if err := p0.Wait(); err != nil {
			exit.Signal()
			return err
		}

		if err := w.ComputePhase(); err != nil {
			exit.Signal()
			p1.Poison()
			return err
		}
		if err := p1.Wait(); err != nil {
			exit.Signal()
			return err
		}

		if err := w.IOPhase(); err != nil {
			exit.Signal()
			p2.Poison()
			return err
		}
		if err := p2.Wait(); err != nil {
			exit.Signal()
			return err
		}
	}
}
