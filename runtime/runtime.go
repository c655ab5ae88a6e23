// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtime

import (
	"context"
	stdruntime "runtime"

	"golang.org/x/sync/errgroup"

	"github.com/open-modular/open-modular/audio"
	"github.com/open-modular/open-modular/engine"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/syncutil"
)

// Runtime wires Compute, Control, and a headless/benchmark IO stand-in
// together and drives them as goroutines, the Go analogue of
// original_source's std::thread::scope in runtime.rs. A live run replaces
// the IO role with package audio's AudioIO instead of calling Run (see
// LiveAudio/NewLiveAudio).
type Runtime struct {
	Barriers Barriers
	Exit     *syncutil.Exit
	Ring     *EditRing
	Stats    *Statistics

	Compute *Compute
	Control *Control
	IO      *TimedIO
}

// New builds a Runtime around a fresh Processor driven by catalog, with a
// headless timer-paced IO role and an edit ring of the given capacity.
func New(catalog *module.Registry, ringCapacity int) *Runtime {
	exit := &syncutil.Exit{}
	ring := NewEditRing(ringCapacity)
	stats := &Statistics{}

	return &Runtime{
		Barriers: NewBarriers(syncutil.PolicyPoison),
		Exit:     exit,
		Ring:     ring,
		Stats:    stats,
		Compute: &Compute{
			Processor:   engine.New(),
			Catalog:     catalog,
			Ring:        ring,
			Stats:       stats,
			PanicPolicy: syncutil.PolicyPoison,
		},
		Control: &Control{Ring: ring, Exit: exit},
		IO:      NewTimedIO(stats),
	}
}

// Run drives Compute, Control, and IO concurrently until one of them
// returns an error or ctx is cancelled, in which case Exit is signaled and
// every worker unwinds via its next barrier wait. It attempts to raise the
// Compute goroutine's OS thread to realtime scheduling priority first
// (spec §5: "Compute runs at the highest available scheduling priority");
// failure to do so is not fatal; Compute still runs, just without the
// priority boost.
func (r *Runtime) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		go func() {
			<-ctx.Done()
			r.Exit.Signal()
		}()
		return nil
	})

	g.Go(func() error {
		stdruntime.LockOSThread()
		defer stdruntime.UnlockOSThread()
		_ = raiseRealtimePriority()
		return RunLoop(r.Exit, r.Barriers, r.Compute)
	})

	g.Go(func() error {
		return RunLoop(r.Exit, r.Barriers, r.Control)
	})

	g.Go(func() error {
		return RunLoop(r.Exit, r.Barriers, r.IO)
	})

	return g.Wait()
}

// LiveAudio wires Compute and Control together with package audio's
// AudioIO standing in for the IO role, instead of the headless TimedIO
// Runtime uses. Unlike Runtime, it has no IO Worker of its own to drive via
// RunLoop: AudioIO has no loop, since the platform's stream callback IS its
// loop body, invoked by PortAudio directly on its own thread once Start is
// called (spec §9: "IO is dictated by the platform").
type LiveAudio struct {
	Barriers Barriers
	Exit     *syncutil.Exit
	Ring     *EditRing
	Stats    *Statistics

	Compute *Compute
	Control *Control
	IO      *audio.AudioIO

	deviceID string
}

// NewLiveAudio builds a LiveAudio around a fresh Processor driven by
// catalog, with host's AudioIO as the IO role, targeting deviceID.
func NewLiveAudio(catalog *module.Registry, ringCapacity int, host *audio.PortAudioHost, deviceID string) *LiveAudio {
	exit := &syncutil.Exit{}
	ring := NewEditRing(ringCapacity)
	stats := &Statistics{}
	barriers := NewBarriers(syncutil.PolicyPoison)

	io := audio.NewAudioIO(host, exit, barriers.Phase0, barriers.Phase1, barriers.Phase2)
	io.OnOverflow = stats.RecordOverflow
	io.OnUnderflow = stats.RecordUnderflow

	return &LiveAudio{
		Barriers: barriers,
		Exit:     exit,
		Ring:     ring,
		Stats:    stats,
		Compute: &Compute{
			Processor:   engine.New(),
			Catalog:     catalog,
			Ring:        ring,
			Stats:       stats,
			PanicPolicy: syncutil.PolicyPoison,
		},
		Control:  &Control{Ring: ring, Exit: exit},
		IO:       io,
		deviceID: deviceID,
	}
}

// Run opens the hardware stream and drives Compute and Control concurrently
// until one of them returns an error or ctx is cancelled. AudioIO itself is
// driven by PortAudio's own callback thread, not by this goroutine group; it
// joins the same three barriers Compute and Control wait on, so the three
// roles still pass Phase-0/1/2 in lockstep every block (spec O1).
func (r *LiveAudio) Run(ctx context.Context) error {
	if err := r.IO.Start(r.deviceID); err != nil {
		return err
	}
	defer func() { _ = r.IO.Stop() }()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		go func() {
			<-ctx.Done()
			r.Exit.Signal()
		}()
		return nil
	})

	g.Go(func() error {
		stdruntime.LockOSThread()
		defer stdruntime.UnlockOSThread()
		_ = raiseRealtimePriority()
		return RunLoop(r.Exit, r.Barriers, r.Compute)
	})

	g.Go(func() error {
		return RunLoop(r.Exit, r.Barriers, r.Control)
	})

	return g.Wait()
}
