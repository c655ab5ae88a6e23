// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtime

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/open-modular/open-modular/audio"
	"github.com/open-modular/open-modular/engine"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/syncutil"
)

// Compute is the realtime-priority worker role that owns the Processor: it
// drains at most one pending edit per block, runs the module pass, and
// advances the iteration counter (spec §4.5).
//
// Compute never allocates, locks, or performs I/O during its ComputePhase
// (Phase-1); the one fallible, allocating operation it performs — applying
// an edit command, which may instantiate a module or allocate a buffer pair
// — happens in ConfigurePhase (Phase-0), per the allocation discipline in
// spec §5.
type Compute struct {
	Processor *engine.Processor
	Catalog   *module.Registry
	Ring      *EditRing
	Stats     *Statistics
	Logger    *log.Logger

	// PanicPolicy decides what ComputePhase does with a module panic (spec
	// §8, E6). PolicyPoison (the default used by Runtime.New) propagates
	// the error, which poisons the Phase-1 barrier and stops every worker.
	// PolicyContinue removes the panicking instance from the Processor and
	// lets the remaining instances keep running on subsequent blocks.
	PanicPolicy syncutil.PanicPolicy

	iteration uint64
}

// ConfigurePhase drains at most one edit command from the ring and applies
// it to the processor.
func (c *Compute) ConfigurePhase() error {
	cmd, ok := c.Ring.TryRecv()
	if !ok {
		return nil
	}
	return applyCommand(c.Processor, c.Catalog, cmd)
}

// ComputePhase runs one block's module pass.
func (c *Compute) ComputePhase() error {
	start := time.Now()
	err := c.Processor.Process(c.iteration)
	if c.Stats != nil {
		c.Stats.RecordBlock(time.Since(start))
	}
	c.iteration++

	if err == nil || c.PanicPolicy != syncutil.PolicyContinue {
		return err
	}

	panicked := engine.PanickedInstances(err)
	if len(panicked) == 0 {
		// A non-panic module error under the continue policy still stops
		// this worker: there is no instance to remove that would prevent
		// it from recurring next block.
		return err
	}
	for _, id := range panicked {
		if c.Logger != nil {
			c.Logger.Warn("module panicked, removing from graph", "instance", id)
		}
		c.Processor.Remove(id)
	}
	return nil
}

// IOPhase is a no-op for Compute: "IO and Control do nothing on the hot
// path" refers to Phase-1, and symmetrically Compute does nothing in
// Phase-2 (spec §4.5).
func (c *Compute) IOPhase() error { return nil }

// Iteration returns the next iteration number Compute will process. It is
// safe to call only when Compute is not concurrently running (e.g. for
// tests), since it is not synchronized.
func (c *Compute) Iteration() uint64 { return c.iteration }

func applyCommand(proc *engine.Processor, catalog *module.Registry, cmd Command) error {
	switch c := cmd.(type) {
	case Add:
		mod, err := catalog.Instantiate(c.Kind, module.Context{Instance: c.Instance})
		if err != nil {
			return err
		}
		proc.Add(c.Instance, mod)
		return nil
	case Remove:
		if mod, ok := proc.Get(c.Instance); ok {
			if rel, ok := mod.(audio.Releaser); ok {
				rel.Release()
			}
		}
		proc.Remove(c.Instance)
		return nil
	case Connect:
		return proc.Connect(c.Output, c.Input)
	case Disconnect:
		return proc.Disconnect(c.Input)
	default:
		return nil
	}
}
