// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtime

import (
	"github.com/charmbracelet/log"

	"github.com/open-modular/open-modular/syncutil"
)

// Control is the ordinary-priority worker role that edits the graph and
// owns the exit signal (spec §4.5). Control itself does no per-block work:
// external callers (a host application, a CLI, a config loader) call Submit
// to enqueue edits, which Control simply forwards to the ring; Control's
// participation in the phase loop exists so it observes Exit like every
// other role (spec O1: "all workers pass barriers 0, 1, 2 in that order").
type Control struct {
	Ring   *EditRing
	Exit   *syncutil.Exit
	Logger *log.Logger
}

// Submit forwards cmd to the edit ring. If the ring is full, it returns
// ErrBackpressure and cmd unchanged (spec §7 "Backpressure"); Control logs
// the rejection rather than silently dropping it.
func (c *Control) Submit(cmd Command) (Command, error) {
	rejected, err := c.Ring.Send(cmd)
	if err != nil && c.Logger != nil {
		c.Logger.Warn("edit rejected: ring full", "command", rejected)
	}
	return rejected, err
}

// ConfigurePhase observes nothing beyond the shared Exit flag, which
// RunLoop already checks at the top of every iteration.
func (c *Control) ConfigurePhase() error { return nil }

// ComputePhase is a no-op: Control does nothing on the Phase-1 hot path.
func (c *Control) ComputePhase() error { return nil }

// IOPhase is a no-op: Control may sleep arbitrarily between edits (spec
// §5), which in this implementation means simply not doing extra work here
// and relying on the barrier wait to pace it with the rest of the loop.
func (c *Control) IOPhase() error { return nil }
