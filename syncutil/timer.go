// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package syncutil

import (
	"time"

	"github.com/open-modular/open-modular/block"
)

// Timer paces block iteration at block.BlockDuration intervals. The
// realtime audio callback (package audio) is the engine's actual pacing
// source in production (spec invariant I6: "one audio callback <-> one
// block boundary"); Timer exists for the headless/benchmark path (e.g. the
// E1 scenario in spec §8, which runs the engine without any attached audio
// device), where runtime.TimedIO uses it to pace the loop.
type Timer struct {
	next time.Time
}

// NewTimer creates a Timer anchored at the current time.
func NewTimer() *Timer {
	return &Timer{next: time.Now()}
}

// Reset re-anchors the timer at the current time, discarding any
// accumulated phase. The IO role calls this at the start of Phase-0 (spec
// §4.5) so a slow block does not cause a burst of immediate catch-up ticks.
func (t *Timer) Reset() {
	t.next = time.Now()
}

// Next blocks until the next block boundary and advances the timer's
// internal deadline by one block duration.
func (t *Timer) Next() {
	t.next = t.next.Add(block.BlockDuration)
	if d := time.Until(t.next); d > 0 {
		time.Sleep(d)
	}
}
