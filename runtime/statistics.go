// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtime

import (
	"sync/atomic"
	"time"
)

// Statistics is the optional telemetry aggregator named as peripheral to the
// core in spec §5 ("Optional fourth thread for telemetry aggregation") and
// supplemented from original_source's process/statistics.rs. It is not a
// barrier participant: it only records counters published by Compute (block
// count and duration) and by LiveAudio's AudioIO (overflow/underflow), read later by a host application (e.g. for a status endpoint or log
// line), which is why its fields are atomics rather than barrier-guarded
// plain fields.
type Statistics struct {
	blocks     atomic.Uint64
	lastBlock  atomic.Int64 // nanoseconds
	overflows  atomic.Uint64
	underflows atomic.Uint64
}

// RecordBlock records that one block finished processing in d.
func (s *Statistics) RecordBlock(d time.Duration) {
	s.blocks.Add(1)
	s.lastBlock.Store(int64(d))
}

// RecordOverflow increments the overflow counter (spec §7: logged by IO,
// does not propagate).
func (s *Statistics) RecordOverflow() {
	s.overflows.Add(1)
}

// RecordUnderflow increments the underflow counter.
func (s *Statistics) RecordUnderflow() {
	s.underflows.Add(1)
}

// Snapshot is a point-in-time, non-atomic copy of the counters, safe to
// read and print.
type Snapshot struct {
	Blocks     uint64
	LastBlock  time.Duration
	Overflows  uint64
	Underflows uint64
}

// Snapshot reads the current counters.
func (s *Statistics) Snapshot() Snapshot {
	return Snapshot{
		Blocks:     s.blocks.Load(),
		LastBlock:  time.Duration(s.lastBlock.Load()),
		Overflows:  s.overflows.Load(),
		Underflows: s.underflows.Load(),
	}
}
