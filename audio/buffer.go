// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package audio

import (
	"sync/atomic"

	"github.com/open-modular/open-modular/block"
)

// OutputBuffer is a shared handle to channel_count sample blocks that an
// audio-output module writes into every block and the IO stream callback
// sums into the hardware output (spec §4.5/§6, component C9).
//
// Unlike a port.OutputCell, an OutputBuffer is not double-buffered: the
// callback only ever reads it during Phase-2, strictly after the module
// that owns it has finished writing during Phase-1, so there is no
// partial-write hazard to guard against with a second half.
type OutputBuffer struct {
	channels int
	blocks   []block.Block
	refs     atomic.Int32
}

func newOutputBuffer(channels int) *OutputBuffer {
	b := &OutputBuffer{channels: channels, blocks: make([]block.Block, channels)}
	b.refs.Store(1)
	return b
}

// Channels reports the number of sample-block channels this buffer holds.
func (b *OutputBuffer) Channels() int { return b.channels }

// Channel returns the block for channel i, for the owning module to write
// into during its Process call. i must be in [0, Channels()).
func (b *OutputBuffer) Channel(i int) *block.Block { return &b.blocks[i] }

// Release drops the caller's strong reference. Once all references are
// dropped the buffer is pruned from the mix set at the next block boundary
// (spec §6: "cooperative GC at block boundary"); it does no work itself.
func (b *OutputBuffer) Release() {
	b.refs.Add(-1)
}

func (b *OutputBuffer) alive() bool {
	return b.refs.Load() > 0
}

// Releaser is implemented by module.Module instances that hold an
// OutputBuffer, so the runtime can release it when the instance is removed
// from the graph. A module that never acquired a buffer need not implement
// it.
type Releaser interface {
	Release()
}
