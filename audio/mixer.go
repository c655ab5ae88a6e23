// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package audio

import "github.com/open-modular/open-modular/block"

// mixer holds the live (weak) set of acquired OutputBuffers and sums them
// into the hardware output buffer once per block. It is touched only from
// the stream callback goroutine — register, during Serve, and mixInto,
// during the Phase-2 mix — so it needs no lock of its own.
type mixer struct {
	buffers []*OutputBuffer
	scratch []block.Block
}

func newMixer() *mixer {
	return &mixer{scratch: make([]block.Block, block.MaxChannels)}
}

func (m *mixer) register(b *OutputBuffer) {
	m.buffers = append(m.buffers, b)
}

// mixInto sums every live buffer's channels into out (one []float32 slice
// per hardware output channel, each of length block.Frames or less), and
// prunes any buffer whose strong count has dropped to zero.
func (m *mixer) mixInto(out [][]float32) {
	for i := range m.scratch {
		m.scratch[i] = block.Block{}
	}

	live := m.buffers[:0]
	for _, b := range m.buffers {
		if !b.alive() {
			continue
		}
		live = append(live, b)

		n := b.Channels()
		if n > len(m.scratch) {
			n = len(m.scratch)
		}
		for c := 0; c < n; c++ {
			ch := b.Channel(c)
			dst := &m.scratch[c]
			for f := range dst {
				dst[f] += ch[f]
			}
		}
	}
	m.buffers = live

	for c := range out {
		if c >= len(m.scratch) {
			continue
		}
		src := m.scratch[c]
		for f := 0; f < len(out[c]) && f < len(src); f++ {
			out[c][f] = float32(src[f])
		}
	}
}
