// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package modules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/port"
)

// sineAt returns the closed-form value of a freq Hz, amp-scaled sine at
// block iteration, frame f.
func sineAt(freq, amp float64, iteration uint64, f int) float64 {
	tSec := (float64(iteration)*block.Frames + float64(f)) / block.SampleRate
	return amp * math.Sin(2*math.Pi*freq*tSec)
}

// TestSine440Hz checks the oscillator's output against the closed form
// amplitude*sin(2*pi*440*t), to a tight tolerance (spec §8, E2). Because a
// connection's reader observes the writer's prior-iteration half (spec P2),
// iteration i's write is checked via the read at iteration i+1.
func TestSine440Hz(t *testing.T) {
	const freq = 440.0
	const amp = 0.15
	const tolerance = 1e-10

	kind := NewSineKind(freq, amp)
	ports := port.NewCollection(0, 1)
	mod := kind.Instantiate(module.Context{Instance: module.NewInstanceID()}, ports)

	sink := port.NewCollection(1, 0)
	require.NoError(t, port.Connect(&ports.Outputs[0], &sink.Inputs[0]))

	const iterations = 4
	for iteration := uint64(0); iteration < iterations; iteration++ {
		token := int(iteration % 2)
		require.NoError(t, mod.Process(module.ProcessArgs{Token: token}))

		if iteration == 0 {
			continue
		}
		got, status := sink.InputBlock(0, token)
		require.Equal(t, port.OK, status)
		for f := 0; f < block.Frames; f++ {
			require.InDelta(t, sineAt(freq, amp, iteration-1, f), got[f], tolerance)
		}
	}
}

// TestMultipleFanOut checks that a 1-to-4 multiple copies its input to every
// output, unmodified (spec §8, E3). Each connection adds one block of
// latency and source->multiple->sink is two hops, so the sinks read the
// multiple's zero-input output in iteration 1 and the signal from iteration
// 2 on.
func TestMultipleFanOut(t *testing.T) {
	kind := NewMultipleKind(4)
	ports := port.NewCollection(1, 4)
	mod := kind.Instantiate(module.Context{Instance: module.NewInstanceID()}, ports)

	source := port.NewCollection(0, 1)
	require.NoError(t, port.Connect(&source.Outputs[0], &ports.Inputs[0]))

	sinks := make([]*port.Collection, 4)
	for i := range sinks {
		sinks[i] = port.NewCollection(1, 0)
		require.NoError(t, port.Connect(&ports.Outputs[i], &sinks[i].Inputs[0]))
	}

	var signal block.Block
	for f := range signal {
		signal[f] = float64(f) / block.Frames
	}

	const iterations = 3
	for iteration := uint64(0); iteration < iterations; iteration++ {
		token := int(iteration % 2)

		src, _ := source.OutputBlockMut(0, token)
		*src = signal

		require.NoError(t, mod.Process(module.ProcessArgs{Token: token}))

		if iteration == 0 {
			continue
		}
		want := signal
		if iteration == 1 {
			want = block.Zero
		}
		for i := range sinks {
			got, status := sinks[i].InputBlock(0, token)
			require.Equal(t, port.OK, status)
			require.Equal(t, want, *got)
		}
	}
}

// TestMixerSumsConnectedInputs checks that the mixer sums only its connected
// inputs, treating disconnected inputs as silence. As in TestMultipleFanOut,
// sources->mixer->sink is two hops, so the sink reads silence in iteration 1
// and the sum from iteration 2 on.
func TestMixerSumsConnectedInputs(t *testing.T) {
	kind := NewMixerKind(3)
	ports := port.NewCollection(3, 1)
	mod := kind.Instantiate(module.Context{Instance: module.NewInstanceID()}, ports)

	sources := make([]*port.Collection, 2)
	for i := range sources {
		sources[i] = port.NewCollection(0, 1)
		require.NoError(t, port.Connect(&sources[i].Outputs[0], &ports.Inputs[i]))
	}
	// ports.Inputs[2] stays disconnected.

	sink := port.NewCollection(1, 0)
	require.NoError(t, port.Connect(&ports.Outputs[0], &sink.Inputs[0]))

	const iterations = 3
	for iteration := uint64(0); iteration < iterations; iteration++ {
		token := int(iteration % 2)

		a, _ := sources[0].OutputBlockMut(0, token)
		b, _ := sources[1].OutputBlockMut(0, token)
		for f := range a {
			a[f] = 1
			b[f] = 2
		}

		require.NoError(t, mod.Process(module.ProcessArgs{Token: token}))

		if iteration == 0 {
			continue
		}
		want := 3.0
		if iteration == 1 {
			want = 0.0
		}
		got, status := sink.InputBlock(0, token)
		require.Equal(t, port.OK, status)
		for f := range got {
			require.Equal(t, want, got[f])
		}
	}
}
