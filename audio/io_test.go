// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/syncutil"
)

// TestAudioIOCallbackDrivesOneFullPhaseCycle exercises AudioIO.callback as
// the IO role's entire loop body: a stand-in goroutine joins the same three
// barriers Compute and Control would, and callback is invoked directly the
// way PortAudio's stream callback would invoke it. It asserts both that the
// mix reaches the hardware output slice and that the cycle actually
// completes, catching the class of bug where an early return inside
// callback fails to leave a barrier and strands the other participants.
func TestAudioIOCallbackDrivesOneFullPhaseCycle(t *testing.T) {
	host := &PortAudioHost{
		listReqs:    make(chan listRequest, 8),
		acquireReqs: make(chan acquireRequest, 8),
		mixer:       newMixer(),
	}

	buf := newOutputBuffer(2)
	*buf.Channel(0) = block.Block{0: 0.5}
	*buf.Channel(1) = block.Block{0: 0.25}
	host.mixer.register(buf)

	exit := &syncutil.Exit{}
	phase0 := syncutil.NewBarrierGroup(syncutil.PolicyPoison)
	phase1 := syncutil.NewBarrierGroup(syncutil.PolicyPoison)
	phase2 := syncutil.NewBarrierGroup(syncutil.PolicyPoison)

	io := NewAudioIO(host, exit, phase0, phase1, phase2)

	p0, p1, p2 := phase0.Join(), phase1.Join(), phase2.Join()
	defer p0.Leave()
	defer p1.Leave()
	defer p2.Leave()

	done := make(chan error, 1)
	go func() {
		if err := p0.Wait(); err != nil {
			done <- err
			return
		}
		if err := p1.Wait(); err != nil {
			done <- err
			return
		}
		done <- p2.Wait()
	}()

	out := [][]float32{make([]float32, block.Frames), make([]float32, block.Frames)}
	io.callback(out, 0)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("barrier cycle did not complete: AudioIO.callback likely stranded a participant")
	}

	assert.InDelta(t, 0.5, out[0][0], 1e-6)
	assert.InDelta(t, 0.25, out[1][0], 1e-6)
}

// TestAudioIOCallbackLeavesBarriersOnExitSignal checks that a callback
// invoked after Exit has been signaled leaves every barrier it joined,
// rather than just zeroing the output and silently dropping out of the
// rotation — a standing participant would otherwise block Compute and
// Control's next Wait forever.
func TestAudioIOCallbackLeavesBarriersOnExitSignal(t *testing.T) {
	host := &PortAudioHost{
		listReqs:    make(chan listRequest, 8),
		acquireReqs: make(chan acquireRequest, 8),
		mixer:       newMixer(),
	}

	exit := &syncutil.Exit{}
	phase0 := syncutil.NewBarrierGroup(syncutil.PolicyPoison)
	phase1 := syncutil.NewBarrierGroup(syncutil.PolicyPoison)
	phase2 := syncutil.NewBarrierGroup(syncutil.PolicyPoison)

	io := NewAudioIO(host, exit, phase0, phase1, phase2)
	exit.Signal()

	out := [][]float32{make([]float32, block.Frames)}
	io.callback(out, 0)

	// a lone remaining participant must now see itself as the only active
	// one: its own Wait releases immediately instead of blocking on a
	// barrier AudioIO never left.
	p := phase0.Join()
	done := make(chan error, 1)
	go func() { done <- p.Wait() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("phase0 participant left by AudioIO still counted as active")
	}
	p.Leave()
}
