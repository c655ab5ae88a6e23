// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/engine"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/port"
)

// counterSource writes its iteration count (as a constant-valued block) to
// its single output every block. It has no inputs.
type counterSource struct {
	ports     *port.Collection
	iteration int
}

func newCounterSource(p *port.Collection) *counterSource { return &counterSource{ports: p} }
func (c *counterSource) Ports() *port.Collection          { return c.ports }
func (c *counterSource) Process(args module.ProcessArgs) error {
	w, status := c.ports.OutputBlockMut(0, args.Token)
	if status == port.OK {
		for i := range w {
			w[i] = float64(c.iteration)
		}
	}
	c.iteration++
	return nil
}

// probeSink records whatever block it reads on its single input each block.
type probeSink struct {
	ports *port.Collection
	last  block.Block
	seen  bool
	reads []block.Block
}

func newProbeSink(p *port.Collection) *probeSink { return &probeSink{ports: p} }
func (s *probeSink) Ports() *port.Collection     { return s.ports }
func (s *probeSink) Process(args module.ProcessArgs) error {
	r, status := s.ports.InputBlock(0, args.Token)
	if status == port.OK {
		s.last = *r
		s.seen = true
		s.reads = append(s.reads, *r)
	}
	return nil
}

func newWiredGraph(t *testing.T) (p *engine.Processor, srcID, dstID module.InstanceID, src *counterSource, dst *probeSink) {
	t.Helper()
	p = engine.New()
	srcID, dstID = module.NewInstanceID(), module.NewInstanceID()

	srcPorts := port.NewCollection(0, 1)
	src = newCounterSource(srcPorts)
	p.Add(srcID, src)

	dstPorts := port.NewCollection(1, 0)
	dst = newProbeSink(dstPorts)
	p.Add(dstID, dst)

	require.NoError(t, p.Connect(engine.Ref{Instance: srcID, Port: 0}, engine.Ref{Instance: dstID, Port: 0}))
	return p, srcID, dstID, src, dst
}

// TestP2LatencyContract checks P2: in iteration k >= 1, the block read via
// the input equals the block written by the output in iteration k-1; in
// iteration 0 the read block is all-zeros.
func TestP2LatencyContract(t *testing.T) {
	p, _, _, _, dst := newWiredGraph(t)

	for k := uint64(0); k < 10; k++ {
		require.NoError(t, p.Process(k))
		if k == 0 {
			assert.Equal(t, block.Zero, dst.last)
			continue
		}
		var want block.Block
		for i := range want {
			want[i] = float64(k - 1)
		}
		assert.Equal(t, want, dst.last)
	}
}

// TestP4InsertionOrderIsExecutionOrder checks P4 with A added before B: A's
// output written in iteration k is observed at B's input in iteration k+1,
// not k, even though A runs before B within every block.
func TestP4InsertionOrderIsExecutionOrder(t *testing.T) {
	p := engine.New()
	aID, bID := module.NewInstanceID(), module.NewInstanceID()

	aPorts := port.NewCollection(0, 1)
	a := newCounterSource(aPorts)
	p.Add(aID, a)

	bPorts := port.NewCollection(1, 0)
	b := newProbeSink(bPorts)
	p.Add(bID, b)

	require.NoError(t, p.Connect(engine.Ref{Instance: aID, Port: 0}, engine.Ref{Instance: bID, Port: 0}))

	for k := uint64(0); k < 5; k++ {
		require.NoError(t, p.Process(k))
	}
	// after 5 iterations (0..4), b has seen iteration 4's read, which is
	// iteration 3's write (k-1), confirming one-block latency independent
	// of call order within Process (A is processed before B every time).
	require.True(t, b.seen)
	assert.Equal(t, float64(3), b.last[0])
}

// TestP3RoundTrip checks P3: connect then disconnect returns both ports to
// Disconnected.
func TestP3RoundTrip(t *testing.T) {
	p := engine.New()
	srcID, dstID := module.NewInstanceID(), module.NewInstanceID()
	p.Add(srcID, newCounterSource(port.NewCollection(0, 1)))
	p.Add(dstID, newProbeSink(port.NewCollection(1, 0)))

	outRef := engine.Ref{Instance: srcID, Port: 0}
	inRef := engine.Ref{Instance: dstID, Port: 0}

	require.NoError(t, p.Connect(outRef, inRef))
	require.NoError(t, p.Disconnect(inRef))

	src, _ := p.Get(srcID)
	dst, _ := p.Get(dstID)
	assert.False(t, src.Ports().Outputs[0].Connected())
	assert.False(t, dst.Ports().Inputs[0].Connected())
}

func TestNotFoundOnBadRefs(t *testing.T) {
	p := engine.New()
	srcID := module.NewInstanceID()
	p.Add(srcID, newCounterSource(port.NewCollection(0, 1)))

	err := p.Connect(engine.Ref{Instance: srcID, Port: 0}, engine.Ref{Instance: module.NewInstanceID(), Port: 0})
	assert.ErrorIs(t, err, engine.ErrNotFound)

	err = p.Connect(engine.Ref{Instance: srcID, Port: 9}, engine.Ref{Instance: srcID, Port: 0})
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

// TestAddRemoveIdempotent exercises the "idempotent on duplicate ID: replaces"
// and "fails silently if absent" rules of spec §4.4.
func TestAddRemoveIdempotent(t *testing.T) {
	p := engine.New()
	id := module.NewInstanceID()
	first := newCounterSource(port.NewCollection(0, 1))
	second := newCounterSource(port.NewCollection(0, 1))

	p.Add(id, first)
	p.Add(id, second)
	assert.Equal(t, 1, p.Len())
	got, _ := p.Get(id)
	assert.Same(t, second, got)

	p.Remove(module.NewInstanceID()) // absent: no panic, no effect
	assert.Equal(t, 1, p.Len())

	p.Remove(id)
	assert.Equal(t, 0, p.Len())
}

// TestP1NoPanicUnderRandomEdits is a rapid property test implementing P1:
// for any sequence of add/connect/disconnect edits, running N blocks
// produces no panics. Race-freedom (the other half of P1) is additionally
// checked by running this test under `go test -race`, which the test
// tooling here does not invoke itself but is expected of CI.
func TestP1NoPanicUnderRandomEdits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := engine.New()
		var srcIDs, dstIDs []module.InstanceID
		var connected []engine.Ref // currently-connected input refs

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for s := 0; s < steps; s++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0: // add a source
				id := module.NewInstanceID()
				p.Add(id, newCounterSource(port.NewCollection(0, 1)))
				srcIDs = append(srcIDs, id)
			case 1: // add a sink
				id := module.NewInstanceID()
				p.Add(id, newProbeSink(port.NewCollection(1, 0)))
				dstIDs = append(dstIDs, id)
			case 2: // connect a random unconnected source/sink pair
				if len(srcIDs) == 0 || len(dstIDs) == 0 {
					continue
				}
				src := srcIDs[rapid.IntRange(0, len(srcIDs)-1).Draw(rt, "src")]
				dst := dstIDs[rapid.IntRange(0, len(dstIDs)-1).Draw(rt, "dst")]
				inRef := engine.Ref{Instance: dst, Port: 0}
				if err := p.Connect(engine.Ref{Instance: src, Port: 0}, inRef); err == nil {
					connected = append(connected, inRef)
				}
			case 3: // disconnect a random connected input
				if len(connected) == 0 {
					continue
				}
				i := rapid.IntRange(0, len(connected)-1).Draw(rt, "disc")
				_ = p.Disconnect(connected[i])
				connected = append(connected[:i], connected[i+1:]...)
			}
		}

		for it := uint64(0); it < 20; it++ {
			require.NoError(rt, p.Process(it))
		}
	})
}
