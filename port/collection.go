// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package port

import "github.com/open-modular/open-modular/block"

// Status describes the outcome of a Collection accessor call. It is a plain
// value, not an error: a module's Process method is expected to branch on it
// (e.g. treat a disconnected input as silence) rather than propagate a
// failure, since Compute's hot path has no fallible operations (spec §7).
type Status int

const (
	// OK indicates the accessor returned a usable block reference.
	OK Status = iota
	// StatusDisconnected indicates the port at the given index exists but is
	// not wired to anything.
	StatusDisconnected
	// StatusMissing indicates port_index was out of range for this
	// collection, as distinct from Disconnected (spec §4.2).
	StatusMissing
)

// Collection holds one module instance's ordered input and output cells. Its
// slice lengths are fixed at construction time to the arity given by the
// instance's module Definition (spec invariant I3) and never change for the
// life of the instance.
type Collection struct {
	Inputs  []InputCell
	Outputs []OutputCell
}

// NewCollection allocates a Collection with nIn input cells and nOut output
// cells, all Disconnected.
func NewCollection(nIn, nOut int) *Collection {
	return &Collection{
		Inputs:  make([]InputCell, nIn),
		Outputs: make([]OutputCell, nOut),
	}
}

// InputBlock returns the block a module should read for input portIndex this
// iteration: the "previous" half (index 1-token) of the upstream output cell,
// per the striped read/write protocol (spec §4.1). If the input is
// disconnected, it returns (nil, StatusDisconnected). If portIndex is out of
// range, it returns (nil, StatusMissing).
func (c *Collection) InputBlock(portIndex, token int) (*block.Block, Status) {
	if portIndex < 0 || portIndex >= len(c.Inputs) {
		return nil, StatusMissing
	}
	in := &c.Inputs[portIndex]
	if !in.connected {
		return nil, StatusDisconnected
	}
	return in.out.previous(token), OK
}

// OutputBlockMut returns the block a module should write for output
// portIndex this iteration: the "current" half (index token) of the output
// cell. If the output is disconnected it has no buffer pair, so it returns
// (nil, StatusDisconnected) and the module has nothing to write into. If
// portIndex is out of range, it returns (nil, StatusMissing).
func (c *Collection) OutputBlockMut(portIndex, token int) (*block.Block, Status) {
	if portIndex < 0 || portIndex >= len(c.Outputs) {
		return nil, StatusMissing
	}
	out := &c.Outputs[portIndex]
	if !out.connected {
		return nil, StatusDisconnected
	}
	return out.currentMut(token), OK
}

// OutputBlockPairMut returns both halves of output portIndex: the current
// (writable) half and the previous half, for modules whose output is a
// recurrence on its own prior block (e.g. a filter with feedback state held
// in the buffer itself rather than in separate module state).
func (c *Collection) OutputBlockPairMut(portIndex, token int) (current, previous *block.Block, status Status) {
	if portIndex < 0 || portIndex >= len(c.Outputs) {
		return nil, nil, StatusMissing
	}
	out := &c.Outputs[portIndex]
	if !out.connected {
		return nil, nil, StatusDisconnected
	}
	return out.currentMut(token), out.previous(token), OK
}
