// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package port implements the zero-copy, lock-free connection fabric between
// module ports: output cells, input cells, and the striped double-buffer
// protocol that makes concurrent write/read access to a connection safe
// without locks, provided the three-phase barrier protocol in package runtime
// is respected by callers.
package port

import (
	"errors"

	"github.com/open-modular/open-modular/block"
)

// ErrInvalidState is returned by Connect/Disconnect when a precondition on
// the Connected/Disconnected state of a cell is violated. It is a programmer
// error: the graph-editing caller (the Control role) is expected to treat it
// as fatal for the attempted edit, not to retry.
var ErrInvalidState = errors.New("port: invalid state")

// OutputCell is the writer side of a connection. Its zero value is
// Disconnected and holds no buffer; Connect allocates its buffer pair.
//
// An OutputCell's blocks must only be written (through
// Collection.OutputBlockMut) by the module instance that owns it, during that
// instance's Process call in the Compute phase; Connect/Disconnect change its
// state only between blocks, when Compute applies an edit in Phase-0. Readers
// (input cells referencing it, or the audio callback for sink modules) only
// ever read the "previous" half, which the phase barrier guarantees is
// already fully written.
type OutputCell struct {
	connected bool
	buf       *[2]block.Block
}

// Connected reports whether the cell currently has a buffer pair.
func (o *OutputCell) Connected() bool {
	return o.connected
}

// currentMut returns the half of the buffer pair being written this
// iteration (index == token). It panics if the cell is Disconnected: callers
// must check Connected (or go through Collection, which reports Disconnected
// as a Status rather than panicking).
func (o *OutputCell) currentMut(token int) *block.Block {
	return &o.buf[token&1]
}

// previous returns the half of the buffer pair written on the prior
// iteration (index == 1-token), i.e. the half a reader should observe this
// iteration.
func (o *OutputCell) previous(token int) *block.Block {
	return &o.buf[(token+1)&1]
}

// InputCell is the reader side of a connection. Its zero value is
// Disconnected and references no output. Multiple input cells may reference
// the same OutputCell in principle (fan-out), but Connect/Disconnect as
// implemented here enforce the one-to-one policy described in spec §9: an
// input's Disconnect always tears down its output too.
type InputCell struct {
	connected bool
	out       *OutputCell
}

// Connected reports whether the cell currently references an output.
func (i *InputCell) Connected() bool {
	return i.connected
}

// Connect wires output to input, per spec §4.1.
//
// Precondition: both output and input are Disconnected. On success, output
// transitions to Connected with a freshly zero-initialized buffer pair, and
// input transitions to Connected holding a reference to output.
func Connect(output *OutputCell, input *InputCell) error {
	if output.connected || input.connected {
		return ErrInvalidState
	}
	output.buf = &[2]block.Block{}
	output.connected = true
	input.out = output
	input.connected = true
	return nil
}

// Disconnect tears down the connection referenced by input.
//
// Precondition: input is Connected (and, by invariant I1, so is its
// referenced output). Disconnect is input-initiated: the referenced output is
// also disconnected and its buffer pair released, since the engine does not
// support fan-out (spec §9).
func Disconnect(input *InputCell) error {
	if !input.connected {
		return ErrInvalidState
	}
	out := input.out
	if out == nil || !out.connected {
		return ErrInvalidState
	}
	out.connected = false
	out.buf = nil
	input.connected = false
	input.out = nil
	return nil
}
