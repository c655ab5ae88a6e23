// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtime

import (
	"errors"

	"github.com/open-modular/open-modular/engine"
	"github.com/open-modular/open-modular/module"
)

// Command is one graph-edit wire message, sent by the Control role and
// applied by Compute (spec §4.5/§6 "Graph wire protocol"). The four variants
// below are the whole of it — this is a closed set, not an extensible one.
type Command interface {
	isCommand()
}

// Add requests that a module of the given kind be instantiated under
// instance, via the Processor's Catalog.
type Add struct {
	Instance module.InstanceID
	Kind     module.KindID
}

// Remove requests that instance be removed from the graph.
type Remove struct {
	Instance module.InstanceID
}

// Connect requests that Output be wired to Input.
type Connect struct {
	Output engine.Ref
	Input  engine.Ref
}

// Disconnect requests that Input be torn down.
type Disconnect struct {
	Input engine.Ref
}

func (Add) isCommand()        {}
func (Remove) isCommand()     {}
func (Connect) isCommand()    {}
func (Disconnect) isCommand() {}

// ErrBackpressure is returned by EditRing.Send when the ring is full. The
// rejected command is returned alongside it, verbatim, per spec §7: "never
// silently dropped".
var ErrBackpressure = errors.New("runtime: edit ring full")

// EditRing is the single-producer/single-consumer bounded channel of edit
// commands from Control to Compute (spec §4.5/§5). It is backed by a Go
// buffered channel, the idiomatic SPSC ring in this corpus's own style
// (zikichombo-plug wires every cross-goroutine handoff through a channel);
// original_source instead uses the rtrb crate (see bus.rs), which a buffered
// channel with non-blocking send/receive reproduces exactly for this
// single-producer/single-consumer use.
type EditRing struct {
	commands chan Command
}

// NewEditRing creates a ring with room for capacity unacknowledged commands.
func NewEditRing(capacity int) *EditRing {
	return &EditRing{commands: make(chan Command, capacity)}
}

// Send enqueues cmd. If the ring is full, Send does not block: it returns
// cmd unchanged alongside ErrBackpressure, which Control surfaces to its
// caller as back-pressure (spec §4.5/§7, property P6).
func (r *EditRing) Send(cmd Command) (Command, error) {
	select {
	case r.commands <- cmd:
		return nil, nil
	default:
		return cmd, ErrBackpressure
	}
}

// TryRecv dequeues the next command without blocking, returning (nil, false)
// if the ring is empty. Compute calls this at most once per block (spec
// §4.5: "Compute applies at most one per block").
func (r *EditRing) TryRecv() (Command, bool) {
	select {
	case cmd := <-r.commands:
		return cmd, true
	default:
		return nil, false
	}
}
