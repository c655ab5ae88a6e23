// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package module

import "github.com/open-modular/open-modular/port"

// Context carries per-instance information available at instantiation time.
// It intentionally does not carry sample rate or block size: those are
// compile-time constants (package block), not runtime configuration (spec
// §4.3).
type Context struct {
	// Instance is the ID the Processor will key this module under.
	Instance InstanceID
}

// ProcessArgs carries the per-block arguments passed to Module.Process.
type ProcessArgs struct {
	// Token is the parity token for this block: iteration mod 2. It
	// selects which half of every connected output port's buffer pair is
	// the writer half for this call.
	Token int
}

// Module is the behavioral contract every module instance satisfies: it
// exposes its port collection for wiring, and computes one block of output
// from its inputs on each Process call.
type Module interface {
	// Ports returns the instance's port collection: its ordered input and
	// output cells, used by Processor.Connect/Disconnect to wire the graph.
	Ports() *port.Collection

	// Process consumes this block's inputs and produces this block's
	// outputs. It is called exactly once per instance per iteration, in
	// insertion order, from the Compute role during Phase-1. It must not
	// allocate and must not block.
	Process(args ProcessArgs) error
}

// Kind is a module kind: a class of module identified by a stable KindID,
// that knows its own port arity/metadata and how to instantiate itself.
type Kind interface {
	// Define describes this kind's port arity and metadata using the
	// given builder.
	Define(b *DefinitionBuilder) Definition

	// Instantiate constructs a live Module bound to the given port
	// collection, which the caller (a Catalog) has already allocated per
	// this kind's Definition.
	Instantiate(ctx Context, ports *port.Collection) Module
}
