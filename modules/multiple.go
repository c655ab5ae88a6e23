// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package modules

import (
	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/port"
)

// KindIDMultiple stably identifies the one-to-many "multiple" kind.
var KindIDMultiple = module.MustParseKindID("2b9d6a4f-0c3e-4c7a-9a2d-6f1e4b8a9c0d")

// MultipleKind copies its single input to every one of N outputs
// unmodified. It exists because the engine's port fabric is strictly
// one-to-one (spec §9): fan-out is built as an explicit module, not a
// connection-fabric feature.
type MultipleKind struct {
	// Outputs is the number of output ports (N in a "1-to-N multiple").
	Outputs int
}

// NewMultipleKind creates a MultipleKind with the given output count.
func NewMultipleKind(outputs int) *MultipleKind {
	return &MultipleKind{Outputs: outputs}
}

func (k *MultipleKind) Define(b *module.DefinitionBuilder) module.Definition {
	b = b.Description("copies one input to N outputs").Input("in", "signal to duplicate")
	for i := 0; i < k.Outputs; i++ {
		b = b.Output("out", "duplicated signal")
	}
	return b.Build()
}

func (k *MultipleKind) Instantiate(ctx module.Context, ports *port.Collection) module.Module {
	return &multiple{ports: ports}
}

type multiple struct {
	ports *port.Collection
}

func (m *multiple) Ports() *port.Collection { return m.ports }

func (m *multiple) Process(args module.ProcessArgs) error {
	in, status := m.ports.InputBlock(0, args.Token)
	for i := range m.ports.Outputs {
		out, outStatus := m.ports.OutputBlockMut(i, args.Token)
		if outStatus != port.OK {
			continue
		}
		if status != port.OK {
			*out = block.Zero
			continue
		}
		*out = *in
	}
	return nil
}
