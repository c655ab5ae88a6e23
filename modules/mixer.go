// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package modules

import (
	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/port"
)

// KindIDMixer stably identifies the summing mixer kind.
var KindIDMixer = module.MustParseKindID("9c4e1a7b-3d6f-4a8b-8e2c-1f5a7b9c3d6e")

// MixerKind sums N inputs into a single output, unity gain. Disconnected
// inputs contribute silence.
type MixerKind struct {
	// Inputs is the number of input ports to sum.
	Inputs int
}

// NewMixerKind creates a MixerKind summing the given number of inputs.
func NewMixerKind(inputs int) *MixerKind {
	return &MixerKind{Inputs: inputs}
}

func (k *MixerKind) Define(b *module.DefinitionBuilder) module.Definition {
	b = b.Description("sums N inputs, unity gain").Output("out", "mixed signal")
	for i := 0; i < k.Inputs; i++ {
		b = b.Input("in", "signal to mix in")
	}
	return b.Build()
}

func (k *MixerKind) Instantiate(ctx module.Context, ports *port.Collection) module.Module {
	return &mixer{ports: ports}
}

type mixer struct {
	ports *port.Collection
}

func (m *mixer) Ports() *port.Collection { return m.ports }

func (m *mixer) Process(args module.ProcessArgs) error {
	out, status := m.ports.OutputBlockMut(0, args.Token)
	if status != port.OK {
		return nil
	}
	*out = block.Zero
	for i := range m.ports.Inputs {
		in, inStatus := m.ports.InputBlock(i, args.Token)
		if inStatus != port.OK {
			continue
		}
		for f := range out {
			out[f] += in[f]
		}
	}
	return nil
}
