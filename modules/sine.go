// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package modules provides a small demonstration catalog of module kinds:
// a sine oscillator, a one-to-many multiple, a summing mixer, and an
// audio-out sink that bridges a module's output into package audio's Host
// capability. These are the worked examples spec §8's scenarios exercise,
// not an exhaustive DSP library.
package modules

import (
	"math"

	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/port"
)

// KindIDSine stably identifies the sine oscillator kind.
var KindIDSine = module.MustParseKindID("7a6e3b1e-8f0a-4e9e-9b8e-8b7b6a5c4d3e")

// SineKind is a fixed-frequency sine oscillator: 0 inputs, 1 output.
type SineKind struct {
	// Frequency is the oscillator's frequency in Hz.
	Frequency float64
	// Amplitude scales the output; 1.0 is full scale.
	Amplitude float64
}

// NewSineKind creates a SineKind at the given frequency and amplitude.
func NewSineKind(frequency, amplitude float64) *SineKind {
	return &SineKind{Frequency: frequency, Amplitude: amplitude}
}

func (k *SineKind) Define(b *module.DefinitionBuilder) module.Definition {
	return b.Description("fixed-frequency sine oscillator").
		Output("out", "sine wave output").
		Build()
}

func (k *SineKind) Instantiate(ctx module.Context, ports *port.Collection) module.Module {
	return &sine{
		ports:     ports,
		factor:    k.Frequency * 2 * math.Pi,
		amplitude: k.Amplitude,
	}
}

// sine holds its running phase as elapsed time in seconds, incremented by
// one sample period each frame. out[f] = amplitude * sin(factor * phase),
// where factor is the oscillator's angular frequency (2*pi*Hz).
type sine struct {
	ports     *port.Collection
	phase     float64
	factor    float64
	amplitude float64
}

const sampleInterval = 1.0 / float64(block.SampleRate)

func (s *sine) Ports() *port.Collection { return s.ports }

func (s *sine) Process(args module.ProcessArgs) error {
	out, status := s.ports.OutputBlockMut(0, args.Token)
	if status != port.OK {
		s.phase += sampleInterval * block.Frames
		return nil
	}
	p := s.phase
	for f := range out {
		out[f] = s.amplitude * math.Sin(s.factor*p)
		p += sampleInterval
	}
	s.phase += sampleInterval * block.Frames
	return nil
}
