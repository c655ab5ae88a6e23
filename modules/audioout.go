// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package modules

import (
	"github.com/open-modular/open-modular/audio"
	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/port"
	"github.com/open-modular/open-modular/syncutil"
)

// KindIDAudioOut stably identifies the audio-output sink kind.
var KindIDAudioOut = module.MustParseKindID("4f1d8a2c-6b9e-4d3a-9c7f-2e5b8a1c6d9f")

// AudioOutKind bridges module output ports into an audio.OutputBuffer
// acquired from a Host, one input per hardware channel. Acquisition is
// requested at instantiation time and resolved asynchronously by the IO
// role; until it resolves, Process is a no-op (spec §6: the capability
// request/response is not on the Compute hot path).
type AudioOutKind struct {
	Host     audio.Host
	DeviceID string
	Channels int
}

// NewAudioOutKind creates an AudioOutKind that will mix into deviceID via
// host, with one input port per channel.
func NewAudioOutKind(host audio.Host, deviceID string, channels int) *AudioOutKind {
	return &AudioOutKind{Host: host, DeviceID: deviceID, Channels: channels}
}

func (k *AudioOutKind) Define(b *module.DefinitionBuilder) module.Definition {
	b = b.Description("sums its inputs into the audio hardware output")
	for i := 0; i < k.Channels; i++ {
		b = b.Input("in", "channel input")
	}
	return b.Build()
}

func (k *AudioOutKind) Instantiate(ctx module.Context, ports *port.Collection) module.Module {
	s := &audioOut{ports: ports}
	if pending, err := k.Host.AcquireOutputBuffer(k.DeviceID); err == nil {
		s.pending = pending
	}
	return s
}

type audioOut struct {
	ports   *port.Collection
	pending *syncutil.Pending[*audio.OutputBuffer]
	buf     *audio.OutputBuffer
}

func (s *audioOut) Ports() *port.Collection { return s.ports }

func (s *audioOut) Process(args module.ProcessArgs) error {
	if s.buf == nil {
		if s.pending == nil {
			return nil
		}
		v, ok := s.pending.Value()
		if !ok {
			return nil
		}
		s.buf = v
	}

	n := s.buf.Channels()
	for i := 0; i < n && i < len(s.ports.Inputs); i++ {
		dst := s.buf.Channel(i)
		in, status := s.ports.InputBlock(i, args.Token)
		if status != port.OK {
			*dst = block.Zero
			continue
		}
		*dst = *in
	}
	return nil
}

// Release forwards to the underlying OutputBuffer, so the runtime can
// release it when this instance is removed from the graph (audio.Releaser).
// An instance removed before Process ever observed its pending resolve
// would otherwise leak: acquireNow already registered the buffer with the
// mixer at acquisition time, so a resolved-but-never-latched buffer still
// needs releasing even though s.buf was never set.
func (s *audioOut) Release() {
	if s.buf != nil {
		s.buf.Release()
		return
	}
	if s.pending != nil {
		if v, ok := s.pending.Value(); ok {
			v.Release()
		}
	}
}
