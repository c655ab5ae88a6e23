// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package modules

import (
	"github.com/open-modular/open-modular/audio"
	"github.com/open-modular/open-modular/module"
)

// NewDemoCatalog builds a Registry carrying this package's kinds: a 440 Hz
// sine oscillator, a 1-to-4 multiple, an 8-input mixer, and a stereo
// audio-out sink bound to host/deviceID. It is the catalog the CLI wires up
// by default (spec §8's worked scenarios).
func NewDemoCatalog(id module.CatalogID, host audio.Host, deviceID string) *module.Registry {
	r := module.NewRegistry(id)
	r.Register(KindIDSine, "sine", NewSineKind(440, 0.15))
	r.Register(KindIDMultiple, "multiple", NewMultipleKind(4))
	r.Register(KindIDMixer, "mixer", NewMixerKind(8))
	r.Register(KindIDAudioOut, "audio-out", NewAudioOutKind(host, deviceID, 2))
	return r
}
