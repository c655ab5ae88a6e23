// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package audio implements the audio sink facade (spec §4.5/§6, component
// C9): the opaque Host capability consumed by audio-output modules, the
// shared OutputBuffer handle they write into, and a concrete
// PortAudio-backed Host plus the realtime stream callback that is, in a
// production run, the IO worker role's entire thread of execution (spec §9:
// "IO is dictated by the platform").
package audio

import (
	"errors"

	"zikichombo.org/sound"

	"github.com/open-modular/open-modular/syncutil"
)

// DeviceInfo describes one audio output device, as returned by
// Host.ListOutputs. Form is the sound.Form negotiated against the device:
// its SampleRate is always block.Freq() (the engine does not resample) and
// its Channels is the device's output channel count, clamped to
// [block.MinChannels, block.MaxChannels].
type DeviceInfo struct {
	ID   string
	Name string
	Form sound.Form
}

// ChannelCount is a convenience accessor for Form.Channels().
func (d DeviceInfo) ChannelCount() int {
	return d.Form.Channels()
}

// Host is the opaque audio host capability the engine consumes. Both
// operations return immediately with a Pending and a synchronous error: the
// error reports a host-level failure to even enqueue the request (spec §7
// "AudioHost"); the Pending is resolved later, off the calling goroutine, by
// the IO role's Serve call during its Phase-0 bookkeeping (spec §4.5: "IO
// ... serves capability requests").
type Host interface {
	// ListOutputs requests the set of available output devices.
	ListOutputs() (*syncutil.Pending[[]DeviceInfo], error)

	// AcquireOutputBuffer requests a buffer that will be summed into the
	// named device's output every block, for as long as the returned
	// OutputBuffer is not Released.
	AcquireOutputBuffer(deviceID string) (*syncutil.Pending[*OutputBuffer], error)
}

// ErrRequestQueueFull is returned when a Host's internal capability request
// queue (bounded, so Control/Compute never block on it) is full.
var ErrRequestQueueFull = errors.New("audio: request queue full")

// HostError wraps a failure from the underlying platform audio library,
// surfaced synchronously rather than affecting graph state (spec §7).
type HostError struct {
	Op  string
	Err error
}

func (e *HostError) Error() string {
	return "audio: " + e.Op + ": " + e.Err.Error()
}

func (e *HostError) Unwrap() error { return e.Err }
