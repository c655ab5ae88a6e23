// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"zikichombo.org/sound"

	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/syncutil"
)

// PortAudioHost is the concrete Host backed by the system's PortAudio
// library. Capability requests are enqueued by ListOutputs and
// AcquireOutputBuffer from any goroutine, and resolved one at a time by
// Serve, which must only ever be called from the single stream callback
// goroutine — PortAudio's own device and stream APIs are not safe to call
// from Compute or Control.
type PortAudioHost struct {
	listReqs    chan listRequest
	acquireReqs chan acquireRequest
	mixer       *mixer

	stream      *portaudio.Stream
	streamDevID string
}

type listRequest struct {
	pending *syncutil.Pending[[]DeviceInfo]
}

type acquireRequest struct {
	deviceID string
	pending  *syncutil.Pending[*OutputBuffer]
}

// NewPortAudioHost initializes the PortAudio library and returns a Host
// backed by it. Close must be called once the host is no longer needed.
func NewPortAudioHost() (*PortAudioHost, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &HostError{Op: "initialize", Err: err}
	}
	return &PortAudioHost{
		listReqs:    make(chan listRequest, 8),
		acquireReqs: make(chan acquireRequest, 8),
		mixer:       newMixer(),
	}, nil
}

// Close tears down any open stream and terminates the PortAudio library.
func (h *PortAudioHost) Close() error {
	if h.stream != nil {
		_ = h.stream.Close()
		h.stream = nil
	}
	return portaudio.Terminate()
}

func (h *PortAudioHost) ListOutputs() (*syncutil.Pending[[]DeviceInfo], error) {
	p := syncutil.NewPending[[]DeviceInfo]()
	select {
	case h.listReqs <- listRequest{pending: p}:
		return p, nil
	default:
		return nil, &HostError{Op: "list_outputs", Err: ErrRequestQueueFull}
	}
}

func (h *PortAudioHost) AcquireOutputBuffer(deviceID string) (*syncutil.Pending[*OutputBuffer], error) {
	p := syncutil.NewPending[*OutputBuffer]()
	select {
	case h.acquireReqs <- acquireRequest{deviceID: deviceID, pending: p}:
		return p, nil
	default:
		return nil, &HostError{Op: "acquire_output_buffer", Err: ErrRequestQueueFull}
	}
}

// Serve drains and resolves any pending capability requests. It is called
// by AudioIO at the top of every stream callback invocation, i.e. during
// the IO role's Phase-0 bookkeeping.
func (h *PortAudioHost) Serve() {
drainList:
	for {
		select {
		case req := <-h.listReqs:
			req.pending.Resolve(h.listOutputsNow())
		default:
			break drainList
		}
	}

drainAcquire:
	for {
		select {
		case req := <-h.acquireReqs:
			req.pending.Resolve(h.acquireNow(req.deviceID))
		default:
			break drainAcquire
		}
	}
}

func (h *PortAudioHost) listOutputsNow() []DeviceInfo {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}
	outs := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		if d.MaxOutputChannels <= 0 {
			continue
		}
		outs = append(outs, DeviceInfo{
			ID:   d.Name,
			Name: d.Name,
			Form: sound.NewForm(block.Freq(), clampChannels(d.MaxOutputChannels)),
		})
	}
	return outs
}

// acquireNow allocates a buffer against deviceID's channel count and
// registers it with the mixer. It does not itself open the hardware stream;
// that happens once, explicitly, via AudioIO.Start.
func (h *PortAudioHost) acquireNow(deviceID string) *OutputBuffer {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}
	for _, d := range devices {
		if d.Name != deviceID || d.MaxOutputChannels <= 0 {
			continue
		}
		form := sound.NewForm(block.Freq(), clampChannels(d.MaxOutputChannels))
		buf := newOutputBuffer(form.Channels())
		h.mixer.register(buf)
		return buf
	}
	return nil
}

func (h *PortAudioHost) findDevice(deviceID string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == deviceID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("audio: device %q not found", deviceID)
}

func clampChannels(n int) int {
	if n < block.MinChannels {
		return block.MinChannels
	}
	if n > block.MaxChannels {
		return block.MaxChannels
	}
	return n
}
