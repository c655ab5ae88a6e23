// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package audio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/open-modular/open-modular/block"
	"github.com/open-modular/open-modular/syncutil"
)

// AudioIO is the live, platform-driven embodiment of the IO worker role
// (spec §4.5/§6/§9). Unlike Compute and Control, which run their phases in
// an ordinary self-paced loop (see runtime.RunLoop), IO has no loop of its
// own: the platform's audio callback invocation IS one iteration of its
// phase sequence, so AudioIO's callback method performs all three phases —
// Phase-0 bookkeeping, then the Phase-0 and Phase-1 barrier waits, then the
// mix, then the Phase-2 wait — inline, exactly once per period.
type AudioIO struct {
	host *PortAudioHost

	phase0 *syncutil.BarrierGroup
	phase1 *syncutil.BarrierGroup
	phase2 *syncutil.BarrierGroup

	p0, p1, p2 *syncutil.Participant

	exit *syncutil.Exit

	// OnOverflow and OnUnderflow, if set, are called from the callback
	// goroutine when the platform reports the corresponding condition
	// (spec §7: "logged by IO, does not propagate").
	OnOverflow  func()
	OnUnderflow func()
}

// NewAudioIO joins host's owner to the three phase barriers. Start must be
// called afterward to open the hardware stream.
func NewAudioIO(host *PortAudioHost, exit *syncutil.Exit, phase0, phase1, phase2 *syncutil.BarrierGroup) *AudioIO {
	return &AudioIO{
		host:   host,
		exit:   exit,
		phase0: phase0,
		phase1: phase1,
		phase2: phase2,
		p0:     phase0.Join(),
		p1:     phase1.Join(),
		p2:     phase2.Join(),
	}
}

// Start opens and starts the hardware output stream for deviceID. The
// stream's callback drives the three-phase protocol until Stop is called.
func (a *AudioIO) Start(deviceID string) error {
	dev, err := a.host.findDevice(deviceID)
	if err != nil {
		return &HostError{Op: "start", Err: err}
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: clampChannels(dev.MaxOutputChannels),
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      float64(block.SampleRate),
		FramesPerBuffer: block.Frames,
	}

	stream, err := portaudio.OpenStream(params, a.callback)
	if err != nil {
		return &HostError{Op: "open_stream", Err: err}
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return &HostError{Op: "start_stream", Err: err}
	}

	a.host.stream = stream
	a.host.streamDevID = deviceID
	return nil
}

// Stop stops and closes the hardware stream and leaves the phase barriers.
func (a *AudioIO) Stop() error {
	var err error
	if a.host.stream != nil {
		err = a.host.stream.Close()
		a.host.stream = nil
	}
	a.leaveAll()
	return err
}

// leaveAll removes this worker from all three barrier groups. Leave is
// idempotent, so this is safe to call from both Stop and every early-return
// path in callback: once left, a barrier group's active count no longer
// counts this worker, so Compute and Control never block waiting on a
// callback invocation that has stopped participating (spec §5: "a worker
// exits the loop when, at the start of Phase-0, the shared exit flag is
// set" — callback is IO's loop body, and this is its exit).
func (a *AudioIO) leaveAll() {
	a.p0.Leave()
	a.p1.Leave()
	a.p2.Leave()
}

func (a *AudioIO) callback(out [][]float32, status portaudio.StreamCallbackFlags) {
	if a.exit.Signaled() {
		zero(out)
		a.leaveAll()
		return
	}

	a.host.Serve()

	if err := a.p0.Wait(); err != nil {
		zero(out)
		a.leaveAll()
		return
	}
	if err := a.p1.Wait(); err != nil {
		zero(out)
		a.leaveAll()
		return
	}

	a.host.mixer.mixInto(out)

	if err := a.p2.Wait(); err != nil {
		a.exit.Signal()
		a.leaveAll()
	}

	if status.OutputUnderflow() && a.OnUnderflow != nil {
		a.OnUnderflow()
	}
	if status.OutputOverflow() && a.OnOverflow != nil {
		a.OnOverflow()
	}
}

func zero(out [][]float32) {
	for c := range out {
		for f := range out[c] {
			out[c][f] = 0
		}
	}
}
