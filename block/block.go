// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package block defines the fixed-size sample vector that every signal in the
// engine is exchanged in units of, and the handful of compile-time constants
// derived from it.
package block

import (
	"time"

	"zikichombo.org/sound/freq"
)

// Frames is the compile-time-known length of a Block, in samples per
// channel. It is fixed for the lifetime of any build of this package: the
// engine does not support varying block sizes within a run.
const Frames = 64

// SampleRate is the engine's fixed sample rate, in Hz.
const SampleRate = 48_000

// Sample is the scalar element type carried in a Block.
type Sample = float64

// Block is one block of audio: a fixed-length vector of Frames samples for a
// single channel. All intra-graph signal transport happens in units of one
// Block.
type Block [Frames]Sample

// Zero is the all-zeros block, used to initialize output cell buffers and
// read by any input cell that has never seen a write.
var Zero Block

// FrameDuration is the wall-clock duration of a single sample frame.
const FrameDuration = time.Second / time.Duration(SampleRate)

// BlockDuration is the wall-clock duration of one Block, i.e. the engine's
// audio period: one audio callback corresponds to one BlockDuration.
const BlockDuration = FrameDuration * Frames

// Freq is SampleRate expressed as a zikichombo.org/sound/freq.T, for
// components (such as the audio host negotiation in package audio) that
// interoperate with zikichombo.org/sound's Form type.
func Freq() freq.T {
	return SampleRate * freq.Hertz
}

// MinChannels and MaxChannels bound the channel counts the engine will
// negotiate with an audio device.
const (
	MinChannels = 2
	MaxChannels = 16
)
