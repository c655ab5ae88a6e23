// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package syncutil

import (
	"sync"
	"sync/atomic"
)

var correlationCounter atomic.Uint64

// Pending is a one-shot future resolved by the IO role in response to an
// audio.Host capability request (spec §6). It exposes a non-blocking Value
// and carries a correlation ID for tracing, matching original_source's
// Pending/Value types (sync.rs) and spec §9's "global mutable state ... a
// correlation counter for Pending".
type Pending[T any] struct {
	id    uint64
	mu    sync.Mutex
	value *T
}

// NewPending creates an unresolved Pending with a fresh correlation ID.
func NewPending[T any]() *Pending[T] {
	return &Pending[T]{id: correlationCounter.Add(1)}
}

// CorrelationID returns the ID assigned at construction, for tracing a
// request through to its resolution.
func (p *Pending[T]) CorrelationID() uint64 {
	return p.id
}

// Resolve sets the value, if not already set. Later calls after the first
// are no-ops: a Pending resolves exactly once.
func (p *Pending[T]) Resolve(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.value == nil {
		p.value = &v
	}
}

// Value returns the resolved value and true, or the zero value and false if
// not yet resolved. It never blocks.
func (p *Pending[T]) Value() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.value == nil {
		var zero T
		return zero, false
	}
	return *p.value, true
}
