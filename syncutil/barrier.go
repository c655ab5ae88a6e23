// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package syncutil provides the concurrency primitives the three-phase
// synchronization protocol (spec §4.5/§5) is built on: a dynamically
// joinable N-way barrier group, a process-wide exit flag, a block-rate
// pacing timer, and a one-shot Pending[T] future with a correlation ID.
//
// These are grounded in original_source's open-modular-synchronization and
// open-modular-utilities crates (barrier.rs, sync.rs), adapted from Rust's
// SyncUnsafeCell-backed design to Go's sync.Cond, since Go has no direct
// SyncUnsafeCell equivalent and does not need one: sync.Mutex/sync.Cond
// already give the happens-before edges the barrier protocol requires.
package syncutil

import (
	"errors"
	"sync"
)

// PanicPolicy selects what a BarrierGroup does when a participant is
// poisoned (spec §5 "Barrier semantics").
type PanicPolicy int

const (
	// PolicyContinue means an exiting/poisoned participant simply reduces
	// the active count; remaining participants continue unaffected.
	PolicyContinue PanicPolicy = iota
	// PolicyPoison means any poisoned participant poisons the whole group;
	// all other waiters observe ErrPoisoned and are expected to exit.
	PolicyPoison
)

// ErrPoisoned is returned by Participant.Wait once the group has been
// poisoned under PolicyPoison.
var ErrPoisoned = errors.New("syncutil: barrier group poisoned")

// BarrierGroup is a dynamically joinable N-way barrier: unlike a
// fixed-N sync.WaitGroup-based barrier, workers may Join before the loop
// starts and Leave (e.g. on exit) without every other participant having to
// be rebuilt.
type BarrierGroup struct {
	mu         sync.Mutex
	cond       *sync.Cond
	active     int
	waiting    int
	generation uint64
	policy     PanicPolicy
	poisoned   bool
}

// NewBarrierGroup creates an empty barrier group (zero active participants)
// with the given panic policy.
func NewBarrierGroup(policy PanicPolicy) *BarrierGroup {
	g := &BarrierGroup{policy: policy}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Participant is a handle obtained by Join, used to Wait at each phase
// boundary and to Leave when the owning worker exits the loop.
type Participant struct {
	group *BarrierGroup
	left  bool
}

// Join registers a new participant, incrementing the group's active count.
// Workers call Join once, before entering their phase loop.
func (g *BarrierGroup) Join() *Participant {
	g.mu.Lock()
	g.active++
	g.mu.Unlock()
	return &Participant{group: g}
}

// Wait blocks until every active participant has called Wait for the
// current generation, then releases them all and advances the generation
// counter (spec §5: "waits until waiting >= active, then releases all and
// increments a generation counter"). It returns ErrPoisoned if the group is
// poisoned, either already or while waiting.
func (p *Participant) Wait() error {
	g := p.group
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned {
		return ErrPoisoned
	}
	gen := g.generation
	g.waiting++
	if g.waiting >= g.active {
		g.waiting = 0
		g.generation++
		g.cond.Broadcast()
		return nil
	}
	for gen == g.generation && !g.poisoned {
		g.cond.Wait()
	}
	if g.poisoned {
		return ErrPoisoned
	}
	return nil
}

// Leave removes this participant from the group. If the remaining active
// participants were all already waiting on the current generation, Leave
// releases them (spec §5: "if a participant drops, it decrements active and
// signals; this unblocks the remaining participants even if the exiting
// worker never waits again"). Leave is idempotent.
func (p *Participant) Leave() {
	g := p.group
	g.mu.Lock()
	defer g.mu.Unlock()
	if p.left {
		return
	}
	p.left = true
	g.active--
	if g.active > 0 && g.waiting >= g.active {
		g.waiting = 0
		g.generation++
	}
	g.cond.Broadcast()
}

// Poison marks the group as poisoned, per PolicyPoison: every other
// Participant blocked in or future-entering Wait observes ErrPoisoned. Under
// PolicyContinue, Poison only removes this participant (equivalent to
// Leave), matching the "continue" policy's "exiting participant just
// reduces the count" semantics.
func (p *Participant) Poison() {
	if p.group.policy != PolicyPoison {
		p.Leave()
		return
	}
	g := p.group
	g.mu.Lock()
	g.poisoned = true
	g.cond.Broadcast()
	g.mu.Unlock()
}
