// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package engine implements the processor: the owner of module instances and
// the engine of per-block iteration (spec §4.4, component C5).
package engine

import (
	"errors"
	"fmt"

	"github.com/open-modular/open-modular/module"
	"github.com/open-modular/open-modular/port"
)

// ErrNotFound is returned by Connect/Disconnect when a referenced instance
// or port index does not exist. It is a programmer error (spec §7): the
// Control role may treat it as fatal for the attempted edit.
var ErrNotFound = errors.New("engine: not found")

// ErrInvalidState is returned by Connect/Disconnect when the underlying
// port.Connect/port.Disconnect precondition is violated.
var ErrInvalidState = port.ErrInvalidState

// Ref names one port of one module instance: (instance, port index). An
// OutputRef must name an output port; an InputRef must name an input port.
// The distinction is enforced by which Collection slice the index is looked
// up against, not by the type itself.
type Ref struct {
	Instance module.InstanceID
	Port     int
}

// Processor owns all module instances for one engine run. It preserves
// insertion order (spec invariant I5: insertion order is execution order)
// using a slice of instance IDs alongside the lookup map, the Go analogue of
// an IndexMap (original_source uses indexmap::IndexMap; no pack go.mod
// carries an ordered-map dependency, so Processor implements the same
// amortized-O(1) insert/lookup/ordered-iterate contract directly).
type Processor struct {
	order     []module.InstanceID
	instances map[module.InstanceID]module.Module
}

// New creates an empty Processor.
func New() *Processor {
	return &Processor{
		instances: make(map[module.InstanceID]module.Module),
	}
}

// Add inserts mod at the end of the execution order under id. If id already
// names an instance, Add replaces it in place (its position in the order is
// preserved, not moved to the end) — spec §4.4 calls this "idempotent on
// duplicate ID: replaces".
func (p *Processor) Add(id module.InstanceID, mod module.Module) {
	if _, exists := p.instances[id]; !exists {
		p.order = append(p.order, id)
	}
	p.instances[id] = mod
}

// Remove deletes the instance named by id. The remaining order is preserved.
// Remove is a no-op if id is absent (spec §4.4: "fails silently if absent").
func (p *Processor) Remove(id module.InstanceID) {
	if _, exists := p.instances[id]; !exists {
		return
	}
	delete(p.instances, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Get returns the instance named by id, or (nil, false) if absent.
func (p *Processor) Get(id module.InstanceID) (module.Module, bool) {
	m, ok := p.instances[id]
	return m, ok
}

// Len returns the number of instances currently held.
func (p *Processor) Len() int {
	return len(p.order)
}

func (p *Processor) lookupPort(ref Ref, output bool) (*port.Collection, error) {
	inst, ok := p.instances[ref.Instance]
	if !ok {
		return nil, fmt.Errorf("%w: instance %s", ErrNotFound, ref.Instance)
	}
	ports := inst.Ports()
	n := len(ports.Inputs)
	if output {
		n = len(ports.Outputs)
	}
	if ref.Port < 0 || ref.Port >= n {
		return nil, fmt.Errorf("%w: port %d on instance %s", ErrNotFound, ref.Port, ref.Instance)
	}
	return ports, nil
}

// Connect wires the output named by out to the input named by in, per spec
// §4.1/§4.4. It returns ErrNotFound if either ref names a nonexistent
// instance or an out-of-range port index, and ErrInvalidState (wrapping
// port.ErrInvalidState) if the underlying cells are not both Disconnected.
func (p *Processor) Connect(out Ref, in Ref) error {
	outPorts, err := p.lookupPort(out, true)
	if err != nil {
		return err
	}
	inPorts, err := p.lookupPort(in, false)
	if err != nil {
		return err
	}
	return port.Connect(&outPorts.Outputs[out.Port], &inPorts.Inputs[in.Port])
}

// Disconnect tears down the connection referenced by in, per spec §4.1/§4.4.
func (p *Processor) Disconnect(in Ref) error {
	inPorts, err := p.lookupPort(in, false)
	if err != nil {
		return err
	}
	return port.Disconnect(&inPorts.Inputs[in.Port])
}

// PanicError reports that an instance's Process call panicked during a
// block (spec §8, E6). Compute decides what to do with it based on the
// configured panic policy: under the poison policy it propagates the error
// (which the phase barrier turns into a group-wide poison); under the
// continue policy it removes Instance from the processor and carries on
// with the next block.
type PanicError struct {
	Instance module.InstanceID
	Value    any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("engine: instance %s panicked: %v", e.Instance, e.Value)
}

// Process advances the graph by one block: it sets token = iteration mod 2
// and calls Process on every instance, strictly in insertion order (spec
// invariant I5). It is the only method Processor expects to be called from
// the Compute role's hot path.
//
// A panicking instance is recovered and reported as a *PanicError rather
// than crashing the block; the remaining instances still run this block
// (spec §8, E6: "other modules continue to execute"). If more than one
// instance panics or returns an error in the same block, Process joins
// every resulting error with errors.Join.
func (p *Processor) Process(iteration uint64) error {
	token := int(iteration % 2)
	args := module.ProcessArgs{Token: token}
	var errs []error
	for _, id := range p.order {
		if err := p.processOne(id, p.instances[id], args); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Processor) processOne(id module.InstanceID, mod module.Module, args module.ProcessArgs) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Instance: id, Value: r}
		}
	}()
	if e := mod.Process(args); e != nil {
		return fmt.Errorf("engine: instance %s: %w", id, e)
	}
	return nil
}

// PanickedInstances walks err (which may be the result of errors.Join, as
// returned by Process) and returns the InstanceID of every *PanicError it
// contains, in no particular order. Non-panic errors are ignored.
func PanickedInstances(err error) []module.InstanceID {
	var ids []module.InstanceID
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if pe, ok := e.(*PanicError); ok {
			ids = append(ids, pe.Instance)
			return
		}
		if u, ok := e.(interface{ Unwrap() []error }); ok {
			for _, sub := range u.Unwrap() {
				walk(sub)
			}
			return
		}
		if u, ok := e.(interface{ Unwrap() error }); ok {
			walk(u.Unwrap())
		}
	}
	walk(err)
	return ids
}
