// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package module

import (
	"fmt"
	"sort"

	"github.com/open-modular/open-modular/port"
)

// Registry is the catalog: an application-defined closed enumeration of the module kinds
// supported for one engine run, identified by its own stable CatalogID.
//
// Go has no tagged-union-with-static-dispatch construct, so unlike the
// rationale in spec §4.3 (which favors a tagged union for monomorphization),
// Registry dispatches through the Kind/Module interfaces. The "closed"
// property is preserved at the level that matters for this engine: a
// Registry's member kinds are fixed at construction (Register is only ever
// called during application setup, never from the Compute role's hot path),
// so Process dispatch is a single interface call against a set that cannot
// change mid-run.
type Registry struct {
	id          CatalogID
	names       map[KindID]string
	byName      map[string]KindID
	kinds       map[KindID]Kind
	definitions map[KindID]Definition // built lazily, once
}

// NewRegistry creates an empty Registry identified by id.
func NewRegistry(id CatalogID) *Registry {
	return &Registry{
		id:     id,
		names:  make(map[KindID]string),
		byName: make(map[string]KindID),
		kinds:  make(map[KindID]Kind),
	}
}

// ID returns the catalog's own stable identifier.
func (r *Registry) ID() CatalogID { return r.id }

// Register adds a kind to the catalog under the given KindID, with name as
// its display name (carried into Definition.Name and resolvable via
// Lookup). It is idempotent on a duplicate ID: the later registration wins.
// Register must be called before Definitions/Instantiate are first used (it
// invalidates the lazily-built definitions cache).
func (r *Registry) Register(id KindID, name string, kind Kind) {
	r.kinds[id] = kind
	r.names[id] = name
	r.byName[name] = id
	r.definitions = nil
}

// Lookup resolves a kind's display name to its stable KindID, for host
// applications (e.g. package config) that address kinds by name rather than
// by their 128-bit ID.
func (r *Registry) Lookup(name string) (KindID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Definitions returns the KindID -> Definition mapping for every registered
// kind, building it on first call and caching it thereafter (spec §4.3: "lazy,
// built once").
func (r *Registry) Definitions() map[KindID]Definition {
	if r.definitions == nil {
		defs := make(map[KindID]Definition, len(r.kinds))
		for id, kind := range r.kinds {
			b := NewDefinitionBuilder(id, r.names[id])
			defs[id] = kind.Define(b)
		}
		r.definitions = defs
	}
	return r.definitions
}

// ErrUnknownKind is returned by Instantiate when kindID names no kind
// registered in this catalog.
type ErrUnknownKind struct {
	KindID KindID
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("module: unknown kind %s", e.KindID)
}

// Instantiate allocates a port collection per kindID's Definition and
// dispatches to that kind's Instantiate.
func (r *Registry) Instantiate(kindID KindID, ctx Context) (Module, error) {
	kind, ok := r.kinds[kindID]
	if !ok {
		return nil, &ErrUnknownKind{KindID: kindID}
	}
	def := r.Definitions()[kindID]
	ports := port.NewCollection(def.NumInputs(), def.NumOutputs())
	return kind.Instantiate(ctx, ports), nil
}

// KindIDs returns the registered kind IDs in a stable (sorted-by-string)
// order, useful for deterministic catalog listings (e.g. a CLI or config
// validator).
func (r *Registry) KindIDs() []KindID {
	ids := make([]KindID, 0, len(r.kinds))
	for id := range r.kinds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
