// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package module defines the contract every DSP module honors: the stable
// identifiers that name module kinds, catalogs and instances, the port
// arity/metadata carried by a ModuleDefinition, the Module/Kind interfaces a
// host application implements, and the Registry catalog that makes a set of
// module kinds available to the engine.
package module

import "github.com/google/uuid"

// KindID stably identifies a module kind (e.g. "sine oscillator"),
// independent of any particular instance of it.
type KindID uuid.UUID

// String implements fmt.Stringer.
func (k KindID) String() string { return uuid.UUID(k).String() }

// InstanceID identifies one live module instance inside a Processor,
// independent of its kind.
type InstanceID uuid.UUID

// String implements fmt.Stringer.
func (i InstanceID) String() string { return uuid.UUID(i).String() }

// CatalogID stably identifies a catalog: an application-defined closed
// tagged union enumerating the module kinds supported in one engine run.
type CatalogID uuid.UUID

// String implements fmt.Stringer.
func (c CatalogID) String() string { return uuid.UUID(c).String() }

// NewKindID, NewInstanceID and NewCatalogID mint fresh random IDs. Module
// kind IDs are normally hand-assigned constants (see package modules) so
// that they remain stable across builds. Package modules declares no such
// constant for its demo catalog: cmd/open-modular mints the catalog's ID
// with NewCatalogID on every start, so it is not stable across runs.
// NewInstanceID is the one commonly called at runtime, each time a module
// is added to the graph.
func NewKindID() KindID         { return KindID(uuid.New()) }
func NewInstanceID() InstanceID { return InstanceID(uuid.New()) }
func NewCatalogID() CatalogID   { return CatalogID(uuid.New()) }

// MustParseKindID parses s as a UUID and panics on failure. It exists so
// that module kinds can declare their stable ID as a readable package-level
// constant-like var instead of a random one, e.g.:
//
//	var KindIDSine = module.MustParseKindID("7a6e3b1e-8f0a-4e9e-9b8e-8b7b6a5c4d3e")
func MustParseKindID(s string) KindID {
	return KindID(uuid.MustParse(s))
}
