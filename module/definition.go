// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package module

// PortDescriptor describes one input or output port of a module definition:
// a name and an optional human-readable description. Port order within a
// Definition's Inputs/Outputs slices is significant — it is the port index
// used everywhere else (Collection, Connect/Disconnect refs).
type PortDescriptor struct {
	Name        string
	Description string
}

// Definition is the immutable metadata for one module kind: its stable ID,
// display name, optional description, and ordered input/output port
// descriptors. A Definition is built once per kind (by a Catalog, lazily,
// the first time it is needed) and never mutated afterward.
type Definition struct {
	ID          KindID
	Name        string
	Description string
	Inputs      []PortDescriptor
	Outputs     []PortDescriptor
}

// NumInputs and NumOutputs give the arity a Collection for an instance of
// this kind must be constructed with (spec invariant I3).
func (d Definition) NumInputs() int  { return len(d.Inputs) }
func (d Definition) NumOutputs() int { return len(d.Outputs) }

// DefinitionBuilder accumulates port descriptors for a Definition. Kind
// implementations receive one from the Catalog's Definitions() pass and
// return the built Definition from their Define method.
type DefinitionBuilder struct {
	id          KindID
	name        string
	description string
	inputs      []PortDescriptor
	outputs     []PortDescriptor
}

// NewDefinitionBuilder starts building a Definition for the given stable ID
// and display name.
func NewDefinitionBuilder(id KindID, name string) *DefinitionBuilder {
	return &DefinitionBuilder{id: id, name: name}
}

// Description sets the optional description and returns the builder for
// chaining.
func (b *DefinitionBuilder) Description(d string) *DefinitionBuilder {
	b.description = d
	return b
}

// Input appends an input port descriptor in order and returns the builder.
func (b *DefinitionBuilder) Input(name, description string) *DefinitionBuilder {
	b.inputs = append(b.inputs, PortDescriptor{Name: name, Description: description})
	return b
}

// Output appends an output port descriptor in order and returns the
// builder.
func (b *DefinitionBuilder) Output(name, description string) *DefinitionBuilder {
	b.outputs = append(b.outputs, PortDescriptor{Name: name, Description: description})
	return b
}

// Build produces the immutable Definition.
func (b *DefinitionBuilder) Build() Definition {
	return Definition{
		ID:          b.id,
		Name:        b.name,
		Description: b.description,
		Inputs:      append([]PortDescriptor(nil), b.inputs...),
		Outputs:     append([]PortDescriptor(nil), b.outputs...),
	}
}
