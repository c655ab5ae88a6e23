// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config loads the YAML file that describes one engine run: which
// output device to bind to, which module instances to add to the graph, and
// which connections to make between them at startup (spec §8's scenarios are
// all expressible as a Config plus a handful of post-start edits).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML configuration file.
type Config struct {
	// Device is the output device name to bind to (must match a
	// audio.DeviceInfo.ID from Host.ListOutputs), or "" for headless runs.
	Device string `yaml:"device"`

	// RingCapacity bounds the Control->Compute edit ring (spec §7
	// backpressure); zero means use the engine default.
	RingCapacity int `yaml:"ring_capacity"`

	// Instances pre-populates the graph with named module instances.
	Instances []InstanceConfig `yaml:"instances"`

	// Connections wires instance outputs to instance inputs, by name.
	Connections []ConnectionConfig `yaml:"connections"`
}

// InstanceConfig names one module instance to create at startup.
type InstanceConfig struct {
	// Name is a config-local handle for this instance, referenced by
	// ConnectionConfig; it is not the engine's InstanceID.
	Name string `yaml:"name"`
	// Kind is the registered kind's display name in the catalog in use.
	Kind string `yaml:"kind"`
}

// ConnectionConfig wires one output port to one input port, by instance
// name and port index.
type ConnectionConfig struct {
	FromInstance string `yaml:"from_instance"`
	FromPort     int    `yaml:"from_port"`
	ToInstance   string `yaml:"to_instance"`
	ToPort       int    `yaml:"to_port"`
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &c, nil
}
