// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesInstancesAndConnections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	yaml := `
device: "Built-in Output"
ring_capacity: 64
instances:
  - name: osc
    kind: sine
  - name: out
    kind: audio-out
connections:
  - from_instance: osc
    from_port: 0
    to_instance: out
    to_port: 0
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Built-in Output", cfg.Device)
	require.Equal(t, 64, cfg.RingCapacity)
	require.Len(t, cfg.Instances, 2)
	require.Equal(t, "osc", cfg.Instances[0].Name)
	require.Len(t, cfg.Connections, 1)
	require.Equal(t, "out", cfg.Connections[0].ToInstance)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
