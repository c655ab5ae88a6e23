// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-modular/open-modular/engine"
	"github.com/open-modular/open-modular/module"
)

func TestEditRingBackpressure(t *testing.T) {
	const capacity = 4
	ring := NewEditRing(capacity)

	for i := 0; i < capacity; i++ {
		rejected, err := ring.Send(Remove{Instance: module.NewInstanceID()})
		require.NoError(t, err)
		require.Nil(t, rejected)
	}

	rejectedCount := 0
	for i := 0; i < 5; i++ {
		cmd := Remove{Instance: module.NewInstanceID()}
		rejected, err := ring.Send(cmd)
		if err != nil {
			require.ErrorIs(t, err, ErrBackpressure)
			require.Equal(t, cmd, rejected)
			rejectedCount++
		}
	}
	require.Equal(t, 5, rejectedCount)

	for i := 0; i < capacity; i++ {
		_, ok := ring.TryRecv()
		require.True(t, ok)
	}
	_, ok := ring.TryRecv()
	require.False(t, ok)
}

func TestApplyCommandUnknownKind(t *testing.T) {
	proc := engine.New()
	catalog := module.NewRegistry(module.NewCatalogID())

	err := applyCommand(proc, catalog, Add{Instance: module.NewInstanceID(), Kind: module.NewKindID()})
	require.Error(t, err)
	var unknown *module.ErrUnknownKind
	require.True(t, errors.As(err, &unknown))
}
