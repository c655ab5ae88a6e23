// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package syncutil_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-modular/open-modular/syncutil"
)

func TestBarrierGroupReleasesAllAtOnce(t *testing.T) {
	g := syncutil.NewBarrierGroup(syncutil.PolicyContinue)
	const n = 4
	participants := make([]*syncutil.Participant, n)
	for i := range participants {
		participants[i] = g.Join()
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var order []int
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			require.NoError(t, participants[i].Wait())
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	assert.Len(t, order, n)
}

func TestBarrierGroupLeaveUnblocksRemaining(t *testing.T) {
	g := syncutil.NewBarrierGroup(syncutil.PolicyContinue)
	a := g.Join()
	b := g.Join()

	done := make(chan struct{})
	go func() {
		require.NoError(t, a.Wait())
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	b.Leave() // b exits without waiting; a must still unblock

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a.Wait() did not unblock after b.Leave()")
	}
}

func TestBarrierGroupPoisonPropagates(t *testing.T) {
	g := syncutil.NewBarrierGroup(syncutil.PolicyPoison)
	a := g.Join()
	b := g.Join()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Wait()
	}()

	time.Sleep(10 * time.Millisecond)
	b.Poison()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, syncutil.ErrPoisoned)
	case <-time.After(time.Second):
		t.Fatal("a.Wait() did not observe poison")
	}
}

func TestExitSignal(t *testing.T) {
	var e syncutil.Exit
	assert.False(t, e.Signaled())
	e.Signal()
	assert.True(t, e.Signaled())
}

func TestPendingResolvesOnce(t *testing.T) {
	p := syncutil.NewPending[int]()
	_, ok := p.Value()
	assert.False(t, ok)

	p.Resolve(42)
	p.Resolve(7) // second resolve is a no-op

	v, ok := p.Value()
	require.True(t, ok)
	assert.Equal(t, 42, v)
}
