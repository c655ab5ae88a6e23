// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package syncutil

import "sync/atomic"

// Exit is the single process-wide shutdown boolean every worker role checks
// at the top of Phase-0 (spec §5: "Shutdown is a single process-wide
// boolean observed at the top of Phase-0").
type Exit struct {
	flag atomic.Bool
}

// Signal requests shutdown. It is safe to call from any goroutine,
// including concurrently and more than once.
func (e *Exit) Signal() {
	e.flag.Store(true)
}

// Signaled reports whether shutdown has been requested.
func (e *Exit) Signaled() bool {
	return e.flag.Load()
}
