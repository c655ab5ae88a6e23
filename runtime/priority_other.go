// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !linux

package runtime

// raiseRealtimePriority is a no-op on platforms without SCHED_FIFO support
// in this build.
func raiseRealtimePriority() error {
	return nil
}
