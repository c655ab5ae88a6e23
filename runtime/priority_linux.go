// Copyright 2026 The Open Modular Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build linux

package runtime

import "golang.org/x/sys/unix"

// realtimePriority is the highest SCHED_FIFO priority Linux allows
// (sched_get_priority_max(SCHED_FIFO) is 99).
const realtimePriority = 99

// raiseRealtimePriority switches the calling OS thread to SCHED_FIFO (spec
// §5, grounded in original_source's use of the thread_priority crate).
// Doing so generally requires CAP_SYS_NICE or root; a failure here is
// expected and non-fatal on an unprivileged developer machine.
func raiseRealtimePriority() error {
	return unix.SchedSetscheduler(0, unix.SCHED_FIFO, &unix.SchedParam{Priority: realtimePriority})
}
