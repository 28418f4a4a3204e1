// File: internal/diag/uptime_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build linux

package diag

import "golang.org/x/sys/unix"

// Uptime returns whole seconds on the monotonic clock, the same timestamp
// the kernel's own diagnostics stamp messages with.
func Uptime() uint32 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint32(ts.Sec)
}
