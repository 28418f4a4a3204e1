// File: internal/diag/uptime_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build !linux

package diag

import "time"

var processStart = time.Now()

// Uptime returns whole seconds since process start on platforms without a
// direct monotonic clock syscall wrapper.
func Uptime() uint32 {
	return uint32(time.Since(processStart) / time.Second)
}
