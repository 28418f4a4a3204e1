// File: pool/handle.go
// Package pool defines the opaque handles returned to callers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Handles carry the arena index, not a raw object address, so resolving a
// handle back to its slot is a bounds check instead of an address scan.
// The zero value of every handle type is invalid.

package pool

// MutexHandle references one acquired mutex slot.
type MutexHandle struct {
	ref int32
}

// Valid reports whether the handle was returned by a successful Acquire.
func (h MutexHandle) Valid() bool { return h.ref > 0 }

func (h MutexHandle) index() int { return int(h.ref) - 1 }

// QueueHandle references one message-queue instance.
type QueueHandle struct {
	ref int32
}

// Valid reports whether the handle was returned by Acquire.
func (h QueueHandle) Valid() bool { return h.ref > 0 }

func (h QueueHandle) index() int { return int(h.ref) - 1 }
