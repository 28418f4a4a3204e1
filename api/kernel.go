// File: api/kernel.go
// Package api defines the kernel capability contracts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// Kernel status codes follow the errno convention of the underlying RTOS:
// zero on success, a negative kernel-defined value otherwise. Pass-through
// operations (lock, send, receive, publish) surface these unchanged.
const (
	StatusOK      int32 = 0
	StatusTimeout int32 = -11 // wait expired before the operation completed
	StatusInval   int32 = -22 // invalid handle, argument, or channel id
	StatusNoMsg   int32 = -61 // nothing to transfer without waiting
)

// Mutex is one kernel mutex instance, constructed in place by the kernel.
type Mutex interface {
	// Lock blocks up to timeout; zero means do-not-wait.
	Lock(timeout time.Duration) int32

	// Unlock releases the mutex and returns the raw kernel status.
	Unlock() int32
}

// MessageQueue is one bounded kernel queue carrying fixed-size items.
type MessageQueue interface {
	// Send enqueues one item, blocking up to timeout (zero = do-not-wait).
	Send(data []byte, timeout time.Duration) int32

	// Recv dequeues one item into out, blocking up to timeout.
	Recv(out []byte, timeout time.Duration) int32
}

// Timer is a one-shot kernel timer bound at construction time to a single
// expiry handler. It fires at most once per arm.
type Timer interface {
	// Start arms the timer; a second Start before expiry re-arms it.
	Start(delay time.Duration)
}

// Channel is one publish/subscribe channel carrying messages of a fixed,
// channel-declared size.
type Channel interface {
	// ID returns the small integer identifier the kernel resolves by.
	ID() uint32

	// MessageSize returns the declared message size in bytes.
	MessageSize() int

	// Publish writes data without waiting and without retention.
	Publish(data []byte) int32

	// Read copies the most recently published message into out.
	Read(out []byte) int32
}

// ChannelBus resolves channels by identifier and delivers publish events to
// one generic listener. The listener may run in a kernel-internal context
// distinct from any task using the pools.
type ChannelBus interface {
	// Channel resolves a channel by id; ok is false for unknown ids.
	Channel(id uint32) (Channel, bool)

	// SetListener installs the generic per-channel callback invoked with
	// the channel id after a message arrives. At most one listener.
	SetListener(fn func(id uint32))
}

// Kernel aggregates the primitive factories the pools depend on. Primitives
// are constructed through the kernel, never by the pools themselves.
type Kernel interface {
	// NewMutex constructs one mutex instance.
	NewMutex() Mutex

	// NewQueue constructs one queue with the given item size and depth.
	NewQueue(itemSize, depth int) MessageQueue

	// NewTimer constructs one timer bound to fire. The binding carries the
	// owning slot identity, so expiry needs no address-based lookup.
	NewTimer(fire func()) Timer

	// Bus returns the publish/subscribe surface.
	Bus() ChannelBus
}

// TimerCallback is invoked with the state captured at schedule time.
type TimerCallback func(state any)

// ObserverCallback is invoked with the captured state and the message read
// from the channel the observer was registered on.
type ObserverCallback func(state any, msg []byte)
