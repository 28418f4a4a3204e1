// File: fake/kernel.go
// Package fake provides a working in-process kernel for tests and examples.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The fake kernel implements every api capability contract with plain Go
// concurrency primitives. It is not a stub: mutexes really block, queues
// really bound, timers really fire, and channel publishes really invoke
// the generic listener, in a goroutine context distinct from none in
// particular, matching the interrupt-like context of a real kernel.

package fake

import (
	"sync"

	"github.com/momentics/rtospool/api"
)

// Kernel is an in-process api.Kernel. Channels are declared up front with
// AddChannel, mirroring build-time channel definitions.
type Kernel struct {
	mu       sync.Mutex
	channels map[uint32]*busChannel
	listener func(uint32)
}

// NewKernel creates a kernel with no channels declared.
func NewKernel() *Kernel {
	return &Kernel{channels: make(map[uint32]*busChannel)}
}

// NewMutex constructs one mutex instance.
func (k *Kernel) NewMutex() api.Mutex {
	return newMutex()
}

// NewQueue constructs one bounded queue with fixed-size items.
func (k *Kernel) NewQueue(itemSize, depth int) api.MessageQueue {
	return newMsgQueue(itemSize, depth)
}

// NewTimer constructs one one-shot timer bound to fire.
func (k *Kernel) NewTimer(fire func()) api.Timer {
	return &timer{fire: fire}
}

// Bus returns the publish/subscribe surface.
func (k *Kernel) Bus() api.ChannelBus {
	return k
}

// AddChannel declares a channel carrying msgSize-byte messages. Declaring
// an id twice replaces the previous channel.
func (k *Kernel) AddChannel(id uint32, msgSize int) {
	k.mu.Lock()
	k.channels[id] = &busChannel{kernel: k, id: id, size: msgSize}
	k.mu.Unlock()
}

// Channel resolves a declared channel by id.
func (k *Kernel) Channel(id uint32) (api.Channel, bool) {
	k.mu.Lock()
	ch, ok := k.channels[id]
	k.mu.Unlock()
	if !ok {
		return nil, false
	}
	return ch, true
}

// SetListener installs the generic per-channel callback.
func (k *Kernel) SetListener(fn func(id uint32)) {
	k.mu.Lock()
	k.listener = fn
	k.mu.Unlock()
}

func (k *Kernel) notify(id uint32) {
	k.mu.Lock()
	fn := k.listener
	k.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}

var _ api.Kernel = (*Kernel)(nil)
var _ api.ChannelBus = (*Kernel)(nil)

// busChannel carries fixed-size messages and keeps only the most recent one.
type busChannel struct {
	kernel *Kernel
	id     uint32
	size   int

	mu   sync.Mutex
	last []byte
}

func (c *busChannel) ID() uint32 { return c.id }

func (c *busChannel) MessageSize() int { return c.size }

// Publish stores data (truncated or zero-padded to the declared size) and
// invokes the generic listener in the publisher's context, without waiting.
func (c *busChannel) Publish(data []byte) int32 {
	msg := make([]byte, c.size)
	copy(msg, data)
	c.mu.Lock()
	c.last = msg
	c.mu.Unlock()
	c.kernel.notify(c.id)
	return api.StatusOK
}

// Read copies the most recently published message into out.
func (c *busChannel) Read(out []byte) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return api.StatusNoMsg
	}
	copy(out, c.last)
	return api.StatusOK
}

var _ api.Channel = (*busChannel)(nil)
