// File: pool/msgq_pool.go
// Package pool implements the round-robin message-queue arena.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Queues follow a different discipline from the other pools: each logical
// task claims one queue at start-up and keeps it for the process lifetime,
// so there is no free flag and no release. The whole arena is constructed
// lazily on the first Acquire, with the item size fixed at that moment,
// and handles are dealt in round-robin order thereafter.

package pool

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/rtospool/api"
)

// QueuePool hands out ring-buffer queue instances, one per logical owner.
type QueuePool struct {
	kernel api.Kernel
	log    *zap.Logger

	mu       sync.Mutex
	queues   []api.MessageQueue
	next     int
	inited   bool
	itemSize int
	depth    int
	handed   uint64
}

// QueuePoolStats is a point-in-time snapshot for debug probes.
type QueuePoolStats struct {
	Capacity    int
	Depth       int
	ItemSize    int
	Handed      uint64
	Initialized bool
}

// NewQueuePool creates a pool of capacity queue instances, each depth
// items deep. Nothing is constructed until the first Acquire.
func NewQueuePool(kernel api.Kernel, capacity, depth int, log *zap.Logger) *QueuePool {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueuePool{
		kernel: kernel,
		log:    log,
		queues: make([]api.MessageQueue, capacity),
		depth:  depth,
	}
}

// Acquire returns the next queue instance in round-robin order, wrapping
// from the last index back to zero. The first call constructs every
// instance with itemSize; later calls ignore the argument, all instances
// share the size chosen then. Acquire never fails and never blocks.
func (p *QueuePool) Acquire(itemSize int) QueueHandle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.inited {
		p.inited = true
		p.itemSize = itemSize
		for i := range p.queues {
			p.queues[i] = p.kernel.NewQueue(itemSize, p.depth)
		}
		p.log.Debug("queue arena constructed",
			zap.Int("capacity", len(p.queues)),
			zap.Int("item_size", itemSize),
			zap.Int("depth", p.depth),
		)
	}

	h := QueueHandle{ref: int32(p.next) + 1}
	p.handed++
	if p.next >= len(p.queues)-1 {
		p.next = 0
	} else {
		p.next++
	}
	return h
}

// Send passes through to the kernel queue with a bounded wait
// (zero = do-not-wait) and returns the raw kernel status.
func (p *QueuePool) Send(h QueueHandle, data []byte, timeout time.Duration) int32 {
	q, ok := p.resolve(h)
	if !ok {
		return api.StatusInval
	}
	return q.Send(data, timeout)
}

// Recv passes through to the kernel queue, copying one item into out.
func (p *QueuePool) Recv(h QueueHandle, out []byte, timeout time.Duration) int32 {
	q, ok := p.resolve(h)
	if !ok {
		return api.StatusInval
	}
	return q.Recv(out, timeout)
}

// Stats reports the arena configuration and how many handles were dealt.
func (p *QueuePool) Stats() QueuePoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return QueuePoolStats{
		Capacity:    len(p.queues),
		Depth:       p.depth,
		ItemSize:    p.itemSize,
		Handed:      p.handed,
		Initialized: p.inited,
	}
}

func (p *QueuePool) resolve(h QueueHandle) (api.MessageQueue, bool) {
	if !h.Valid() || h.index() >= len(p.queues) {
		return nil, false
	}
	p.mu.Lock()
	q := p.queues[h.index()]
	p.mu.Unlock()
	if q == nil {
		return nil, false
	}
	return q, true
}
