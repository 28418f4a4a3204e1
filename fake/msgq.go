// File: fake/msgq.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded message queue: FIFO storage behind two token channels acting as
// item/space semaphores, which gives Send and Recv their bounded waits
// without a condition variable.

package fake

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/rtospool/api"
)

type msgQueue struct {
	itemSize int

	mu  sync.Mutex
	buf *queue.Queue

	items chan struct{}
	space chan struct{}
}

func newMsgQueue(itemSize, depth int) *msgQueue {
	q := &msgQueue{
		itemSize: itemSize,
		buf:      queue.New(),
		items:    make(chan struct{}, depth),
		space:    make(chan struct{}, depth),
	}
	for i := 0; i < depth; i++ {
		q.space <- struct{}{}
	}
	return q
}

func (q *msgQueue) Send(data []byte, timeout time.Duration) int32 {
	if !waitToken(q.space, timeout) {
		if timeout <= 0 {
			return api.StatusNoMsg
		}
		return api.StatusTimeout
	}
	item := make([]byte, q.itemSize)
	copy(item, data)
	q.mu.Lock()
	q.buf.Add(item)
	q.mu.Unlock()
	q.items <- struct{}{}
	return api.StatusOK
}

func (q *msgQueue) Recv(out []byte, timeout time.Duration) int32 {
	if !waitToken(q.items, timeout) {
		if timeout <= 0 {
			return api.StatusNoMsg
		}
		return api.StatusTimeout
	}
	q.mu.Lock()
	item := q.buf.Remove().([]byte)
	q.mu.Unlock()
	q.space <- struct{}{}
	copy(out, item)
	return api.StatusOK
}

var _ api.MessageQueue = (*msgQueue)(nil)
