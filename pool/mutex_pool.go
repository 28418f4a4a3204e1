// File: pool/mutex_pool.go
// Package pool implements the lendable mutex arena.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex slots follow a free-list discipline with lazy one-time init: the
// kernel primitive is constructed on the slot's first acquire, never at
// pool construction, and never destructed. A released slot keeps its
// primitive and is handed to the next acquirer as-is.

package pool

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/rtospool/api"
	"github.com/momentics/rtospool/internal/slot"
)

type mutexSlot struct {
	state slot.State
	init  atomic.Bool
	prim  api.Mutex
}

// MutexPool lends kernel mutexes from a fixed slot array.
type MutexPool struct {
	kernel      api.Kernel
	log         *zap.Logger
	slots       []mutexSlot
	constructed atomic.Uint64
}

// MutexPoolStats is a point-in-time snapshot for debug probes.
type MutexPoolStats struct {
	Capacity    int
	InUse       int
	Constructed uint64
}

// NewMutexPool creates a pool of capacity slots over kernel. No primitive
// is constructed yet.
func NewMutexPool(kernel api.Kernel, capacity int, log *zap.Logger) *MutexPool {
	if log == nil {
		log = zap.NewNop()
	}
	return &MutexPool{
		kernel: kernel,
		log:    log,
		slots:  make([]mutexSlot, capacity),
	}
}

// Acquire claims the first free slot, constructing its primitive exactly
// once per slot lifetime. On exhaustion it logs a diagnostic and returns
// api.ErrCodeResourceExhausted; the caller sees an invalid handle and may
// retry or degrade.
func (p *MutexPool) Acquire() (MutexHandle, error) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.state.Claim() {
			continue
		}
		if !s.init.Load() {
			s.prim = p.kernel.NewMutex()
			s.init.Store(true)
			p.constructed.Add(1)
		}
		return MutexHandle{ref: int32(i) + 1}, nil
	}
	p.log.Error("no mutex available", zap.Int("capacity", len(p.slots)))
	return MutexHandle{}, api.NewError(api.ErrCodeResourceExhausted, "mutex pool exhausted").
		WithContext("capacity", len(p.slots))
}

// Release returns the slot behind h to the free list. Unknown, invalid,
// and already-released handles are tolerated silently; no other slot is
// affected. The primitive stays constructed for the next owner.
func (p *MutexPool) Release(h MutexHandle) {
	if !p.owns(h) {
		return
	}
	p.slots[h.index()].state.ReleaseClaimed()
}

// Lock passes through to the kernel primitive with a bounded wait
// (zero = do-not-wait) and returns the raw kernel status.
func (p *MutexPool) Lock(h MutexHandle, timeout time.Duration) int32 {
	s, ok := p.resolve(h)
	if !ok {
		return api.StatusInval
	}
	return s.prim.Lock(timeout)
}

// Unlock passes through to the kernel primitive.
func (p *MutexPool) Unlock(h MutexHandle) int32 {
	s, ok := p.resolve(h)
	if !ok {
		return api.StatusInval
	}
	return s.prim.Unlock()
}

// Stats reports capacity, live slots, and how many primitives have been
// constructed (at most one per slot, ever).
func (p *MutexPool) Stats() MutexPoolStats {
	st := MutexPoolStats{
		Capacity:    len(p.slots),
		Constructed: p.constructed.Load(),
	}
	for i := range p.slots {
		if !p.slots[i].state.IsFree() {
			st.InUse++
		}
	}
	return st
}

func (p *MutexPool) owns(h MutexHandle) bool {
	return h.Valid() && h.index() < len(p.slots)
}

func (p *MutexPool) resolve(h MutexHandle) (*mutexSlot, bool) {
	if !p.owns(h) {
		return nil, false
	}
	s := &p.slots[h.index()]
	if !s.init.Load() {
		return nil, false
	}
	return s, true
}
