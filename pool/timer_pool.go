// File: pool/timer_pool.go
// Package pool implements the one-shot timer arena.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Every slot owns one kernel timer constructed up front and bound to the
// slot index, so an expiry resolves to its owner without any address
// lookup. Slots are single-shot: the expiry path invokes the captured
// callback and frees the slot in the same pass.

package pool

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/rtospool/api"
	"github.com/momentics/rtospool/internal/slot"
)

type timerSlot struct {
	state    slot.State
	callback api.TimerCallback
	userData any
	timer    api.Timer
}

// TimerPool lends one-shot expiry slots bound to a callback and state.
// Capacity is sized to the number of concurrent logical tasks; there is no
// per-task reservation, a second schedule from one task competes like any
// other caller.
type TimerPool struct {
	log   *zap.Logger
	slots []timerSlot
	fired atomic.Uint64
	fatal func(error)
}

// TimerPoolStats is a point-in-time snapshot for debug probes.
type TimerPoolStats struct {
	Capacity int
	Pending  int
	Fired    uint64
}

// NewTimerPool creates the pool and constructs every kernel timer, each
// bound to its slot index.
func NewTimerPool(kernel api.Kernel, capacity int, log *zap.Logger) *TimerPool {
	if log == nil {
		log = zap.NewNop()
	}
	p := &TimerPool{
		log:   log,
		slots: make([]timerSlot, capacity),
		fatal: func(err error) { panic(err) },
	}
	for i := range p.slots {
		idx := i
		p.slots[i].timer = kernel.NewTimer(func() { p.expire(idx) })
	}
	return p
}

// OnFatal replaces the handler for unrecoverable expiry-path conditions.
// The default panics; a deployment wanting halt-in-place semantics installs
// diag.Sink.Fail here.
func (p *TimerPool) OnFatal(fn func(error)) {
	if fn != nil {
		p.fatal = fn
	}
}

// Schedule captures callback and state in the first free slot and arms its
// kernel timer for delay. Exhaustion is unrecoverable: a task that cannot
// schedule its timer cannot proceed safely, so the error is wrapped with
// api.Unrecoverable for the caller to act on.
func (p *TimerPool) Schedule(callback api.TimerCallback, state any, delay time.Duration) error {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.state.Claim() {
			continue
		}
		s.callback = callback
		s.userData = state
		s.state.Arm()
		s.timer.Start(delay)
		return nil
	}
	p.log.Error("no timer available", zap.Int("capacity", len(p.slots)))
	return api.Unrecoverable(api.NewError(api.ErrCodeResourceExhausted, "timer pool exhausted").
		WithContext("capacity", len(p.slots)))
}

// Stats reports capacity, armed slots, and total expiries dispatched.
func (p *TimerPool) Stats() TimerPoolStats {
	st := TimerPoolStats{
		Capacity: len(p.slots),
		Fired:    p.fired.Load(),
	}
	for i := range p.slots {
		if p.slots[i].state.IsArmed() {
			st.Pending++
		}
	}
	return st
}

// expire is the shared expiry path, invoked by the kernel in its own
// context. An expiry on a slot that is not armed means the pool's
// bookkeeping no longer matches the kernel's; calling through whatever
// state the slot holds would be use-after-free, so this is unrecoverable.
func (p *TimerPool) expire(idx int) {
	s := &p.slots[idx]
	if !s.state.Fire() {
		p.fatal(api.Unrecoverable(api.NewError(api.ErrCodeInternal, "timer fired on free slot").
			WithContext("slot", idx)))
		return
	}
	callback, state := s.callback, s.userData
	s.callback = nil
	s.userData = nil
	p.fired.Add(1)
	callback(state)
	s.state.Release()
}
