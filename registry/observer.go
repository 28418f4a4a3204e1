// File: registry/observer.go
// Package registry maps channel identifiers to pending one-shot listeners.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The registry is the publish/subscribe dispatch arena: a fixed slot array
// of (channel id, callback, state) entries armed by Register and drained
// by the kernel's generic per-channel listener. Dispatch is
// notify-all-then-clear: every armed entry matching the published
// channel's id is invoked exactly once and freed in one pass, so each
// registration observes at most one message and must be re-armed for the
// next. Duplicate ids across entries are legal and all of them fire.

package registry

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/rtospool/api"
	"github.com/momentics/rtospool/internal/slot"
)

type entry struct {
	state    slot.State
	id       atomic.Uint32 // channel id, re-read under Fire ownership
	callback api.ObserverCallback
	userData any
}

// Observers is the fixed-capacity observer registry over one channel bus.
type Observers struct {
	bus        api.ChannelBus
	log        *zap.Logger
	entries    []entry
	dispatched atomic.Uint64
	fatal      func(error)
}

// Stats is a point-in-time snapshot for debug probes.
type Stats struct {
	Capacity   int
	Armed      int
	Dispatched uint64
}

// NewObservers creates a registry of capacity entries and installs its
// dispatch path as the bus's generic listener.
func NewObservers(bus api.ChannelBus, capacity int, log *zap.Logger) *Observers {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Observers{
		bus:     bus,
		log:     log,
		entries: make([]entry, capacity),
		fatal:   func(err error) { panic(err) },
	}
	bus.SetListener(r.dispatch)
	return r
}

// OnFatal replaces the handler for unrecoverable conditions. The default
// panics; a deployment wanting halt-in-place semantics installs
// diag.Sink.Fail here.
func (r *Observers) OnFatal(fn func(error)) {
	if fn != nil {
		r.fatal = fn
	}
}

// Register arms the first free entry with (id, state, callback). The entry
// fires on the next message published on the channel with that id, then
// frees itself. Exhaustion is unrecoverable: an observer that cannot be
// registered must not proceed silently.
func (r *Observers) Register(id uint32, state any, callback api.ObserverCallback) error {
	for i := range r.entries {
		e := &r.entries[i]
		if !e.state.Claim() {
			continue
		}
		e.id.Store(id)
		e.callback = callback
		e.userData = state
		e.state.Arm()
		return nil
	}
	r.log.Error("no observer entry available",
		zap.Uint32("channel", id),
		zap.Int("capacity", len(r.entries)),
	)
	return api.Unrecoverable(api.NewError(api.ErrCodeResourceExhausted, "observer registry exhausted").
		WithContext("channel", id).
		WithContext("capacity", len(r.entries)))
}

// Publish forwards data to the channel resolved by id with a do-not-wait
// send policy and no retention after delivery. Publishing to a channel
// with zero armed observers is a normal no-op.
func (r *Observers) Publish(id uint32, data []byte) int32 {
	ch, ok := r.bus.Channel(id)
	if !ok {
		return api.StatusInval
	}
	return ch.Publish(data)
}

// Stats reports capacity, armed entries, and callbacks dispatched.
func (r *Observers) Stats() Stats {
	st := Stats{
		Capacity:   len(r.entries),
		Dispatched: r.dispatched.Load(),
	}
	for i := range r.entries {
		if r.entries[i].state.IsArmed() {
			st.Armed++
		}
	}
	return st
}

// dispatch runs in the kernel's listener context when a message arrives on
// channel idx. It reads the message once, then visits every armed entry
// whose id matches: all of them fire, all of them free. The Fire CAS makes
// a concurrent double-publish deliver each entry at most once.
func (r *Observers) dispatch(idx uint32) {
	ch, ok := r.bus.Channel(idx)
	if !ok {
		r.fatal(api.Unrecoverable(api.NewError(api.ErrCodeNotFound, "dispatch on unknown channel").
			WithContext("channel", idx)))
		return
	}
	msg := make([]byte, ch.MessageSize())
	if status := ch.Read(msg); status != api.StatusOK {
		r.log.Error("channel read failed",
			zap.Uint32("channel", idx),
			zap.Int32("status", status),
		)
		return
	}

	for i := range r.entries {
		e := &r.entries[i]
		if !e.state.IsArmed() || e.id.Load() != idx {
			continue
		}
		if !e.state.Fire() {
			continue // lost to a concurrent dispatch
		}
		if e.id.Load() != idx {
			// Entry was re-armed for another channel between the scan
			// and the claim; hand it back untouched.
			e.state.Arm()
			continue
		}
		callback, state := e.callback, e.userData
		e.callback = nil
		e.userData = nil
		r.dispatched.Add(1)
		callback(state, msg)
		e.state.Release()
	}
}
