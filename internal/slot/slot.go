// File: internal/slot/slot.go
// Package slot implements the per-slot atomic claim state shared by all pools.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Every pool slot carries one State word. Ownership transitions go through
// compare-and-swap, so two callers scanning the same array can never both
// win one slot, and a release can never race a dispatch into invoking a
// callback twice. This replaces the bare bool flags of a cooperative
// single-core design with an explicit claim protocol.

package slot

import "sync/atomic"

// Slot lifecycle values. Claimed covers both "owner still writing the
// payload" and "dispatch running the callback"; only Armed slots are
// matchable by a dispatch scan.
const (
	Free uint32 = iota
	Claimed
	Armed
)

// State is the atomic ownership word of one slot.
type State struct {
	v atomic.Uint32
}

// Claim attempts the Free -> Claimed transition. The winner owns the slot
// payload until Arm or Release.
func (s *State) Claim() bool {
	return s.v.CompareAndSwap(Free, Claimed)
}

// Arm publishes the slot as live after its payload is fully written.
func (s *State) Arm() {
	s.v.Store(Armed)
}

// Fire attempts the Armed -> Claimed transition, giving a dispatcher
// exclusive ownership for the duration of the callback.
func (s *State) Fire() bool {
	return s.v.CompareAndSwap(Armed, Claimed)
}

// Release returns the slot to the free list unconditionally. Only the
// current owner may call it.
func (s *State) Release() {
	s.v.Store(Free)
}

// ReleaseClaimed attempts the Claimed -> Free transition; used where a
// double release must stay a silent no-op.
func (s *State) ReleaseClaimed() bool {
	return s.v.CompareAndSwap(Claimed, Free)
}

// IsArmed reports whether the slot is live and matchable.
func (s *State) IsArmed() bool {
	return s.v.Load() == Armed
}

// IsFree reports whether the slot is on the free list.
func (s *State) IsFree() bool {
	return s.v.Load() == Free
}
