// File: internal/diag/sink.go
// Package diag is the halting diagnostic sink of rtospool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pools report unrecoverable conditions as api.UnrecoverableError values;
// the decision to stop lives here, at the boundary. Sink.Fail logs the
// condition and parks the calling goroutine indefinitely, mirroring the
// halt-in-place policy of static-capacity RTOS deployments where no
// runtime recovery can fix a mis-sized pool.

package diag

import (
	"go.uber.org/zap"
)

// Sink formats diagnostics and applies the halt policy.
type Sink struct {
	log *zap.Logger
}

// NewSink wraps log; a nil log falls back to a no-op logger.
func NewSink(log *zap.Logger) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sink{log: log}
}

// Fail logs err and parks the calling goroutine forever. It never returns.
// Other goroutines keep running; in a program where every task funnels
// fatal conditions here, the process quiesces instead of calling through
// corrupted slot state.
func (s *Sink) Fail(err error) {
	s.log.Error("unrecoverable condition, halting",
		zap.Error(err),
		zap.Uint32("uptime_s", Uptime()),
	)
	select {}
}
