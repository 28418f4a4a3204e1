// File: fake/mutex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"time"

	"github.com/momentics/rtospool/api"
)

// mutex is a binary-semaphore mutex with bounded-timeout lock.
type mutex struct {
	sem chan struct{}
}

func newMutex() *mutex {
	m := &mutex{sem: make(chan struct{}, 1)}
	m.sem <- struct{}{}
	return m
}

func (m *mutex) Lock(timeout time.Duration) int32 {
	if waitToken(m.sem, timeout) {
		return api.StatusOK
	}
	return api.StatusTimeout
}

func (m *mutex) Unlock() int32 {
	select {
	case m.sem <- struct{}{}:
		return api.StatusOK
	default:
		return api.StatusInval // not locked
	}
}

var _ api.Mutex = (*mutex)(nil)

// waitToken takes one token from tok, waiting up to timeout.
// Zero means do-not-wait.
func waitToken(tok chan struct{}, timeout time.Duration) bool {
	if timeout <= 0 {
		select {
		case <-tok:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-tok:
		return true
	case <-t.C:
		return false
	}
}
