// File: fake/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"
	"time"

	"github.com/momentics/rtospool/api"
)

// timer fires at most once per arm; re-arming before expiry resets the
// deadline, matching kernel one-shot timer semantics.
type timer struct {
	fire func()

	mu sync.Mutex
	t  *time.Timer
}

func (t *timer) Start(delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.t != nil {
		t.t.Stop()
	}
	t.t = time.AfterFunc(delay, t.fire)
}

var _ api.Timer = (*timer)(nil)
