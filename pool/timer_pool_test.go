package pool_test

import (
	"testing"
	"time"

	"github.com/momentics/rtospool/api"
	"github.com/momentics/rtospool/fake"
	"github.com/momentics/rtospool/pool"
)

// manualKernel hands out timers the test fires by hand, making expiry
// order fully deterministic. Slot i owns timers[i]: the pool constructs
// them in index order.
type manualKernel struct {
	timers []*manualTimer
}

type manualTimer struct {
	fire  func()
	delay time.Duration
	armed bool
}

func (t *manualTimer) Start(delay time.Duration) {
	t.delay = delay
	t.armed = true
}

func (k *manualKernel) NewMutex() api.Mutex { return nil }

func (k *manualKernel) NewQueue(int, int) api.MessageQueue { return nil }

func (k *manualKernel) Bus() api.ChannelBus { return nil }

func (k *manualKernel) NewTimer(fire func()) api.Timer {
	t := &manualTimer{fire: fire}
	k.timers = append(k.timers, t)
	return t
}

func TestTimerPoolFiresEachCallbackOnceWithItsState(t *testing.T) {
	k := &manualKernel{}
	p := pool.NewTimerPool(k, 4, nil)

	type call struct {
		slot  int
		state any
	}
	var calls []call
	states := []string{"a", "b", "c", "d"}
	for i, st := range states {
		i := i
		err := p.Schedule(func(got any) {
			calls = append(calls, call{slot: i, state: got})
		}, st, 10*time.Millisecond)
		if err != nil {
			t.Fatalf("schedule %d: %v", i, err)
		}
	}

	// Fire in arbitrary (reverse) order.
	for i := len(k.timers) - 1; i >= 0; i-- {
		k.timers[i].fire()
	}

	if len(calls) != len(states) {
		t.Fatalf("callbacks invoked %d times, want %d", len(calls), len(states))
	}
	seen := make(map[int]bool)
	for _, c := range calls {
		if seen[c.slot] {
			t.Fatalf("callback %d invoked twice", c.slot)
		}
		seen[c.slot] = true
		if c.state != states[c.slot] {
			t.Fatalf("callback %d got state %v, want %v", c.slot, c.state, states[c.slot])
		}
	}

	st := p.Stats()
	if st.Pending != 0 {
		t.Fatalf("pending = %d after all fires, want 0", st.Pending)
	}
	if st.Fired != uint64(len(states)) {
		t.Fatalf("fired = %d, want %d", st.Fired, len(states))
	}

	// All slots must be reusable now.
	for i := range states {
		if err := p.Schedule(func(any) {}, nil, time.Millisecond); err != nil {
			t.Fatalf("reschedule %d: %v", i, err)
		}
	}
}

func TestTimerPoolFireOrderFollowsExpiryOrder(t *testing.T) {
	k := &manualKernel{}
	p := pool.NewTimerPool(k, 2, nil)

	var order []string
	if err := p.Schedule(func(s any) { order = append(order, s.(string)) }, "A", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := p.Schedule(func(s any) { order = append(order, s.(string)) }, "B", 5*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	// B holds slot 1 and expires first.
	k.timers[1].fire()
	k.timers[0].fire()

	if len(order) != 2 || order[0] != "B" || order[1] != "A" {
		t.Fatalf("order = %v, want [B A]", order)
	}
}

func TestTimerPoolExhaustionIsUnrecoverable(t *testing.T) {
	k := &manualKernel{}
	p := pool.NewTimerPool(k, 2, nil)

	if err := p.Schedule(func(any) {}, nil, time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := p.Schedule(func(any) {}, nil, time.Minute); err != nil {
		t.Fatal(err)
	}

	err := p.Schedule(func(any) {}, nil, time.Minute)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !api.IsUnrecoverable(err) {
		t.Fatalf("timer exhaustion must be unrecoverable, got %v", err)
	}
}

func TestTimerPoolFireOnFreeSlotIsFatal(t *testing.T) {
	k := &manualKernel{}
	p := pool.NewTimerPool(k, 1, nil)

	var fatal error
	p.OnFatal(func(err error) { fatal = err })

	// Expiry with no owning registration: must not call through stale state.
	k.timers[0].fire()

	if fatal == nil {
		t.Fatal("expected fatal handler to run")
	}
	if !api.IsUnrecoverable(fatal) {
		t.Fatalf("fire-on-free must be unrecoverable, got %v", fatal)
	}
}

func TestTimerPoolStaleSecondFireIsFatal(t *testing.T) {
	k := &manualKernel{}
	p := pool.NewTimerPool(k, 1, nil)

	var fatal error
	p.OnFatal(func(err error) { fatal = err })

	fired := 0
	if err := p.Schedule(func(any) { fired++ }, nil, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	k.timers[0].fire()
	k.timers[0].fire() // slot already freed

	if fired != 1 {
		t.Fatalf("callback ran %d times, want 1", fired)
	}
	if fatal == nil || !api.IsUnrecoverable(fatal) {
		t.Fatalf("stale fire must be unrecoverable, got %v", fatal)
	}
}

func TestTimerPoolWithRealKernelTimers(t *testing.T) {
	p := pool.NewTimerPool(fake.NewKernel(), 2, nil)

	done := make(chan string, 2)
	if err := p.Schedule(func(s any) { done <- s.(string) }, "slow", 60*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := p.Schedule(func(s any) { done <- s.(string) }, "fast", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	first := recvTimeout(t, done)
	second := recvTimeout(t, done)
	if first != "fast" || second != "slow" {
		t.Fatalf("fire order = [%s %s], want [fast slow]", first, second)
	}
}

func recvTimeout(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for timer callback")
		return ""
	}
}
