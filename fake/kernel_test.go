package fake

import (
	"bytes"
	"testing"
	"time"

	"github.com/momentics/rtospool/api"
)

func TestMutexBoundedLock(t *testing.T) {
	m := newMutex()

	if status := m.Lock(0); status != api.StatusOK {
		t.Fatalf("lock status = %d", status)
	}
	if status := m.Lock(0); status != api.StatusTimeout {
		t.Fatalf("contended do-not-wait lock = %d, want %d", status, api.StatusTimeout)
	}

	start := time.Now()
	if status := m.Lock(20 * time.Millisecond); status != api.StatusTimeout {
		t.Fatalf("contended bounded lock = %d, want %d", status, api.StatusTimeout)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("bounded lock returned before its timeout")
	}

	if status := m.Unlock(); status != api.StatusOK {
		t.Fatalf("unlock status = %d", status)
	}
	if status := m.Unlock(); status != api.StatusInval {
		t.Fatalf("unlock of unlocked mutex = %d, want %d", status, api.StatusInval)
	}
}

func TestMsgQueueFIFOAndBounds(t *testing.T) {
	q := newMsgQueue(4, 2)

	if status := q.Send([]byte("aa"), 0); status != api.StatusOK {
		t.Fatalf("send status = %d", status)
	}
	if status := q.Send([]byte("bb"), 0); status != api.StatusOK {
		t.Fatalf("send status = %d", status)
	}
	if status := q.Send([]byte("cc"), 0); status != api.StatusNoMsg {
		t.Fatalf("full do-not-wait send = %d, want %d", status, api.StatusNoMsg)
	}

	out := make([]byte, 4)
	if status := q.Recv(out, 0); status != api.StatusOK {
		t.Fatalf("recv status = %d", status)
	}
	if !bytes.Equal(out, []byte{'a', 'a', 0, 0}) {
		t.Fatalf("recv got %v", out)
	}

	// Space freed; the blocked sender path now succeeds.
	if status := q.Send([]byte("cc"), 10*time.Millisecond); status != api.StatusOK {
		t.Fatalf("send after drain = %d", status)
	}
}

func TestMsgQueueBlockingHandoff(t *testing.T) {
	q := newMsgQueue(8, 1)

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Send([]byte("late"), 0)
	}()

	out := make([]byte, 8)
	if status := q.Recv(out, time.Second); status != api.StatusOK {
		t.Fatalf("bounded recv = %d, want success once sender runs", status)
	}
	if !bytes.HasPrefix(out, []byte("late")) {
		t.Fatalf("recv got %q", out)
	}
}

func TestTimerRearmResetsDeadline(t *testing.T) {
	fired := make(chan struct{}, 2)
	tm := &timer{fire: func() { fired <- struct{}{} }}

	tm.Start(30 * time.Millisecond)
	tm.Start(10 * time.Millisecond) // re-arm replaces the pending expiry

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	select {
	case <-fired:
		t.Fatal("timer fired twice for a single arm")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannelPublishInvokesListener(t *testing.T) {
	k := NewKernel()
	k.AddChannel(7, 8)

	var gotID uint32
	k.SetListener(func(id uint32) { gotID = id })

	ch, ok := k.Channel(7)
	if !ok {
		t.Fatal("channel 7 not resolved")
	}
	out := make([]byte, 8)
	if status := ch.Read(out); status != api.StatusNoMsg {
		t.Fatalf("read before publish = %d, want %d", status, api.StatusNoMsg)
	}

	if status := ch.Publish([]byte("msg")); status != api.StatusOK {
		t.Fatalf("publish status = %d", status)
	}
	if gotID != 7 {
		t.Fatalf("listener saw channel %d, want 7", gotID)
	}
	if status := ch.Read(out); status != api.StatusOK {
		t.Fatalf("read status = %d", status)
	}
	if !bytes.HasPrefix(out, []byte("msg")) {
		t.Fatalf("read got %q", out)
	}

	if _, ok := k.Channel(42); ok {
		t.Fatal("undeclared channel resolved")
	}
}
