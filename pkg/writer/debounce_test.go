package writer

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBurstOfTriggersWritesOnceWithLatestState(t *testing.T) {
	var mu sync.Mutex
	state := 0
	var writes atomic.Int32
	var lastWritten atomic.Int32

	d := NewDebounced("test", 30*time.Millisecond, func() error {
		mu.Lock()
		v := state
		mu.Unlock()
		writes.Add(1)
		lastWritten.Store(int32(v))
		return nil
	})

	for i := 1; i <= 5; i++ {
		mu.Lock()
		state = i
		mu.Unlock()
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for writes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := writes.Load(); got != 1 {
		t.Fatalf("expected exactly 1 write, got %d", got)
	}
	if got := lastWritten.Load(); got != 5 {
		t.Fatalf("write captured stale state: got %d, want 5", got)
	}
}

func TestFlushWritesImmediatelyAndCancelsPending(t *testing.T) {
	var writes atomic.Int32
	d := NewDebounced("test", time.Hour, func() error {
		writes.Add(1)
		return nil
	})

	d.Trigger()
	if !d.Pending() {
		t.Fatal("expected a pending write after Trigger")
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := writes.Load(); got != 1 {
		t.Fatalf("expected 1 write after Flush, got %d", got)
	}
	if d.Pending() {
		t.Fatal("Flush should cancel the scheduled write")
	}
}

func TestFlushSurfacesWriteError(t *testing.T) {
	boom := errors.New("disk full")
	d := NewDebounced("test", time.Hour, func() error { return boom })
	if err := d.Flush(); !errors.Is(err, boom) {
		t.Fatalf("Flush error = %v, want %v", err, boom)
	}
}

func TestStopCancelsWithoutWriting(t *testing.T) {
	var writes atomic.Int32
	d := NewDebounced("test", 20*time.Millisecond, func() error {
		writes.Add(1)
		return nil
	})

	d.Trigger()
	d.Stop()
	if d.Pending() {
		t.Fatal("Stop should clear the pending write")
	}
	time.Sleep(60 * time.Millisecond)
	if got := writes.Load(); got != 0 {
		t.Fatalf("expected no writes after Stop, got %d", got)
	}
}

func TestBackgroundWriteErrorIsSwallowed(t *testing.T) {
	var calls atomic.Int32
	d := NewDebounced("test", 10*time.Millisecond, func() error {
		calls.Add(1)
		return errors.New("transient")
	})

	d.Trigger()
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("scheduled write never fired")
	}
	// a failed background write leaves nothing pending
	if d.Pending() {
		t.Fatal("no write should remain scheduled after firing")
	}
}
