package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunAllRunsEveryJobPastFailures(t *testing.T) {
	var first, second atomic.Int32
	RunAll([]Job{
		{Name: "first", Run: func() error { first.Add(1); return errors.New("boom") }},
		{Name: "second", Run: func() error { second.Add(1); return nil }},
	})
	if first.Load() != 1 || second.Load() != 1 {
		t.Fatalf("jobs ran %d/%d times; a failing job must not stop the rest", first.Load(), second.Load())
	}
}

func TestStartRejectsInvalidCron(t *testing.T) {
	if _, err := Start(context.Background(), "not a cron", nil); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestStartDefaultsCronAndCancels(t *testing.T) {
	cancel, err := Start(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Start with default cron: %v", err)
	}
	cancel()
}
