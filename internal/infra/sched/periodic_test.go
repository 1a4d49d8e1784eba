package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func TestPeriodic(t *testing.T) {
	t.Run("runs immediately on start", func(t *testing.T) {
		var runs int32
		task := NewPeriodic("t", time.Hour, func(ctx context.Context) bool {
			atomic.AddInt32(&runs, 1)
			return false
		}, nopLogger())

		task.Start(context.Background())
		defer task.Stop()

		deadline := time.After(time.Second)
		for atomic.LoadInt32(&runs) == 0 {
			select {
			case <-deadline:
				t.Fatal("first run did not happen immediately")
			case <-time.After(5 * time.Millisecond):
			}
		}
	})

	t.Run("self-stops when fn reports done", func(t *testing.T) {
		var runs int32
		task := NewPeriodic("t", time.Millisecond, func(ctx context.Context) bool {
			return atomic.AddInt32(&runs, 1) >= 2
		}, nopLogger())

		task.Start(context.Background())
		time.Sleep(50 * time.Millisecond)
		task.Stop() // must not hang on an already-finished loop

		if got := atomic.LoadInt32(&runs); got != 2 {
			t.Errorf("expected exactly 2 runs, got %d", got)
		}
	})

	t.Run("stop is idempotent and start works again after stop", func(t *testing.T) {
		var runs int32
		task := NewPeriodic("t", time.Hour, func(ctx context.Context) bool {
			atomic.AddInt32(&runs, 1)
			return false
		}, nopLogger())

		task.Start(context.Background())
		task.Stop()
		task.Stop()

		task.Start(context.Background())
		task.Stop()

		if got := atomic.LoadInt32(&runs); got != 2 {
			t.Errorf("expected one run per start, got %d", got)
		}
	})

	t.Run("double start has no effect", func(t *testing.T) {
		var runs int32
		task := NewPeriodic("t", time.Hour, func(ctx context.Context) bool {
			atomic.AddInt32(&runs, 1)
			return false
		}, nopLogger())

		task.Start(context.Background())
		task.Start(context.Background())
		time.Sleep(20 * time.Millisecond)
		task.Stop()

		if got := atomic.LoadInt32(&runs); got != 1 {
			t.Errorf("expected a single run, got %d", got)
		}
	})
}
