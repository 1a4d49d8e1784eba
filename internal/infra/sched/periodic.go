package sched

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Func is one tick of a periodic task. Returning true stops the task.
type Func func(ctx context.Context) (done bool)

// Periodic owns a cancellable periodic task. The function runs once
// immediately on Start and then on every interval tick until it reports
// done, the parent context ends, or Stop is called. A stopped task can be
// restarted.
type Periodic struct {
	name     string
	interval time.Duration
	fn       Func
	log      *zerolog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPeriodic constructs a task that runs fn every interval.
// If interval <= 0 it defaults to 1 second.
func NewPeriodic(name string, interval time.Duration, fn Func, logger *zerolog.Logger) *Periodic {
	if interval <= 0 {
		interval = time.Second
	}
	taskLog := logger.With().Str("task", name).Logger()
	return &Periodic{
		name:     name,
		interval: interval,
		fn:       fn,
		log:      &taskLog,
	}
}

// Start begins the loop in a background goroutine; calling Start on a
// running task has no effect.
func (p *Periodic) Start(parentCtx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx != nil {
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	p.ctx = ctx
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.done)
}

func (p *Periodic) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.log.Debug().Dur("interval", p.interval).Msg("task started")
	if p.fn(ctx) {
		p.log.Debug().Msg("task finished on first run")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Debug().Msg("task cancelled")
			return
		case <-ticker.C:
			if p.fn(ctx) {
				p.log.Debug().Msg("task finished")
				return
			}
		}
	}
}

// Stop cancels the task and waits for its loop to finish. Idempotent; safe
// to call on a task that already finished on its own.
func (p *Periodic) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.ctx = nil
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
