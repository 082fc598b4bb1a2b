// Package pacing schedules the delayed steps that pace a round (card deals,
// dealer draws, the pause before a result) on an injectable clock.
package pacing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
)

// Timings are the pauses between visible steps of a round.
type Timings struct {
	CardDeal   time.Duration
	DealerTurn time.Duration
	FinalDelay time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		CardDeal:   300 * time.Millisecond,
		DealerTurn: 1000 * time.Millisecond,
		FinalDelay: 1000 * time.Millisecond,
	}
}

// Pacer runs functions after a delay and tracks which ones are still pending.
type Pacer struct {
	clock quartz.Clock

	mu      sync.Mutex
	pending map[*Task]struct{}
}

func New(clock quartz.Clock) *Pacer {
	return &Pacer{
		clock:   clock,
		pending: make(map[*Task]struct{}),
	}
}

// Task is a single scheduled step.
type Task struct {
	name      string
	pacer     *Pacer
	timer     *quartz.Timer
	done      chan struct{}
	once      sync.Once
	cancelled atomic.Bool
}

// After runs fn once d has elapsed on the pacer's clock. fn is skipped if
// the task is cancelled first.
func (p *Pacer) After(name string, d time.Duration, fn func()) *Task {
	t := &Task{
		name:  name,
		pacer: p,
		done:  make(chan struct{}),
	}

	p.mu.Lock()
	p.pending[t] = struct{}{}
	p.mu.Unlock()

	t.timer = p.clock.AfterFunc(d, func() {
		if !t.cancelled.Load() {
			fn()
		}
		t.finish()
	}, "pacing", name)
	return t
}

// Pending is the number of tasks that have neither run nor been cancelled.
func (p *Pacer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (t *Task) Name() string {
	return t.name
}

// Done is closed once the task has run or been cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the task. It returns false if the task had already fired or
// was cancelled before.
func (t *Task) Cancel() bool {
	if !t.cancelled.CompareAndSwap(false, true) {
		return false
	}
	if !t.timer.Stop() {
		return false
	}
	t.finish()
	return true
}

func (t *Task) finish() {
	t.once.Do(func() {
		t.pacer.mu.Lock()
		delete(t.pacer.pending, t)
		t.pacer.mu.Unlock()
		close(t.done)
	})
}
