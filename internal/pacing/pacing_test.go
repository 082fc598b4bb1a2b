package pacing

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestAfterRunsOnlyWhenDue(t *testing.T) {
	ctx := testContext(t)
	clock := quartz.NewMock(t)
	p := New(clock)

	var ran atomic.Bool
	task := p.After("deal", 300*time.Millisecond, func() { ran.Store(true) })
	assert.Equal(t, 1, p.Pending())
	assert.Equal(t, "deal", task.Name())

	clock.Advance(299 * time.Millisecond).MustWait(ctx)
	assert.False(t, ran.Load())

	clock.Advance(time.Millisecond).MustWait(ctx)
	assert.True(t, ran.Load())
	require.NoError(t, task.Wait(ctx))
	assert.Equal(t, 0, p.Pending())
}

func TestCancelSkipsFunction(t *testing.T) {
	ctx := testContext(t)
	clock := quartz.NewMock(t)
	p := New(clock)

	var ran atomic.Bool
	task := p.After("dealer", time.Second, func() { ran.Store(true) })

	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel(), "second cancel is a no-op")
	assert.Equal(t, 0, p.Pending())

	select {
	case <-task.Done():
	default:
		t.Fatal("cancelled task should be done")
	}

	clock.Advance(2 * time.Second).MustWait(ctx)
	assert.False(t, ran.Load())
}

func TestCancelAfterRunReportsFalse(t *testing.T) {
	ctx := testContext(t)
	clock := quartz.NewMock(t)
	p := New(clock)

	task := p.After("final", time.Second, func() {})
	clock.Advance(time.Second).MustWait(ctx)

	assert.False(t, task.Cancel())
}

func TestChainedTasksStayPending(t *testing.T) {
	ctx := testContext(t)
	clock := quartz.NewMock(t)
	p := New(clock)

	var steps atomic.Int32
	var step func()
	step = func() {
		if steps.Add(1) < 3 {
			p.After("dealer", time.Second, step)
		}
	}
	p.After("dealer", time.Second, step)

	for p.Pending() > 0 {
		_, w := clock.AdvanceNext()
		w.MustWait(ctx)
	}
	assert.Equal(t, int32(3), steps.Load())
}

func TestWaitHonoursContext(t *testing.T) {
	p := New(quartz.NewMock(t))
	task := p.After("deal", time.Minute, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, task.Wait(ctx), context.Canceled)
	task.Cancel()
}

func TestDefaultTimings(t *testing.T) {
	tm := DefaultTimings()
	assert.Equal(t, 300*time.Millisecond, tm.CardDeal)
	assert.Equal(t, time.Second, tm.DealerTurn)
	assert.Equal(t, time.Second, tm.FinalDelay)
}
