package lifecycle_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviserver-project/naviserver-sub001/errors"
	"github.com/naviserver-project/naviserver-sub001/lifecycle"
)

func TestFIFOQueuesRunInRegistrationOrder(t *testing.T) {
	q := lifecycle.New(nil)
	var order []int
	var mu sync.Mutex
	record := func(n int) lifecycle.Callback {
		return func(arg any) {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}
	}

	require.NoError(t, q.RegisterAtStartup(record(1), nil))
	require.NoError(t, q.RegisterAtStartup(record(2), nil))
	require.NoError(t, q.RegisterAtStartup(record(3), nil))

	q.RunStartupProcs()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestLIFOQueueRunsMostRecentFirst(t *testing.T) {
	q := lifecycle.New(nil)
	var order []int
	var mu sync.Mutex
	record := func(n int) lifecycle.Callback {
		return func(arg any) {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}
	}

	require.NoError(t, q.RegisterAtExit(record(1), nil))
	require.NoError(t, q.RegisterAtExit(record(2), nil))
	require.NoError(t, q.RegisterAtExit(record(3), nil))

	q.RunAtExitProcs()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestRunAtReadyProcsFiresConcurrentlyWithPanicRecovery(t *testing.T) {
	q := lifecycle.New(nil)
	var good int32
	var wg sync.WaitGroup
	wg.Add(2)

	require.NoError(t, q.RegisterAtReady(func(arg any) {
		defer wg.Done()
		panic("boom")
	}, nil))
	require.NoError(t, q.RegisterAtReady(func(arg any) {
		defer wg.Done()
		atomic.AddInt32(&good, 1)
	}, nil))

	q.RunAtReadyProcs()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ready callbacks did not complete")
	}
	assert.Equal(t, int32(1), good, "a panicking ready hook must not prevent others from running")
}

func TestRegisterAfterShutdownPendingFails(t *testing.T) {
	q := lifecycle.New(nil)
	q.StartShutdown()
	err := q.RegisterAtStartup(func(arg any) {}, nil)
	assert.ErrorIs(t, err, errors.ErrShutdownPending)
}

func TestShutdownNotifiesThenDrainsEachCallback(t *testing.T) {
	q := lifecycle.New(nil)
	var callCount int32
	var notifyCtxHasDeadline, drainCtxHasDeadline bool
	var mu sync.Mutex

	require.NoError(t, q.RegisterAtShutdown(func(ctx context.Context, arg any) {
		_, hasDeadline := ctx.Deadline()
		mu.Lock()
		defer mu.Unlock()
		if atomic.AddInt32(&callCount, 1) == 1 {
			notifyCtxHasDeadline = hasDeadline
		} else {
			drainCtxHasDeadline = hasDeadline
		}
	}, nil))

	q.StartShutdown()
	err := q.WaitShutdown(time.Second)
	require.NoError(t, err)

	assert.Equal(t, int32(2), callCount, "the callback must run once in the notify pass and once in the drain pass")
	assert.False(t, notifyCtxHasDeadline, "notify pass must run with a background context")
	assert.True(t, drainCtxHasDeadline, "drain pass must run with the wait timeout as its deadline")
}

func TestShutdownNotifyPassRunsInRegistrationOrder(t *testing.T) {
	q := lifecycle.New(nil)
	var order []int
	var mu sync.Mutex
	record := func(n int) lifecycle.ShutdownProc {
		return func(ctx context.Context, arg any) {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}
	}

	require.NoError(t, q.RegisterAtShutdown(record(1), nil))
	require.NoError(t, q.RegisterAtShutdown(record(2), nil))
	require.NoError(t, q.RegisterAtShutdown(record(3), nil))

	q.StartShutdown()
	require.NoError(t, q.WaitShutdown(time.Second))

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(order), 3)
	assert.Equal(t, []int{1, 2, 3}, order[:3], "the notify pass must run shutdown callbacks in FIFO registration order")
}

func TestShutdownWithNoRegisteredCallbacksCompletesImmediately(t *testing.T) {
	q := lifecycle.New(nil)
	q.StartShutdown()
	require.NoError(t, q.WaitShutdown(100*time.Millisecond))
}

func TestWaitShutdownTimesOutIfNotifyNeverFinishes(t *testing.T) {
	q := lifecycle.New(nil)
	block := make(chan struct{})
	defer close(block)

	require.NoError(t, q.RegisterAtShutdown(func(ctx context.Context, arg any) {
		<-block
	}, nil))

	q.StartShutdown()
	err := q.WaitShutdown(20 * time.Millisecond)
	assert.ErrorIs(t, err, errors.ErrShutdownTimeout)
}

func TestStartShutdownIsIdempotent(t *testing.T) {
	q := lifecycle.New(nil)
	var calls int32
	require.NoError(t, q.RegisterAtShutdown(func(ctx context.Context, arg any) {
		atomic.AddInt32(&calls, 1)
	}, nil))

	q.StartShutdown()
	q.StartShutdown() // must not spawn a second notify pass
	require.NoError(t, q.WaitShutdown(time.Second))
	assert.Equal(t, int32(2), calls, "one notify-pass call plus one drain-pass call; a duplicate notify goroutine would make this 3")
}
