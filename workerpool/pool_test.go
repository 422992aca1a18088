package workerpool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/workerpool"
)

func TestPool_RunsJobsUpToCapacityConcurrently(t *testing.T) {
	pool, err := workerpool.New(2, zap.NewNop())
	require.NoError(t, err)
	defer pool.Release()

	var running int32
	var maxObserved int32
	done := make(chan struct{}, 5)

	for i := 0; i < 5; i++ {
		err := pool.Submit(context.Background(), "job", func(ctx context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				cur := atomic.LoadInt32(&maxObserved)
				if n <= cur || atomic.CompareAndSwapInt32(&maxObserved, cur, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		}, func(error) { done <- struct{}{} })
		require.NoError(t, err)
	}

	for i := 0; i < 5; i++ {
		<-done
	}

	require.LessOrEqual(t, atomic.LoadInt32(&maxObserved), int32(2))
}

func TestPool_SubmitPropagatesJobErrorToOnResult(t *testing.T) {
	pool, err := workerpool.New(1, zap.NewNop())
	require.NoError(t, err)
	defer pool.Release()

	failure := require.New(t)
	received := make(chan error, 1)

	err = pool.Submit(context.Background(), "failing-job", func(ctx context.Context) error {
		return errBoom
	}, func(jobErr error) {
		received <- jobErr
	})
	failure.NoError(err)

	require.Equal(t, errBoom, <-received)
}

var errBoom = errBoomType{}

type errBoomType struct{}

func (errBoomType) Error() string { return "boom" }
