package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dmitrymomot/notifykit/pkg/async"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAsync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	futureString := async.Async(ctx, 42, func(ctx context.Context, num int) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return fmt.Sprintf("Number: %d", num), nil
	})
	futureBool := async.Async(ctx, "test", func(ctx context.Context, s string) (bool, error) {
		return len(s) > 0, nil
	})

	s, err := futureString.Await()
	require.NoError(t, err)
	assert.Equal(t, "Number: 42", s)
	assert.True(t, futureString.IsComplete())

	b, err := futureBool.Await()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestAsync_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	future := async.Async(ctx, 1, func(ctx context.Context, _ int) (int, error) {
		called.Store(true)
		return 1, nil
	})

	_, err := future.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load())
}

func TestAsync_Panic(t *testing.T) {
	t.Parallel()

	future := async.Async(context.Background(), 0, func(ctx context.Context, _ int) (int, error) {
		panic("boom")
	})

	_, err := future.Await()
	require.Error(t, err)
	assert.True(t, async.IsPanic(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})

	future := async.Async(context.Background(), 0, func(ctx context.Context, _ int) (int, error) {
		<-release
		return 7, nil
	})

	_, err := future.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
	assert.False(t, future.IsComplete())

	close(release)
	v, err := future.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	t.Run("collects all results in order", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		futures := make([]*async.Future[int], 0, 5)
		for i := range 5 {
			futures = append(futures, async.Async(ctx, i, func(ctx context.Context, n int) (int, error) {
				time.Sleep(time.Duration(5-n) * time.Millisecond)
				return n * n, nil
			}))
		}

		results, err := async.WaitAll(futures...)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 4, 9, 16}, results)
	})

	t.Run("waits for every future even when one fails", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		errFirst := errors.New("first")
		var finished atomic.Int32

		failing := async.Async(ctx, 0, func(ctx context.Context, _ int) (int, error) {
			finished.Add(1)
			return 0, errFirst
		})
		slow := async.Async(ctx, 0, func(ctx context.Context, _ int) (int, error) {
			time.Sleep(30 * time.Millisecond)
			finished.Add(1)
			return 1, nil
		})

		results, err := async.WaitAll(failing, slow)
		assert.ErrorIs(t, err, errFirst)
		assert.Equal(t, int32(2), finished.Load())
		assert.Equal(t, []int{0, 1}, results)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		results, err := async.WaitAll[int]()
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
