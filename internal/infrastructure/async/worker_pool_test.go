package async_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pubhub/internal/domain/notification"
	"pubhub/internal/infrastructure/async"
)

func TestWorkerPoolRunsTasksAndSurvivesPanics(t *testing.T) {
	pool := async.NewWorkerPool(context.Background(), 2, time.Second, zap.NewNop())

	var done atomic.Int32
	require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context) { panic("boom") }))
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context) { done.Add(1) }))
	}

	pool.Shutdown()
	assert.Equal(t, int32(10), done.Load())
	assert.ErrorIs(t, pool.Submit(context.Background(), func(ctx context.Context) {}), async.ErrPoolClosed)
}

func TestWorkerPoolTaskDeadline(t *testing.T) {
	pool := async.NewWorkerPool(context.Background(), 1, 20*time.Millisecond, zap.NewNop())

	var hadDeadline atomic.Bool
	require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context) {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
	}))
	pool.Shutdown()
	assert.True(t, hadDeadline.Load())
}

func TestNotificationDelivererUsesPool(t *testing.T) {
	pool := async.NewWorkerPool(context.Background(), 2, time.Second, zap.NewNop())

	var (
		mu  sync.Mutex
		got []string
	)
	d := async.NewNotificationDeliverer(pool, func(ctx context.Context, n notification.Notification) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, n.ID)
		return nil
	}, zap.NewNop())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, d.Deliver(context.Background(), notification.Notification{ID: id}))
	}
	pool.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, got)
}

func TestNotificationDelivererDefaultSinkLogs(t *testing.T) {
	pool := async.NewWorkerPool(context.Background(), 1, time.Second, zap.NewNop())
	d := async.NewNotificationDeliverer(pool, nil, zap.NewNop())

	require.NoError(t, d.Deliver(context.Background(), notification.Notification{ID: "x"}))
	pool.Shutdown()
	assert.ErrorIs(t, d.Deliver(context.Background(), notification.Notification{ID: "y"}), async.ErrPoolClosed)
}
