package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"salesbot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSheets struct {
	mu          sync.Mutex
	failTimes   int
	managers    []*models.Manager
	clients     []string
	connErr     error
	appendCalls int
}

func (f *fakeSheets) AppendManager(_ context.Context, m *models.Manager) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if f.failTimes > 0 {
		f.failTimes--
		return errors.New("boom")
	}
	f.managers = append(f.managers, m)
	return nil
}

func (f *fakeSheets) AppendClient(_ context.Context, c *models.Client, managerName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if f.failTimes > 0 {
		f.failTimes--
		return errors.New("boom")
	}
	f.clients = append(f.clients, managerName+":"+c.Name)
	return nil
}

func (f *fakeSheets) TestConnection(context.Context) error { return f.connErr }

func (f *fakeSheets) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendCalls
}

func fastRetry(max int) RetryPolicy {
	return RetryPolicy{MaxRetries: max, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}
}

func TestProcessTaskSuccess(t *testing.T) {
	sheets := &fakeSheets{}
	w := NewSheetsWorker(sheets, nil, fastRetry(3), nil)
	ctx := context.Background()

	require.NoError(t, w.EnqueueClient(ctx, &models.Client{ID: 1, Name: "Анна"}, "Иван"))
	task := <-w.queue
	w.processTask(ctx, &task)

	assert.Equal(t, []string{"Иван:Анна"}, sheets.clients)
	assert.Equal(t, 0, task.Attempt)
}

func TestProcessTaskRetry(t *testing.T) {
	sheets := &fakeSheets{failTimes: 2}
	w := NewSheetsWorker(sheets, nil, fastRetry(5), nil)
	ctx := context.Background()

	task := SyncTask{Type: TaskManager, Manager: &models.Manager{ID: 1}}
	w.processTask(ctx, &task)

	assert.Equal(t, 3, sheets.calls())
	assert.Equal(t, 2, task.Attempt)
	assert.Len(t, sheets.managers, 1)
}

func TestProcessTaskGiveUp(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sheets := &fakeSheets{failTimes: 10}
	w := NewSheetsWorker(sheets, rdb, fastRetry(3), nil)
	ctx := context.Background()

	task := SyncTask{Type: TaskManager, Manager: &models.Manager{ID: 1}}
	w.processTask(ctx, &task)

	assert.Equal(t, 3, sheets.calls())
	n, err := rdb.LLen(ctx, "sheets:deadletter").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestProcessTaskInvalid(t *testing.T) {
	sheets := &fakeSheets{}
	w := NewSheetsWorker(sheets, nil, fastRetry(5), nil)

	task := SyncTask{Type: "unknown"}
	w.processTask(context.Background(), &task)

	assert.Equal(t, 0, sheets.calls())
	assert.Equal(t, 1, task.Attempt)
}

func TestEnqueueDisabled(t *testing.T) {
	var nilWorker *SheetsWorker
	assert.NoError(t, nilWorker.EnqueueManager(context.Background(), &models.Manager{}))

	w := NewSheetsWorker(nil, nil, RetryPolicy{}, nil)
	assert.NoError(t, w.EnqueueClient(context.Background(), &models.Client{}, ""))
	assert.Empty(t, w.queue)
	w.Start(context.Background())
}

func TestEnqueueQueueFull(t *testing.T) {
	w := NewSheetsWorker(&fakeSheets{}, nil, RetryPolicy{}, nil)
	ctx := context.Background()
	for i := 0; i < queueSize; i++ {
		require.NoError(t, w.EnqueueManager(ctx, &models.Manager{ID: int64(i)}))
	}
	assert.ErrorIs(t, w.EnqueueManager(ctx, &models.Manager{}), ErrQueueFull)
}

func TestSheetsWorker_StartMemory(t *testing.T) {
	defer goleak.VerifyNone(t)

	sheets := &fakeSheets{}
	w := NewSheetsWorker(sheets, nil, fastRetry(3), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.NoError(t, w.EnqueueManager(ctx, &models.Manager{ID: 1}))
	require.NoError(t, w.EnqueueClient(ctx, &models.Client{ID: 2, Name: "Анна"}, "Иван"))

	assert.Eventually(t, func() bool { return sheets.calls() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestSheetsWorker_StartRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sheets := &fakeSheets{}
	w := NewSheetsWorker(sheets, rdb, fastRetry(3), nil)
	w.pollInterval = 50 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, w.EnqueueClient(ctx, &models.Client{ID: 2, Name: "Анна"}, "Иван"))
	n, err := rdb.LLen(ctx, "sheets:queue").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, w.queue)

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sheets.calls() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	sheets.mu.Lock()
	defer sheets.mu.Unlock()
	assert.Equal(t, []string{"Иван:Анна"}, sheets.clients)
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 5*time.Second, policy.NextDelay(5))
	assert.Equal(t, time.Second, RetryPolicy{}.NextDelay(0))
}
