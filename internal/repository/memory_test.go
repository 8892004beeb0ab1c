package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"salesbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateRepository(t *testing.T) {
	repo := NewMemoryStateRepository(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetState", func(t *testing.T) {
		state := &models.UserState{UserID: 123, CurrentStep: models.StateWaitingName}
		require.NoError(t, repo.SetState(ctx, state))

		got, err := repo.GetState(ctx, 123)
		require.NoError(t, err)
		assert.Equal(t, state, got)
	})

	t.Run("ClearState", func(t *testing.T) {
		require.NoError(t, repo.ClearState(ctx, 123))
		got, _ := repo.GetState(ctx, 123)
		assert.Nil(t, got)
	})

	t.Run("Expired", func(t *testing.T) {
		now := time.Now()
		repo.now = func() time.Time { return now }
		require.NoError(t, repo.SetState(ctx, &models.UserState{UserID: 7}))

		repo.now = func() time.Time { return now.Add(2 * time.Hour) }
		got, err := repo.GetState(ctx, 7)
		require.NoError(t, err)
		assert.Nil(t, got)
		repo.now = time.Now
	})

	t.Run("RateLimit", func(t *testing.T) {
		now := time.Now()
		repo.now = func() time.Time { return now }
		userID := int64(456)

		allowed, _ := repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.False(t, allowed)

		repo.now = func() time.Time { return now.Add(time.Second + time.Millisecond) }
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.True(t, allowed)
		repo.now = time.Now
	})
}

func TestMemoryStateRepository_Concurrent(t *testing.T) {
	repo := NewMemoryStateRepository(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = repo.SetState(ctx, &models.UserState{UserID: id})
			_, _ = repo.CheckRateLimit(ctx, 1, 100, time.Minute)
			_, _ = repo.GetState(ctx, id)
		}(int64(i))
	}
	wg.Wait()

	allowed, err := repo.CheckRateLimit(ctx, 1, 50, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
