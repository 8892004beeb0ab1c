package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"salesbot/internal/domain"
	"salesbot/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverStateRepository переключается на запасное хранилище при ошибках Redis
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Healthy false, пока работает запасное хранилище
func (r *FailoverStateRepository) Healthy() bool {
	return !r.isDown.Load()
}

// usePrimary решает, идти ли в основное хранилище.
// После recoveryInterval делается пробная попытка.
func (r *FailoverStateRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) > recoveryInterval {
		r.lastCheck = time.Now()
		return true
	}
	return false
}

func (r *FailoverStateRepository) markDown(op string, err error) {
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Str("op", op).Msg("Primary state repository failed, falling back to memory")
	}
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverStateRepository) markUp() {
	if r.isDown.Swap(false) {
		r.logger.Info().Msg("Primary state repository recovered")
	}
}

func (r *FailoverStateRepository) GetState(ctx context.Context, userID int64) (*models.UserState, error) {
	if r.usePrimary() {
		state, err := r.primary.GetState(ctx, userID)
		if err == nil {
			r.markUp()
			return state, nil
		}
		r.markDown("get", err)
	}
	return r.fallback.GetState(ctx, userID)
}

func (r *FailoverStateRepository) SetState(ctx context.Context, state *models.UserState) error {
	if r.usePrimary() {
		err := r.primary.SetState(ctx, state)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown("set", err)
	}
	return r.fallback.SetState(ctx, state)
}

func (r *FailoverStateRepository) ClearState(ctx context.Context, userID int64) error {
	// запасная копия могла появиться во время аварии
	_ = r.fallback.ClearState(ctx, userID)

	if r.usePrimary() {
		err := r.primary.ClearState(ctx, userID)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown("clear", err)
	}
	return nil
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			r.markUp()
			return allowed, nil
		}
		r.markDown("rate_limit", err)
	}
	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
