package service

import (
	"context"
	"time"

	"salesbot/internal/domain"
	"salesbot/internal/models"

	"github.com/rs/zerolog"
)

type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *StateService) GetUserState(ctx context.Context, userID int64) (*models.UserState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user state")
		return nil, err
	}
	return state, nil
}

// SetUserState переводит диалог на шаг step. Данные прошлых шагов сохраняются.
func (s *StateService) SetUserState(ctx context.Context, userID int64, step string, data map[string]interface{}) error {
	merged := make(map[string]interface{})
	if current, err := s.stateRepo.GetState(ctx, userID); err == nil && current != nil {
		for k, v := range current.TempData {
			merged[k] = v
		}
	}
	for k, v := range data {
		merged[k] = v
	}

	return s.stateRepo.SetState(ctx, &models.UserState{
		UserID:      userID,
		CurrentStep: step,
		TempData:    merged,
	})
}

func (s *StateService) ClearUserState(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
}
