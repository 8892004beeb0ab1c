package service

import (
	"context"
	"errors"
	"fmt"

	"salesbot/internal/database"
	"salesbot/internal/domain"
	"salesbot/internal/events"
	"salesbot/internal/models"
	"salesbot/internal/phone"
	"salesbot/internal/textutil"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// RegistrationService шаги регистрации менеджера
type RegistrationService struct {
	repo         domain.ManagerRepository
	templates    domain.TemplateService
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger
}

func NewRegistrationService(
	repo domain.ManagerRepository,
	templates domain.TemplateService,
	eventBus domain.EventPublisher,
	sheetsWorker domain.SyncWorker,
	logger *zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		repo:         repo,
		templates:    templates,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
	}
}

func (s *RegistrationService) GetManager(ctx context.Context, telegramID int64) (*models.Manager, error) {
	return s.repo.GetManagerByTelegramID(ctx, telegramID)
}

// ValidateName шаг 1
func (s *RegistrationService) ValidateName(raw string) (string, error) {
	name := textutil.NormalizeName(raw)
	n := textutil.RuneLen(name)
	if n < models.MinNameLength || n > models.MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// ValidateIndustry шаг 2
func (s *RegistrationService) ValidateIndustry(industry string) error {
	switch industry {
	case models.IndustryAuto, models.IndustryRealEstate, models.IndustryOther:
		return nil
	default:
		return ErrInvalidIndustry
	}
}

// ValidateCustomIndustry свободный ввод для "Другое"
func (s *RegistrationService) ValidateCustomIndustry(raw string) (string, error) {
	industry := textutil.CollapseSpaces(raw)
	n := textutil.RuneLen(industry)
	if n < models.MinNameLength || n > models.MaxNameLength {
		return "", ErrInvalidIndustry
	}
	return industry, nil
}

// CompletePhoneStep шаг 3: проверяет контакт и создает менеджера на шаге 4
func (s *RegistrationService) CompletePhoneStep(
	ctx context.Context,
	draft domain.RegistrationDraft,
	contact *tgbotapi.Contact,
) (*models.Manager, error) {
	if contact == nil {
		return nil, ErrContactRequired
	}
	if contact.UserID != 0 && contact.UserID != draft.TelegramID {
		return nil, ErrForeignContact
	}

	normalized, err := phone.Normalize(contact.PhoneNumber)
	if err != nil {
		return nil, err
	}

	if draft.FullName == "" || s.ValidateIndustry(draft.Industry) != nil {
		return nil, ErrIncompleteDraft
	}

	manager := &models.Manager{
		TelegramID:       draft.TelegramID,
		FullName:         draft.FullName,
		Industry:         draft.Industry,
		Phone:            normalized,
		RegistrationStep: models.StepTerms,
	}
	if draft.Industry == models.IndustryOther && draft.IndustryCustom != "" {
		custom := draft.IndustryCustom
		manager.IndustryCustom = &custom
	}

	if err := s.repo.CreateManager(ctx, manager); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			// повторный контакт после сбоя: менеджер уже создан
			return s.repo.GetManagerByTelegramID(ctx, draft.TelegramID)
		}
		return nil, fmt.Errorf("create manager: %w", err)
	}

	s.logger.Info().
		Int64("telegram_id", manager.TelegramID).
		Str("industry", manager.Industry).
		Msg("manager created at terms step")
	return manager, nil
}

// AcceptTerms шаг 4: завершает регистрацию
func (s *RegistrationService) AcceptTerms(ctx context.Context, telegramID int64) (*models.Manager, error) {
	manager, err := s.repo.GetManagerByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	if manager.RegistrationComplete {
		return manager, nil
	}

	if err := s.repo.AcceptTerms(ctx, telegramID); err != nil {
		return nil, fmt.Errorf("accept terms: %w", err)
	}

	manager, err = s.repo.GetManagerByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	if err := s.templates.CreateDefaults(ctx, manager); err != nil {
		s.logger.Error().Err(err).Int64("manager_id", manager.ID).Msg("failed to create default templates")
	}

	s.publishRegistered(manager)
	if s.sheetsWorker != nil {
		if err := s.sheetsWorker.EnqueueManager(ctx, manager); err != nil {
			s.logger.Warn().Err(err).Int64("manager_id", manager.ID).Msg("failed to enqueue manager sync")
		}
	}

	s.logger.Info().Int64("telegram_id", telegramID).Msg("registration completed")
	return manager, nil
}

// UpdateName смена имени из настроек профиля
func (s *RegistrationService) UpdateName(ctx context.Context, telegramID int64, raw string) (string, error) {
	name, err := s.ValidateName(raw)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateManagerName(ctx, telegramID, name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *RegistrationService) publishRegistered(m *models.Manager) {
	if s.eventBus == nil {
		return
	}
	registeredAt := m.UpdatedAt
	if m.TermsAcceptedAt != nil {
		registeredAt = *m.TermsAcceptedAt
	}
	payload := events.ManagerEventPayload{
		ManagerID:    m.ID,
		TelegramID:   m.TelegramID,
		FullName:     m.FullName,
		Industry:     m.IndustryName(),
		Phone:        m.Phone,
		RegisteredAt: registeredAt,
	}
	if err := s.eventBus.PublishJSON(events.EventManagerRegistered, payload); err != nil {
		s.logger.Warn().Err(err).Int64("manager_id", m.ID).Msg("manager_registered subscribers failed")
	}
}
