package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salesbot/internal/database"
	"salesbot/internal/domain"
	"salesbot/internal/events"
	"salesbot/internal/models"
	"salesbot/internal/phone"
	"salesbot/internal/textutil"

	"github.com/rs/zerolog"
)

const maxNoteLength = 1000

type ClientService struct {
	repo         domain.ClientRepository
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	loc          *time.Location
	logger       *zerolog.Logger
}

func NewClientService(
	repo domain.ClientRepository,
	eventBus domain.EventPublisher,
	sheetsWorker domain.SyncWorker,
	loc *time.Location,
	logger *zerolog.Logger,
) *ClientService {
	if loc == nil {
		loc = time.UTC
	}
	return &ClientService{
		repo:         repo,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		loc:          loc,
		logger:       logger,
	}
}

// FindByPhone нормализует номер и ищет клиента менеджера.
// Найденному клиенту обновляется last_contact; для нового возвращается nil и номер.
func (s *ClientService) FindByPhone(ctx context.Context, manager *models.Manager, rawPhone string) (*models.Client, string, error) {
	normalized, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, "", err
	}

	client, err := s.repo.GetClientByPhone(ctx, manager.ID, normalized)
	if errors.Is(err, database.ErrNotFound) {
		return nil, normalized, nil
	}
	if err != nil {
		return nil, normalized, fmt.Errorf("lookup client: %w", err)
	}

	if err := s.repo.TouchClient(ctx, client.ID); err != nil {
		s.logger.Warn().Err(err).Int64("client_id", client.ID).Msg("failed to touch client")
	} else {
		now := time.Now().UTC()
		client.LastContact = &now
	}
	return client, normalized, nil
}

func (s *ClientService) validateName(raw string) (string, error) {
	name := textutil.CollapseSpaces(raw)
	n := textutil.RuneLen(name)
	if n < models.MinNameLength || n > models.MaxNameLength {
		return "", ErrInvalidClientName
	}
	return name, nil
}

// Create заводит клиента со статусом new
func (s *ClientService) Create(ctx context.Context, manager *models.Manager, phoneNumber, rawName string) (*models.Client, error) {
	name, err := s.validateName(rawName)
	if err != nil {
		return nil, err
	}
	normalized, err := phone.Normalize(phoneNumber)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		ManagerID: manager.ID,
		Name:      name,
		Phone:     normalized,
		Status:    models.ClientStatusNew,
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.ClientEventPayload{
			ClientID:    client.ID,
			ManagerID:   manager.ID,
			ManagerName: manager.FullName,
			Name:        client.Name,
			Phone:       client.Phone,
			CreatedAt:   client.CreatedAt,
		}
		if err := s.eventBus.PublishJSON(events.EventClientCreated, payload); err != nil {
			s.logger.Warn().Err(err).Int64("client_id", client.ID).Msg("client_created subscribers failed")
		}
	}
	if s.sheetsWorker != nil {
		if err := s.sheetsWorker.EnqueueClient(ctx, client, manager.FullName); err != nil {
			s.logger.Warn().Err(err).Int64("client_id", client.ID).Msg("failed to enqueue client sync")
		}
	}

	return client, nil
}

func (s *ClientService) Get(ctx context.Context, managerID, clientID int64) (*models.Client, error) {
	return s.repo.GetClient(ctx, managerID, clientID)
}

func (s *ClientService) List(ctx context.Context, managerID int64, limit int) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, managerID, limit)
}

func (s *ClientService) Count(ctx context.Context, managerID int64) (int, error) {
	return s.repo.CountClients(ctx, managerID)
}

// AddNote дописывает заметку со строкой времени
func (s *ClientService) AddNote(ctx context.Context, managerID, clientID int64, note string) error {
	text := textutil.CollapseSpaces(note)
	if text == "" {
		return ErrEmptyText
	}
	if textutil.RuneLen(text) > maxNoteLength {
		return ErrTextTooLong
	}

	if _, err := s.repo.GetClient(ctx, managerID, clientID); err != nil {
		return err
	}

	line := fmt.Sprintf("[%s] %s", textutil.FormatDateTime(time.Now(), s.loc), text)
	return s.repo.AppendClientNote(ctx, clientID, line)
}

func (s *ClientService) Rename(ctx context.Context, managerID, clientID int64, rawName string) (*models.Client, error) {
	name, err := s.validateName(rawName)
	if err != nil {
		return nil, err
	}
	client, err := s.repo.GetClient(ctx, managerID, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateClientName(ctx, clientID, name); err != nil {
		return nil, err
	}
	client.Name = name
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, managerID, clientID int64) error {
	if err := s.repo.DeleteClient(ctx, managerID, clientID); err != nil {
		return err
	}
	s.logger.Info().Int64("manager_id", managerID).Int64("client_id", clientID).Msg("client deleted")
	return nil
}
