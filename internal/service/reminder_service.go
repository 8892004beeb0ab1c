package service

import (
	"context"
	"time"

	"salesbot/internal/domain"
	"salesbot/internal/events"
	"salesbot/internal/models"
	"salesbot/internal/textutil"

	"github.com/rs/zerolog"
)

const maxReminderLength = 500

type ReminderService struct {
	repo     domain.ReminderRepository
	eventBus domain.EventPublisher
	loc      *time.Location
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewReminderService(repo domain.ReminderRepository, eventBus domain.EventPublisher, loc *time.Location, logger *zerolog.Logger) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		repo:     repo,
		eventBus: eventBus,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// ParseDueDate "ДД.ММ.ГГГГ ЧЧ:ММ" в поясе бота, только будущее время
func (s *ReminderService) ParseDueDate(raw string) (time.Time, error) {
	due, err := textutil.ParseDateTime(raw, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if !due.After(s.now()) {
		return time.Time{}, ErrPastDueDate
	}
	return due.UTC(), nil
}

func validReminderType(t string) bool {
	switch t {
	case models.ReminderCall, models.ReminderMeeting, models.ReminderMessage:
		return true
	default:
		return false
	}
}

func (s *ReminderService) Create(ctx context.Context, r *models.Reminder) error {
	if !validReminderType(r.Type) {
		return ErrInvalidReminder
	}
	r.Text = textutil.CollapseSpaces(r.Text)
	if r.Text == "" {
		return ErrEmptyText
	}
	if textutil.RuneLen(r.Text) > maxReminderLength {
		return ErrTextTooLong
	}
	if !r.DueDate.After(s.now()) {
		return ErrPastDueDate
	}
	// клиент должен принадлежать тому же менеджеру
	if r.ClientID != nil {
		if _, err := s.repo.GetClient(ctx, r.ManagerID, *r.ClientID); err != nil {
			return err
		}
	}

	if err := s.repo.CreateReminder(ctx, r); err != nil {
		return err
	}

	if s.eventBus != nil {
		payload := events.ReminderEventPayload{
			ReminderID: r.ID,
			ManagerID:  r.ManagerID,
			ClientID:   r.ClientID,
			Type:       r.Type,
			DueDate:    r.DueDate,
		}
		if err := s.eventBus.PublishJSON(events.EventReminderCreated, payload); err != nil {
			s.logger.Warn().Err(err).Int64("reminder_id", r.ID).Msg("reminder_created subscribers failed")
		}
	}
	return nil
}

func (s *ReminderService) ListOpen(ctx context.Context, managerID int64) ([]*models.Reminder, error) {
	return s.repo.ListOpenReminders(ctx, managerID)
}

func (s *ReminderService) Done(ctx context.Context, managerID, reminderID int64) error {
	return s.repo.MarkReminderDone(ctx, managerID, reminderID)
}

func (s *ReminderService) Due(ctx context.Context, now time.Time) ([]*models.DueReminder, error) {
	return s.repo.DueReminders(ctx, now)
}

func (s *ReminderService) MarkNotified(ctx context.Context, reminderID int64, at time.Time) error {
	return s.repo.MarkReminderNotified(ctx, reminderID, at)
}
