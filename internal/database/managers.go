package database

import (
	"context"
	"fmt"
	"time"

	"salesbot/internal/models"
)

const managerColumns = `id, telegram_id, full_name, industry, industry_custom, phone,
	terms_accepted, terms_accepted_at, is_active, registration_complete,
	registration_step, created_at, updated_at`

// CreateManager сохраняет менеджера после шага с телефоном
func (db *DB) CreateManager(ctx context.Context, m *models.Manager) error {
	now := time.Now().UTC()
	if m.RegistrationStep == 0 {
		m.RegistrationStep = models.StepTerms
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `INSERT INTO managers (
				telegram_id, full_name, industry, industry_custom, phone,
				terms_accepted, is_active, registration_complete, registration_step,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query,
		m.TelegramID,
		m.FullName,
		m.Industry,
		m.IndustryCustom,
		m.Phone,
		m.TermsAccepted,
		m.IsActive,
		m.RegistrationComplete,
		m.RegistrationStep,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", mapError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (db *DB) GetManagerByTelegramID(ctx context.Context, telegramID int64) (*models.Manager, error) {
	var m models.Manager
	query := `SELECT ` + managerColumns + ` FROM managers WHERE telegram_id = ?`
	if err := db.GetContext(ctx, &m, query, telegramID); err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

// AcceptTerms завершает регистрацию
func (db *DB) AcceptTerms(ctx context.Context, telegramID int64) error {
	now := time.Now().UTC()
	query := `UPDATE managers SET
				terms_accepted = 1,
				terms_accepted_at = ?,
				is_active = 1,
				registration_complete = 1,
				registration_step = ?,
				updated_at = ?
			WHERE telegram_id = ?`
	res, err := db.ExecContext(ctx, query, now, models.StepDone, now, telegramID)
	if err != nil {
		return fmt.Errorf("failed to accept terms: %w", err)
	}
	return expectAffected(res)
}

func (db *DB) UpdateManagerName(ctx context.Context, telegramID int64, fullName string) error {
	query := `UPDATE managers SET full_name = ?, updated_at = ? WHERE telegram_id = ?`
	res, err := db.ExecContext(ctx, query, fullName, time.Now().UTC(), telegramID)
	if err != nil {
		return fmt.Errorf("failed to update manager name: %w", err)
	}
	return expectAffected(res)
}

// ListManagers все менеджеры, новые первыми
func (db *DB) ListManagers(ctx context.Context) ([]*models.Manager, error) {
	var managers []*models.Manager
	query := `SELECT ` + managerColumns + ` FROM managers ORDER BY created_at DESC, id DESC`
	if err := db.SelectContext(ctx, &managers, query); err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return managers, nil
}
