package database

import (
	"context"
	"fmt"
	"time"

	"salesbot/internal/models"
)

const reminderColumns = `id, manager_id, client_id, type, text, due_date, is_done, notified_at, created_at`

func (db *DB) CreateReminder(ctx context.Context, r *models.Reminder) error {
	r.CreatedAt = time.Now().UTC()
	r.DueDate = r.DueDate.UTC()

	query := `INSERT INTO reminders (manager_id, client_id, type, text, due_date, is_done, created_at)
			VALUES (?, ?, ?, ?, ?, 0, ?)`
	res, err := db.ExecContext(ctx, query, r.ManagerID, r.ClientID, r.Type, r.Text, r.DueDate, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", mapError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// ListOpenReminders невыполненные напоминания по сроку
func (db *DB) ListOpenReminders(ctx context.Context, managerID int64) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	query := `SELECT ` + reminderColumns + ` FROM reminders
			WHERE manager_id = ? AND is_done = 0
			ORDER BY due_date, id`
	if err := db.SelectContext(ctx, &reminders, query, managerID); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (db *DB) MarkReminderDone(ctx context.Context, managerID, reminderID int64) error {
	query := `UPDATE reminders SET is_done = 1 WHERE id = ? AND manager_id = ? AND is_done = 0`
	res, err := db.ExecContext(ctx, query, reminderID, managerID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder done: %w", err)
	}
	return expectAffected(res)
}

// DueReminders наступившие и ещё не отправленные напоминания
func (db *DB) DueReminders(ctx context.Context, now time.Time) ([]*models.DueReminder, error) {
	var reminders []*models.DueReminder
	query := `SELECT r.id, r.manager_id, r.client_id, r.type, r.text, r.due_date,
				r.is_done, r.notified_at, r.created_at,
				m.telegram_id, c.name AS client_name
			FROM reminders r
			JOIN managers m ON m.id = r.manager_id
			LEFT JOIN clients c ON c.id = r.client_id AND c.manager_id = r.manager_id
			WHERE r.is_done = 0 AND r.notified_at IS NULL AND r.due_date <= ?
			ORDER BY r.due_date, r.id`
	if err := db.SelectContext(ctx, &reminders, query, now.UTC()); err != nil {
		return nil, fmt.Errorf("failed to get due reminders: %w", err)
	}
	return reminders, nil
}

func (db *DB) MarkReminderNotified(ctx context.Context, reminderID int64, at time.Time) error {
	query := `UPDATE reminders SET notified_at = ? WHERE id = ? AND notified_at IS NULL`
	res, err := db.ExecContext(ctx, query, at.UTC(), reminderID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder notified: %w", err)
	}
	return expectAffected(res)
}

func (db *DB) CountOpenReminders(ctx context.Context, managerID int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reminders WHERE manager_id = ? AND is_done = 0`, managerID)
	return count, err
}
