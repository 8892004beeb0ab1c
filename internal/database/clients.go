package database

import (
	"context"
	"fmt"
	"time"

	"salesbot/internal/models"
)

const clientColumns = `id, manager_id, name, phone, status, notes, interest_model, last_contact, created_at`

func (db *DB) GetClientByPhone(ctx context.Context, managerID int64, phone string) (*models.Client, error) {
	var c models.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE manager_id = ? AND phone = ?`
	if err := db.GetContext(ctx, &c, query, managerID, phone); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// GetClient клиент менеджера по id; чужой клиент не найден
func (db *DB) GetClient(ctx context.Context, managerID, clientID int64) (*models.Client, error) {
	var c models.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ? AND manager_id = ?`
	if err := db.GetContext(ctx, &c, query, clientID, managerID); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (db *DB) CreateClient(ctx context.Context, c *models.Client) error {
	now := time.Now().UTC()
	if c.Status == "" {
		c.Status = models.ClientStatusNew
	}
	if c.LastContact == nil {
		c.LastContact = &now
	}
	c.CreatedAt = now

	query := `INSERT INTO clients (manager_id, name, phone, status, notes, interest_model, last_contact, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query,
		c.ManagerID,
		c.Name,
		c.Phone,
		c.Status,
		c.Notes,
		c.InterestModel,
		c.LastContact.UTC(),
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", mapError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// ListClients клиенты менеджера по последнему контакту
func (db *DB) ListClients(ctx context.Context, managerID int64, limit int) ([]*models.Client, error) {
	if limit <= 0 {
		limit = models.DefaultClientsLimit
	}
	var clients []*models.Client
	query := `SELECT ` + clientColumns + ` FROM clients
			WHERE manager_id = ?
			ORDER BY last_contact DESC, id DESC
			LIMIT ?`
	if err := db.SelectContext(ctx, &clients, query, managerID, limit); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (db *DB) CountClients(ctx context.Context, managerID int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clients WHERE manager_id = ?`, managerID)
	return count, err
}

func (db *DB) TouchClient(ctx context.Context, clientID int64) error {
	query := `UPDATE clients SET last_contact = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, time.Now().UTC(), clientID)
	if err != nil {
		return fmt.Errorf("failed to touch client: %w", err)
	}
	return expectAffected(res)
}

// AppendClientNote дописывает заметку новой строкой
func (db *DB) AppendClientNote(ctx context.Context, clientID int64, note string) error {
	query := `UPDATE clients SET
				notes = CASE WHEN notes IS NULL OR notes = '' THEN ? ELSE notes || char(10) || ? END,
				last_contact = ?
			WHERE id = ?`
	res, err := db.ExecContext(ctx, query, note, note, time.Now().UTC(), clientID)
	if err != nil {
		return fmt.Errorf("failed to append client note: %w", err)
	}
	return expectAffected(res)
}

func (db *DB) UpdateClientName(ctx context.Context, clientID int64, name string) error {
	res, err := db.ExecContext(ctx, `UPDATE clients SET name = ? WHERE id = ?`, name, clientID)
	if err != nil {
		return fmt.Errorf("failed to update client name: %w", err)
	}
	return expectAffected(res)
}

// DeleteClient удаляет клиента вместе с его напоминаниями
func (db *DB) DeleteClient(ctx context.Context, managerID, clientID int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// все напоминания клиента, в том числе заведённые до проверки владельца
	query := `DELETE FROM reminders
			WHERE client_id IN (SELECT id FROM clients WHERE id = ? AND manager_id = ?)`
	if _, err := tx.ExecContext(ctx, query, clientID, managerID); err != nil {
		return fmt.Errorf("failed to delete client reminders: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ? AND manager_id = ?`, clientID, managerID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}
