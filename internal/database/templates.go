package database

import (
	"context"
	"fmt"
	"time"

	"salesbot/internal/models"
)

const templateColumns = `id, manager_id, name, content, variables, is_active, created_at`

func (db *DB) CreateTemplate(ctx context.Context, t *models.Template) error {
	t.CreatedAt = time.Now().UTC()
	if t.Variables == "" {
		t.Variables = models.DefaultTemplateVariables()
	}

	query := `INSERT INTO templates (manager_id, name, content, variables, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query, t.ManagerID, t.Name, t.Content, t.Variables, t.IsActive, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", mapError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (db *DB) ListActiveTemplates(ctx context.Context, managerID int64) ([]*models.Template, error) {
	var templates []*models.Template
	query := `SELECT ` + templateColumns + ` FROM templates
			WHERE manager_id = ? AND is_active = 1
			ORDER BY id`
	if err := db.SelectContext(ctx, &templates, query, managerID); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (db *DB) GetTemplate(ctx context.Context, managerID, templateID int64) (*models.Template, error) {
	var t models.Template
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ? AND manager_id = ?`
	if err := db.GetContext(ctx, &t, query, templateID, managerID); err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

// FirstActiveTemplate шаблон для визитки
func (db *DB) FirstActiveTemplate(ctx context.Context, managerID int64) (*models.Template, error) {
	var t models.Template
	query := `SELECT ` + templateColumns + ` FROM templates
			WHERE manager_id = ? AND is_active = 1
			ORDER BY id LIMIT 1`
	if err := db.GetContext(ctx, &t, query, managerID); err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (db *DB) DeactivateTemplate(ctx context.Context, managerID, templateID int64) error {
	query := `UPDATE templates SET is_active = 0 WHERE id = ? AND manager_id = ? AND is_active = 1`
	res, err := db.ExecContext(ctx, query, templateID, managerID)
	if err != nil {
		return fmt.Errorf("failed to deactivate template: %w", err)
	}
	return expectAffected(res)
}
