package database

import (
	"context"
	"fmt"

	"salesbot/internal/models"
)

func (db *DB) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	query := `SELECT
				(SELECT COUNT(*) FROM managers) AS managers_total,
				(SELECT COUNT(*) FROM managers WHERE registration_complete = 1) AS managers_registered,
				(SELECT COUNT(*) FROM clients) AS clients_total,
				(SELECT COUNT(*) FROM reminders WHERE is_done = 0) AS reminders_open`
	if err := db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}
