package database

import (
	"context"
	"fmt"
	"time"
)

// GetLastMessageID последнее сообщение бота в чате
func (db *DB) GetLastMessageID(ctx context.Context, telegramID int64) (int, error) {
	var id int
	err := db.GetContext(ctx, &id, `SELECT last_message_id FROM bot_messages WHERE telegram_id = ?`, telegramID)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (db *DB) SaveLastMessageID(ctx context.Context, telegramID int64, messageID int) error {
	now := time.Now().UTC()
	query := `INSERT INTO bot_messages (telegram_id, last_message_id, created_at, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(telegram_id) DO UPDATE SET
				last_message_id = excluded.last_message_id,
				updated_at = excluded.updated_at`
	if _, err := db.ExecContext(ctx, query, telegramID, messageID, now, now); err != nil {
		return fmt.Errorf("failed to save last message: %w", err)
	}
	return nil
}
