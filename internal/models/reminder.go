package models

import "time"

type Reminder struct {
	ID         int64      `db:"id" json:"id"`
	ManagerID  int64      `db:"manager_id" json:"manager_id"`
	ClientID   *int64     `db:"client_id" json:"client_id,omitempty"`
	Type       string     `db:"type" json:"type"`
	Text       string     `db:"text" json:"text"`
	DueDate    time.Time  `db:"due_date" json:"due_date"`
	IsDone     bool       `db:"is_done" json:"is_done"`
	NotifiedAt *time.Time `db:"notified_at" json:"notified_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// DueReminder напоминание вместе с получателем и клиентом для рассылки
type DueReminder struct {
	Reminder
	TelegramID int64   `db:"telegram_id"`
	ClientName *string `db:"client_name"`
}
