package models

import "time"

type Client struct {
	ID            int64      `db:"id" json:"id"`
	ManagerID     int64      `db:"manager_id" json:"manager_id"`
	Name          string     `db:"name" json:"name"`
	Phone         string     `db:"phone" json:"phone"`
	Status        string     `db:"status" json:"status"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	InterestModel *string    `db:"interest_model" json:"interest_model,omitempty"`
	LastContact   *time.Time `db:"last_contact" json:"last_contact,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// NotesText возвращает заметки или пустую строку
func (c *Client) NotesText() string {
	if c.Notes == nil {
		return ""
	}
	return *c.Notes
}
