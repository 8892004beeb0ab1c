package models

import "time"

// Manager менеджер по продажам, пользователь бота
type Manager struct {
	ID                   int64            `db:"id" json:"id"`
	TelegramID           int64            `db:"telegram_id" json:"telegram_id"`
	FullName             string           `db:"full_name" json:"full_name"`
	Industry             string           `db:"industry" json:"industry"`
	IndustryCustom       *string          `db:"industry_custom" json:"industry_custom,omitempty"`
	Phone                string           `db:"phone" json:"phone"`
	TermsAccepted        bool             `db:"terms_accepted" json:"terms_accepted"`
	TermsAcceptedAt      *time.Time       `db:"terms_accepted_at" json:"terms_accepted_at,omitempty"`
	IsActive             bool             `db:"is_active" json:"is_active"`
	RegistrationComplete bool             `db:"registration_complete" json:"registration_complete"`
	RegistrationStep     RegistrationStep `db:"registration_step" json:"registration_step"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// IndustryName возвращает отображаемое название сферы деятельности
func (m *Manager) IndustryName() string {
	custom := ""
	if m.IndustryCustom != nil {
		custom = *m.IndustryCustom
	}
	return IndustryDisplay(m.Industry, custom)
}

// Stats сводные счетчики для администратора
type Stats struct {
	ManagersTotal      int `db:"managers_total" json:"managers_total"`
	ManagersRegistered int `db:"managers_registered" json:"managers_registered"`
	ClientsTotal       int `db:"clients_total" json:"clients_total"`
	RemindersOpen      int `db:"reminders_open" json:"reminders_open"`
}
