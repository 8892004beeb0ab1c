package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Плейсхолдеры шаблонов сообщений
const (
	PlaceholderClientName  = "{имя_клиента}"
	PlaceholderManagerName = "{ваше_имя}"
	PlaceholderCompany     = "{ваша_компания}"
)

type Template struct {
	ID        int64     `db:"id" json:"id" yaml:"-"`
	ManagerID int64     `db:"manager_id" json:"manager_id" yaml:"-"`
	Name      string    `db:"name" json:"name" yaml:"name"`
	Content   string    `db:"content" json:"content" yaml:"content"`
	Variables string    `db:"variables" json:"variables" yaml:"-"`
	IsActive  bool      `db:"is_active" json:"is_active" yaml:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"-"`
}

// VariableList разбирает JSON-список переменных шаблона
func (t *Template) VariableList() []string {
	if t.Variables == "" {
		return nil
	}
	var vars []string
	if err := json.Unmarshal([]byte(t.Variables), &vars); err != nil {
		return nil
	}
	return vars
}

// Render подставляет значения в плейсхолдеры шаблона
func (t *Template) Render(clientName, managerName, company string) string {
	r := strings.NewReplacer(
		PlaceholderClientName, clientName,
		PlaceholderManagerName, managerName,
		PlaceholderCompany, company,
	)
	return r.Replace(t.Content)
}

// DefaultTemplateVariables список переменных шаблонов по умолчанию
func DefaultTemplateVariables() string {
	raw, _ := json.Marshal([]string{"имя_клиента", "ваше_имя", "ваша_компания"})
	return string(raw)
}
