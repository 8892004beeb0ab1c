package models

import "time"

// UserState состояние диалога пользователя между обновлениями
type UserState struct {
	UserID      int64                  `json:"user_id"`
	CurrentStep string                 `json:"current_step"`
	TempData    map[string]interface{} `json:"temp_data"`
}

func (s *UserState) GetInt64(key string) int64 {
	if s.TempData == nil {
		return 0
	}
	val, ok := s.TempData[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (s *UserState) GetString(key string) string {
	if s.TempData == nil {
		return ""
	}
	val, ok := s.TempData[key]
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func (s *UserState) GetTime(key string) time.Time {
	if s.TempData == nil {
		return time.Time{}
	}
	val, ok := s.TempData[key]
	if !ok {
		return time.Time{}
	}
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// Is проверяет текущий шаг диалога
func (s *UserState) Is(step string) bool {
	return s != nil && s.CurrentStep == step
}
