package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func withID(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// parseID разбирает callback вида "prefix<id>"
func parseID(data, prefix string) (int64, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// updateUser отправитель и чат обновления
func updateUser(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		chatID = update.CallbackQuery.From.ID
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		return update.CallbackQuery.From.ID, chatID
	default:
		return 0, 0
	}
}

func isCommand(text, command string) bool {
	cmd := strings.Fields(text)
	if len(cmd) == 0 {
		return false
	}
	// /start@salesbot
	name, _, _ := strings.Cut(cmd[0], "@")
	return name == command
}
