package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotWrapper приводит *tgbotapi.BotAPI к domain.TelegramSender
type BotWrapper struct {
	*tgbotapi.BotAPI
}

func (w *BotWrapper) GetSelf() tgbotapi.User {
	return w.Self
}

func NewBotWrapper(bot *tgbotapi.BotAPI) *BotWrapper {
	return &BotWrapper{BotAPI: bot}
}
