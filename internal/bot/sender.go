package bot

import (
	"context"
	"errors"

	"salesbot/internal/database"
	"salesbot/internal/logging"
	"salesbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxScreenBody пользовательский текст внутри экрана; Telegram режет сообщения длиннее 4096 символов
const maxScreenBody = 3500

// sendScreen заменяет предыдущий экран бота в чате новым сообщением.
// markup: InlineKeyboardMarkup, ReplyKeyboardMarkup, ReplyKeyboardRemove или nil.
func (b *Bot) sendScreen(ctx context.Context, chatID int64, text string, markup interface{}) {
	l := logging.FromContext(ctx, b.logger)

	lastID, err := b.messages.GetLastMessageID(ctx, chatID)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		l.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to load last bot message")
	case lastID != 0:
		if err := b.tgService.DeleteMessage(chatID, lastID); err != nil {
			l.Debug().Err(err).Int("message_id", lastID).Msg("failed to delete previous bot message")
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := b.tgService.Send(msg)
	if err != nil {
		l.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send screen message")
		return
	}

	if err := b.messages.SaveLastMessageID(ctx, chatID, sent.MessageID); err != nil {
		l.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to save last bot message")
	}
}

// reply короткий ответ без замены экрана
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.tgService.SendMarkdown(chatID, text); err != nil {
		logging.FromContext(ctx, b.logger).Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}
