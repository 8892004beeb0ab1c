package bot

import (
	"context"
	"errors"

	"salesbot/internal/database"
	"salesbot/internal/logging"
	"salesbot/internal/phone"
	"salesbot/internal/service"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrInvalidName):
		return msgInvalidName
	case errors.Is(err, service.ErrInvalidIndustry):
		return msgInvalidIndustry
	case errors.Is(err, service.ErrContactRequired):
		return msgStepPhoneInvalid
	case errors.Is(err, service.ErrForeignContact):
		return msgForeignContact
	case errors.Is(err, service.ErrIncompleteDraft):
		return msgRegistrationExpired
	case errors.Is(err, service.ErrNotRegistered):
		return msgNotRegistered
	case errors.Is(err, phone.ErrEmptyPhone), errors.Is(err, phone.ErrInvalidPhone):
		return msgInvalidPhone
	case errors.Is(err, service.ErrInvalidClientName):
		return msgInvalidClient
	case errors.Is(err, service.ErrEmptyText):
		return "⚠️ Текст не может быть пустым."
	case errors.Is(err, service.ErrTextTooLong):
		return "⚠️ Слишком длинный текст, сократите его."
	case errors.Is(err, service.ErrInvalidDate):
		return "⚠️ Неверный формат даты. Используйте ДД.ММ.ГГГГ ЧЧ:ММ."
	case errors.Is(err, service.ErrPastDueDate):
		return "⚠️ Дата напоминания должна быть в будущем."
	case errors.Is(err, service.ErrInvalidReminder):
		return "⚠️ Неизвестный тип напоминания."
	case errors.Is(err, database.ErrAlreadyExists):
		return "⚠️ Клиент с таким номером уже есть."
	case errors.Is(err, database.ErrNotFound):
		return "⚠️ Запись не найдена или уже удалена."
	}

	// Default error message
	return "❌ Произошла ошибка при обработке запроса. Пожалуйста, попробуйте позже."
}

// replyError отвечает пользователю текстом ошибки и логирует неожиданные ошибки
func (b *Bot) replyError(ctx context.Context, chatID int64, err error) {
	if isUnexpected(err) {
		logging.FromContext(ctx, b.logger).Error().Err(err).Msg("request failed")
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
	}
	b.reply(ctx, chatID, b.getErrorMessage(err))
}

func isUnexpected(err error) bool {
	for _, known := range []error{
		service.ErrInvalidName, service.ErrInvalidIndustry, service.ErrContactRequired,
		service.ErrForeignContact, service.ErrIncompleteDraft, service.ErrNotRegistered,
		service.ErrInvalidClientName, service.ErrEmptyText, service.ErrTextTooLong,
		service.ErrInvalidDate, service.ErrPastDueDate, service.ErrInvalidReminder,
		phone.ErrEmptyPhone, phone.ErrInvalidPhone,
		database.ErrAlreadyExists, database.ErrNotFound,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}
