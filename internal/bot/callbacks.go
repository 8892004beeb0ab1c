package bot

import (
	"context"
	"strings"

	"salesbot/internal/logging"
	"salesbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	data := callback.Data
	userID, chatID := updateUser(tgbotapi.Update{CallbackQuery: callback})

	// Отвечаем на callback сразу, чтобы убрать "часики"
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		logging.FromContext(ctx, b.logger).Debug().Err(err).Msg("failed to answer callback")
	}

	logging.FromContext(ctx, b.logger).Debug().Str("data", data).Msg("Handling callback")

	// Регистрация доступна до проверки менеджера
	switch {
	case strings.HasPrefix(data, cbIndustryPrefix):
		b.processIndustry(ctx, chatID, userID, strings.TrimPrefix(data, cbIndustryPrefix))
		return
	case data == cbTermsAccept:
		b.processTermsAccept(ctx, chatID, userID)
		return
	case data == cbTermsReject:
		b.processTermsReject(ctx, chatID, userID)
		return
	}

	manager, ok := b.requireManager(ctx, chatID, userID)
	if !ok {
		return
	}

	if id, ok := parseID(data, cbClientDeleteYes); ok {
		b.deleteClient(ctx, chatID, manager, id)
		return
	}

	switch {
	case data == cbMainMenu:
		b.clearUserState(ctx, userID)
		b.showMainMenu(ctx, chatID, manager)

	case data == cbMenuClients:
		b.clearUserState(ctx, userID)
		b.showClients(ctx, chatID, manager)

	case data == cbClientFind:
		b.startFlow(ctx, userID, models.StateWaitingClientPhone, nil)
		b.sendScreen(ctx, chatID, msgAskPhone, backKeyboard(cbMenuClients))

	case strings.HasPrefix(data, cbClientCard):
		if id, ok := parseID(data, cbClientCard); ok {
			b.clearUserState(ctx, userID)
			b.showClientCard(ctx, chatID, manager, id)
		}

	case strings.HasPrefix(data, cbClientNote):
		if id, ok := parseID(data, cbClientNote); ok {
			b.startFlow(ctx, userID, models.StateWaitingClientNote, map[string]interface{}{"client_id": id})
			b.sendScreen(ctx, chatID, msgAskNote, backKeyboard(withID(cbClientCard, id)))
		}

	case strings.HasPrefix(data, cbClientReminder):
		if id, ok := parseID(data, cbClientReminder); ok {
			b.startReminderFlow(ctx, chatID, manager, id)
		}

	case strings.HasPrefix(data, cbClientSendCard):
		if id, ok := parseID(data, cbClientSendCard); ok {
			b.sendBusinessCard(ctx, chatID, manager, id)
		}

	case strings.HasPrefix(data, cbClientEdit):
		if id, ok := parseID(data, cbClientEdit); ok {
			b.startFlow(ctx, userID, models.StateWaitingClientEdit, map[string]interface{}{"client_id": id})
			b.sendScreen(ctx, chatID, msgAskClientName, backKeyboard(withID(cbClientCard, id)))
		}

	case strings.HasPrefix(data, cbClientDelete):
		if id, ok := parseID(data, cbClientDelete); ok {
			b.confirmDeleteClient(ctx, chatID, manager, id)
		}

	case data == cbMenuTemplates:
		b.clearUserState(ctx, userID)
		b.showTemplates(ctx, chatID, manager)

	case data == cbTemplateNew:
		b.startFlow(ctx, userID, models.StateWaitingTemplateName, nil)
		b.sendScreen(ctx, chatID, msgAskTemplateName, backKeyboard(cbMenuTemplates))

	case strings.HasPrefix(data, cbTemplateView):
		if id, ok := parseID(data, cbTemplateView); ok {
			b.showTemplate(ctx, chatID, manager, id)
		}

	case strings.HasPrefix(data, cbTemplateOff):
		if id, ok := parseID(data, cbTemplateOff); ok {
			b.deactivateTemplate(ctx, chatID, manager, id)
		}

	case data == cbMenuReminders:
		b.clearUserState(ctx, userID)
		b.showReminders(ctx, chatID, manager)

	case data == cbReminderNew:
		b.startReminderFlow(ctx, chatID, manager, 0)

	case strings.HasPrefix(data, cbReminderType):
		b.processReminderType(ctx, chatID, manager, strings.TrimPrefix(data, cbReminderType))

	case strings.HasPrefix(data, cbReminderDone):
		if id, ok := parseID(data, cbReminderDone); ok {
			b.completeReminder(ctx, chatID, manager, id)
		}

	case data == cbMenuSettings:
		b.clearUserState(ctx, userID)
		b.showSettings(ctx, chatID, manager)

	case data == cbSettingsName:
		b.startFlow(ctx, userID, models.StateWaitingProfileName, nil)
		b.sendScreen(ctx, chatID, msgAskProfileName, backKeyboard(cbMenuSettings))

	case data == cbSettingsExport:
		b.exportClients(ctx, chatID, manager)

	default:
		logging.FromContext(ctx, b.logger).Warn().Str("data", data).Msg("Unknown callback data")
	}
}
