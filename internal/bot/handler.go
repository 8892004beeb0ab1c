package bot

import (
	"context"
	"errors"
	"strings"

	"salesbot/internal/database"
	"salesbot/internal/logging"
	"salesbot/internal/models"
	"salesbot/internal/phone"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	logging.FromContext(ctx, b.logger).Debug().
		Str("username", msg.From.UserName).
		Bool("contact", msg.Contact != nil).
		Str("text", text).
		Msg("Handling message")

	switch {
	case isCommand(text, "/start"):
		b.handleStart(ctx, chatID, userID)
		return
	case isCommand(text, "/stats"):
		b.handleStats(ctx, chatID, userID)
		return
	case isCommand(text, "/menu"), isCommand(text, "/cancel"):
		b.clearUserState(ctx, userID)
		if manager, ok := b.requireManager(ctx, chatID, userID); ok {
			b.showMainMenu(ctx, chatID, manager)
		}
		return
	}

	state := b.getUserState(ctx, userID)
	if state != nil && b.handleStateMessage(ctx, msg, state) {
		return
	}

	manager, ok := b.requireManager(ctx, chatID, userID)
	if !ok {
		return
	}

	// номер телефона без команды сразу ищет клиента
	if text != "" && phone.Valid(text) {
		b.lookupClient(ctx, chatID, manager, text)
		return
	}
	b.reply(ctx, chatID, msgUnknown)
}

// handleStateMessage обрабатывает ввод в рамках текущего шага диалога
func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message, state *models.UserState) bool {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch state.CurrentStep {
	case models.StateWaitingName:
		b.processName(ctx, chatID, userID, text)
		return true
	case models.StateWaitingIndustry:
		b.sendScreen(ctx, chatID, "Выберите сферу деятельности кнопкой ниже:", industryKeyboard())
		return true
	case models.StateWaitingIndustryOther:
		b.processIndustryOther(ctx, chatID, userID, text)
		return true
	case models.StateWaitingPhone:
		b.processPhone(ctx, chatID, userID, msg.Contact, state)
		return true
	case models.StateWaitingTerms:
		b.sendScreen(ctx, chatID, msgStepTerms, termsKeyboard())
		return true
	}

	manager, ok := b.requireManager(ctx, chatID, userID)
	if !ok {
		return true
	}

	switch state.CurrentStep {
	case models.StateWaitingClientPhone:
		b.lookupClient(ctx, chatID, manager, text)
	case models.StateWaitingClientName:
		b.createClient(ctx, chatID, manager, state, text)
	case models.StateWaitingClientNote:
		b.saveClientNote(ctx, chatID, manager, state, text)
	case models.StateWaitingClientEdit:
		b.renameClient(ctx, chatID, manager, state, text)
	case models.StateWaitingTemplateName:
		b.processTemplateName(ctx, chatID, userID, text)
	case models.StateWaitingTemplateContent:
		b.processTemplateContent(ctx, chatID, manager, state, msg.Text)
	case models.StateWaitingReminderType:
		b.sendScreen(ctx, chatID, msgAskReminderType, reminderTypeKeyboard())
	case models.StateWaitingReminderDate:
		b.processReminderDate(ctx, chatID, userID, text)
	case models.StateWaitingReminderText:
		b.processReminderText(ctx, chatID, manager, state, text)
	case models.StateWaitingProfileName:
		b.processProfileName(ctx, chatID, manager, text)
	default:
		return false
	}
	return true
}

// requireManager менеджер, завершивший регистрацию; иначе отвечает подсказкой
func (b *Bot) requireManager(ctx context.Context, chatID, userID int64) (*models.Manager, bool) {
	manager, err := b.registration.GetManager(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			b.reply(ctx, chatID, msgNotRegistered)
			return nil, false
		}
		b.replyError(ctx, chatID, err)
		return nil, false
	}
	if !manager.RegistrationComplete {
		b.reply(ctx, chatID, msgNotRegistered)
		return nil, false
	}
	return manager, true
}

func (b *Bot) getUserState(ctx context.Context, userID int64) *models.UserState {
	state, err := b.stateService.GetUserState(ctx, userID)
	if err != nil {
		logging.FromContext(ctx, b.logger).Error().Err(err).Msg("Failed to get user state")
		return nil
	}
	return state
}

func (b *Bot) setUserState(ctx context.Context, userID int64, step string, data map[string]interface{}) {
	if err := b.stateService.SetUserState(ctx, userID, step, data); err != nil {
		logging.FromContext(ctx, b.logger).Error().Err(err).Str("step", step).Msg("Failed to set user state")
	}
}

// startFlow начинает новый диалог без данных предыдущего
func (b *Bot) startFlow(ctx context.Context, userID int64, step string, data map[string]interface{}) {
	b.clearUserState(ctx, userID)
	b.setUserState(ctx, userID, step, data)
}

func (b *Bot) clearUserState(ctx context.Context, userID int64) {
	if err := b.stateService.ClearUserState(ctx, userID); err != nil {
		logging.FromContext(ctx, b.logger).Error().Err(err).Msg("Failed to clear user state")
	}
}
