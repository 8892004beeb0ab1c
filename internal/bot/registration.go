package bot

import (
	"context"
	"errors"
	"fmt"

	"salesbot/internal/database"
	"salesbot/internal/domain"
	"salesbot/internal/logging"
	"salesbot/internal/models"
	"salesbot/internal/service"
	"salesbot/internal/textutil"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleStart: новый пользователь начинает регистрацию, не принявший правила
// видит их снова, зарегистрированный попадает в главное меню
func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) {
	b.clearUserState(ctx, userID)

	manager, err := b.registration.GetManager(ctx, userID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		b.setUserState(ctx, userID, models.StateWaitingName, nil)
		b.sendScreen(ctx, chatID, msgStepName, tgbotapi.NewRemoveKeyboard(true))
	case err != nil:
		b.replyError(ctx, chatID, err)
	case manager.RegistrationComplete:
		b.showMainMenu(ctx, chatID, manager)
	default:
		b.setUserState(ctx, userID, models.StateWaitingTerms, nil)
		b.sendScreen(ctx, chatID, msgStepTerms, termsKeyboard())
	}
}

func (b *Bot) processName(ctx context.Context, chatID, userID int64, text string) {
	name, err := b.registration.ValidateName(text)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.setUserState(ctx, userID, models.StateWaitingIndustry, map[string]interface{}{"full_name": name})
	b.sendScreen(ctx, chatID, fmt.Sprintf(msgStepIndustry, textutil.EscapeMarkdown(name)), industryKeyboard())
}

func (b *Bot) processIndustry(ctx context.Context, chatID, userID int64, industry string) {
	state := b.getUserState(ctx, userID)
	if !state.Is(models.StateWaitingIndustry) {
		b.reply(ctx, chatID, msgRegistrationExpired)
		return
	}
	if err := b.registration.ValidateIndustry(industry); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	if industry == models.IndustryOther {
		b.setUserState(ctx, userID, models.StateWaitingIndustryOther, map[string]interface{}{"industry": industry})
		b.sendScreen(ctx, chatID, msgStepIndustryOther, nil)
		return
	}

	b.setUserState(ctx, userID, models.StateWaitingPhone, map[string]interface{}{"industry": industry})
	b.sendScreen(ctx, chatID, msgStepPhone, phoneKeyboard())
}

func (b *Bot) processIndustryOther(ctx context.Context, chatID, userID int64, text string) {
	custom, err := b.registration.ValidateCustomIndustry(text)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.setUserState(ctx, userID, models.StateWaitingPhone, map[string]interface{}{
		"industry":        models.IndustryOther,
		"industry_custom": custom,
	})
	b.sendScreen(ctx, chatID, msgStepPhone, phoneKeyboard())
}

func (b *Bot) processPhone(ctx context.Context, chatID, userID int64, contact *tgbotapi.Contact, state *models.UserState) {
	if contact == nil {
		b.sendScreen(ctx, chatID, msgStepPhoneInvalid, phoneKeyboard())
		return
	}

	draft := domain.RegistrationDraft{
		TelegramID:     userID,
		FullName:       state.GetString("full_name"),
		Industry:       state.GetString("industry"),
		IndustryCustom: state.GetString("industry_custom"),
	}

	manager, err := b.registration.CompletePhoneStep(ctx, draft, contact)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForeignContact):
			b.sendScreen(ctx, chatID, msgForeignContact, phoneKeyboard())
		case errors.Is(err, service.ErrIncompleteDraft):
			b.clearUserState(ctx, userID)
			b.reply(ctx, chatID, msgRegistrationExpired)
		case isUnexpected(err):
			b.replyError(ctx, chatID, err)
		default:
			b.sendScreen(ctx, chatID, msgPhoneNotRecognized, phoneKeyboard())
		}
		return
	}

	if manager.RegistrationComplete {
		b.clearUserState(ctx, userID)
		b.showMainMenu(ctx, chatID, manager)
		return
	}

	// клавиатура контакта больше не нужна
	if _, err := b.tgService.Send(removeKeyboardMessage(chatID)); err != nil {
		logging.FromContext(ctx, b.logger).Debug().Err(err).Msg("failed to remove reply keyboard")
	}

	b.startFlow(ctx, userID, models.StateWaitingTerms, nil)
	b.sendScreen(ctx, chatID, msgStepTerms, termsKeyboard())
}

func (b *Bot) processTermsAccept(ctx context.Context, chatID, userID int64) {
	current, err := b.registration.GetManager(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			b.reply(ctx, chatID, msgNotRegistered)
			return
		}
		b.replyError(ctx, chatID, err)
		return
	}

	manager := current
	if !current.RegistrationComplete {
		manager, err = b.registration.AcceptTerms(ctx, userID)
		if err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		if b.metrics != nil {
			b.metrics.RegistrationsComplete.Inc()
		}
	}

	b.clearUserState(ctx, userID)
	b.reply(ctx, chatID, msgRegistered)
	b.showMainMenu(ctx, chatID, manager)
}

// processTermsReject менеджер остается на шаге 4
func (b *Bot) processTermsReject(ctx context.Context, chatID, userID int64) {
	b.clearUserState(ctx, userID)
	b.sendScreen(ctx, chatID, msgTermsRejected, nil)
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64, manager *models.Manager) {
	text := fmt.Sprintf(msgMainMenu, textutil.EscapeMarkdown(manager.FullName))
	b.sendScreen(ctx, chatID, text, mainMenuKeyboard())
}

func removeKeyboardMessage(chatID int64) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, "✅ Номер получен")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	return msg
}
