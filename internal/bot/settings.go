package bot

import (
	"context"
	"fmt"

	"salesbot/internal/models"
	"salesbot/internal/phone"
	"salesbot/internal/textutil"
)

func (b *Bot) showSettings(ctx context.Context, chatID int64, manager *models.Manager) {
	registered := textutil.NotSpecified
	if manager.TermsAcceptedAt != nil {
		registered = textutil.FormatDateTime(*manager.TermsAcceptedAt, b.loc)
	}

	text := fmt.Sprintf(msgProfile,
		textutil.EscapeMarkdown(manager.FullName),
		textutil.EscapeMarkdown(manager.IndustryName()),
		textutil.EscapeMarkdown(phone.FormatDisplay(manager.Phone)),
		registered,
	)
	b.sendScreen(ctx, chatID, text, settingsKeyboard())
}

func (b *Bot) processProfileName(ctx context.Context, chatID int64, manager *models.Manager, text string) {
	name, err := b.registration.UpdateName(ctx, manager.TelegramID, text)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.clearUserState(ctx, manager.TelegramID)
	manager.FullName = name
	b.reply(ctx, chatID, fmt.Sprintf(msgNameUpdated, textutil.EscapeMarkdown(name)))
	b.showSettings(ctx, chatID, manager)
}
