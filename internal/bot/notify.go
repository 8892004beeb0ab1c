package bot

import (
	"context"
	"fmt"

	"salesbot/internal/events"
	"salesbot/internal/phone"
	"salesbot/internal/textutil"
)

func (b *Bot) subscribeEvents() {
	if b.config.Admin.ID == 0 {
		return
	}
	b.eventBus.Subscribe(events.EventManagerRegistered, b.notifyAdminRegistered)
}

// notifyAdminRegistered сообщает администратору о новом менеджере
func (b *Bot) notifyAdminRegistered(event *events.Event) error {
	var payload events.ManagerEventPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode %s: %w", event.Type, err)
	}

	text := fmt.Sprintf(msgAdminRegistered,
		textutil.EscapeMarkdown(payload.FullName),
		textutil.EscapeMarkdown(payload.Industry),
		textutil.EscapeMarkdown(phone.FormatDisplay(payload.Phone)),
		payload.TelegramID,
	)
	if _, err := b.tgService.SendMarkdown(b.config.Admin.ID, text); err != nil {
		return fmt.Errorf("notify admin: %w", err)
	}
	return nil
}

// handleStats /stats только для ADMIN_ID
func (b *Bot) handleStats(ctx context.Context, chatID, userID int64) {
	if b.config.Admin.ID == 0 || userID != b.config.Admin.ID || b.stats == nil {
		b.reply(ctx, chatID, msgUnknown)
		return
	}

	stats, err := b.stats.GetStats(ctx)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf(msgAdminStats,
		stats.ManagersTotal, stats.ManagersRegistered, stats.ClientsTotal, stats.RemindersOpen))
}
