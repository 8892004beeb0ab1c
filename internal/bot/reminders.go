package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salesbot/internal/logging"
	"salesbot/internal/models"
	"salesbot/internal/textutil"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showReminders(ctx context.Context, chatID int64, manager *models.Manager) {
	reminders, err := b.reminders.ListOpen(ctx, manager.ID)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	if len(reminders) == 0 {
		b.sendScreen(ctx, chatID, msgRemindersEmpty, remindersKeyboard(nil))
		return
	}

	var list strings.Builder
	for i, r := range reminders {
		fmt.Fprintf(&list, "%d. %s · %s\n%s\n\n",
			i+1,
			models.ReminderTypeDisplay(r.Type),
			textutil.FormatDateTime(r.DueDate, b.loc),
			textutil.EscapeMarkdown(textutil.Truncate(r.Text, 200, "…")),
		)
	}
	b.sendScreen(ctx, chatID, fmt.Sprintf(msgRemindersList, strings.TrimSpace(list.String())), remindersKeyboard(reminders))
}

// startReminderFlow clientID = 0 для напоминания без клиента
func (b *Bot) startReminderFlow(ctx context.Context, chatID int64, manager *models.Manager, clientID int64) {
	data := map[string]interface{}{}
	if clientID != 0 {
		if _, err := b.clients.Get(ctx, manager.ID, clientID); err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		data["client_id"] = clientID
	}
	b.startFlow(ctx, manager.TelegramID, models.StateWaitingReminderType, data)
	b.sendScreen(ctx, chatID, msgAskReminderType, reminderTypeKeyboard())
}

func (b *Bot) processReminderType(ctx context.Context, chatID int64, manager *models.Manager, reminderType string) {
	userID := manager.TelegramID
	state := b.getUserState(ctx, userID)
	if !state.Is(models.StateWaitingReminderType) {
		b.startReminderFlow(ctx, chatID, manager, 0)
		return
	}
	switch reminderType {
	case models.ReminderCall, models.ReminderMeeting, models.ReminderMessage:
	default:
		b.sendScreen(ctx, chatID, msgAskReminderType, reminderTypeKeyboard())
		return
	}

	b.setUserState(ctx, userID, models.StateWaitingReminderDate, map[string]interface{}{"reminder_type": reminderType})
	b.sendScreen(ctx, chatID, msgAskReminderDate, backKeyboard(cbMenuReminders))
}

func (b *Bot) processReminderDate(ctx context.Context, chatID, userID int64, text string) {
	due, err := b.reminders.ParseDueDate(text)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.setUserState(ctx, userID, models.StateWaitingReminderText, map[string]interface{}{
		"due_date": due.Format(time.RFC3339),
	})
	b.sendScreen(ctx, chatID, msgAskReminderText, backKeyboard(cbMenuReminders))
}

func (b *Bot) processReminderText(ctx context.Context, chatID int64, manager *models.Manager, state *models.UserState, text string) {
	reminder := &models.Reminder{
		ManagerID: manager.ID,
		Type:      state.GetString("reminder_type"),
		Text:      text,
		DueDate:   state.GetTime("due_date"),
	}
	if clientID := state.GetInt64("client_id"); clientID != 0 {
		reminder.ClientID = &clientID
	}

	if err := b.reminders.Create(ctx, reminder); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.clearUserState(ctx, manager.TelegramID)
	b.reply(ctx, chatID, fmt.Sprintf(msgReminderSaved, textutil.FormatDateTime(reminder.DueDate, b.loc)))
	b.showReminders(ctx, chatID, manager)
}

func (b *Bot) completeReminder(ctx context.Context, chatID int64, manager *models.Manager, reminderID int64) {
	if err := b.reminders.Done(ctx, manager.ID, reminderID); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, msgReminderDone)
	b.showReminders(ctx, chatID, manager)
}

// RunReminders рассылает наступившие напоминания до отмены ctx
func (b *Bot) RunReminders(ctx context.Context) {
	interval := b.config.ReminderInterval()
	if interval <= 0 {
		interval = models.ReminderCheckInterval * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	b.dispatchDueReminders(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.dispatchDueReminders(ctx)
		}
	}
}

func (b *Bot) dispatchDueReminders(ctx context.Context) {
	l := logging.Component(b.logger, "reminders")

	due, err := b.reminders.Due(ctx, b.now())
	if err != nil {
		l.Error().Err(err).Msg("reminder: load due reminders")
		return
	}

	for _, r := range due {
		if ctx.Err() != nil {
			return
		}

		msg := tgbotapi.NewMessage(r.TelegramID, formatDueReminder(r, b.loc))
		msg.ParseMode = models.ParseModeMarkdown
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Выполнено", withID(cbReminderDone, r.ID))),
		)
		if _, err := b.tgService.Send(msg); err != nil {
			// не отмечаем, повторим на следующем тике
			l.Error().Err(err).Int64("reminder_id", r.ID).Int64("telegram_id", r.TelegramID).Msg("reminder: send error")
			continue
		}

		if err := b.reminders.MarkNotified(ctx, r.ID, b.now()); err != nil {
			l.Error().Err(err).Int64("reminder_id", r.ID).Msg("reminder: mark notified")
			continue
		}
		if b.metrics != nil {
			b.metrics.RemindersSent.Inc()
		}
	}
}

func formatDueReminder(r *models.DueReminder, loc *time.Location) string {
	subject := models.ReminderTypeDisplay(r.Type) + " · " + textutil.FormatDateTime(r.DueDate, loc)
	client := ""
	if r.ClientName != nil && *r.ClientName != "" {
		client = "👤 " + textutil.EscapeMarkdown(*r.ClientName)
	}
	return fmt.Sprintf(msgReminderDue, subject, client, textutil.EscapeMarkdown(r.Text))
}
