package bot

import (
	"context"
	"fmt"

	"salesbot/internal/logging"
	"salesbot/internal/models"
	"salesbot/internal/phone"
	"salesbot/internal/textutil"
)

func (b *Bot) pageSize() int {
	if b.config.Bot.ClientsPageSize > 0 {
		return b.config.Bot.ClientsPageSize
	}
	return models.DefaultClientsPageSize
}

func (b *Bot) showClients(ctx context.Context, chatID int64, manager *models.Manager) {
	clients, err := b.clients.List(ctx, manager.ID, b.pageSize())
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	if len(clients) == 0 {
		b.sendScreen(ctx, chatID, msgClientsEmpty, clientsKeyboard(nil))
		return
	}

	total, err := b.clients.Count(ctx, manager.ID)
	if err != nil {
		logging.FromContext(ctx, b.logger).Warn().Err(err).Msg("failed to count clients")
		total = len(clients)
	}
	b.sendScreen(ctx, chatID, fmt.Sprintf(msgClientsList, total), clientsKeyboard(clients))
}

// lookupClient поиск клиента по номеру; новый номер переводит диалог к вводу имени
func (b *Bot) lookupClient(ctx context.Context, chatID int64, manager *models.Manager, rawPhone string) {
	client, normalized, err := b.clients.FindByPhone(ctx, manager, rawPhone)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	if client != nil {
		b.clearUserState(ctx, manager.TelegramID)
		b.renderClientCard(ctx, chatID, client)
		return
	}

	b.startFlow(ctx, manager.TelegramID, models.StateWaitingClientName, map[string]interface{}{"phone": normalized})
	text := fmt.Sprintf(msgClientNotFound, textutil.EscapeMarkdown(phone.FormatDisplay(normalized)))
	b.sendScreen(ctx, chatID, text, backKeyboard(cbMenuClients))
}

func (b *Bot) createClient(ctx context.Context, chatID int64, manager *models.Manager, state *models.UserState, name string) {
	phoneNumber := state.GetString("phone")
	if phoneNumber == "" {
		b.clearUserState(ctx, manager.TelegramID)
		b.showClients(ctx, chatID, manager)
		return
	}

	client, err := b.clients.Create(ctx, manager, phoneNumber, name)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	if b.metrics != nil {
		b.metrics.ClientsCreated.Inc()
	}

	b.clearUserState(ctx, manager.TelegramID)
	text := fmt.Sprintf(msgClientCreated, textutil.EscapeMarkdown(client.Name))
	b.sendScreen(ctx, chatID, text, newClientActionsKeyboard(client.ID))
}

func (b *Bot) showClientCard(ctx context.Context, chatID int64, manager *models.Manager, clientID int64) {
	client, err := b.clients.Get(ctx, manager.ID, clientID)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.renderClientCard(ctx, chatID, client)
}

func (b *Bot) renderClientCard(ctx context.Context, chatID int64, client *models.Client) {
	notes := client.NotesText()
	if notes == "" {
		notes = "—"
	}
	text := fmt.Sprintf(msgClientCard,
		textutil.EscapeMarkdown(client.Name),
		textutil.EscapeMarkdown(phone.FormatDisplay(client.Phone)),
		clientStatusDisplay(client.Status),
		textutil.FormatDateTimePtr(client.LastContact, b.loc),
		textutil.EscapeMarkdown(textutil.Truncate(notes, 2000, "…")),
	)
	b.sendScreen(ctx, chatID, text, clientActionsKeyboard(client.ID))
}

func clientStatusDisplay(status string) string {
	switch status {
	case models.ClientStatusNew:
		return "новый"
	case "":
		return textutil.NotSpecified
	default:
		return textutil.EscapeMarkdown(status)
	}
}

func (b *Bot) saveClientNote(ctx context.Context, chatID int64, manager *models.Manager, state *models.UserState, note string) {
	clientID := state.GetInt64("client_id")
	if err := b.clients.AddNote(ctx, manager.ID, clientID, note); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.clearUserState(ctx, manager.TelegramID)
	b.reply(ctx, chatID, msgNoteSaved)
	b.showClientCard(ctx, chatID, manager, clientID)
}

func (b *Bot) renameClient(ctx context.Context, chatID int64, manager *models.Manager, state *models.UserState, name string) {
	client, err := b.clients.Rename(ctx, manager.ID, state.GetInt64("client_id"), name)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.clearUserState(ctx, manager.TelegramID)
	b.renderClientCard(ctx, chatID, client)
}

func (b *Bot) confirmDeleteClient(ctx context.Context, chatID int64, manager *models.Manager, clientID int64) {
	client, err := b.clients.Get(ctx, manager.ID, clientID)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	text := fmt.Sprintf(msgConfirmDelete, textutil.EscapeMarkdown(client.Name))
	b.sendScreen(ctx, chatID, text, confirmDeleteKeyboard(clientID))
}

func (b *Bot) deleteClient(ctx context.Context, chatID int64, manager *models.Manager, clientID int64) {
	if err := b.clients.Delete(ctx, manager.ID, clientID); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, msgClientDeleted)
	b.showClients(ctx, chatID, manager)
}

// sendBusinessCard текст визитки по первому активному шаблону
func (b *Bot) sendBusinessCard(ctx context.Context, chatID int64, manager *models.Manager, clientID int64) {
	client, err := b.clients.Get(ctx, manager.ID, clientID)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	card, err := b.templates.BusinessCard(ctx, manager, client)
	if err != nil {
		if isUnexpected(err) {
			b.replyError(ctx, chatID, err)
			return
		}
		b.sendScreen(ctx, chatID, msgNoTemplates, businessCardKeyboard(clientID))
		return
	}

	logging.FromContext(ctx, b.logger).Info().Int64("client_id", clientID).Msg("business card rendered")
	b.sendScreen(ctx, chatID, fmt.Sprintf(msgBusinessCard, textutil.EscapeMarkdown(textutil.Truncate(card, maxScreenBody, "…"))), businessCardKeyboard(clientID))
}
