package bot

import (
	"context"
	"fmt"

	"salesbot/internal/models"
	"salesbot/internal/textutil"
)

func (b *Bot) showTemplates(ctx context.Context, chatID int64, manager *models.Manager) {
	templates, err := b.templates.List(ctx, manager.ID)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.sendScreen(ctx, chatID, msgTemplatesList, templatesKeyboard(templates))
}

func (b *Bot) showTemplate(ctx context.Context, chatID int64, manager *models.Manager, templateID int64) {
	tpl, err := b.templates.Get(ctx, manager.ID, templateID)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	text := fmt.Sprintf(msgTemplateView, textutil.EscapeMarkdown(tpl.Name), textutil.EscapeMarkdown(textutil.Truncate(tpl.Content, maxScreenBody, "…")))
	b.sendScreen(ctx, chatID, text, templateKeyboard(tpl.ID))
}

func (b *Bot) processTemplateName(ctx context.Context, chatID, userID int64, name string) {
	name = textutil.CollapseSpaces(name)
	if n := textutil.RuneLen(name); n < models.MinNameLength || n > models.MaxNameLength {
		b.reply(ctx, chatID, msgInvalidName)
		return
	}
	b.setUserState(ctx, userID, models.StateWaitingTemplateContent, map[string]interface{}{"template_name": name})
	b.sendScreen(ctx, chatID, msgAskTemplateText, backKeyboard(cbMenuTemplates))
}

func (b *Bot) processTemplateContent(ctx context.Context, chatID int64, manager *models.Manager, state *models.UserState, content string) {
	tpl, err := b.templates.Create(ctx, manager.ID, state.GetString("template_name"), content)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.clearUserState(ctx, manager.TelegramID)
	b.reply(ctx, chatID, fmt.Sprintf(msgTemplateSaved, textutil.EscapeMarkdown(tpl.Name)))
	b.showTemplates(ctx, chatID, manager)
}

func (b *Bot) deactivateTemplate(ctx context.Context, chatID int64, manager *models.Manager, templateID int64) {
	if err := b.templates.Deactivate(ctx, manager.ID, templateID); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, msgTemplateOff)
	b.showTemplates(ctx, chatID, manager)
}
