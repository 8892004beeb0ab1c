package bot

import (
	"fmt"

	"salesbot/internal/models"
	"salesbot/internal/textutil"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data кнопок
const (
	cbMainMenu = "main_menu"

	cbIndustryPrefix = "industry_"
	cbTermsAccept    = "terms_accept"
	cbTermsReject    = "terms_reject"

	cbMenuClients   = "menu_clients"
	cbMenuTemplates = "menu_templates"
	cbMenuReminders = "menu_reminders"
	cbMenuSettings  = "menu_settings"

	cbClientFind      = "client_find"
	cbClientCard      = "client_card:"
	cbClientNote      = "client_note:"
	cbClientReminder  = "client_reminder:"
	cbClientSendCard  = "client_send_card:"
	cbClientEdit      = "client_edit:"
	cbClientDelete    = "client_delete:"
	cbClientDeleteYes = "client_delete_yes:"

	cbTemplateView = "template_view:"
	cbTemplateNew  = "template_new"
	cbTemplateOff  = "template_off:"

	cbReminderNew  = "reminder_new"
	cbReminderType = "reminder_type:"
	cbReminderDone = "reminder_done:"

	cbSettingsName   = "settings_name"
	cbSettingsExport = "settings_export"
)

func industryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚗 Автосалон", cbIndustryPrefix+models.IndustryAuto),
			tgbotapi.NewInlineKeyboardButtonData("🏠 Недвижимость", cbIndustryPrefix+models.IndustryRealEstate),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Другое", cbIndustryPrefix+models.IndustryOther),
		),
	)
}

func phoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Поделиться номером телефона"),
		),
	)
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func termsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Я принимаю правила", cbTermsAccept)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Отказаться", cbTermsReject)),
	)
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Мои клиенты", cbMenuClients),
			tgbotapi.NewInlineKeyboardButtonData("📋 Шаблоны сообщений", cbMenuTemplates),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Мои напоминания", cbMenuReminders),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Настройки профиля", cbMenuSettings),
		),
	)
}

func backKeyboard(callback string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("↩️ Назад", callback)),
	)
}

func clientsKeyboard(clients []*models.Client) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔍 Найти или добавить клиента", cbClientFind)),
	}
	for _, c := range clients {
		label := textutil.Truncate(c.Name, 40, "…")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 "+label, withID(cbClientCard, c.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", cbMainMenu)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func clientActionsKeyboard(clientID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Добавить заметку", withID(cbClientNote, clientID)),
			tgbotapi.NewInlineKeyboardButtonData("🔔 Создать напоминание", withID(cbClientReminder, clientID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Отправить визитку", withID(cbClientSendCard, clientID)),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить имя", withID(cbClientEdit, clientID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Удалить клиента", withID(cbClientDelete, clientID)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Назад к списку", cbMenuClients),
		),
	)
}

func newClientActionsKeyboard(clientID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, отправить визитку", withID(cbClientSendCard, clientID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Нет, добавить заметку", withID(cbClientNote, clientID)),
			tgbotapi.NewInlineKeyboardButtonData("🔔 Создать напоминание", withID(cbClientReminder, clientID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Пропустить", cbMenuClients),
		),
	)
}

func confirmDeleteKeyboard(clientID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Да, удалить", withID(cbClientDeleteYes, clientID)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Отмена", withID(cbClientCard, clientID)),
		),
	)
}

func businessCardKeyboard(clientID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Вернуться к карточке клиента", withID(cbClientCard, clientID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", cbMainMenu),
		),
	)
}

func templatesKeyboard(templates []*models.Template) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range templates {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 "+textutil.Truncate(t.Name, 40, "…"), withID(cbTemplateView, t.ID)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Новый шаблон", cbTemplateNew)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", cbMainMenu)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func templateKeyboard(templateID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Отключить", withID(cbTemplateOff, templateID)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Назад", cbMenuTemplates),
		),
	)
}

func reminderTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(models.ReminderTypeDisplay(models.ReminderCall), cbReminderType+models.ReminderCall),
			tgbotapi.NewInlineKeyboardButtonData(models.ReminderTypeDisplay(models.ReminderMeeting), cbReminderType+models.ReminderMeeting),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(models.ReminderTypeDisplay(models.ReminderMessage), cbReminderType+models.ReminderMessage),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("↩️ Отмена", cbMenuReminders)),
	)
}

func remindersKeyboard(reminders []*models.Reminder) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, r := range reminders {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ Выполнено №%d", i+1), withID(cbReminderDone, r.ID)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Новое напоминание", cbReminderNew)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", cbMainMenu)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить имя", cbSettingsName)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Экспорт клиентов (Excel)", cbSettingsExport)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", cbMainMenu)),
	)
}
