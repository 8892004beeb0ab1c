package bot

// Тексты бота. Все они уходят с ParseMode Markdown, пользовательские
// значения подставляются через textutil.EscapeMarkdown.
const (
	msgStepName = "👋 *Добро пожаловать в помощник менеджера по продажам!*\n\n" +
		"Шаг 1 из 4. Как вас зовут? Введите имя и фамилию."
	msgInvalidName = "⚠️ Пожалуйста, введите корректное имя (от 2 до 100 символов)."

	msgStepIndustry = "Приятно познакомиться, *%s*!\n\n" +
		"Шаг 2 из 4. Выберите сферу деятельности:"
	msgStepIndustryOther   = "Шаг 2 из 4. Напишите, в какой сфере вы работаете:"
	msgInvalidIndustry     = "⚠️ Пожалуйста, введите корректное название сферы деятельности."
	msgStepPhone           = "Шаг 3 из 4. Поделитесь номером телефона кнопкой ниже 👇"
	msgStepPhoneInvalid    = "⚠️ Нужно нажать кнопку «📱 Поделиться номером телефона», ввод текста не подходит."
	msgForeignContact      = "⚠️ Отправьте, пожалуйста, свой собственный контакт."
	msgPhoneNotRecognized  = "⚠️ Не удалось обработать номер телефона. Попробуйте ещё раз."
	msgRegistrationExpired = "⚠️ Данные регистрации устарели. Начните заново: /start"

	msgStepTerms = "Шаг 4 из 4. *Правила использования*\n\n" +
		"1. Бот хранит ваши данные и данные ваших клиентов только для работы с ними.\n" +
		"2. Вы добавляете клиентов с их согласия на обработку контактов.\n" +
		"3. Рассылка спама через бота запрещена.\n\n" +
		"Принимаете правила?"
	msgTermsRejected = "Без принятия правил бот недоступен. Если передумаете, отправьте /start."
	msgRegistered    = "🎉 Регистрация завершена!"

	msgMainMenu = "🏠 *Главное меню*\n\n%s, выберите раздел:"

	msgClientsList    = "👥 *Мои клиенты*\n\nВсего: %d. Последние по дате контакта:"
	msgClientsEmpty   = "👥 *Мои клиенты*\n\nКлиентов пока нет. Найдите или добавьте первого по номеру телефона."
	msgAskPhone       = "📞 Введите номер телефона клиента:"
	msgInvalidPhone   = "⚠️ Некорректный номер телефона. Пример: +7 999 123-45-67"
	msgClientNotFound = "Клиент с номером %s не найден.\n\nВведите имя клиента, чтобы добавить его:"
	msgInvalidClient  = "⚠️ Имя клиента должно быть от 2 до 100 символов."
	msgClientCreated  = "✅ Клиент *%s* добавлен.\n\nОтправить ему визитку?"
	msgClientCard     = "👤 *%s*\n📞 %s\n📌 Статус: %s\n🕒 Последний контакт: %s\n\n📝 Заметки:\n%s"
	msgAskNote        = "📝 Введите заметку о клиенте:"
	msgNoteSaved      = "✅ Заметка сохранена."
	msgAskClientName  = "✏️ Введите новое имя клиента:"
	msgConfirmDelete  = "🗑️ Удалить клиента *%s* вместе с его напоминаниями?"
	msgClientDeleted  = "✅ Клиент удалён."
	msgBusinessCard   = "📨 *Визитка для клиента*\n\nСкопируйте текст и отправьте клиенту:\n\n%s"
	msgNoTemplates    = "⚠️ Нет активных шаблонов. Создайте шаблон в разделе «Шаблоны сообщений»."

	msgTemplatesList   = "📋 *Шаблоны сообщений*\n\nПеременные: {имя\\_клиента}, {ваше\\_имя}, {ваша\\_компания}"
	msgTemplateView    = "📄 *%s*\n\n%s"
	msgAskTemplateName = "Введите название нового шаблона:"
	msgAskTemplateText = "Введите текст шаблона. Можно использовать {имя\\_клиента}, {ваше\\_имя}, {ваша\\_компания}."
	msgTemplateSaved   = "✅ Шаблон *%s* сохранён."
	msgTemplateOff     = "✅ Шаблон отключён."

	msgRemindersList   = "🔔 *Мои напоминания*\n\n%s"
	msgRemindersEmpty  = "🔔 *Мои напоминания*\n\nОткрытых напоминаний нет."
	msgAskReminderType = "🔔 Выберите тип напоминания:"
	msgAskReminderDate = "📅 Введите дату и время в формате ДД.ММ.ГГГГ ЧЧ:ММ (например, 25.12.2030 15:30):"
	msgAskReminderText = "✍️ Введите текст напоминания:"
	msgReminderSaved   = "✅ Напоминание на %s создано."
	msgReminderDone    = "✅ Напоминание выполнено."
	msgReminderDue     = "🔔 *Напоминание*\n\n%s\n%s\n\n%s"

	msgProfile = "⚙️ *Настройки профиля*\n\n" +
		"👤 Имя: %s\n🏢 Сфера: %s\n📞 Телефон: %s\n📅 Регистрация: %s"
	msgAskProfileName = "✏️ Введите новое имя:"
	msgNameUpdated    = "✅ Имя обновлено: *%s*"
	msgExportEmpty    = "Клиентов для экспорта нет."
	msgExportCaption  = "📊 Клиенты на %s"

	msgNotRegistered = "Сначала пройдите регистрацию: /start"
	msgUnknown       = "Не понял команду. Откройте меню: /start"
	msgRateLimited   = "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного."

	msgAdminRegistered = "🆕 *Новый менеджер*\n\n👤 %s\n🏢 %s\n📞 %s\n🆔 %d"
	msgAdminStats      = "📊 *Статистика*\n\n" +
		"Менеджеров: %d (зарегистрировано %d)\nКлиентов: %d\nОткрытых напоминаний: %d"
)
