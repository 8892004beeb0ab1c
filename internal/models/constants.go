package models

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

// RegistrationStep шаг регистрации менеджера (1-5)
type RegistrationStep int

const (
	StepName     RegistrationStep = 1
	StepIndustry RegistrationStep = 2
	StepPhone    RegistrationStep = 3
	StepTerms    RegistrationStep = 4
	StepDone     RegistrationStep = 5
)

// Состояния диалога
const (
	StateWaitingName          = "waiting_for_name"
	StateWaitingIndustry      = "waiting_for_industry"
	StateWaitingIndustryOther = "waiting_for_industry_other"
	StateWaitingPhone         = "waiting_for_phone"
	StateWaitingTerms         = "waiting_for_terms"

	StateWaitingClientPhone = "waiting_for_client_phone"
	StateWaitingClientName  = "waiting_for_client_name"
	StateWaitingClientNote  = "waiting_for_client_note"
	StateWaitingClientEdit  = "waiting_for_client_edit"

	StateWaitingTemplateName    = "waiting_for_template_name"
	StateWaitingTemplateContent = "waiting_for_template_content"

	StateWaitingReminderType = "waiting_for_reminder_type"
	StateWaitingReminderDate = "waiting_for_reminder_date"
	StateWaitingReminderText = "waiting_for_reminder_text"

	StateWaitingProfileName = "waiting_for_profile_name"
)

// Сферы деятельности
const (
	IndustryAuto       = "auto"
	IndustryRealEstate = "real_estate"
	IndustryOther      = "other"
)

// IndustryDisplay возвращает отображаемое название сферы
func IndustryDisplay(industry, custom string) string {
	switch industry {
	case IndustryAuto:
		return "Автосалон"
	case IndustryRealEstate:
		return "Недвижимость"
	default:
		if custom != "" {
			return custom
		}
		return "Другое"
	}
}

const (
	ClientStatusNew = "new"
)

// Типы напоминаний
const (
	ReminderCall    = "call"
	ReminderMeeting = "meeting"
	ReminderMessage = "message"
)

// ReminderTypeDisplay возвращает отображаемое название типа напоминания
func ReminderTypeDisplay(t string) string {
	switch t {
	case ReminderCall:
		return "📞 Звонок"
	case ReminderMeeting:
		return "🤝 Встреча"
	case ReminderMessage:
		return "✉️ Сообщение"
	default:
		return t
	}
}

const (
	// DefaultRedisTTL время жизни состояния пользователя в Redis
	DefaultRedisTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultClientsLimit количество клиентов в выборке по умолчанию
	DefaultClientsLimit = 100

	// DefaultClientsPageSize количество клиентов в списке бота
	DefaultClientsPageSize = 10

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// ReminderCheckInterval период проверки напоминаний
	ReminderCheckInterval = 60 // секунды

	// DefaultTimezone часовой пояс по умолчанию
	DefaultTimezone = "Europe/Moscow"

	// MinNameLength минимальная длина имени
	MinNameLength = 2

	// MaxNameLength максимальная длина имени
	MaxNameLength = 100
)
