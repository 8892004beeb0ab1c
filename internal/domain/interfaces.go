package domain

import (
	"context"
	"time"

	"salesbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ManagerRepository interface {
	CreateManager(ctx context.Context, m *models.Manager) error
	GetManagerByTelegramID(ctx context.Context, telegramID int64) (*models.Manager, error)
	AcceptTerms(ctx context.Context, telegramID int64) error
	UpdateManagerName(ctx context.Context, telegramID int64, fullName string) error
}

type ClientRepository interface {
	GetClientByPhone(ctx context.Context, managerID int64, phone string) (*models.Client, error)
	GetClient(ctx context.Context, managerID, clientID int64) (*models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error
	ListClients(ctx context.Context, managerID int64, limit int) ([]*models.Client, error)
	CountClients(ctx context.Context, managerID int64) (int, error)
	TouchClient(ctx context.Context, clientID int64) error
	AppendClientNote(ctx context.Context, clientID int64, note string) error
	UpdateClientName(ctx context.Context, clientID int64, name string) error
	DeleteClient(ctx context.Context, managerID, clientID int64) error
}

type TemplateRepository interface {
	CreateTemplate(ctx context.Context, t *models.Template) error
	ListActiveTemplates(ctx context.Context, managerID int64) ([]*models.Template, error)
	GetTemplate(ctx context.Context, managerID, templateID int64) (*models.Template, error)
	FirstActiveTemplate(ctx context.Context, managerID int64) (*models.Template, error)
	DeactivateTemplate(ctx context.Context, managerID, templateID int64) error
}

type ReminderRepository interface {
	CreateReminder(ctx context.Context, r *models.Reminder) error
	GetClient(ctx context.Context, managerID, clientID int64) (*models.Client, error)
	ListOpenReminders(ctx context.Context, managerID int64) ([]*models.Reminder, error)
	MarkReminderDone(ctx context.Context, managerID, reminderID int64) error
	DueReminders(ctx context.Context, now time.Time) ([]*models.DueReminder, error)
	MarkReminderNotified(ctx context.Context, reminderID int64, at time.Time) error
	CountOpenReminders(ctx context.Context, managerID int64) (int, error)
}

type MessageRepository interface {
	GetLastMessageID(ctx context.Context, telegramID int64) (int, error)
	SaveLastMessageID(ctx context.Context, telegramID int64, messageID int) error
}

type Repository interface {
	ManagerRepository
	ClientRepository
	TemplateRepository
	ReminderRepository
	MessageRepository
	GetStats(ctx context.Context) (*models.Stats, error)
	Ping(ctx context.Context) error
}

type StatsProvider interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.UserState, error)
	SetState(ctx context.Context, state *models.UserState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.UserState, error)
	SetUserState(ctx context.Context, userID int64, step string, data map[string]interface{}) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type SheetsWriter interface {
	AppendManager(ctx context.Context, m *models.Manager) error
	AppendClient(ctx context.Context, c *models.Client, managerName string) error
	TestConnection(ctx context.Context) error
}

type SyncWorker interface {
	EnqueueManager(ctx context.Context, m *models.Manager) error
	EnqueueClient(ctx context.Context, c *models.Client, managerName string) error
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	DeleteMessage(chatID int64, messageID int) error
	SendDocument(chatID int64, fileName string, data []byte, caption string) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type RegistrationService interface {
	GetManager(ctx context.Context, telegramID int64) (*models.Manager, error)
	ValidateName(raw string) (string, error)
	ValidateIndustry(industry string) error
	ValidateCustomIndustry(raw string) (string, error)
	CompletePhoneStep(ctx context.Context, draft RegistrationDraft, contact *tgbotapi.Contact) (*models.Manager, error)
	AcceptTerms(ctx context.Context, telegramID int64) (*models.Manager, error)
	UpdateName(ctx context.Context, telegramID int64, raw string) (string, error)
}

// RegistrationDraft данные шагов 1-3, ещё не записанные в базу
type RegistrationDraft struct {
	TelegramID     int64
	FullName       string
	Industry       string
	IndustryCustom string
}

type ClientService interface {
	FindByPhone(ctx context.Context, manager *models.Manager, rawPhone string) (*models.Client, string, error)
	Create(ctx context.Context, manager *models.Manager, phone, rawName string) (*models.Client, error)
	Get(ctx context.Context, managerID, clientID int64) (*models.Client, error)
	List(ctx context.Context, managerID int64, limit int) ([]*models.Client, error)
	Count(ctx context.Context, managerID int64) (int, error)
	AddNote(ctx context.Context, managerID, clientID int64, note string) error
	Rename(ctx context.Context, managerID, clientID int64, rawName string) (*models.Client, error)
	Delete(ctx context.Context, managerID, clientID int64) error
}

type TemplateService interface {
	List(ctx context.Context, managerID int64) ([]*models.Template, error)
	Get(ctx context.Context, managerID, templateID int64) (*models.Template, error)
	Create(ctx context.Context, managerID int64, name, content string) (*models.Template, error)
	Deactivate(ctx context.Context, managerID, templateID int64) error
	CreateDefaults(ctx context.Context, manager *models.Manager) error
	BusinessCard(ctx context.Context, manager *models.Manager, client *models.Client) (string, error)
}

type ReminderService interface {
	ParseDueDate(raw string) (time.Time, error)
	Create(ctx context.Context, r *models.Reminder) error
	ListOpen(ctx context.Context, managerID int64) ([]*models.Reminder, error)
	Done(ctx context.Context, managerID, reminderID int64) error
	Due(ctx context.Context, now time.Time) ([]*models.DueReminder, error)
	MarkNotified(ctx context.Context, reminderID int64, at time.Time) error
}
