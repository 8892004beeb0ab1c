package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"salesbot/internal/config"
	"salesbot/internal/database"
	"salesbot/internal/domain"
	"salesbot/internal/events"
	"salesbot/internal/models"
	"salesbot/internal/repository"
	"salesbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testAdminID   int64 = 999
	testManagerID int64 = 1001
)

// fakeTelegram записывает все исходящие сообщения
type fakeTelegram struct {
	domain.TelegramService

	mu        sync.Mutex
	nextID    int
	sent      []tgbotapi.Chattable
	deleted   []int
	documents map[string][]byte
	sendErr   error
	updates   chan tgbotapi.Update
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{
		documents: make(map[string][]byte),
		updates:   make(chan tgbotapi.Update, 10),
	}
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeTelegram) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return f.Send(tgbotapi.NewMessage(chatID, text))
}

func (f *fakeTelegram) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	return f.Send(msg)
}

func (f *fakeTelegram) SendDocument(chatID int64, fileName string, data []byte, caption string) (tgbotapi.Message, error) {
	f.mu.Lock()
	f.documents[fileName] = data
	f.mu.Unlock()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = caption
	return f.Send(doc)
}

func (f *fakeTelegram) DeleteMessage(_ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTelegram) AnswerCallback(string, string) error { return nil }

func (f *fakeTelegram) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeTelegram) GetSelf() tgbotapi.User { return tgbotapi.User{UserName: "salesbot_test"} }

func (f *fakeTelegram) StopReceivingUpdates() {}

// texts тексты сообщений в чат chatID по порядку
func (f *fakeTelegram) texts(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeTelegram) lastText(chatID int64) string {
	texts := f.texts(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeTelegram) lastMessage(chatID int64) tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.sent) - 1; i >= 0; i-- {
		if msg, ok := f.sent[i].(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			return msg
		}
	}
	return tgbotapi.MessageConfig{}
}

func (f *fakeTelegram) sawText(chatID int64, substr string) bool {
	for _, text := range f.texts(chatID) {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

type testEnv struct {
	bot     *Bot
	tg      *fakeTelegram
	db      *database.DB
	state   *service.StateService
	metrics *Metrics
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Timezone: "UTC",
		Admin:    config.AdminConfig{ID: testAdminID},
		Bot: config.BotConfig{
			ClientsPageSize:   models.DefaultClientsPageSize,
			ReminderInterval:  models.ReminderCheckInterval,
			RateLimitMessages: 100,
			RateLimitWindow:   models.RateLimitWindow,
		},
	}

	bus := events.NewEventBus()
	state := service.NewStateService(repository.NewMemoryStateRepository(time.Hour), &logger)
	templates := service.NewTemplateService(db, nil, &logger)
	registration := service.NewRegistrationService(db, templates, bus, nil, &logger)
	clients := service.NewClientService(db, bus, nil, time.UTC, &logger)
	reminders := service.NewReminderService(db, bus, time.UTC, &logger)
	metrics := NewMetrics(prometheus.NewRegistry())
	tg := newFakeTelegram()

	b, err := NewBot(tg, cfg, state, registration, clients, templates, reminders, db, db, bus, metrics, &logger)
	require.NoError(t, err)

	return &testEnv{bot: b, tg: tg, db: db, state: state, metrics: metrics, cfg: cfg}
}

func (e *testEnv) sendText(userID int64, text string) {
	e.bot.processUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	})
}

func (e *testEnv) sendContact(userID int64, phoneNumber string, contactUserID int64) {
	e.bot.processUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			From:    &tgbotapi.User{ID: userID},
			Chat:    &tgbotapi.Chat{ID: userID},
			Contact: &tgbotapi.Contact{PhoneNumber: phoneNumber, FirstName: "Иван", UserID: contactUserID},
		},
	})
}

func (e *testEnv) sendCallback(userID int64, data string) {
	e.bot.processUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: userID}},
			Data:    data,
		},
	})
}

func (e *testEnv) currentStep(t *testing.T, userID int64) string {
	t.Helper()
	state, err := e.state.GetUserState(context.Background(), userID)
	require.NoError(t, err)
	if state == nil {
		return ""
	}
	return state.CurrentStep
}

// registeredManager менеджер, завершивший регистрацию
func (e *testEnv) registeredManager(t *testing.T, telegramID int64) *models.Manager {
	t.Helper()
	ctx := context.Background()

	m := &models.Manager{
		TelegramID: telegramID,
		FullName:   "Иван Петров",
		Industry:   models.IndustryAuto,
		Phone:      "+79991234567",
	}
	require.NoError(t, e.db.CreateManager(ctx, m))
	require.NoError(t, e.db.AcceptTerms(ctx, telegramID))

	m, err := e.db.GetManagerByTelegramID(ctx, telegramID)
	require.NoError(t, err)
	return m
}

var errSendFailed = errors.New("telegram unavailable")
