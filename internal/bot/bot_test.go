package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"salesbot/internal/database"
	"salesbot/internal/models"
	"salesbot/internal/phone"
	"salesbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewBot_RequiresDependencies(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewBot(nil, env.cfg, env.state, env.bot.registration, env.bot.clients,
		env.bot.templates, env.bot.reminders, env.db, env.db, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewBot(env.tg, env.cfg, env.state, nil, env.bot.clients,
		env.bot.templates, env.bot.reminders, env.db, env.db, nil, nil, nil)
	assert.Error(t, err)
}

func TestSendScreen_ReplacesPreviousMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chatID := testManagerID

	env.bot.sendScreen(ctx, chatID, "first", nil)
	assert.Empty(t, env.tg.deleted)

	first, err := env.db.GetLastMessageID(ctx, chatID)
	require.NoError(t, err)
	assert.NotZero(t, first)

	env.bot.sendScreen(ctx, chatID, "second", backKeyboard(cbMainMenu))
	assert.Equal(t, []int{first}, env.tg.deleted)

	second, err := env.db.GetLastMessageID(ctx, chatID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// короткий ответ не меняет экран
	env.bot.reply(ctx, chatID, "ok")
	last, err := env.db.GetLastMessageID(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, second, last)
}

func TestSendScreen_SendFailureKeepsLastMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.bot.sendScreen(ctx, testManagerID, "first", nil)
	first, err := env.db.GetLastMessageID(ctx, testManagerID)
	require.NoError(t, err)

	env.tg.sendErr = errSendFailed
	env.bot.sendScreen(ctx, testManagerID, "second", nil)

	last, err := env.db.GetLastMessageID(ctx, testManagerID)
	require.NoError(t, err)
	assert.Equal(t, first, last)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Bot.RateLimitMessages = 2

	env.sendText(testManagerID, "/start")
	env.sendText(testManagerID, "Иван Петров")
	env.sendText(testManagerID, "ещё")

	assert.Equal(t, msgRateLimited, env.tg.lastText(testManagerID))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.RateLimited))
	assert.Equal(t, float64(2), testutil.ToFloat64(env.metrics.UpdatesProcessed.WithLabelValues("message")))

	// администратор не ограничен
	for i := 0; i < 5; i++ {
		env.sendText(testAdminID, "/stats")
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.RateLimited))
}

func TestWithRecovery(t *testing.T) {
	env := newTestEnv(t)

	assert.NotPanics(t, func() {
		env.bot.withRecovery(context.Background(), func() { panic("boom") })
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.PanicsTotal))
}

func TestProcessUpdate_IgnoresUpdatesWithoutUser(t *testing.T) {
	env := newTestEnv(t)

	env.bot.processUpdate(context.Background(), tgbotapi.Update{UpdateID: 1})
	assert.Empty(t, env.tg.sent)
}

func TestStatsCommand(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := env.registeredManager(t, testManagerID)
	// второй менеджер не принял правила
	require.NoError(t, env.db.CreateManager(ctx, &models.Manager{
		TelegramID: testManagerID + 1,
		FullName:   "Анна Смирнова",
		Industry:   models.IndustryRealEstate,
		Phone:      "+79991234568",
	}))

	env.sendText(manager.TelegramID, "/stats")
	assert.Equal(t, msgUnknown, env.tg.lastText(manager.TelegramID))

	env.sendText(testAdminID, "/stats@salesbot_test")
	assert.Equal(t, fmt.Sprintf(msgAdminStats, 2, 1, 0, 0), env.tg.lastText(testAdminID))

	env.cfg.Admin.ID = 0
	env.sendText(testAdminID, "/stats")
	assert.Equal(t, msgUnknown, env.tg.lastText(testAdminID))
}

func TestStart_ProcessesUpdatesUntilCancel(t *testing.T) {
	env := newTestEnv(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.bot.Start(ctx)
		close(done)
	}()

	env.tg.updates <- tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: testManagerID},
		Chat: &tgbotapi.Chat{ID: testManagerID},
		Text: "/start",
	}}

	assert.Eventually(t, func() bool {
		return env.tg.lastText(testManagerID) == msgStepName
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	env.bot.Stop()
}

func TestParseID(t *testing.T) {
	tests := []struct {
		data   string
		prefix string
		want   int64
		ok     bool
	}{
		{"client_card:42", cbClientCard, 42, true},
		{"client_card:", cbClientCard, 0, false},
		{"client_card:-1", cbClientCard, 0, false},
		{"client_card:abc", cbClientCard, 0, false},
		{"client_note:42", cbClientCard, 0, false},
		{withID(cbReminderDone, 7), cbReminderDone, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			id, ok := parseID(tt.data, tt.prefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestCallbackPrefixesDoNotOverlap(t *testing.T) {
	// client_delete_yes: проверяется раньше client_delete:
	_, ok := parseID(withID(cbClientDeleteYes, 5), cbClientDelete)
	assert.False(t, ok)
}

func TestIsCommand(t *testing.T) {
	assert.True(t, isCommand("/start", "/start"))
	assert.True(t, isCommand("/start@salesbot payload", "/start"))
	assert.False(t, isCommand("/starting", "/start"))
	assert.False(t, isCommand("start", "/start"))
	assert.False(t, isCommand("", "/start"))
}

func TestGetErrorMessage(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		err        error
		want       string
		unexpected bool
	}{
		{service.ErrInvalidName, msgInvalidName, false},
		{fmt.Errorf("wrap: %w", phone.ErrInvalidPhone), msgInvalidPhone, false},
		{service.ErrForeignContact, msgForeignContact, false},
		{database.ErrNotFound, "⚠️ Запись не найдена или уже удалена.", false},
		{database.ErrAlreadyExists, "⚠️ Клиент с таким номером уже есть.", false},
		{errors.New("disk is full"), "❌ Произошла ошибка при обработке запроса. Пожалуйста, попробуйте позже.", true},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, env.bot.getErrorMessage(tt.err))
			assert.Equal(t, tt.unexpected, isUnexpected(tt.err))
		})
	}
	assert.Empty(t, env.bot.getErrorMessage(nil))
}

func TestReplyError_CountsUnexpected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.bot.replyError(ctx, testManagerID, service.ErrInvalidName)
	assert.Equal(t, float64(0), testutil.ToFloat64(env.metrics.ErrorsTotal))

	env.bot.replyError(ctx, testManagerID, errors.New("boom"))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.ErrorsTotal))
}
