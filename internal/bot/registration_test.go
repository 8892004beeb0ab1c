package bot

import (
	"context"
	"testing"

	"salesbot/internal/database"
	"salesbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := testManagerID

	env.sendText(userID, "/start")
	assert.Equal(t, models.StateWaitingName, env.currentStep(t, userID))
	assert.Contains(t, env.tg.lastText(userID), "Шаг 1 из 4")

	env.sendText(userID, "и")
	assert.Equal(t, msgInvalidName, env.tg.lastText(userID))
	assert.Equal(t, models.StateWaitingName, env.currentStep(t, userID))

	env.sendText(userID, "  иван   петров ")
	assert.Equal(t, models.StateWaitingIndustry, env.currentStep(t, userID))
	assert.Contains(t, env.tg.lastText(userID), "Иван Петров")

	env.sendCallback(userID, cbIndustryPrefix+models.IndustryAuto)
	assert.Equal(t, models.StateWaitingPhone, env.currentStep(t, userID))
	assert.Equal(t, msgStepPhone, env.tg.lastText(userID))
	_, isReply := env.tg.lastMessage(userID).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	assert.True(t, isReply, "phone step must show the contact keyboard")

	// текст вместо контакта
	env.sendText(userID, "89991234567")
	assert.Equal(t, msgStepPhoneInvalid, env.tg.lastText(userID))
	assert.Equal(t, models.StateWaitingPhone, env.currentStep(t, userID))

	env.sendContact(userID, "+7 999 123-45-67", userID)
	assert.Equal(t, models.StateWaitingTerms, env.currentStep(t, userID))
	assert.Equal(t, msgStepTerms, env.tg.lastText(userID))

	manager, err := env.db.GetManagerByTelegramID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Иван Петров", manager.FullName)
	assert.Equal(t, "+79991234567", manager.Phone)
	assert.Equal(t, models.StepTerms, manager.RegistrationStep)
	assert.False(t, manager.RegistrationComplete)

	env.sendCallback(userID, cbTermsAccept)
	assert.Equal(t, "", env.currentStep(t, userID))
	assert.Contains(t, env.tg.lastText(userID), "Главное меню")
	assert.True(t, env.tg.sawText(userID, msgRegistered))

	manager, err = env.db.GetManagerByTelegramID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, manager.RegistrationComplete)
	assert.True(t, manager.TermsAccepted)
	assert.True(t, manager.IsActive)
	assert.Equal(t, models.StepDone, manager.RegistrationStep)
	assert.NotNil(t, manager.TermsAcceptedAt)

	templates, err := env.db.ListActiveTemplates(ctx, manager.ID)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Contains(t, templates[0].Content, "Иван Петров")

	assert.Contains(t, env.tg.lastText(testAdminID), "Новый менеджер")
	assert.Contains(t, env.tg.lastText(testAdminID), "+7 (999) 123-45-67")
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.RegistrationsComplete))

	// повторное нажатие не регистрирует второй раз
	env.sendCallback(userID, cbTermsAccept)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.RegistrationsComplete))
	assert.Len(t, env.tg.texts(testAdminID), 1)

	// /start зарегистрированного открывает меню
	env.sendText(userID, "/start")
	assert.Contains(t, env.tg.lastText(userID), "Главное меню")
}

func TestRegistrationFlow_CustomIndustry(t *testing.T) {
	env := newTestEnv(t)
	userID := testManagerID

	env.sendText(userID, "/start")
	env.sendText(userID, "Анна Смирнова")
	env.sendCallback(userID, cbIndustryPrefix+models.IndustryOther)
	assert.Equal(t, models.StateWaitingIndustryOther, env.currentStep(t, userID))

	env.sendText(userID, "x")
	assert.Equal(t, msgInvalidIndustry, env.tg.lastText(userID))

	env.sendText(userID, "Страхование")
	assert.Equal(t, models.StateWaitingPhone, env.currentStep(t, userID))

	env.sendContact(userID, "79991234567", 0)
	manager, err := env.db.GetManagerByTelegramID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, models.IndustryOther, manager.Industry)
	require.NotNil(t, manager.IndustryCustom)
	assert.Equal(t, "Страхование", *manager.IndustryCustom)
}

func TestRegistrationFlow_ForeignContact(t *testing.T) {
	env := newTestEnv(t)
	userID := testManagerID

	env.sendText(userID, "/start")
	env.sendText(userID, "Иван Петров")
	env.sendCallback(userID, cbIndustryPrefix+models.IndustryRealEstate)
	env.sendContact(userID, "+79991234567", 4242)

	assert.Equal(t, msgForeignContact, env.tg.lastText(userID))
	assert.Equal(t, models.StateWaitingPhone, env.currentStep(t, userID))

	_, err := env.db.GetManagerByTelegramID(context.Background(), userID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRegistrationFlow_TermsReject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := testManagerID

	env.sendText(userID, "/start")
	env.sendText(userID, "Иван Петров")
	env.sendCallback(userID, cbIndustryPrefix+models.IndustryAuto)
	env.sendContact(userID, "+79991234567", userID)
	env.sendCallback(userID, cbTermsReject)

	assert.Equal(t, msgTermsRejected, env.tg.lastText(userID))
	manager, err := env.db.GetManagerByTelegramID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StepTerms, manager.RegistrationStep)
	assert.False(t, manager.RegistrationComplete)

	// без регистрации меню недоступно
	env.sendCallback(userID, cbMenuClients)
	assert.Equal(t, msgNotRegistered, env.tg.lastText(userID))

	// /start возвращает к правилам
	env.sendText(userID, "/start")
	assert.Equal(t, msgStepTerms, env.tg.lastText(userID))
	assert.Equal(t, models.StateWaitingTerms, env.currentStep(t, userID))
	assert.Empty(t, env.tg.texts(testAdminID))
}

func TestRegistrationFlow_ExpiredDraft(t *testing.T) {
	env := newTestEnv(t)
	userID := testManagerID

	// кнопка сферы без активного диалога
	env.sendCallback(userID, cbIndustryPrefix+models.IndustryAuto)
	assert.Equal(t, msgRegistrationExpired, env.tg.lastText(userID))
}

func TestRegistrationFlow_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	env.sendText(testManagerID, "привет")
	assert.Equal(t, msgNotRegistered, env.tg.lastText(testManagerID))
}
