package bot

import (
	"context"
	"testing"
	"time"

	"salesbot/internal/database"
	"salesbot/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLookupAndCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := env.registeredManager(t, testManagerID)
	userID := manager.TelegramID

	env.sendCallback(userID, cbMenuClients)
	assert.Equal(t, msgClientsEmpty, env.tg.lastText(userID))

	env.sendCallback(userID, cbClientFind)
	assert.Equal(t, models.StateWaitingClientPhone, env.currentStep(t, userID))

	env.sendText(userID, "12")
	assert.Equal(t, msgInvalidPhone, env.tg.lastText(userID))
	assert.Equal(t, models.StateWaitingClientPhone, env.currentStep(t, userID))

	env.sendText(userID, "8 (912) 345-67-89")
	assert.Equal(t, models.StateWaitingClientName, env.currentStep(t, userID))
	assert.Contains(t, env.tg.lastText(userID), "+7 (912) 345-67-89")

	env.sendText(userID, "Пётр")
	assert.Equal(t, "", env.currentStep(t, userID))
	assert.Contains(t, env.tg.lastText(userID), "Клиент *Пётр* добавлен")
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.ClientsCreated))

	client, err := env.db.GetClientByPhone(ctx, manager.ID, "+79123456789")
	require.NoError(t, err)
	assert.Equal(t, "Пётр", client.Name)
	assert.Equal(t, models.ClientStatusNew, client.Status)
	assert.NotNil(t, client.LastContact)

	// тот же номер открывает карточку
	env.sendText(userID, "+79123456789")
	assert.Contains(t, env.tg.lastText(userID), "👤 *Пётр*")
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.ClientsCreated))

	env.sendCallback(userID, cbMenuClients)
	assert.Contains(t, env.tg.lastText(userID), "Всего: 1")
}

func TestClientCardActions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := env.registeredManager(t, testManagerID)
	userID := manager.TelegramID

	client := &models.Client{ManagerID: manager.ID, Name: "Пётр", Phone: "+79123456789", Status: models.ClientStatusNew}
	require.NoError(t, env.db.CreateClient(ctx, client))
	id := client.ID

	t.Run("Note", func(t *testing.T) {
		env.sendCallback(userID, withID(cbClientNote, id))
		assert.Equal(t, models.StateWaitingClientNote, env.currentStep(t, userID))

		env.sendText(userID, "Интересуется кроссовером")
		assert.True(t, env.tg.sawText(userID, msgNoteSaved))
		assert.Contains(t, env.tg.lastText(userID), "Интересуется кроссовером")

		stored, err := env.db.GetClient(ctx, manager.ID, id)
		require.NoError(t, err)
		assert.Contains(t, stored.NotesText(), "Интересуется кроссовером")
	})

	t.Run("Rename", func(t *testing.T) {
		env.sendCallback(userID, withID(cbClientEdit, id))
		assert.Equal(t, models.StateWaitingClientEdit, env.currentStep(t, userID))

		env.sendText(userID, "Пётр Иванов")
		assert.Contains(t, env.tg.lastText(userID), "👤 *Пётр Иванов*")
	})

	t.Run("BusinessCardWithoutTemplates", func(t *testing.T) {
		env.sendCallback(userID, withID(cbClientSendCard, id))
		assert.Equal(t, msgNoTemplates, env.tg.lastText(userID))
	})

	t.Run("BusinessCard", func(t *testing.T) {
		_, err := env.bot.templates.Create(ctx, manager.ID, "Визитка", "Здравствуйте, {имя_клиента}! Я {ваше_имя} из {ваша_компания}.")
		require.NoError(t, err)

		env.sendCallback(userID, withID(cbClientSendCard, id))
		assert.Contains(t, env.tg.lastText(userID), "Здравствуйте, Пётр Иванов! Я Иван Петров из Автосалон.")
	})

	t.Run("Delete", func(t *testing.T) {
		reminder := &models.Reminder{
			ManagerID: manager.ID,
			ClientID:  &id,
			Type:      models.ReminderCall,
			Text:      "Перезвонить",
			DueDate:   time.Now().Add(time.Hour),
		}
		require.NoError(t, env.db.CreateReminder(ctx, reminder))

		env.sendCallback(userID, withID(cbClientDelete, id))
		assert.Contains(t, env.tg.lastText(userID), "Удалить клиента *Пётр Иванов*")

		env.sendCallback(userID, withID(cbClientDeleteYes, id))
		assert.True(t, env.tg.sawText(userID, msgClientDeleted))
		assert.Equal(t, msgClientsEmpty, env.tg.lastText(userID))

		_, err := env.db.GetClient(ctx, manager.ID, id)
		assert.ErrorIs(t, err, database.ErrNotFound)

		open, err := env.db.ListOpenReminders(ctx, manager.ID)
		require.NoError(t, err)
		assert.Empty(t, open)
	})

	t.Run("CardOfDeletedClient", func(t *testing.T) {
		env.sendCallback(userID, withID(cbClientCard, id))
		assert.Equal(t, "⚠️ Запись не найдена или уже удалена.", env.tg.lastText(userID))
	})
}

func TestClientLookup_PlainPhoneText(t *testing.T) {
	env := newTestEnv(t)
	manager := env.registeredManager(t, testManagerID)

	// номер без открытого диалога
	env.sendText(manager.TelegramID, "+7 912 345 67 89")
	assert.Equal(t, models.StateWaitingClientName, env.currentStep(t, manager.TelegramID))

	env.sendText(manager.TelegramID, "/cancel")
	assert.Equal(t, "", env.currentStep(t, manager.TelegramID))
	assert.Contains(t, env.tg.lastText(manager.TelegramID), "Главное меню")

	env.sendText(manager.TelegramID, "что-то непонятное")
	assert.Equal(t, msgUnknown, env.tg.lastText(manager.TelegramID))
}

func TestClientsOfAnotherManager(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registeredManager(t, testManagerID)
	other := env.registeredManager(t, testManagerID+1)

	client := &models.Client{ManagerID: owner.ID, Name: "Пётр", Phone: "+79123456789", Status: models.ClientStatusNew}
	require.NoError(t, env.db.CreateClient(ctx, client))

	env.sendCallback(other.TelegramID, withID(cbClientCard, client.ID))
	assert.Equal(t, "⚠️ Запись не найдена или уже удалена.", env.tg.lastText(other.TelegramID))

	env.sendCallback(other.TelegramID, withID(cbClientDeleteYes, client.ID))
	_, err := env.db.GetClient(ctx, owner.ID, client.ID)
	assert.NoError(t, err)
}

func TestReminderForAnotherManagersClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registeredManager(t, testManagerID)
	other := env.registeredManager(t, testManagerID+1)

	client := &models.Client{ManagerID: owner.ID, Name: "Пётр", Phone: "+79123456789", Status: models.ClientStatusNew}
	require.NoError(t, env.db.CreateClient(ctx, client))

	env.sendCallback(other.TelegramID, withID(cbClientReminder, client.ID))
	assert.Equal(t, "⚠️ Запись не найдена или уже удалена.", env.tg.lastText(other.TelegramID))
	assert.Equal(t, "", env.currentStep(t, other.TelegramID))

	// состояние с чужим client_id не даёт сохранить напоминание
	require.NoError(t, env.state.SetUserState(ctx, other.TelegramID, models.StateWaitingReminderType,
		map[string]interface{}{"client_id": client.ID}))
	env.sendCallback(other.TelegramID, cbReminderType+models.ReminderCall)
	env.sendText(other.TelegramID, "25.12.2030 15:30")
	env.sendText(other.TelegramID, "x")
	assert.Equal(t, "⚠️ Запись не найдена или уже удалена.", env.tg.lastText(other.TelegramID))

	count, err := env.db.CountOpenReminders(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	env.sendCallback(owner.TelegramID, withID(cbClientDeleteYes, client.ID))
	_, err = env.db.GetClient(ctx, owner.ID, client.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
