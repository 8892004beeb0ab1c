package service

import (
	"context"
	"io"
	"testing"

	"salesbot/internal/database"
	"salesbot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueManager(ctx context.Context, manager *models.Manager) error {
	args := m.Called(ctx, manager)
	return args.Error(0)
}

func (m *mockSyncWorker) EnqueueClient(ctx context.Context, client *models.Client, managerName string) error {
	args := m.Called(ctx, client, managerName)
	return args.Error(0)
}

func seedManager(t *testing.T, db *database.DB, telegramID int64) *models.Manager {
	t.Helper()
	m := &models.Manager{
		TelegramID: telegramID,
		FullName:   "Иван Петров",
		Industry:   models.IndustryAuto,
		Phone:      "+79991234567",
	}
	require.NoError(t, db.CreateManager(context.Background(), m))
	require.NoError(t, db.AcceptTerms(context.Background(), telegramID))
	got, err := db.GetManagerByTelegramID(context.Background(), telegramID)
	require.NoError(t, err)
	return got
}
