package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"salesbot/internal/api"
	"salesbot/internal/bot"
	"salesbot/internal/config"
	"salesbot/internal/database"
	"salesbot/internal/domain"
	"salesbot/internal/events"
	"salesbot/internal/google"
	"salesbot/internal/metrics"
	"salesbot/internal/models"
	"salesbot/internal/repository"
	"salesbot/internal/service"
	"salesbot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func runBot(parent context.Context) error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seeds, err := config.LoadTemplates(cfg.Templates.Path)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.Templates.Path).Msg("Ошибка загрузки шаблонов")
		return err
	}

	redisClient, stateService := initStateService(ctx, cfg, logger)
	defer func() { _ = repository.Close(redisClient) }()

	// Интерфейсы остаются nil, если Sheets не настроен
	var (
		syncWorker domain.SyncWorker
		sheets     api.SheetsChecker
	)
	if sheetsService := initGoogleSheets(ctx, cfg, logger); sheetsService != nil {
		sheetsWorker := worker.NewSheetsWorker(sheetsService, redisClient, worker.DefaultRetryPolicy(), logger)
		go sheetsWorker.Start(ctx)
		syncWorker = sheetsWorker
		sheets = sheetsService
	}

	eventBus := events.NewEventBus()
	subscribeAuditEvents(eventBus, logger)

	templateService := service.NewTemplateService(db, seeds, logger)
	registrationService := service.NewRegistrationService(db, templateService, eventBus, syncWorker, logger)
	clientService := service.NewClientService(db, eventBus, syncWorker, cfg.Location(), logger)
	reminderService := service.NewReminderService(db, eventBus, cfg.Location(), logger)

	botMetrics := bot.NewMetrics(prometheus.DefaultRegisterer)
	metrics.Register(prometheus.DefaultRegisterer)
	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	if cfg.Backup.Enabled {
		go database.NewBackupService(db, cfg.Backup, logger).Start(ctx)
	}

	var apiServer *api.HTTPServer
	if cfg.API.Enabled && cfg.API.HTTP.Enabled {
		apiServer = api.NewHTTPServer(&cfg.API, db, redisClient, sheets, prometheus.DefaultGatherer, logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	tgService := service.NewTelegramService(bot.NewBotWrapper(botAPI))
	telegramBot, err := bot.NewBot(
		tgService, cfg, stateService,
		registrationService, clientService, templateService, reminderService,
		db, db, eventBus, botMetrics, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	go telegramBot.RunReminders(ctx)

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)
	telegramBot.Stop()

	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("API server shutdown")
		}
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if !cfg.Google.Enabled() {
		logger.Info().Msg("Google Sheets не настроен, зеркалирование отключено")
		return nil
	}

	sheetsSvc, err := google.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.EnsureHeaders(ctx); err != nil {
		logger.Warn().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService) {
	ttl := time.Duration(models.DefaultRedisTTL) * time.Second

	redisClient := repository.NewRedisClient(cfg.Redis)
	if redisClient == nil {
		return nil, service.NewStateService(repository.NewMemoryStateRepository(ttl), logger)
	}
	if errPing := repository.Ping(ctx, redisClient); errPing != nil {
		logger.Warn().Err(errPing).Msg("Redis unavailable")
	}

	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemoryStateRepository(ttl)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewStateService(stateRepo, logger)
}

// subscribeAuditEvents пишет доменные события в лог
func subscribeAuditEvents(bus *events.EventBus, logger *zerolog.Logger) {
	l := logger.With().Str("component", "events").Logger()

	bus.Subscribe(events.EventClientCreated, func(ev *events.Event) error {
		var payload events.ClientEventPayload
		if err := ev.Decode(&payload); err != nil {
			l.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		l.Info().
			Int64("client_id", payload.ClientID).
			Int64("manager_id", payload.ManagerID).
			Msg("client created")
		return nil
	})

	bus.Subscribe(events.EventReminderCreated, func(ev *events.Event) error {
		var payload events.ReminderEventPayload
		if err := ev.Decode(&payload); err != nil {
			l.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		l.Info().
			Int64("reminder_id", payload.ReminderID).
			Int64("manager_id", payload.ManagerID).
			Time("due_date", payload.DueDate).
			Msg("reminder created")
		return nil
	})
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
