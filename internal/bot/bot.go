package bot

import (
	"context"
	"errors"
	"os"
	"time"

	"salesbot/internal/config"
	"salesbot/internal/domain"
	"salesbot/internal/events"
	"salesbot/internal/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const updateTimeout = 30 * time.Second

type Bot struct {
	tgService    domain.TelegramService
	config       *config.Config
	stateService domain.StateManager
	registration domain.RegistrationService
	clients      domain.ClientService
	templates    domain.TemplateService
	reminders    domain.ReminderService
	messages     domain.MessageRepository
	stats        domain.StatsProvider
	eventBus     *events.EventBus
	metrics      *Metrics
	loc          *time.Location
	now          func() time.Time
	logger       *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	stateService domain.StateManager,
	registration domain.RegistrationService,
	clients domain.ClientService,
	templates domain.TemplateService,
	reminders domain.ReminderService,
	messages domain.MessageRepository,
	stats domain.StatsProvider,
	eventBus *events.EventBus,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if tgService == nil || config == nil || stateService == nil || messages == nil {
		return nil, errors.New("bot: telegram service, config, state and message store are required")
	}
	if registration == nil || clients == nil || templates == nil || reminders == nil {
		return nil, errors.New("bot: services are required")
	}

	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	b := &Bot{
		tgService:    tgService,
		config:       config,
		stateService: stateService,
		registration: registration,
		clients:      clients,
		templates:    templates,
		reminders:    reminders,
		messages:     messages,
		stats:        stats,
		eventBus:     eventBus,
		metrics:      metrics,
		loc:          config.Location(),
		now:          time.Now,
		logger:       logger,
	}
	b.subscribeEvents()
	return b, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop прекращает long polling
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	userID, chatID := updateUser(update)
	if userID == 0 {
		return
	}

	// Создаем контекст для обработки каждого обновления
	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()
	updateCtx, _ = logging.WithRequest(updateCtx, b.logger, userID)

	b.withRecovery(updateCtx, func() {
		if !b.allowUpdate(updateCtx, userID) {
			if update.Message != nil {
				b.reply(updateCtx, chatID, msgRateLimited)
			} else if update.CallbackQuery != nil {
				_ = b.tgService.AnswerCallback(update.CallbackQuery.ID, "")
			}
			return
		}

		switch {
		case update.CallbackQuery != nil:
			b.countUpdate("callback")
			b.handleCallbackQuery(updateCtx, update.CallbackQuery)
		case update.Message != nil:
			b.countUpdate("message")
			b.handleMessage(updateCtx, update.Message)
		}
	})
}

func (b *Bot) countUpdate(kind string) {
	if b.metrics != nil {
		b.metrics.UpdatesProcessed.WithLabelValues(kind).Inc()
	}
}
