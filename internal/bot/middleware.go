package bot

import (
	"context"
	"time"

	"salesbot/internal/logging"
)

func (b *Bot) withRecovery(ctx context.Context, handler func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.PanicsTotal.Inc()
			}
			logging.FromContext(ctx, b.logger).Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// allowUpdate проверяет ограничение частоты сообщений пользователя.
// Ошибка хранилища не блокирует пользователя.
func (b *Bot) allowUpdate(ctx context.Context, userID int64) bool {
	if b.config.Admin.ID != 0 && userID == b.config.Admin.ID {
		return true
	}

	allowed, err := b.stateService.CheckRateLimit(ctx, userID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
	if err != nil {
		logging.FromContext(ctx, b.logger).Error().Err(err).Msg("Rate limit check failed")
		return true
	}
	if !allowed {
		logging.FromContext(ctx, b.logger).Warn().Msg("Rate limit exceeded")
		if b.metrics != nil {
			b.metrics.RateLimited.Inc()
		}
	}
	return allowed
}
