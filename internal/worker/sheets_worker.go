package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salesbot/internal/domain"
	"salesbot/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TaskManager = "manager"
	TaskClient  = "client"

	queueSize = 128
)

var (
	ErrQueueFull   = errors.New("sheets queue is full")
	errInvalidTask = errors.New("invalid sync task")
)

// SyncTask строка для добавления в таблицу
type SyncTask struct {
	Type        string          `json:"type"`
	Manager     *models.Manager `json:"manager,omitempty"`
	Client      *models.Client  `json:"client,omitempty"`
	ManagerName string          `json:"manager_name,omitempty"`
	Attempt     int             `json:"attempt"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SheetsWorker отправляет новых менеджеров и клиентов в Google Sheets.
// Очередь в Redis, если он настроен, иначе в памяти процесса.
type SheetsWorker struct {
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan SyncTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	logger        *zerolog.Logger
}

func NewSheetsWorker(sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	def := DefaultRetryPolicy()
	if retry.MaxRetries == 0 {
		retry.MaxRetries = def.MaxRetries
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = def.InitialDelay
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = def.MaxDelay
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = def.BackoffFactor
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &SheetsWorker{
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan SyncTask, queueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		pollInterval:  time.Second,
		logger:        logger,
	}
}

func (w *SheetsWorker) enabled() bool {
	return w != nil && w.sheets != nil
}

func (w *SheetsWorker) EnqueueManager(ctx context.Context, m *models.Manager) error {
	if !w.enabled() {
		return nil
	}
	if m == nil {
		return errors.New("manager is required")
	}
	return w.enqueue(ctx, SyncTask{Type: TaskManager, Manager: m, CreatedAt: time.Now()})
}

func (w *SheetsWorker) EnqueueClient(ctx context.Context, c *models.Client, managerName string) error {
	if !w.enabled() {
		return nil
	}
	if c == nil {
		return errors.New("client is required")
	}
	return w.enqueue(ctx, SyncTask{Type: TaskClient, Client: c, ManagerName: managerName, CreatedAt: time.Now()})
}

func (w *SheetsWorker) enqueue(ctx context.Context, task SyncTask) error {
	if w.redis != nil {
		if err := w.pushRedis(ctx, w.redisQueueKey, task); err != nil {
			w.logger.Warn().Err(err).Msg("sheets_worker: redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		w.logger.Error().Str("type", task.Type).Msg("sheets_worker: in-memory queue full, task dropped")
		return ErrQueueFull
	}
}

// Start обрабатывает очередь до отмены ctx
func (w *SheetsWorker) Start(ctx context.Context) {
	if !w.enabled() {
		return
	}
	w.logger.Info().Msg("sheets_worker: started")
	defer w.logger.Info().Msg("sheets_worker: stopped")

	for {
		if w.redis == nil {
			select {
			case <-ctx.Done():
				return
			case t := <-w.queue:
				w.processTask(ctx, &t)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case t := <-w.queue:
			w.processTask(ctx, &t)
			continue
		default:
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
		}
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (SyncTask, bool) {
	res, err := w.redis.BRPop(ctx, w.pollInterval, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return SyncTask{}, false
		}
		w.logger.Warn().Err(err).Msg("sheets_worker: redis BRPOP error")
		// не крутим цикл вхолостую, пока Redis недоступен
		select {
		case <-ctx.Done():
		case <-time.After(w.pollInterval):
		}
		return SyncTask{}, false
	}
	if len(res) != 2 {
		return SyncTask{}, false
	}

	var task SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("sheets_worker: decode redis task")
		return SyncTask{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task *SyncTask) {
	for {
		err := w.handleTask(ctx, task)
		if err == nil {
			return
		}

		task.Attempt++
		if errors.Is(err, errInvalidTask) || task.Attempt >= w.retryPolicy.MaxRetries {
			w.logger.Error().Err(err).Str("type", task.Type).Int("attempts", task.Attempt).
				Msg("sheets_worker: task failed, giving up")
			w.pushDeadLetter(ctx, task)
			return
		}

		delay := w.retryPolicy.NextDelay(task.Attempt)
		w.logger.Warn().Err(err).Str("type", task.Type).Int("attempt", task.Attempt).
			Dur("delay", delay).Msg("sheets_worker: retry scheduled")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (w *SheetsWorker) handleTask(ctx context.Context, task *SyncTask) error {
	switch task.Type {
	case TaskManager:
		if task.Manager == nil {
			return fmt.Errorf("%w: manager payload missing", errInvalidTask)
		}
		return w.sheets.AppendManager(ctx, task.Manager)
	case TaskClient:
		if task.Client == nil {
			return fmt.Errorf("%w: client payload missing", errInvalidTask)
		}
		return w.sheets.AppendClient(ctx, task.Client, task.ManagerName)
	default:
		return fmt.Errorf("%w: unknown type %s", errInvalidTask, task.Type)
	}
}

func (w *SheetsWorker) pushRedis(ctx context.Context, key string, task SyncTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, key, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task *SyncTask) {
	if w.redis == nil {
		return
	}
	if err := w.pushRedis(ctx, w.deadLetterKey, *task); err != nil {
		w.logger.Error().Err(err).Msg("sheets_worker: deadletter push failed")
	}
}
