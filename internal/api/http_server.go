package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"salesbot/internal/config"
	"salesbot/internal/database"
	"salesbot/internal/metrics"
	"salesbot/internal/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	readyTimeout    = 3 * time.Second
	maxClientsLimit = 1000
	requestIDHeader = "X-Request-ID"
)

// SheetsChecker проверка доступности Google Sheets для /readyz
type SheetsChecker interface {
	TestConnection(ctx context.Context) error
}

// HTTPServer служебные эндпоинты и read-only API поверх базы бота.
type HTTPServer struct {
	cfg    *config.APIConfig
	db     *database.DB
	redis  *redis.Client
	sheets SheetsChecker
	server *http.Server
	auth   *HTTPAuth
	logger zerolog.Logger
}

// NewHTTPServer redisClient и sheets могут быть nil
func NewHTTPServer(
	cfg *config.APIConfig,
	db *database.DB,
	redisClient *redis.Client,
	sheets SheetsChecker,
	gatherer prometheus.Gatherer,
	logger *zerolog.Logger,
) *HTTPServer {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "http").Logger()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	srv := &HTTPServer{
		cfg:    cfg,
		db:     db,
		redis:  redisClient,
		sheets: sheets,
		auth:   NewHTTPAuth(cfg),
		logger: base,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/readyz", srv.handleReadyz)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/v1/stats", srv.handleStats)
	mux.HandleFunc("/api/v1/managers", srv.handleManagers)
	mux.HandleFunc("/api/v1/managers/{telegram_id}/clients", srv.handleManagerClients)

	handler := srv.loggingMiddleware(corsMiddleware(srv.auth.Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return errors.New("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler корневой обработчик со всеми middleware
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]string{}
	ready := true
	check := func(name string, err error) {
		if err != nil {
			ready = false
			checks[name] = err.Error()
			s.logger.Warn().Err(err).Str("check", name).Msg("readiness check failed")
			return
		}
		checks[name] = "ok"
	}

	check("database", s.db.Ping(ctx))
	if s.redis != nil {
		check("redis", s.redis.Ping(ctx).Err())
	}
	if s.sheets != nil {
		check("google_sheets", s.sheets.TestConnection(ctx))
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.db.GetStats(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type managersResponse struct {
	Managers []*models.Manager `json:"managers"`
	Total    int               `json:"total"`
}

func (s *HTTPServer) handleManagers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	managers, err := s.db.ListManagers(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list managers")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if managers == nil {
		managers = []*models.Manager{}
	}
	writeJSON(w, http.StatusOK, managersResponse{Managers: managers, Total: len(managers)})
}

type managerClientsResponse struct {
	Manager *models.Manager  `json:"manager"`
	Clients []*models.Client `json:"clients"`
	Total   int              `json:"total"`
}

func (s *HTTPServer) handleManagerClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	telegramID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("telegram_id")), 10, 64)
	if err != nil || telegramID <= 0 {
		writeError(w, http.StatusBadRequest, "telegram_id must be a positive integer")
		return
	}

	limit := models.DefaultClientsLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxClientsLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxClientsLimit))
			return
		}
	}

	manager, err := s.db.GetManagerByTelegramID(r.Context(), telegramID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "manager not found")
			return
		}
		s.logger.Error().Err(err).Int64("telegram_id", telegramID).Msg("load manager")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	clients, err := s.db.ListClients(r.Context(), manager.ID, limit)
	if err != nil {
		s.logger.Error().Err(err).Int64("manager_id", manager.ID).Msg("list clients")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	total, err := s.db.CountClients(r.Context(), manager.ID)
	if err != nil {
		total = len(clients)
	}
	if clients == nil {
		clients = []*models.Client{}
	}

	writeJSON(w, http.StatusOK, managerClientsResponse{Manager: manager, Clients: clients, Total: total})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-API-Extra, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		// Pattern заполняет ServeMux после маршрутизации
		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "other"
		}
		metrics.IncHTTP(endpoint, recorder.status)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
