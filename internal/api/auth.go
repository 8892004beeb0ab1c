package api

import (
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strings"

	"salesbot/internal/config"
)

const (
	apiKeyHeaderDefault   = "x-api-key"
	apiExtraHeaderDefault = "x-api-extra"
	permReadStats         = "read:stats"
	permReadClients       = "read:clients"
	clientKeyUnknown      = "unknown"
)

var (
	errMissingHeaders   = errors.New("missing api key headers")
	errInvalidAPIKey    = errors.New("invalid api key")
	errInvalidExtra     = errors.New("invalid extra header")
	errPermissionDenied = errors.New("permission denied")
	errRateLimited      = errors.New("rate limit exceeded")
)

// HTTPAuth provides API-key auth and per-key rate limiting for HTTP endpoints.
type HTTPAuth struct {
	cfg     *config.APIConfig
	clients map[string]config.APIClientKey
	limiter *rateLimiter
}

func NewHTTPAuth(cfg *config.APIConfig) *HTTPAuth {
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m, limiter: newRateLimiter(cfg)}
}

// Wrap защищает /api/v1/*; служебные эндпоинты открыты
func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r); err != nil {
				statusCode := http.StatusUnauthorized
				if errors.Is(err, errPermissionDenied) {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
		}

		if !a.limiter.allow(a.clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, errRateLimited.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) headerNames() (apiKeyHeader, extraHeader string) {
	apiKeyHeader = strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if apiKeyHeader == "" {
		apiKeyHeader = apiKeyHeaderDefault
	}
	extraHeader = strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderExtra))
	if extraHeader == "" {
		extraHeader = apiExtraHeaderDefault
	}
	return apiKeyHeader, extraHeader
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	apiKeyHeader, extraHeader := a.headerNames()

	apiKey := strings.TrimSpace(r.Header.Get(apiKeyHeader))
	extra := strings.TrimSpace(r.Header.Get(extraHeader))
	if apiKey == "" || extra == "" {
		return errMissingHeaders
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return errInvalidAPIKey
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return errInvalidExtra
	}

	return checkPermissions(client, requiredPermission(r.URL.Path))
}

// checkPermissions пустой список разрешений означает полный доступ
func checkPermissions(client config.APIClientKey, required string) error {
	if required == "" || len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func requiredPermission(path string) string {
	switch {
	case path == "/api/v1/stats":
		return permReadStats
	case path == "/api/v1/managers", strings.HasPrefix(path, "/api/v1/managers/"):
		return permReadClients
	default:
		return ""
	}
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	apiKeyHeader, _ := a.headerNames()
	if apiKey := strings.TrimSpace(r.Header.Get(apiKeyHeader)); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return clientKeyUnknown
}
