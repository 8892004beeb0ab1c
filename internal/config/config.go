package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"salesbot/internal/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Google     GoogleConfig     `yaml:"google"`
	Bot        BotConfig        `yaml:"bot"`
	Admin      AdminConfig      `yaml:"admin"`
	Templates  TemplatesConfig  `yaml:"templates"`
	Exports    ExportConfig     `yaml:"exports"`
	Timezone   string           `yaml:"timezone"`
}

// envOverrides переменные окружения, которые перекрывают YAML
type envOverrides struct {
	BotToken string `envconfig:"BOT_TOKEN"`
	DBPath   string `envconfig:"DB_PATH"`
	AdminID  int64  `envconfig:"ADMIN_ID"`
	Timezone string `envconfig:"TIMEZONE"`
}

type BotConfig struct {
	ClientsPageSize   int `yaml:"clients_page_size"`
	ReminderInterval  int `yaml:"reminder_interval"`
	RateLimitMessages int `yaml:"rate_limit_messages"`
	RateLimitWindow   int `yaml:"rate_limit_window"`
}

type AdminConfig struct {
	ID int64 `yaml:"id"`
}

type TemplatesConfig struct {
	Path string `yaml:"path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
	HealthCheckPort   int  `yaml:"health_check_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

// Enabled зеркалирование в Google Sheets включено только при полной настройке
func (g GoogleConfig) Enabled() bool {
	return g.CredentialsFile != "" && g.SpreadsheetID != ""
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("process env: %w", err)
	}

	if env.BotToken != "" {
		c.Telegram.BotToken = env.BotToken
	}
	if env.DBPath != "" {
		c.Database.Path = env.DBPath
	}
	if env.AdminID != 0 {
		c.Admin.ID = env.AdminID
	}
	if env.Timezone != "" {
		c.Timezone = env.Timezone
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	if c.Bot.ClientsPageSize < 0 || c.Bot.ReminderInterval < 0 {
		return errors.New("bot limits must not be negative")
	}

	return nil
}

// Location часовой пояс отображения дат
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReminderInterval период проверки напоминаний
func (c *Config) ReminderInterval() time.Duration {
	return time.Duration(c.Bot.ReminderInterval) * time.Second
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "salesbot"
	}
	if c.Timezone == "" {
		c.Timezone = models.DefaultTimezone
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// auth enabled by default when API is enabled
	if !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}
	if c.Templates.Path == "" {
		c.Templates.Path = "configs/templates.yaml"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	// Bot defaults
	if c.Bot.ClientsPageSize == 0 {
		c.Bot.ClientsPageSize = models.DefaultClientsPageSize
	}
	if c.Bot.ReminderInterval == 0 {
		c.Bot.ReminderInterval = models.ReminderCheckInterval
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
}
