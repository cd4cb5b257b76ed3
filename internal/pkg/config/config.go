// Package config предоставляет управление конфигурацией приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию сервера
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodySizeKB   int           `json:"max_body_size_kb" yaml:"max_body_size_kb"`
}

// Reply содержит параметры модели ответа
type Reply struct {
	// QuoteLengthMax — максимальная длина автоматической цитаты в кодовых единицах UTF-16.
	QuoteLengthMax int `json:"quote_length_max" yaml:"quote_length_max"`
	// SessionCount — количество активных сессий аккаунта.
	SessionCount int  `json:"session_count" yaml:"session_count"`
	IsBot        bool `json:"is_bot" yaml:"is_bot"`
}

// Cache содержит конфигурацию хранилищ
type Cache struct {
	SnapshotTTL      time.Duration `json:"snapshot_ttl" yaml:"snapshot_ttl"`
	CleanupInterval  time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
	ForwardIndexSize int           `json:"forward_index_size" yaml:"forward_index_size"`
}

// Events содержит конфигурацию публикации событий. Пустой AMQPURL отключает публикацию.
type Events struct {
	AMQPURL  string `json:"amqp_url" yaml:"amqp_url"`
	Exchange string `json:"exchange" yaml:"exchange"`
}

// Metrics содержит конфигурацию метрик
type Metrics struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// Config содержит конфигурацию приложения
type Config struct {
	Server  Server  `json:"server" yaml:"server"`
	Reply   Reply   `json:"reply" yaml:"reply"`
	Cache   Cache   `json:"cache" yaml:"cache"`
	Events  Events  `json:"events" yaml:"events"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`
	Logging Logging `json:"logging" yaml:"logging"`
}

func defaultConfig() *Config {
	return &Config{
		Server: Server{
			Host:            DefaultServerHost,
			Port:            DefaultServerPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodySizeKB:   DefaultMaxBodySizeKB,
		},
		Reply: Reply{
			QuoteLengthMax: DefaultQuoteLengthMax,
			SessionCount:   DefaultSessionCount,
		},
		Cache: Cache{
			SnapshotTTL:      DefaultSnapshotTTL,
			CleanupInterval:  DefaultCleanupInterval,
			ForwardIndexSize: DefaultForwardIndexSize,
		},
		Events: Events{
			Exchange: DefaultEventsExchange,
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем config.yml,
// затем переменные окружения (в том числе из .env файла).
func LoadConfig(path string) (*Config, error) {
	// .env необязателен, переменные окружения могут быть заданы напрямую
	_ = godotenv.Load()

	if path == "" {
		path = getEnv("CONFIG_PATH", "config.yml")
	}

	cfg := defaultConfig()
	if err := loadFromYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}

// loadFromYAML накладывает значения из YAML-файла на cfg. Отсутствие файла не является ошибкой.
func loadFromYAML(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// applyEnv переопределяет значения переменными окружения
func applyEnv(cfg *Config) error {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Events.AMQPURL = getEnv("AMQP_URL", cfg.Events.AMQPURL)
	cfg.Events.Exchange = getEnv("AMQP_EXCHANGE", cfg.Events.Exchange)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	ints := []struct {
		key string
		dst *int
	}{
		{"SERVER_PORT", &cfg.Server.Port},
		{"QUOTE_LENGTH_MAX", &cfg.Reply.QuoteLengthMax},
		{"SESSION_COUNT", &cfg.Reply.SessionCount},
		{"FORWARD_INDEX_SIZE", &cfg.Cache.ForwardIndexSize},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", v.key, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv("SNAPSHOT_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid SNAPSHOT_TTL: %w", err)
		}
		cfg.Cache.SnapshotTTL = d
	}
	return nil
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number (1-65535)")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Server.MaxBodySizeKB <= 0 {
		return fmt.Errorf("server.max_body_size_kb must be positive")
	}

	if c.Reply.QuoteLengthMax <= 0 {
		return fmt.Errorf("reply.quote_length_max must be positive")
	}
	if c.Reply.SessionCount <= 0 {
		return fmt.Errorf("reply.session_count must be positive")
	}

	if c.Cache.SnapshotTTL <= 0 {
		return fmt.Errorf("cache.snapshot_ttl must be positive")
	}
	if c.Cache.CleanupInterval <= 0 {
		return fmt.Errorf("cache.cleanup_interval must be positive")
	}
	if c.Cache.ForwardIndexSize <= 0 {
		return fmt.Errorf("cache.forward_index_size must be positive")
	}

	if c.Events.AMQPURL != "" && c.Events.Exchange == "" {
		return fmt.Errorf("events.exchange must be set when events.amqp_url is set")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
