package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config представляет конфигурацию приложения. Структура содержит вложенные структуры для различных компонентов приложения.
type Config struct {
	Server      ServerConfig    `json:"server" yaml:"server"`
	Logger      LoggerConfig    `json:"logger" yaml:"logger"`
	Environment string          `json:"environment" yaml:"environment"`
	Metrics     MetricsConfig   `json:"metrics" yaml:"metrics"`
	Health      HealthConfig    `json:"health" yaml:"health"`
	Generator   GeneratorConfig `json:"generator" yaml:"generator"`
	Cache       CacheConfig     `json:"cache" yaml:"cache"`
	WebSocket   WebSocketConfig `json:"websocket" yaml:"websocket"`
	RateLimit   RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
}

// ServerConfig представляет конфигурацию сервера. Содержит настройки хоста и порта для HTTP-сервера.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// LoggerConfig представляет конфигурацию логгера. Определяет уровень логирования и формат вывода логов.
type LoggerConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// MetricsConfig представляет конфигурацию метрик
type MetricsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// HealthConfig представляет конфигурацию health check эндпоинтов
type HealthConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// GeneratorConfig представляет конфигурацию генератора паролей
type GeneratorConfig struct {
	MinLength     int `json:"min_length" yaml:"min_length"`
	MaxLength     int `json:"max_length" yaml:"max_length"`
	DefaultLength int `json:"default_length" yaml:"default_length"`
}

// CacheConfig представляет конфигурацию кеша аналитики
type CacheConfig struct {
	AnalyticsTTLSeconds int `json:"analytics_ttl_seconds" yaml:"analytics_ttl_seconds"`
}

// WebSocketConfig представляет конфигурацию websocket канала
type WebSocketConfig struct {
	ReadBufferSize  int `json:"read_buffer_size" yaml:"read_buffer_size"`
	WriteBufferSize int `json:"write_buffer_size" yaml:"write_buffer_size"`
	SendQueueSize   int `json:"send_queue_size" yaml:"send_queue_size"`
}

// RateLimitConfig представляет конфигурацию ограничения частоты запросов
type RateLimitConfig struct {
	Enabled           bool `json:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute" yaml:"requests_per_minute"`
}

// LoadConfig загружает конфигурацию в следующем порядке приоритета:
// 1. Загрузка значений по умолчанию
// 2. Загрузка из файла (если указан)
// 3. Переопределение значениями из переменных окружения
// 4. Валидация конфигурации
// Возвращает готовую конфигурацию или ошибку.
func LoadConfig(configFile string) (*Config, error) {
	// Initialize config with default values
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		Environment: "dev",
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Health: HealthConfig{
			Enabled: true,
		},
		Generator: GeneratorConfig{
			MinLength:     1,
			MaxLength:     128,
			DefaultLength: 12,
		},
		Cache: CacheConfig{
			AnalyticsTTLSeconds: 60,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			SendQueueSize:   16,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
		},
	}

	// Load from file if specified
	if configFile != "" {
		if err := loadConfigFromFile(config, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Load from environment variables
	if err := loadConfigFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadConfigFromFile(config *Config, filename string) error {
	// Expand environment variables in the file path
	filename = os.ExpandEnv(filename)

	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	// Read file content
	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	// Try to unmarshal as YAML first, then JSON
	if err := yaml.Unmarshal(content, config); err != nil {
		// If YAML fails, try JSON
		if jsonErr := json.Unmarshal(content, config); jsonErr != nil {
			return fmt.Errorf("failed to unmarshal config file as YAML or JSON: %w", err)
		}
	}

	return nil
}

func loadConfigFromEnv(config *Config) error {
	// Server config
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &config.Server.Port); err != nil {
			return fmt.Errorf("invalid SERVER_PORT: %s", port)
		}
	}

	// Logger config
	if level := os.Getenv("LOGGER_LEVEL"); level != "" {
		config.Logger.Level = level
	}
	if format := os.Getenv("LOGGER_FORMAT"); format != "" {
		config.Logger.Format = format
	}

	// Environment
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Environment = env
	}

	// Generator config
	if maxLength := os.Getenv("GENERATOR_MAX_LENGTH"); maxLength != "" {
		if _, err := fmt.Sscanf(maxLength, "%d", &config.Generator.MaxLength); err != nil {
			return fmt.Errorf("invalid GENERATOR_MAX_LENGTH: %s", maxLength)
		}
	}

	// Cache config
	if ttl := os.Getenv("CACHE_ANALYTICS_TTL_SECONDS"); ttl != "" {
		if _, err := fmt.Sscanf(ttl, "%d", &config.Cache.AnalyticsTTLSeconds); err != nil {
			return fmt.Errorf("invalid CACHE_ANALYTICS_TTL_SECONDS: %s", ttl)
		}
	}

	// Rate limit config
	if rpm := os.Getenv("RATE_LIMIT_REQUESTS_PER_MINUTE"); rpm != "" {
		if _, err := fmt.Sscanf(rpm, "%d", &config.RateLimit.RequestsPerMinute); err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_REQUESTS_PER_MINUTE: %s", rpm)
		}
	}

	return nil
}

func validateConfig(config *Config) error {
	// Проверка корректности окружения. Поддерживаются только: dev, staging, prod
	switch config.Environment {
	case "dev", "staging", "prod":
		// Valid environment
	default:
		return fmt.Errorf("invalid environment: %s, must be one of: dev, staging, prod", config.Environment)
	}

	// Валидация конфигурации сервера
	// Проверяем, что хост не пустой и порт в допустимом диапазоне (1-65535)
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	// Валидация конфигурации логгера
	// Проверяем, что уровень и формат логирования заданы
	if config.Logger.Level == "" {
		return fmt.Errorf("logger.level is required")
	}
	if config.Logger.Format == "" {
		return fmt.Errorf("logger.format is required")
	}

	// Валидация конфигурации генератора
	// Границы длины пароля должны образовывать непустой диапазон
	if config.Generator.MinLength < 1 {
		return fmt.Errorf("generator.min_length must be at least 1")
	}
	if config.Generator.MaxLength < config.Generator.MinLength {
		return fmt.Errorf("generator.max_length must not be less than generator.min_length")
	}
	if config.Generator.DefaultLength < config.Generator.MinLength || config.Generator.DefaultLength > config.Generator.MaxLength {
		return fmt.Errorf("generator.default_length must be within [min_length, max_length]")
	}

	// Валидация конфигурации кеша
	if config.Cache.AnalyticsTTLSeconds <= 0 {
		return fmt.Errorf("cache.analytics_ttl_seconds must be positive")
	}

	// Валидация конфигурации websocket
	if config.WebSocket.SendQueueSize <= 0 {
		return fmt.Errorf("websocket.send_queue_size must be positive")
	}

	// Валидация конфигурации rate limit
	if config.RateLimit.Enabled && config.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive when rate limiting is enabled")
	}

	return nil
}

// Save сохраняет конфигурацию в файл в формате YAML.
// Автоматически создает директорию, если она не существует.
func (c *Config) Save(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Marshal to YAML
	content, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(filename, content, 0644)
}
