// Пакет config — загрузка и валидация конфигурации FileHub
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации FileHub.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Redis ---

	// Адрес Redis (host:port)
	RedisAddr string
	// Пароль Redis (опционально)
	RedisPassword string
	// Номер базы Redis
	RedisDB int

	// --- RabbitMQ (очередь миниатюр) ---

	// URL подключения к RabbitMQ (amqp://...). Пустой — очередь отключена,
	// задачи миниатюр логируются и отбрасываются.
	AMQPURL string
	// Имя очереди задач миниатюр
	AMQPQueue string

	// --- Хранилище файлов ---

	// Корневая директория физического хранения содержимого файлов
	StorageDir string

	// --- Сессии и кэш ---

	// Время жизни сессионного токена
	SessionTTL time.Duration
	// Максимальный размер LRU-кэша метаданных файлов
	CacheSize int
	// TTL записи LRU-кэша метаданных
	CacheTTL time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// FH_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("FH_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("FH_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("FH_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// FH_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FH_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FH_LOG_LEVEL: %w", err)
	}

	// FH_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FH_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FH_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// FH_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("FH_DB_HOST")
	if err != nil {
		return nil, err
	}

	// FH_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("FH_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("FH_DB_PORT: %w", err)
	}

	// FH_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("FH_DB_NAME")
	if err != nil {
		return nil, err
	}

	// FH_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("FH_DB_USER")
	if err != nil {
		return nil, err
	}

	// FH_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("FH_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// FH_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("FH_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("FH_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Redis ---

	// FH_REDIS_ADDR — адрес Redis (по умолчанию localhost:6379)
	cfg.RedisAddr = getEnvDefault("FH_REDIS_ADDR", "localhost:6379")

	// FH_REDIS_PASSWORD — пароль Redis (опционально)
	cfg.RedisPassword = getEnvDefault("FH_REDIS_PASSWORD", "")

	// FH_REDIS_DB — номер базы Redis (по умолчанию 0)
	cfg.RedisDB, err = getEnvInt("FH_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("FH_REDIS_DB: %w", err)
	}

	// --- RabbitMQ ---

	// FH_AMQP_URL — URL RabbitMQ (опционально)
	cfg.AMQPURL = getEnvDefault("FH_AMQP_URL", "")

	// FH_AMQP_QUEUE — имя очереди миниатюр (по умолчанию filehub.thumbnails)
	cfg.AMQPQueue = getEnvDefault("FH_AMQP_QUEUE", "filehub.thumbnails")

	// --- Хранилище ---

	// FH_STORAGE_DIR — директория хранения файлов (по умолчанию /tmp/filehub)
	cfg.StorageDir = getEnvDefault("FH_STORAGE_DIR", "/tmp/filehub")

	// --- Сессии и кэш ---

	// FH_SESSION_TTL — время жизни токена (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvDuration("FH_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FH_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("FH_SESSION_TTL: значение должно быть положительным")
	}

	// FH_CACHE_SIZE — размер LRU-кэша метаданных (по умолчанию 1024)
	cfg.CacheSize, err = getEnvInt("FH_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("FH_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("FH_CACHE_SIZE: значение %d должно быть не меньше 1", cfg.CacheSize)
	}

	// FH_CACHE_TTL — TTL записи кэша (по умолчанию 5m)
	cfg.CacheTTL, err = getEnvDuration("FH_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FH_CACHE_TTL: %w", err)
	}

	// --- Graceful shutdown ---

	// FH_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("FH_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FH_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
