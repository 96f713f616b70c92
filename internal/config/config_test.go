package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// clearAllFHEnvVars очищает все переменные окружения FH_* для чистого теста
// и возвращает функцию восстановления.
func clearAllFHEnvVars(t *testing.T) func() {
	t.Helper()
	keys := []string{
		"FH_PORT", "FH_LOG_LEVEL", "FH_LOG_FORMAT",
		"FH_DB_HOST", "FH_DB_PORT", "FH_DB_NAME", "FH_DB_USER",
		"FH_DB_PASSWORD", "FH_DB_SSL_MODE",
		"FH_REDIS_ADDR", "FH_REDIS_PASSWORD", "FH_REDIS_DB",
		"FH_AMQP_URL", "FH_AMQP_QUEUE",
		"FH_STORAGE_DIR", "FH_SESSION_TTL",
		"FH_CACHE_SIZE", "FH_CACHE_TTL", "FH_SHUTDOWN_TIMEOUT",
	}
	originals := make(map[string]string)
	origSet := make(map[string]bool)
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			originals[k] = v
			origSet[k] = true
		}
		os.Unsetenv(k)
	}
	return func() {
		for _, k := range keys {
			if origSet[k] {
				os.Setenv(k, originals[k])
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

// setRequiredEnvVars устанавливает минимальный набор обязательных переменных.
func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	os.Setenv("FH_DB_HOST", "localhost")
	os.Setenv("FH_DB_NAME", "filehub")
	os.Setenv("FH_DB_USER", "filehub")
	os.Setenv("FH_DB_PASSWORD", "secret")
}

func TestLoad_DefaultValues(t *testing.T) {
	cleanup := clearAllFHEnvVars(t)
	defer cleanup()
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() ошибка: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидалось 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидался info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидался json", cfg.LogFormat)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, ожидалось 5432", cfg.DBPort)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, ожидался localhost:6379", cfg.RedisAddr)
	}
	if cfg.AMQPQueue != "filehub.thumbnails" {
		t.Errorf("AMQPQueue = %q, ожидался filehub.thumbnails", cfg.AMQPQueue)
	}
	if cfg.StorageDir != "/tmp/filehub" {
		t.Errorf("StorageDir = %q, ожидался /tmp/filehub", cfg.StorageDir)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, ожидалось 24h", cfg.SessionTTL)
	}
	if cfg.CacheSize != 1024 {
		t.Errorf("CacheSize = %d, ожидалось 1024", cfg.CacheSize)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, ожидалось 5m", cfg.CacheTTL)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидалось 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	cleanup := clearAllFHEnvVars(t)
	defer cleanup()

	// Все обязательные переменные отсутствуют
	if _, err := Load(); err == nil {
		t.Fatal("ожидалась ошибка при отсутствии FH_DB_HOST")
	}

	// Частично заданы
	os.Setenv("FH_DB_HOST", "localhost")
	os.Setenv("FH_DB_NAME", "filehub")
	if _, err := Load(); err == nil {
		t.Fatal("ожидалась ошибка при отсутствии FH_DB_USER")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"некорректный порт", "FH_PORT", "not-a-number"},
		{"порт вне диапазона", "FH_PORT", "99999"},
		{"некорректный уровень логов", "FH_LOG_LEVEL", "verbose"},
		{"некорректный формат логов", "FH_LOG_FORMAT", "xml"},
		{"некорректный SSL-режим", "FH_DB_SSL_MODE", "maybe"},
		{"некорректный TTL сессии", "FH_SESSION_TTL", "25 часов"},
		{"отрицательный TTL сессии", "FH_SESSION_TTL", "-1h"},
		{"нулевой размер кэша", "FH_CACHE_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := clearAllFHEnvVars(t)
			defer cleanup()
			setRequiredEnvVars(t)
			os.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("ожидалась ошибка для %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.example.com",
		DBPort:     5433,
		DBName:     "filehub",
		DBUser:     "app",
		DBPassword: "secret",
		DBSSLMode:  "require",
	}

	want := "host=db.example.com port=5433 dbname=filehub user=app password=secret sslmode=require"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, ожидалось %q", got, want)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLogLevel(%q): ожидалась ошибка", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLogLevel(%q): неожиданная ошибка %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, ожидалось %v", tt.in, got, tt.want)
		}
	}
}
