// Пакет cache — обёртка над Redis (go-redis).
// Эфемерное key-value хранилище ядра: сессионные токены с TTL.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bigkaa/gofilehub/internal/config"
)

// Client — подключение к Redis.
type Client struct {
	rdb *redis.Client
}

// Connect создаёт клиент Redis и проверяет доступность через ping.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	logger.Info("Подключение к Redis установлено",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	return &Client{rdb: rdb}, nil
}

// Ping проверяет доступность Redis.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close закрывает подключение.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ReadinessChecker — проверка готовности Redis для health endpoints.
// Реализует интерфейс handlers.ReadinessChecker.
type ReadinessChecker struct {
	client *Client
}

// NewReadinessChecker создаёт проверку готовности Redis.
func NewReadinessChecker(client *Client) *ReadinessChecker {
	return &ReadinessChecker{client: client}
}

// CheckReady проверяет подключение к Redis через ping.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx); err != nil {
		return "fail", fmt.Sprintf("Redis недоступен: %v", err)
	}
	return "ok", "подключение активно"
}
