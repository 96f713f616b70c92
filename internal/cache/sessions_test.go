package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/gofilehub/internal/config"
)

// setupTestRedis запускает Redis контейнер и возвращает подключённый клиент.
func setupTestRedis(t *testing.T) *Client {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Не удалось запустить Redis контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	cfg := &config.Config{RedisAddr: host + ":" + port.Port()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() ошибка: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestSessionStore_StoreLookupDelete(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	store := NewSessionStore(client, time.Hour)

	if err := store.Store(ctx, "token-1", "user-1"); err != nil {
		t.Fatalf("Store() ошибка: %v", err)
	}

	userID, err := store.Lookup(ctx, "token-1")
	if err != nil {
		t.Fatalf("Lookup() ошибка: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Lookup() = %q, ожидалось user-1", userID)
	}

	if err := store.Delete(ctx, "token-1"); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	if _, err := store.Lookup(ctx, "token-1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup() после Delete: ошибка %v, ожидалась ErrNoSession", err)
	}
	if err := store.Delete(ctx, "token-1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("повторный Delete(): ошибка %v, ожидалась ErrNoSession", err)
	}
}

func TestSessionStore_UnknownToken(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client, time.Hour)

	if _, err := store.Lookup(context.Background(), "no-such-token"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup(неизвестный): ошибка %v, ожидалась ErrNoSession", err)
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	store := NewSessionStore(client, 500*time.Millisecond)

	if err := store.Store(ctx, "short-token", "user-1"); err != nil {
		t.Fatalf("Store() ошибка: %v", err)
	}
	time.Sleep(time.Second)

	if _, err := store.Lookup(ctx, "short-token"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup() после TTL: ошибка %v, ожидалась ErrNoSession", err)
	}
}
