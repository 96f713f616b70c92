package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Префикс ключей сессий в Redis: auth_<token> → userID.
const sessionKeyPrefix = "auth_"

// ErrNoSession — сессия не найдена (токен отсутствует или истёк).
var ErrNoSession = errors.New("сессия не найдена")

// SessionStore — хранилище сессионных токенов в Redis.
// Токены живут ttl и исчезают сами; удаление ключа — немедленный logout.
// Сессии не переживают рестарт Redis — это ожидаемое поведение.
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

// NewSessionStore создаёт хранилище сессий с указанным TTL токена.
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// sessionKey возвращает ключ Redis для токена.
func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Store записывает соответствие token → userID с TTL.
func (s *SessionStore) Store(ctx context.Context, token, userID string) error {
	if err := s.client.rdb.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи сессии: %w", err)
	}
	return nil
}

// Lookup возвращает userID по токену или ErrNoSession,
// если ключ отсутствует или истёк.
func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.rdb.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	return userID, nil
}

// Delete удаляет сессию. Возвращает ErrNoSession, если ключа не было.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	deleted, err := s.client.rdb.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	if deleted == 0 {
		return ErrNoSession
	}
	return nil
}
