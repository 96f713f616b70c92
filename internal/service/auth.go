// Пакет service — бизнес-логика FileHub.
// auth.go — аутентификация: обмен учётных данных на сессионный токен,
// разрешение токена в пользователя, отзыв сессии.
package service

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bigkaa/gofilehub/internal/cache"
	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
)

// SessionStore — хранилище сессионных токенов.
// Реализуется cache.SessionStore (Redis).
type SessionStore interface {
	// Store записывает соответствие token → userID с TTL.
	Store(ctx context.Context, token, userID string) error
	// Lookup возвращает userID или cache.ErrNoSession.
	Lookup(ctx context.Context, token string) (string, error)
	// Delete удаляет сессию; cache.ErrNoSession, если её не было.
	Delete(ctx context.Context, token string) error
}

// AuthService — сервис аутентификации.
type AuthService struct {
	users    repository.UserRepository
	sessions SessionStore
	logger   *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, sessions SessionStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Authenticate обменивает Basic-заголовок на сессионный токен.
// Формат заголовка: "Basic base64(email:password)".
// Любая проблема с учётными данными — ErrUnauthorized, без уточнений.
func (s *AuthService) Authenticate(ctx context.Context, authHeader string) (string, error) {
	email, password, err := parseBasicCredentials(authHeader)
	if err != nil {
		return "", ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	if HashPassword(password) != user.PasswordHash {
		return "", ErrUnauthorized
	}

	token := uuid.New().String()
	if err := s.sessions.Store(ctx, token, user.ID); err != nil {
		return "", fmt.Errorf("ошибка создания сессии: %w", err)
	}

	s.logger.Info("Сессия создана",
		slog.String("user_id", user.ID),
	)
	return token, nil
}

// ResolveSession возвращает userID по токену.
// Отсутствующий или истёкший токен — ErrUnauthorized.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNoSession) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("ошибка разрешения сессии: %w", err)
	}
	return userID, nil
}

// ResolveUser возвращает пользователя по токену.
// Сессия без существующего пользователя также даёт ErrUnauthorized.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("ошибка получения пользователя сессии: %w", err)
	}
	return user, nil
}

// Revoke немедленно завершает сессию (logout).
// ErrUnauthorized, если токена не существует.
func (s *AuthService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		if errors.Is(err, cache.ErrNoSession) {
			return ErrUnauthorized
		}
		return fmt.Errorf("ошибка отзыва сессии: %w", err)
	}
	return nil
}

// parseBasicCredentials разбирает заголовок "Basic base64(email:password)".
func parseBasicCredentials(header string) (email, password string, err error) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", errors.New("не Basic-заголовок")
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", fmt.Errorf("ошибка декодирования base64: %w", err)
	}

	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" || password == "" {
		return "", "", errors.New("некорректный формат email:password")
	}
	return email, password, nil
}

// HashPassword возвращает односторонний дайджест пароля (SHA-1 hex).
// Ядро трактует дайджест как непрозрачное значение.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
