// users.go — регистрация пользователей и счётчики статистики.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
)

// UserService — сервис пользователей.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Register создаёт нового пользователя.
// Хранится только дайджест пароля, никогда plaintext.
// Дубликат email — ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" {
		return nil, NewMissingField("email")
	}
	if password == "" {
		return nil, NewMissingField("password")
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: HashPassword(password),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Уникальный индекс по email — единственный арбитр дубликатов:
		// предварительная проверка наличия дала бы гонку
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("ошибка регистрации пользователя: %w", err)
	}

	s.logger.Info("Пользователь зарегистрирован",
		slog.String("user_id", user.ID),
	)
	return user, nil
}

// Count возвращает количество зарегистрированных пользователей.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
