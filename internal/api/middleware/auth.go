// auth.go — middleware аутентификации по сессионному токену.
// Токен передаётся в заголовке X-Token и разрешается в пользователя
// через Redis-сессию. Разрешённый пользователь помещается в контекст
// запроса для downstream handlers.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/service"
)

// TokenHeader — заголовок сессионного токена.
const TokenHeader = "X-Token"

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// contextKeyUser — аутентифицированный пользователь в контексте запроса.
const contextKeyUser contextKey = "auth_user"

// UserResolver — разрешение токена в пользователя.
// Реализуется service.AuthService.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth возвращает middleware, требующий валидный X-Token.
// Запрос без токена либо с неизвестным токеном отклоняется с 401.
func RequireAuth(resolver UserResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.ResolveUser(r.Context(), r.Header.Get(TokenHeader))
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					apierrors.Unauthorized(w, "Unauthorized")
					return
				}
				logger.Error("Ошибка разрешения сессии",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				apierrors.InternalError(w, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth возвращает middleware, разрешающий токен при его наличии.
// Отсутствующий или невалидный токен не отклоняет запрос: handler
// видит анонимного запрашивающего. Используется на выдаче содержимого,
// где публичные файлы доступны без аутентификации.
func OptionalAuth(resolver UserResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.ResolveUser(r.Context(), r.Header.Get(TokenHeader))
			if err != nil {
				if !errors.Is(err, service.ErrUnauthorized) {
					logger.Error("Ошибка разрешения сессии",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext извлекает аутентифицированного пользователя из контекста.
// Возвращает (nil, false) для анонимного запроса.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(contextKeyUser).(*model.User)
	return user, ok
}
