// auth.go — обработчики аутентификации: обмен учётных данных на токен
// и завершение сессии.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/gofilehub/internal/api/middleware"
	"github.com/bigkaa/gofilehub/internal/service"
)

// AuthHandler — обработчик endpoints аутентификации.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler создаёт обработчик аутентификации.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// tokenResponse — ответ с созданным сессионным токеном.
type tokenResponse struct {
	Token string `json:"token"`
}

// GetConnect — GET /connect.
// Обменивает заголовок Authorization (Basic) на сессионный токен.
func (h *AuthHandler) GetConnect(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GetDisconnect — GET /disconnect.
// Немедленно завершает сессию по X-Token.
func (h *AuthHandler) GetDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Revoke(r.Context(), r.Header.Get(middleware.TokenHeader)); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
