// users.go — обработчики пользователей: регистрация и текущий пользователь.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
	"github.com/bigkaa/gofilehub/internal/service"
)

// UserHandler — обработчик endpoints пользователей.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler создаёт обработчик пользователей.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// registerRequest — тело запроса регистрации.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse — публичное представление пользователя.
// Дайджест пароля никогда не покидает сервис.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// PostUsers — POST /users. Регистрирует нового пользователя.
func (h *UserHandler) PostUsers(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		apierrors.ValidationError(w, "Invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// GetMe — GET /users/me. Возвращает пользователя текущей сессии.
// Маршрут защищён RequireAuth: пользователь уже в контексте.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}
