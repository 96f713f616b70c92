// app.go — сервисные endpoints приложения: статус зависимостей
// и счётчики сущностей.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/gofilehub/internal/service"
)

// AppHandler — обработчик /status и /stats.
type AppHandler struct {
	dbChecker    ReadinessChecker
	redisChecker ReadinessChecker
	users        *service.UserService
	files        *service.FileService
	logger       *slog.Logger
}

// NewAppHandler создаёт обработчик сервисных endpoints.
func NewAppHandler(
	dbChecker, redisChecker ReadinessChecker,
	users *service.UserService,
	files *service.FileService,
	logger *slog.Logger,
) *AppHandler {
	return &AppHandler{
		dbChecker:    dbChecker,
		redisChecker: redisChecker,
		users:        users,
		files:        files,
		logger:       logger.With(slog.String("component", "app_handler")),
	}
}

// statusResponse — доступность зависимостей хранения.
type statusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// statsResponse — счётчики сущностей.
type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// GetStatus — GET /status. Короткий ответ о доступности БД и Redis.
func (h *AppHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{}
	if h.dbChecker != nil {
		status, _ := h.dbChecker.CheckReady()
		resp.DB = status == "ok"
	}
	if h.redisChecker != nil {
		status, _ := h.redisChecker.CheckReady()
		resp.Redis = status == "ok"
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetStats — GET /stats. Количество пользователей и файлов.
func (h *AppHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userCount, err := h.users.Count(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	fileCount, err := h.files.Count(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Users: userCount, Files: fileCount})
}
