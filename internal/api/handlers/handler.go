// Пакет handlers — HTTP-обработчики API FileHub.
// handler.go — общие вспомогательные функции и маппинг ошибок
// сервисного слоя в ответы API.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/service"
)

// decodeJSONBody разбирает JSON-тело запроса в dst.
func decodeJSONBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError транслирует ошибку сервисного слоя в HTTP-ответ.
// Тексты сообщений — публичный контракт API и не меняются.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var missing *service.MissingFieldError

	switch {
	case errors.As(err, &missing):
		apierrors.ValidationError(w, "Missing "+missing.Field)
	case errors.Is(err, service.ErrUnauthorized):
		apierrors.Unauthorized(w, "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Not found")
	case errors.Is(err, service.ErrAlreadyExists):
		apierrors.AlreadyExists(w, "Already exist")
	case errors.Is(err, service.ErrInvalidParent):
		apierrors.ValidationError(w, "Parent not found")
	case errors.Is(err, service.ErrParentNotFolder):
		apierrors.ValidationError(w, "Parent is not a folder")
	case errors.Is(err, service.ErrNotAFile):
		apierrors.ValidationError(w, "A folder doesn't have content")
	case errors.Is(err, service.ErrInvalidData):
		apierrors.ValidationError(w, "Invalid data")
	default:
		logger.Error("Внутренняя ошибка обработки запроса",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Internal server error")
	}
}
