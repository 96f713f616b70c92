// files.go — обработчики файловых объектов: загрузка, метаданные,
// списки, публикация и выдача содержимого.
package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/service"
)

// FileHandler — обработчик endpoints файловых объектов.
type FileHandler struct {
	files  *service.FileService
	logger *slog.Logger
}

// NewFileHandler создаёт обработчик файловых объектов.
func NewFileHandler(files *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger.With(slog.String("component", "file_handler")),
	}
}

// flexibleID — идентификатор, принимающий в JSON и строку, и число.
// Клиенты передают parentId как "uuid" либо как число 0 (корень).
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// uploadRequest — тело запроса создания файлового объекта.
type uploadRequest struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	ParentID flexibleID `json:"parentId"`
	IsPublic bool       `json:"isPublic"`
	Data     string     `json:"data"`
}

// fileResponse — публичное представление файлового объекта.
// Локальный путь хранения никогда не покидает сервис.
type fileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// toFileResponse переводит доменную модель в ответ API.
// Корневой уровень (parent_id NULL) наружу отдаётся как "0".
func toFileResponse(f *model.File) fileResponse {
	parentID := "0"
	if f.ParentID != nil {
		parentID = *f.ParentID
	}
	return fileResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     string(f.Type),
		IsPublic: f.IsPublic,
		ParentID: parentID,
	}
}

// PostUpload — POST /files. Создаёт файл или папку текущего пользователя.
func (h *FileHandler) PostUpload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, "Unauthorized")
		return
	}

	var req uploadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		apierrors.ValidationError(w, "Invalid request body")
		return
	}

	f, err := h.files.Create(r.Context(), user.ID, service.CreateParams{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFileResponse(f))
}

// GetShow — GET /files/{id}. Метаданные файла текущего пользователя.
func (h *FileHandler) GetShow(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, "Unauthorized")
		return
	}

	f, err := h.files.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(f))
}

// GetIndex — GET /files. Страница файлов текущего пользователя.
// Параметры: parentId (фильтр по папке, "0" — корень), page (от 1).
func (h *FileHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, "Unauthorized")
		return
	}

	// Нумерация страниц — с единицы; некорректное значение = 1
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 1 {
			page = parsed
		}
	}

	files, err := h.files.List(r.Context(), user.ID, r.URL.Query().Get("parentId"), page)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]fileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, toFileResponse(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PutPublish — PUT /files/{id}/publish. Делает файл публичным.
func (h *FileHandler) PutPublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// PutUnpublish — PUT /files/{id}/unpublish. Делает файл приватным.
func (h *FileHandler) PutUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *FileHandler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, "Unauthorized")
		return
	}

	f, err := h.files.SetVisibility(r.Context(), user.ID, chi.URLParam(r, "id"), isPublic)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(f))
}

// GetFile — GET /files/{id}/data. Содержимое файла.
// Маршрут под OptionalAuth: публичные файлы доступны анониму,
// приватные — только владельцу. Параметр size выбирает вариант
// миниатюры изображения (500, 250, 100).
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	requesterID := ""
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		requesterID = user.ID
	}

	content, err := h.files.ResolveContent(r.Context(), requesterID, chi.URLParam(r, "id"), r.URL.Query().Get("size"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	defer content.Reader.Close()

	w.Header().Set("Content-Type", content.MimeType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content.Reader); err != nil {
		// Заголовки уже отправлены, остаётся только залогировать
		if !strings.Contains(err.Error(), "broken pipe") {
			h.logger.Error("Ошибка отправки содержимого файла",
				slog.String("error", err.Error()),
			)
		}
	}
}
