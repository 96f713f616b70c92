// files.go — жизненный цикл файловых объектов: создание с валидацией
// иерархии, пагинация, смена видимости, выдача содержимого.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/queue"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/storage/filestore"
)

// PageSize — фиксированный размер страницы списка файлов.
const PageSize = 20

// operationsTotal — счётчик файловых операций.
var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fh_operations_total",
		Help: "Общее количество файловых операций",
	},
	[]string{"operation", "result"},
)

// CreateParams — параметры создания файлового объекта.
type CreateParams struct {
	// Name — имя объекта (обязательно)
	Name string
	// Type — folder, file или image (обязательно)
	Type string
	// ParentID — id родительской папки; "" или "0" = корень
	ParentID string
	// IsPublic — публичная видимость (по умолчанию false)
	IsPublic bool
	// Data — base64-содержимое; обязательно для всех типов кроме folder
	Data string
}

// Content — открытое содержимое файла с разрешённым MIME-типом.
type Content struct {
	// Reader — поток содержимого; вызывающий код обязан закрыть
	Reader io.ReadCloser
	// MimeType — MIME-тип, определённый по имени файла
	MimeType string
}

// FileService — сервис файловых объектов.
type FileService struct {
	files  repository.FileRepository
	store  *filestore.FileStore
	tasks  queue.TaskQueue
	mcache *MetadataCache
	logger *slog.Logger
}

// NewFileService создаёт сервис файловых объектов.
func NewFileService(
	files repository.FileRepository,
	store *filestore.FileStore,
	tasks queue.TaskQueue,
	mcache *MetadataCache,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		files:  files,
		store:  store,
		tasks:  tasks,
		mcache: mcache,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// Create создаёт файл или папку владельца ownerID.
//
// Поток для файлов и изображений:
//  1. Валидация полей и родительской папки
//  2. Декодирование base64
//  3. Запись содержимого на диск (уникальное имя)
//  4. Сохранение метаданных
//  5. Для изображений — публикация задачи миниатюр (best effort)
func (s *FileService) Create(ctx context.Context, ownerID string, p CreateParams) (*model.File, error) {
	if p.Name == "" {
		return nil, NewMissingField("name")
	}
	if !model.ValidFileType(p.Type) {
		return nil, NewMissingField("type")
	}
	fileType := model.FileType(p.Type)
	if p.Data == "" && fileType != model.TypeFolder {
		return nil, NewMissingField("data")
	}

	// Валидация родительской папки
	parentID, err := s.resolveParent(ctx, p.ParentID)
	if err != nil {
		return nil, err
	}

	f := &model.File{
		ID:       uuid.New().String(),
		UserID:   ownerID,
		Name:     p.Name,
		Type:     fileType,
		ParentID: parentID,
		IsPublic: p.IsPublic,
	}

	if fileType != model.TypeFolder {
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, ErrInvalidData
		}

		path, err := s.store.Save(data)
		if err != nil {
			operationsTotal.WithLabelValues("create", "error").Inc()
			return nil, fmt.Errorf("ошибка сохранения содержимого: %w", err)
		}
		f.LocalPath = &path
	}

	if err := s.files.Create(ctx, f); err != nil {
		// Метаданные не записались — содержимое на диске осиротело, убираем
		if f.LocalPath != nil {
			_ = os.Remove(*f.LocalPath)
		}
		operationsTotal.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("ошибка сохранения метаданных: %w", err)
	}

	// Задача миниатюр — best effort: файл уже сохранён и доступен,
	// неудача публикации не отменяет загрузку
	if fileType == model.TypeImage {
		task := queue.ThumbnailTask{UserID: ownerID, FileID: f.ID}
		if err := s.tasks.EnqueueThumbnail(ctx, task); err != nil {
			s.logger.Warn("Не удалось опубликовать задачу миниатюр",
				slog.String("file_id", f.ID),
				slog.String("error", err.Error()),
			)
			operationsTotal.WithLabelValues("enqueue_thumbnail", "error").Inc()
		} else {
			operationsTotal.WithLabelValues("enqueue_thumbnail", "success").Inc()
		}
	}

	operationsTotal.WithLabelValues("create", "success").Inc()
	s.logger.Info("Файловый объект создан",
		slog.String("file_id", f.ID),
		slog.String("type", string(f.Type)),
		slog.String("user_id", ownerID),
	)
	return f, nil
}

// resolveParent валидирует ссылку на родительскую папку.
// "" и "0" — корневой уровень (nil). Некорректный или отсутствующий
// id — ErrInvalidParent; существующий объект не-папка — ErrParentNotFolder.
func (s *FileService) resolveParent(ctx context.Context, parentID string) (*string, error) {
	if parentID == "" || parentID == "0" {
		return nil, nil
	}

	if _, err := uuid.Parse(parentID); err != nil {
		return nil, ErrInvalidParent
	}

	parent, err := s.files.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidParent
		}
		return nil, fmt.Errorf("ошибка получения родительской папки: %w", err)
	}
	if !parent.IsFolder() {
		return nil, ErrParentNotFolder
	}

	id := parent.ID
	return &id, nil
}

// Get возвращает метаданные файла в рамках владельца.
// Чужой или несуществующий файл — ErrNotFound.
func (s *FileService) Get(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	if _, err := uuid.Parse(fileID); err != nil {
		return nil, ErrNotFound
	}

	f, err := s.files.GetOwned(ctx, ownerID, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return f, nil
}

// List возвращает страницу файлов владельца в порядке создания.
// page — номер страницы от 1; parentID — "" без фильтра, "0" корень,
// иначе id папки. Страница за концом списка — пустая последовательность.
func (s *FileService) List(ctx context.Context, ownerID, parentID string, page int) ([]*model.File, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	var filter repository.FileListFilter
	switch parentID {
	case "":
		// без фильтра
	case "0":
		filter = repository.FileListFilter{ByParent: true, ParentID: nil}
	default:
		if _, err := uuid.Parse(parentID); err != nil {
			// Некорректный id родителя не может ничему соответствовать
			return []*model.File{}, nil
		}
		filter = repository.FileListFilter{ByParent: true, ParentID: &parentID}
	}

	files, err := s.files.List(ctx, ownerID, filter, PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	if files == nil {
		files = []*model.File{}
	}
	return files, nil
}

// SetVisibility переключает публичную видимость файла владельца.
// Единственная мутация файловой записи; одно атомарное обновление по id.
func (s *FileService) SetVisibility(ctx context.Context, ownerID, fileID string, isPublic bool) (*model.File, error) {
	if _, err := uuid.Parse(fileID); err != nil {
		return nil, ErrNotFound
	}

	f, err := s.files.SetVisibility(ctx, ownerID, fileID, isPublic)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка смены видимости: %w", err)
	}

	// Инвалидация кэша метаданных: путь выдачи содержимого не должен
	// видеть устаревшую видимость
	s.mcache.Delete(fileID)

	operationsTotal.WithLabelValues("set_visibility", "success").Inc()
	return f, nil
}

// ResolveContent открывает содержимое файла для запрашивающего.
// requesterID — пустая строка для анонимного запроса; size — вариант
// миниатюры для изображений ("" = оригинал).
//
// Запрет доступа неотличим от отсутствия файла: оба случая — ErrNotFound.
func (s *FileService) ResolveContent(ctx context.Context, requesterID, fileID, size string) (*Content, error) {
	if _, err := uuid.Parse(fileID); err != nil {
		return nil, ErrNotFound
	}

	f, ok := s.mcache.Get(fileID)
	if !ok {
		var err error
		f, err = s.files.GetByID(ctx, fileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("ошибка получения файла: %w", err)
		}
		s.mcache.Set(fileID, f)
	}

	if !CanRead(requesterID, f) {
		return nil, ErrNotFound
	}
	if f.IsFolder() {
		return nil, ErrNotAFile
	}
	if f.LocalPath == nil {
		// Запись без содержимого на диске — рассинхронизация метаданных
		return nil, ErrNotFound
	}

	path := *f.LocalPath
	if size != "" && f.Type == model.TypeImage {
		path = filestore.VariantPath(path, size)
	}

	reader, err := s.store.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Вариант миниатюры ещё не сгенерирован либо содержимое утрачено
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка открытия содержимого: %w", err)
	}

	operationsTotal.WithLabelValues("resolve_content", "success").Inc()
	return &Content{
		Reader:   reader,
		MimeType: mimeTypeByName(f.Name),
	}, nil
}

// Count возвращает количество файловых объектов.
func (s *FileService) Count(ctx context.Context) (int64, error) {
	return s.files.Count(ctx)
}

// mimeTypeByName определяет MIME-тип по расширению имени файла.
func mimeTypeByName(name string) string {
	if mt := mime.TypeByExtension(filepath.Ext(name)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
