package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/gofilehub/internal/domain/model"
)

// FileRepository — интерфейс доступа к таблице files.
type FileRepository interface {
	// Create добавляет новый файловый объект.
	Create(ctx context.Context, f *model.File) error
	// GetByID возвращает файл по UUID независимо от владельца.
	GetByID(ctx context.Context, fileID string) (*model.File, error)
	// GetOwned возвращает файл по UUID в рамках владельца.
	// Чужой или несуществующий файл неразличимы: в обоих случаях ErrNotFound.
	GetOwned(ctx context.Context, ownerID, fileID string) (*model.File, error)
	// List возвращает файлы владельца с пагинацией в порядке создания.
	List(ctx context.Context, ownerID string, filter FileListFilter, limit, offset int) ([]*model.File, error)
	// SetVisibility атомарно обновляет is_public в рамках владельца
	// и возвращает обновлённую запись.
	SetVisibility(ctx context.Context, ownerID, fileID string, isPublic bool) (*model.File, error)
	// Count возвращает общее количество файловых объектов.
	Count(ctx context.Context) (int64, error)
}

// FileListFilter — фильтр списка файлов по родительской папке.
type FileListFilter struct {
	// ByParent — применять ли фильтр по родителю
	ByParent bool
	// ParentID — UUID родительской папки; nil = корневой уровень
	ParentID *string
}

// fileRepo — реализация FileRepository.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файловых объектов.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

const fileColumns = `id, user_id, name, type, parent_id, is_public, local_path, created_at`

// scanFile сканирует одну строку в model.File.
func scanFile(row pgx.Row) (*model.File, error) {
	f := &model.File{}
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.ParentID,
		&f.IsPublic, &f.LocalPath, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fileRepo) Create(ctx context.Context, f *model.File) error {
	query := `
		INSERT INTO files (id, user_id, name, type, parent_id, is_public, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		f.ID, f.UserID, f.Name, f.Type, f.ParentID, f.IsPublic, f.LocalPath,
	).Scan(&f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: файл с таким ID уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания файла: %w", err)
	}
	return nil
}

func (r *fileRepo) GetByID(ctx context.Context, fileID string) (*model.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, fileID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return f, nil
}

func (r *fileRepo) GetOwned(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1 AND user_id = $2`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, fileID, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла владельца: %w", err)
	}
	return f, nil
}

func (r *fileRepo) List(ctx context.Context, ownerID string, filter FileListFilter, limit, offset int) ([]*model.File, error) {
	// Порядок по created_at, id — детерминированная пагинация
	// в порядке вставки
	var query string
	args := []any{ownerID}

	switch {
	case !filter.ByParent:
		query = fmt.Sprintf(`
			SELECT %s FROM files
			WHERE user_id = $1
			ORDER BY created_at, id
			LIMIT $2 OFFSET $3`, fileColumns)
		args = append(args, limit, offset)
	case filter.ParentID == nil:
		query = fmt.Sprintf(`
			SELECT %s FROM files
			WHERE user_id = $1 AND parent_id IS NULL
			ORDER BY created_at, id
			LIMIT $2 OFFSET $3`, fileColumns)
		args = append(args, limit, offset)
	default:
		query = fmt.Sprintf(`
			SELECT %s FROM files
			WHERE user_id = $1 AND parent_id = $2
			ORDER BY created_at, id
			LIMIT $3 OFFSET $4`, fileColumns)
		args = append(args, *filter.ParentID, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	defer rows.Close()

	var result []*model.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования файла: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *fileRepo) SetVisibility(ctx context.Context, ownerID, fileID string, isPublic bool) (*model.File, error) {
	query := fmt.Sprintf(`
		UPDATE files
		SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING %s`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, fileID, ownerID, isPublic))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления видимости файла: %w", err)
	}
	return f, nil
}

func (r *fileRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта файлов: %w", err)
	}
	return count, nil
}
