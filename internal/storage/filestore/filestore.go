// Пакет filestore — операции с физическим содержимым файлов на диске.
// Имена объектов генерируются сервисом (UUID), пользовательские имена
// на диск никогда не попадают.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore — управление физическими файлами на диске.
type FileStore struct {
	// root — корневая директория хранения (FH_STORAGE_DIR)
	root string
}

// New создаёт новый FileStore. Создаёт корневую директорию,
// если она не существует.
func New(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию хранилища %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Save записывает содержимое под уникальным UUID-именем.
// Возвращает абсолютный путь сохранённого объекта.
//
// Паттерн: temp файл → запись → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (fs *FileStore) Save(data []byte) (string, error) {
	// Повторно проверяем директорию: её могли удалить после старта
	if err := os.MkdirAll(fs.root, 0o750); err != nil {
		return "", fmt.Errorf("не удалось создать директорию хранилища %s: %w", fs.root, err)
	}

	name := uuid.New().String()
	fullPath := filepath.Join(fs.root, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return fullPath, nil
}

// Open открывает объект для чтения по абсолютному пути.
// Вызывающий код обязан закрыть файл.
// Возвращает os.ErrNotExist, если объекта нет.
func (fs *FileStore) Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	return f, nil
}

// Exists проверяет существование объекта на диске.
func (fs *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// VariantPath возвращает путь варианта миниатюры: <path>_<size>.
func VariantPath(path, size string) string {
	return path + "_" + size
}

// Root возвращает корневую директорию хранилища.
func (fs *FileStore) Root() string {
	return fs.root
}
