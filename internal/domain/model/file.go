package model

import "time"

// FileType — тип файлового объекта.
type FileType string

const (
	// TypeFolder — папка, не имеет физического содержимого.
	TypeFolder FileType = "folder"
	// TypeFile — обычный файл.
	TypeFile FileType = "file"
	// TypeImage — изображение, после загрузки генерируются миниатюры.
	TypeImage FileType = "image"
)

// ValidFileType проверяет, что строка — один из допустимых типов.
func ValidFileType(s string) bool {
	switch FileType(s) {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// File — файл или папка пользователя.
// Хранится в таблице files. Иерархия задаётся через ParentID.
type File struct {
	// ID — UUID файла
	ID string
	// UserID — UUID владельца (неизменяем после создания)
	UserID string
	// Name — имя, заданное пользователем
	Name string
	// Type — тип объекта (folder, file, image)
	Type FileType
	// ParentID — UUID родительской папки, nil для корня
	ParentID *string
	// IsPublic — доступен ли файл анонимным запросам
	IsPublic bool
	// LocalPath — путь к содержимому на диске, nil для папок.
	// Внутреннее поле, никогда не отдаётся API-клиентам.
	LocalPath *string
	// CreatedAt — время создания записи
	CreatedAt time.Time
}

// IsFolder сообщает, является ли объект папкой.
func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}
