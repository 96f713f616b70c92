// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized — отсутствующие, некорректные или истёкшие
	// учётные данные либо токен.
	ErrUnauthorized = errors.New("не авторизован")
	// ErrNotFound — ресурс отсутствует либо доступ к нему запрещён.
	// Для вызывающего эти случаи намеренно неразличимы.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrAlreadyExists — пользователь с таким email уже зарегистрирован.
	ErrAlreadyExists = errors.New("ресурс уже существует")
	// ErrInvalidParent — указанная родительская папка не существует.
	ErrInvalidParent = errors.New("родительская папка не найдена")
	// ErrParentNotFolder — указанный родитель не является папкой.
	ErrParentNotFolder = errors.New("родитель не является папкой")
	// ErrNotAFile — запрошено содержимое папки.
	ErrNotAFile = errors.New("папка не имеет содержимого")
	// ErrInvalidData — содержимое не является корректным base64.
	ErrInvalidData = errors.New("некорректные данные содержимого")
)

// MissingFieldError — обязательное поле запроса отсутствует.
type MissingFieldError struct {
	// Field — имя отсутствующего поля (name, type, data, email, password)
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("отсутствует обязательное поле: %s", e.Field)
}

// NewMissingField создаёт ошибку отсутствующего поля.
func NewMissingField(field string) error {
	return &MissingFieldError{Field: field}
}
