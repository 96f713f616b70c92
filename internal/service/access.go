// access.go — предикаты доступа к файловым объектам.
package service

import "github.com/bigkaa/gofilehub/internal/domain/model"

// CanRead решает, может ли запрашивающий читать содержимое файла.
// requesterID — пустая строка для анонимного запроса.
// Доступ открыт, если файл публичный либо запрашивающий — владелец.
func CanRead(requesterID string, f *model.File) bool {
	if f.IsPublic {
		return true
	}
	return requesterID != "" && requesterID == f.UserID
}
