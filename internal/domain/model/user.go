// Пакет model — доменные модели FileHub.
package model

import "time"

// User — зарегистрированный пользователь.
// Хранится в таблице users. После создания не изменяется и не удаляется.
type User struct {
	// ID — UUID пользователя
	ID string
	// Email — адрес электронной почты (уникальный)
	Email string
	// PasswordHash — односторонний дайджест пароля (никогда не plaintext)
	PasswordHash string
	// CreatedAt — время регистрации
	CreatedAt time.Time
}
