package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity — разрешённая личность из валидного токена сессии
type Identity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}
