package service

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// PasswordHasher — одностороннее солёное хеширование паролей
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

type bcryptHasher struct{}

func NewPasswordHasher() PasswordHasher {
	return &bcryptHasher{}
}

// Hash возвращает bcrypt-дайджест, соль генерируется на каждый вызов
func (h *bcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Check сверяет пароль с дайджестом. Битый дайджест — просто false, не паника.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
