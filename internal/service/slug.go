package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	slugLength   = 7
	slugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	slugAlphabetSize = big.NewInt(int64(len(slugAlphabet)))
	customSlugRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,32}$`)
)

// SlugGenerator порождает короткие URL-safe идентификаторы.
// Коллизии возможны и разрешаются вызывающей стороной через
// уникальный индекс в БД, а не предотвращаются здесь.
type SlugGenerator interface {
	Generate() (string, error)
}

type randomSlugGenerator struct{}

func NewSlugGenerator() SlugGenerator {
	return &randomSlugGenerator{}
}

// Generate возвращает случайный base62-слаг длиной 7 символов
func (g *randomSlugGenerator) Generate() (string, error) {
	result := make([]byte, slugLength)
	for i := 0; i < slugLength; i++ {
		num, err := rand.Int(rand.Reader, slugAlphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate slug: %w", err)
		}
		result[i] = slugAlphabet[num.Int64()]
	}
	return string(result), nil
}

// ValidCustomSlug проверяет форму пользовательского слага
// (1-32 символа, буквы, цифры, дефис и подчёркивание)
func ValidCustomSlug(slug string) bool {
	return customSlugRegexp.MatchString(slug)
}
