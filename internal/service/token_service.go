package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Ошибки токенов сессии
var (
	ErrEmptySecret    = errors.New("signing secret is empty")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// DefaultTokenTTL — время жизни сессии, 30 дней
const DefaultTokenTTL = 30 * 24 * time.Hour

// sessionClaims — полезная нагрузка токена сессии
type sessionClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет подписанные токены сессии.
// Валидация — чистая функция от токена и секрета, без обращений к хранилищу.
type TokenService interface {
	Issue(userID int64, email string) (string, error)
	Validate(token string) (*models.Identity, error)
	TTL() time.Duration
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService создаёт сервис токенов. Пустой секрет — ошибка конфигурации,
// процесс не должен стартовать без него.
func NewTokenService(secret string, ttl time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &tokenService{secret: []byte(secret), ttl: ttl}, nil
}

func (s *tokenService) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *tokenService) Validate(tokenString string) (*models.Identity, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &models.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *tokenService) TTL() time.Duration {
	return s.ttl
}
