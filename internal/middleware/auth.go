package middleware

import (
	"net/http"

	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/SergeiKhy/url-shortener/internal/service"
	"github.com/gin-gonic/gin"
)

// SessionCookieName — имя httpOnly-куки с токеном сессии
const SessionCookieName = "session_token"

// identityKey — ключ личности в gin-контексте
const identityKey = "identity"

// AuthGate извлекает токен сессии из куки и проверяет его через TokenService.
// Состояния запроса: нет токена -> токен есть -> {валиден, невалиден/истёк}.
type AuthGate struct {
	tokens service.TokenService
}

func NewAuthGate(tokens service.TokenService) *AuthGate {
	return &AuthGate{tokens: tokens}
}

// RequireAuth — жёсткая политика для маршрутов, требующих личность.
// Отсутствующий, невалидный или истёкший токен — 401, запрос прерывается.
func (g *AuthGate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := g.resolve(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Valid session required",
			})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth — мягкая политика для анонимно доступных маршрутов.
// Любой сбой валидации просто оставляет запрос анонимным: жёсткий отказ
// здесь сломал бы анонимный просмотр главной страницы.
func (g *AuthGate) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := g.resolve(c); ok {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// resolve проходит цепочку кука -> токен -> личность
func (g *AuthGate) resolve(c *gin.Context) (*models.Identity, bool) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil, false
	}

	identity, err := g.tokens.Validate(token)
	if err != nil {
		return nil, false
	}

	return identity, true
}

// IdentityFromContext возвращает личность, положенную AuthGate
func IdentityFromContext(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}

	identity, ok := value.(*models.Identity)
	return identity, ok
}
