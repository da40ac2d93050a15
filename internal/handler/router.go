package handler

import (
	"github.com/SergeiKhy/url-shortener/internal/middleware"
	"github.com/SergeiKhy/url-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(
	linkService service.LinkService,
	authService service.AuthService,
	tokenService service.TokenService,
	rateLimiter *middleware.RateLimiter,
	baseURL string,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware для логгирования
	router.Use(func(c *gin.Context) {
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		)
		c.Next()
	})

	// Rate limiting для всех запросов
	router.Use(rateLimiter.Middleware())

	authGate := middleware.NewAuthGate(tokenService)
	linkHandler := NewLinkHandler(linkService, baseURL, logger)
	authHandler := NewAuthHandler(authService, tokenService, logger)

	// API v.1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck)

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		// Маршруты ссылок требуют валидной сессии (жёсткая политика)
		links := v1.Group("/links", authGate.RequireAuth())
		{
			links.POST("", linkHandler.CreateLink)
			links.GET("", linkHandler.ListLinks)
			links.GET("/:slug", linkHandler.GetLink)
		}
	}

	// Главная страница доступна анонимно (мягкая политика)
	router.GET("/", authGate.OptionalAuth(), linkHandler.Landing)

	// Редирект по слагу — публичный
	router.GET("/:slug", linkHandler.Redirect)

	return router
}
