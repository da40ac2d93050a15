package handler

import (
	"errors"
	"net/http"

	"github.com/SergeiKhy/url-shortener/internal/middleware"
	"github.com/SergeiKhy/url-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service service.AuthService
	tokens  service.TokenService
	logger  *zap.Logger
}

func NewAuthHandler(authService service.AuthService, tokens service.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: authService,
		tokens:  tokens,
		logger:  logger,
	}
}

type SignUpRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	InvitationCode string `json:"invitation_code" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// SignUp godoc
// @Summary Register a new user
// @Description Register with email, password and a one-time invitation code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Signup request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.service.SignUp(c.Request.Context(), req.Email, req.Password, req.InvitationCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInvite):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_invite",
				Message: "Invitation code is invalid or already used",
			})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "email_taken",
				Message: "Email is already registered",
			})
		default:
			h.logger.Error("Failed to sign up user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to sign up",
			})
		}
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusCreated, AuthResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
	})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password, sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_credentials",
				Message: "Email or password is incorrect",
			})
			return
		}
		h.logger.Error("Failed to log in user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to log in",
		})
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, AuthResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// setSessionCookie ставит httpOnly-куку со сроком жизни токена
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.tokens.TTL().Seconds())
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", false, true)
}
