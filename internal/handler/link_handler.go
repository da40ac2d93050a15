package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/SergeiKhy/url-shortener/internal/middleware"
	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/SergeiKhy/url-shortener/internal/repository"
	"github.com/SergeiKhy/url-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LinkHandler struct {
	service service.LinkService
	baseURL string
	logger  *zap.Logger
}

func NewLinkHandler(linkService service.LinkService, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: linkService,
		baseURL: baseURL,
		logger:  logger,
	}
}

type CreateLinkRequest struct {
	Destination string `json:"destination" binding:"required"`
	CustomSlug  string `json:"custom_slug,omitempty"`
}

type LinkResponse struct {
	Slug        string    `json:"slug"`
	ShortURL    string    `json:"short_url"`
	Destination string    `json:"destination"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *LinkHandler) linkResponse(link *models.Link) LinkResponse {
	return LinkResponse{
		Slug:        link.Slug,
		ShortURL:    h.baseURL + "/" + link.Slug,
		Destination: link.Destination,
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt,
	}
}

// CreateLink godoc
// @Summary Create a short link
// @Description Create a new short link owned by the authenticated user
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link creation request"
// @Success 201 {object} LinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Valid session required",
		})
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	input := &models.CreateLinkInput{
		Destination: req.Destination,
	}
	if req.CustomSlug != "" {
		input.CustomSlug = &req.CustomSlug
	}

	link, err := h.service.CreateLink(c.Request.Context(), identity.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyDestination):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "empty_destination",
				Message: "Destination URL is required",
			})
		case errors.Is(err, service.ErrInvalidSlug):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_slug",
				Message: "Custom slug must be 1-32 characters of letters, digits, - or _",
			})
		case errors.Is(err, service.ErrSlugConflict):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "slug_conflict",
				Message: "Slug is already taken",
			})
		default:
			h.logger.Error("Failed to create link", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to create link",
			})
		}
		return
	}

	h.logger.Info("Created link",
		zap.String("slug", link.Slug),
		zap.Int64("owner_id", link.OwnerID),
	)

	c.JSON(http.StatusCreated, h.linkResponse(link))
}

// ListLinks godoc
// @Summary List own links
// @Description List all links owned by the authenticated user
// @Tags links
// @Produce json
// @Success 200 {array} LinkResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/links [get]
func (h *LinkHandler) ListLinks(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Valid session required",
		})
		return
	}

	links, err := h.service.ListForOwner(c.Request.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("Failed to list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list links",
		})
		return
	}

	response := make([]LinkResponse, 0, len(links))
	for i := range links {
		response = append(response, h.linkResponse(&links[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetLink godoc
// @Summary Get link info
// @Description Get a single link with its click count (owner only)
// @Tags links
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} LinkResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/links/{slug} [get]
func (h *LinkHandler) GetLink(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Valid session required",
		})
		return
	}

	slug := c.Param("slug")

	link, err := h.service.GetLink(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Link not found",
			})
			return
		}
		h.logger.Error("Failed to get link", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get link",
		})
		return
	}

	if link.OwnerID != identity.UserID {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Link belongs to another user",
		})
		return
	}

	c.JSON(http.StatusOK, h.linkResponse(link))
}

// Redirect godoc
// @Summary Redirect to destination
// @Description Redirect to the destination URL and count the click
// @Tags links
// @Produce json
// @Param slug path string true "Slug"
// @Success 307 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /{slug} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")

	destination, err := h.service.Resolve(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Link not found",
			})
			return
		}
		h.logger.Error("Failed to resolve slug", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to resolve link",
		})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, destination)
}

// Landing godoc
// @Summary Landing page
// @Description Anonymous-friendly landing document, reflects the session when present
// @Tags links
// @Produce json
// @Success 200 {object} map[string]any
// @Router / [get]
func (h *LinkHandler) Landing(c *gin.Context) {
	if identity, ok := middleware.IdentityFromContext(c); ok {
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,
			"email":         identity.Email,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": false,
	})
}
