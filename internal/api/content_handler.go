package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/service"
)

// ContentHandler handles taxonomy and media metadata endpoints
type ContentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(services *service.Services, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		services: services,
		log:      log.With().Str("handler", "content").Logger(),
	}
}

// CreateCategory handles POST /v1/categories
func (h *ContentHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		respondError(c, models.NewValidationError("body", "invalid JSON payload"))
		return
	}

	created, err := h.services.Content.CreateCategory(c.Request.Context(), &category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListCategories handles GET /v1/categories
func (h *ContentHandler) ListCategories(c *gin.Context) {
	categories, err := h.services.Content.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": categories, "count": len(categories)})
}

// CreateTag handles POST /v1/tags
func (h *ContentHandler) CreateTag(c *gin.Context) {
	var tag models.Tag
	if err := c.ShouldBindJSON(&tag); err != nil {
		respondError(c, models.NewValidationError("body", "invalid JSON payload"))
		return
	}

	created, err := h.services.Content.CreateTag(c.Request.Context(), &tag)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListTags handles GET /v1/tags
func (h *ContentHandler) ListTags(c *gin.Context) {
	tags, err := h.services.Content.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tags, "count": len(tags)})
}

// CreateAuthor handles POST /v1/authors
func (h *ContentHandler) CreateAuthor(c *gin.Context) {
	var author models.Author
	if err := c.ShouldBindJSON(&author); err != nil {
		respondError(c, models.NewValidationError("body", "invalid JSON payload"))
		return
	}

	created, err := h.services.Content.CreateAuthor(c.Request.Context(), &author)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListAuthors handles GET /v1/authors
func (h *ContentHandler) ListAuthors(c *gin.Context) {
	authors, err := h.services.Content.ListAuthors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": authors, "count": len(authors)})
}

// CreateMedia handles POST /v1/media. Registers upload metadata; binary
// storage lives with the rendering platform.
func (h *ContentHandler) CreateMedia(c *gin.Context) {
	var media models.Media
	if err := c.ShouldBindJSON(&media); err != nil {
		respondError(c, models.NewValidationError("body", "invalid JSON payload"))
		return
	}

	created, err := h.services.Content.CreateMedia(c.Request.Context(), &media)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMedia handles GET /v1/media/:id
func (h *ContentHandler) GetMedia(c *gin.Context) {
	media, err := h.services.Content.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}
