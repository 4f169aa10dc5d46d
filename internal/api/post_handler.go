package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/service"
)

// PostHandler handles post and scoring endpoints
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// CreatePost handles POST /v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	post, err := bindPost(c)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.services.Content.CreatePost(c.Request.Context(), post)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetPost handles GET /v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.services.Content.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePost handles PUT /v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	post, err := bindPost(c)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.services.Content.UpdatePost(c.Request.Context(), c.Param("id"), post)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ScorePost handles POST /v1/posts/:id/score, the only route that writes
// a post's score
func (h *PostHandler) ScorePost(c *gin.Context) {
	details, err := h.services.Score.ScorePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// bindPost decodes a post payload, rejecting attempts to set the score
// fields directly
func bindPost(c *gin.Context) (*models.Post, error) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		return nil, models.NewValidationError("body", "invalid JSON payload")
	}
	for _, field := range []string{"seo_score", "seo_score_details"} {
		if _, present := raw[field]; present {
			return nil, models.NewValidationError(field, "score fields are computed, not settable")
		}
	}

	merged, err := json.Marshal(raw)
	if err != nil {
		return nil, models.NewValidationError("body", "invalid JSON payload")
	}
	var post models.Post
	if err := json.Unmarshal(merged, &post); err != nil {
		return nil, models.NewValidationError("body", "invalid JSON payload")
	}
	return &post, nil
}
