package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/service"
)

// QueueHandler handles content queue, cluster and scheduling endpoints
type QueueHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewQueueHandler creates a new QueueHandler
func NewQueueHandler(services *service.Services, log zerolog.Logger) *QueueHandler {
	return &QueueHandler{
		services: services,
		log:      log.With().Str("handler", "queue").Logger(),
	}
}

// CreateQueueItem handles POST /v1/queue
func (h *QueueHandler) CreateQueueItem(c *gin.Context) {
	var item models.QueueItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respondError(c, models.NewValidationError("body", "invalid JSON payload"))
		return
	}

	created, err := h.services.Queue.Create(c.Request.Context(), &item)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetQueueItem handles GET /v1/queue/:id
func (h *QueueHandler) GetQueueItem(c *gin.Context) {
	item, err := h.services.Queue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListQueue handles GET /v1/queue with indexed filters
func (h *QueueHandler) ListQueue(c *gin.Context) {
	filter := models.QueueFilter{
		AirportCode: c.Query("airport_code"),
		ArticleType: models.ArticleType(c.Query("article_type")),
		Status:      models.QueueStatus(c.Query("status")),
		Batch:       c.Query("batch"),
	}

	items, err := h.services.Queue.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// UpdateQueueItem handles PUT /v1/queue/:id. Status changes are rejected
// here; they go through the transition endpoint.
func (h *QueueHandler) UpdateQueueItem(c *gin.Context) {
	var item models.QueueItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respondError(c, models.NewValidationError("body", "invalid JSON payload"))
		return
	}
	item.ID = c.Param("id")

	updated, err := h.services.Queue.Update(c.Request.Context(), &item)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteQueueItem handles DELETE /v1/queue/:id
func (h *QueueHandler) DeleteQueueItem(c *gin.Context) {
	if err := h.services.Queue.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TransitionQueueItem handles POST /v1/queue/:id/transition
func (h *QueueHandler) TransitionQueueItem(c *gin.Context) {
	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("body", "invalid JSON payload"))
		return
	}

	item, err := h.services.Queue.Transition(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetClusterGraph handles GET /v1/queue/:id/graph. It reports whether the
// item's cluster references currently resolve and which internal links the
// article should carry.
func (h *QueueHandler) GetClusterGraph(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := h.services.Queue.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	clusterStatus := "ok"
	var clusterError string
	if err := h.services.Graph.ValidateClusterReference(ctx, item); err != nil {
		var domainErr *models.Error
		if !errors.As(err, &domainErr) {
			respondError(c, err)
			return
		}
		clusterStatus = string(domainErr.Kind)
		clusterError = domainErr.Message
	}

	links, err := h.services.Graph.InternalLinkSuggestions(ctx, item)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"slug":    item.Slug,
		"cluster": clusterStatus,
		"links":   links,
	}
	if clusterError != "" {
		response["cluster_error"] = clusterError
	}
	c.JSON(http.StatusOK, response)
}

// GetHubDescendants handles GET /v1/hubs/:slug/descendants
func (h *QueueHandler) GetHubDescendants(c *gin.Context) {
	items, err := h.services.Graph.Descendants(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hub":   c.Param("slug"),
		"items": items,
		"count": len(items),
	})
}

// GetBatchDue handles GET /v1/batches/:batch/due. The as_of query parameter
// defaults to now.
func (h *QueueHandler) GetBatchDue(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, models.NewValidationError("as_of", "as_of must be RFC3339"))
			return
		}
		asOf = parsed
	}

	items, err := h.services.Scheduler.NextDue(c.Request.Context(), c.Param("batch"), asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch": c.Param("batch"),
		"as_of": asOf.Format(time.RFC3339),
		"items": items,
		"count": len(items),
	})
}
