package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/triply/content-engine/internal/models"
)

// statusForKind maps domain error kinds to HTTP statuses. Recoverable
// errors never surface as 500s.
var statusForKind = map[models.ErrorKind]int{
	models.ErrValidation:            http.StatusBadRequest,
	models.ErrInvalidTransition:     http.StatusUnprocessableEntity,
	models.ErrTypeMismatch:          http.StatusUnprocessableEntity,
	models.ErrCycleDetected:         http.StatusUnprocessableEntity,
	models.ErrPublishOrderViolation: http.StatusUnprocessableEntity,
	models.ErrDanglingReference:     http.StatusUnprocessableEntity,
	models.ErrNotFound:              http.StatusNotFound,
	models.ErrConflict:              http.StatusConflict,
	models.ErrDuplicateSlug:         http.StatusConflict,
}

// respondError writes a domain error with its mapped status, or a 500 for
// anything unclassified
func respondError(c *gin.Context, err error) {
	var de *models.Error
	if errors.As(err, &de) {
		status, ok := statusForKind[de.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": de})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
		"kind":    "INTERNAL",
		"message": "internal server error",
	}})
}
