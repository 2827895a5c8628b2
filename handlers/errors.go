package handlers

import (
	"errors"
	"net/http"

	"github.com/harjunatn/fun-soccer/logger"
	"github.com/harjunatn/fun-soccer/services"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/gin-gonic/gin"
)

// Publisher is notified after every successful write.
type Publisher interface {
	Publish(gameID, eventType string, payload interface{})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrDuplicateRegistration),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrResultsRecorded),
		errors.Is(err, services.ErrInsufficientTeams):
		return http.StatusConflict
	case errors.Is(err, services.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
