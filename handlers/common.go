package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

// Store calls are bounded by this per-request deadline; the engine itself
// carries no retry policy.
const requestTimeout = 10 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError maps service failures to HTTP statuses: validation problems are
// the caller's fault, missing rows are 404, anything else is the store's.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNonPositiveAmount),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidLimiter),
		errors.Is(err, services.ErrAlreadyPurchased):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
