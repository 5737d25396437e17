package handlers

import (
	"errors"
	"log"
	"net/http"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/policy"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError is the single place service and policy errors become status
// codes. Nothing below this layer writes responses.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError

	switch {
	case errors.Is(err, policy.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, policy.ErrMethodNotAllowed):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": `method "PUT" not allowed`})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": gin.H{validation.Field: validation.Message},
		})
	case errors.Is(err, policy.ErrInvalidDone):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": gin.H{"done": policy.ErrInvalidDone.Error()},
		})
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, cache.ErrTokenNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("unhandled error: %v (%s %s)", err, c.Request.Method, c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
