package routes

import (
	"errors"
	"net/http"

	"ascendia-notes/ascendia/middleware"
	"ascendia-notes/ascendia/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID reads the acting user set by the auth middleware. Handlers
// behind that middleware can rely on it being present.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

// wantsJSON reports whether the caller expects a structured payload instead
// of a redirect.
func wantsJSON(c *gin.Context) bool {
	return middleware.WantsJSON(c)
}

// respondValidationError answers 400 with the failing field. No partial save
// has happened by the time services return these.
func respondValidationError(c *gin.Context, err error) {
	var fieldErr *services.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Message, "field": fieldErr.Field})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
