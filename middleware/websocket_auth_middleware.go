package middleware

import (
	"net/http"

	"ascendia-notes/ascendia/services"
	"ascendia-notes/ascendia/utils/token"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware validates session tokens for WebSocket connections.
// Browsers cannot set headers on WebSocket upgrades, so the token is accepted
// from the cookie or a query parameter as well.
func WebSocketAuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Store user info in the context for later use
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
