package middleware

import (
	"net/http"
	"strings"

	"ascendia-notes/ascendia/services"
	"ascendia-notes/ascendia/utils/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards routes behind a valid session. The token may arrive
// in the session cookie (browser) or a Bearer header (programmatic clients).
// Unauthenticated browsers are sent to the login entry point; programmatic
// callers get 401.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		// Store user info in the context for later use
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

// WantsJSON reports whether the caller signalled an asynchronous-style
// request and expects a structured payload instead of a redirect.
func WantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
