package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
)

// CORSMiddleware allows the configured front-end origins to call the API.
// Sessions live in cookies, so credentials must be allowed; the header list
// covers the CSRF token and the XHR marker the handlers look at. The app only
// serves GET and POST.
func CORSMiddleware(allowedOrigins string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST"}
	corsConfig.AllowWebSockets = true
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Accept",
		"Content-Type",
		"X-CSRF-Token",
		"X-Requested-With",
	}

	return cors.New(corsConfig)
}
