package routes

import (
	"ascendia-notes/ascendia/services"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes exposes the live-update socket. The websocket auth
// middleware has already resolved the user before the upgrade happens.
func RegisterWebSocketRoutes(router gin.IRouter, liveUpdates services.LiveUpdateServiceInterface) {
	router.GET("/ws", liveUpdates.HandleConnection)
}
