package handlers

import (
	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/dkmwangi/cabride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler upgrades the connection and registers the client with the
// hub. Runs behind the auth middleware, which provides identity and role.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.Role(c.GetInt("userRole"))

		// A token alone is not enough once the user logged out; the live
		// session is the source of truth.
		if _, err := services.GetSession(c.Request.Context(), userID); err != nil {
			c.JSON(401, gin.H{"error": "Session expired"})
			return
		}

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
