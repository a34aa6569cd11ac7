package moderation

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/features/auth"
)

// RegisterRoutes mounts the moderation endpoints under /message, matching
// the paths the clients already use.
func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, service *Service, authRepo *auth.Repository) {
	handler := NewHandler(service)
	adminGuard := auth.NewAdminMiddleware(authRepo, cfg)

	message := router.Group("/message")
	{
		message.PUT("/report/:uid", handler.FileReport)
		message.GET("/reported", adminGuard, handler.Queue)
		message.DELETE("/report/:uid", adminGuard, handler.Resolve)
	}
}
