package messages

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/features/auth"
)

// RegisterRoutes mounts the message endpoints. The service is built by the
// caller because moderation shares it for the delete cascade.
func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, service *Service, authRepo *auth.Repository) {
	handler := NewHandler(service)
	userGuard := auth.NewUserMiddleware(authRepo, cfg)

	message := router.Group("/message")
	{
		message.GET("/restaurant/:uid", handler.ListForRestaurant)
		message.POST("/restaurant/:uid", userGuard, handler.Post)
		message.GET("/user/:uid", userGuard, handler.ListForUser)
	}
}
