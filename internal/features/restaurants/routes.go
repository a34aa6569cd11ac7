package restaurants

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/features/auth"
)

func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, repo *Repository, service *Service, authRepo *auth.Repository) {
	handler := NewHandler(repo, service)
	ownerGuard := auth.NewOwnerMiddleware(authRepo, cfg)

	restaurant := router.Group("/restaurant")
	{
		restaurant.GET("", handler.List)
		restaurant.GET("/:uid", handler.Get)
		restaurant.POST("", ownerGuard, handler.Create)
		restaurant.PUT("/:uid", ownerGuard, handler.Update)
		restaurant.DELETE("/:uid", ownerGuard, handler.Delete)
	}
}
