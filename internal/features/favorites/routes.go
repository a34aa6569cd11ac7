package favorites

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/features/auth"
)

func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, repo *Repository, authRepo *auth.Repository) {
	handler := NewHandler(repo)
	userGuard := auth.NewUserMiddleware(authRepo, cfg)

	favorites := router.Group("/user/favorites")
	favorites.Use(userGuard)
	{
		favorites.GET("", handler.List)
		favorites.PUT("/:uid", handler.Add)
		favorites.DELETE("/:uid", handler.Remove)
	}
}
