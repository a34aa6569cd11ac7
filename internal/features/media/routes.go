package media

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/features/auth"
	"github.com/platewise/platewise/internal/pkg/cloudinary"
)

func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, cld *cloudinary.Service, authRepo *auth.Repository) {
	handler := NewHandler(cld)
	userGuard := auth.NewUserMiddleware(authRepo, cfg)

	mediaGroup := router.Group("/media")
	mediaGroup.Use(userGuard)
	{
		mediaGroup.POST("/image", handler.UploadImage)
	}
}
