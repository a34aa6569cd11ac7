package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/features/auth"
	"github.com/platewise/platewise/internal/features/favorites"
	"github.com/platewise/platewise/internal/features/media"
	"github.com/platewise/platewise/internal/features/messages"
	"github.com/platewise/platewise/internal/features/moderation"
	"github.com/platewise/platewise/internal/features/restaurants"
	"github.com/platewise/platewise/internal/pkg/cloudinary"
	"github.com/platewise/platewise/internal/pkg/logger"
)

// SetupRoutes builds every repository and service and mounts all feature
// routes. Construction order follows the dependency chain: restaurants feed
// the message service, messages feed moderation, and the delete cascades run
// the other way.
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) {
	api := router.Group("/")

	authRepo := auth.NewRepository(db)
	restaurantRepo := restaurants.NewRepository(db)
	messageRepo := messages.NewRepository(db)
	reportRepo := moderation.NewRepository(db)
	favoriteRepo := favorites.NewRepository(db)

	messageService := messages.NewService(messageRepo, restaurantRepo)
	moderationService := moderation.NewService(reportRepo, messageService)
	restaurantService := restaurants.NewService(restaurantRepo, messageService, moderationService, favoriteRepo)

	fb, err := auth.InitFirebase(cfg)
	if err != nil {
		logger.Warn("firebase unavailable, google sign-in falls back to token validation: %v", err)
	}

	cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "platewise")
	if err != nil {
		logger.Warn("cloudinary unavailable, media uploads disabled: %v", err)
	}

	auth.RegisterRoutes(api, cfg, authRepo, fb, messageService, favoriteRepo, restaurantService)
	restaurants.RegisterRoutes(api, cfg, restaurantRepo, restaurantService, authRepo)
	messages.RegisterRoutes(api, cfg, messageService, authRepo)
	moderation.RegisterRoutes(api, cfg, moderationService, authRepo)
	favorites.RegisterRoutes(api, cfg, favoriteRepo, authRepo)
	media.RegisterRoutes(api, cfg, cld, authRepo)
}
