package auth

import (
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/config"
)

// RegisterRoutes mounts the account endpoints. The repository is built by the
// caller because every other feature's guards share it.
func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, repo *Repository, fb *firebaseauth.Client, messages MessageService, favorites FavoriteService, restaurants RestaurantService) {
	handler := NewHandler(repo, cfg, fb, messages, favorites, restaurants)

	userGuard := NewUserMiddleware(repo, cfg)
	adminGuard := NewAdminMiddleware(repo, cfg)

	user := router.Group("/user")
	{
		user.POST("/register", handler.RegisterUser)
		user.POST("/login", handler.LoginUser)
		user.POST("/google", handler.GoogleSignIn)
		user.GET("/me", userGuard, handler.Me)
		user.PUT("/ban/:uid", adminGuard, handler.BanUser)
		user.DELETE("/:uid", adminGuard, handler.DeleteUser)
	}

	owner := router.Group("/owner")
	{
		owner.POST("/register", handler.RegisterOwner)
		owner.POST("/login", handler.LoginOwner)
		owner.DELETE("/:uid", adminGuard, handler.DeleteOwner)
	}

	router.POST("/admin/login", handler.LoginAdmin)
}
