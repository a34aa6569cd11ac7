package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/pkg/jwt"
	"github.com/platewise/platewise/internal/pkg/response"
)

// AccountSource is the slice of Repository the guards need. Kept as an
// interface so the guards can be tested without Mongo.
type AccountSource interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetOwnerByID(ctx context.Context, id primitive.ObjectID) (*Owner, error)
	GetAdminByID(ctx context.Context, id primitive.ObjectID) (*Admin, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func guardClaims(c *gin.Context, cfg *config.Config, role string) (*jwt.Claims, string, bool) {
	tokenString, ok := bearerToken(c)
	if !ok {
		response.Unauthorized(c, "authorization required")
		c.Abort()
		return nil, "", false
	}

	claims, err := jwt.ValidateToken(tokenString, cfg.JWTSecret)
	if err != nil || claims.Role != role {
		response.Unauthorized(c, "invalid token")
		c.Abort()
		return nil, "", false
	}
	return claims, tokenString, true
}

// NewUserMiddleware guards diner endpoints: the token must decode to a user,
// match the stored session token, and the account must not be banned. A
// banned account with an otherwise valid token is rejected here, not at
// token issue time.
func NewUserMiddleware(src AccountSource, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, presented, ok := guardClaims(c, cfg, RoleUser)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := src.GetUserByID(ctx, id)
		if err != nil || user == nil || user.Token != presented {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		if user.Banned {
			response.Unauthorized(c, "account is banned")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("accountID", user.ID.Hex())
		c.Next()
	}
}

// NewOwnerMiddleware guards listing-management endpoints.
func NewOwnerMiddleware(src AccountSource, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, presented, ok := guardClaims(c, cfg, RoleOwner)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		owner, err := src.GetOwnerByID(ctx, id)
		if err != nil || owner == nil || owner.Token != presented {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set("owner", owner)
		c.Set("accountID", owner.ID.Hex())
		c.Next()
	}
}

// NewAdminMiddleware guards moderation endpoints. Only the latest stored
// token matches, so a fresh login elsewhere invalidates this session.
func NewAdminMiddleware(src AccountSource, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, presented, ok := guardClaims(c, cfg, RoleAdmin)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		admin, err := src.GetAdminByID(ctx, id)
		if err != nil || admin == nil || admin.Token != presented {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Set("accountID", admin.ID.Hex())
		c.Next()
	}
}
