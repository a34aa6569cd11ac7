package favorites

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/features/auth"
	"github.com/platewise/platewise/internal/pkg/pagination"
	"github.com/platewise/platewise/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Add godoc
// @Summary Favorite a restaurant
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Restaurant ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Router /user/favorites/{uid} [put]
func (h *Handler) Add(c *gin.Context) {
	user := c.MustGet("user").(*auth.User)

	restaurantID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	if err := h.repo.Add(c.Request.Context(), user.ID, restaurantID); err != nil {
		response.Internal(c, "failed to save favorite")
		return
	}
	response.Confirm(c, "restaurant added to favorites")
}

// Remove godoc
// @Summary Unfavorite a restaurant
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Restaurant ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Router /user/favorites/{uid} [delete]
func (h *Handler) Remove(c *gin.Context) {
	user := c.MustGet("user").(*auth.User)

	restaurantID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	if err := h.repo.Remove(c.Request.Context(), user.ID, restaurantID); err != nil {
		response.Internal(c, "failed to remove favorite")
		return
	}
	response.Confirm(c, "restaurant removed from favorites")
}

// List godoc
// @Summary List favorite restaurants
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.ListBody
// @Failure 401 {object} response.ErrorBody
// @Router /user/favorites [get]
func (h *Handler) List(c *gin.Context) {
	user := c.MustGet("user").(*auth.User)
	page := pagination.FromQuery(c.Query("limit"), c.Query("offset"))

	rows, err := h.repo.ListForUser(c.Request.Context(), user.ID, page.FetchLimit(), page.Offset)
	if err != nil {
		response.Internal(c, "failed to list favorites")
		return
	}

	trimmed, more := pagination.Trim(rows, page)
	if trimmed == nil {
		trimmed = []FavoriteRestaurant{}
	}
	response.List(c, len(trimmed), trimmed, more)
}
