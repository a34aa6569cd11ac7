package restaurants

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/features/auth"
	"github.com/platewise/platewise/internal/pkg/pagination"
	"github.com/platewise/platewise/internal/pkg/response"
)

type Handler struct {
	repo    *Repository
	service *Service
}

func NewHandler(repo *Repository, service *Service) *Handler {
	return &Handler{repo: repo, service: service}
}

// List godoc
// @Summary List restaurants
// @Tags restaurants
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.ListBody
// @Router /restaurant [get]
func (h *Handler) List(c *gin.Context) {
	page := pagination.FromQuery(c.Query("limit"), c.Query("offset"))
	rows, err := h.repo.List(c.Request.Context(), page.FetchLimit(), page.Offset)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	rows, more := pagination.Trim(rows, page)
	if rows == nil {
		rows = []Restaurant{}
	}
	response.List(c, len(rows), rows, more)
}

// Get godoc
// @Summary Fetch one restaurant
// @Tags restaurants
// @Produce json
// @Param uid path string true "Restaurant ID"
// @Success 200 {object} Restaurant
// @Failure 404 {object} response.ErrorBody
// @Router /restaurant/{uid} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	restaurant, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if restaurant == nil {
		response.NotFound(c, "restaurant not found")
		return
	}
	response.OK(c, restaurant)
}

// Create godoc
// @Summary Create a restaurant listing
// @Tags restaurants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRestaurantRequest true "Listing"
// @Success 200 {object} Restaurant
// @Failure 400 {object} response.ErrorBody
// @Router /restaurant [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name and address are required")
		return
	}

	owner := c.MustGet("owner").(*auth.Owner)
	restaurant := &Restaurant{
		OwnerID:  owner.ID,
		Name:     req.Name,
		Address:  req.Address,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if err := h.repo.Create(c.Request.Context(), restaurant); err != nil {
		response.Internal(c, "internal server error")
		return
	}
	response.OK(c, restaurant)
}

// Update godoc
// @Summary Update an owned restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Restaurant ID"
// @Param request body UpdateRestaurantRequest true "Fields to change"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorBody
// @Router /restaurant/{uid} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	owner := c.MustGet("owner").(*auth.Owner)
	restaurant, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if restaurant == nil {
		response.NotFound(c, "restaurant not found")
		return
	}
	if restaurant.OwnerID != owner.ID {
		response.Unauthorized(c, "not your restaurant")
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	updates := bson.M{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.ImageURL != "" {
		updates["imageUrl"] = req.ImageURL
	}
	if len(updates) == 0 {
		response.BadRequest(c, "nothing to update")
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, updates); err != nil {
		response.Internal(c, "internal server error")
		return
	}
	response.Confirm(c, "restaurant updated")
}

// Delete godoc
// @Summary Delete an owned restaurant and cascade its data
// @Tags restaurants
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Restaurant ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorBody
// @Router /restaurant/{uid} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	owner := c.MustGet("owner").(*auth.Owner)
	restaurant, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if restaurant == nil {
		response.NotFound(c, "restaurant not found")
		return
	}
	if restaurant.OwnerID != owner.ID {
		response.Unauthorized(c, "not your restaurant")
		return
	}

	if err := h.service.DeleteRestaurant(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Confirm(c, "restaurant deleted")
}
