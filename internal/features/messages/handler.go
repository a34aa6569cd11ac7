package messages

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/features/auth"
	"github.com/platewise/platewise/internal/pkg/pagination"
	"github.com/platewise/platewise/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListForRestaurant godoc
// @Summary List a restaurant's messages
// @Tags messages
// @Produce json
// @Param uid path string true "Restaurant ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.ListBody
// @Failure 400 {object} response.ErrorBody
// @Router /message/restaurant/{uid} [get]
func (h *Handler) ListForRestaurant(c *gin.Context) {
	restaurantID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	page := pagination.FromQuery(c.Query("limit"), c.Query("offset"))
	rows, more, err := h.service.ListForRestaurant(c.Request.Context(), restaurantID, page)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if rows == nil {
		rows = []RestaurantMessage{}
	}
	response.List(c, len(rows), rows, more)
}

// Post godoc
// @Summary Post a message for a restaurant
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Restaurant ID"
// @Param request body PostMessageRequest true "Message"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /message/restaurant/{uid} [post]
func (h *Handler) Post(c *gin.Context) {
	restaurantID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "text and rating are required")
		return
	}

	user := c.MustGet("user").(*auth.User)
	if err := h.service.Post(c.Request.Context(), user.ID, restaurantID, req.Text, req.Rating); err != nil {
		response.Fail(c, err)
		return
	}
	response.Confirm(c, "message posted")
}

// ListForUser godoc
// @Summary List the authenticated diner's messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param uid path string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.ListBody
// @Failure 401 {object} response.ErrorBody
// @Router /message/user/{uid} [get]
func (h *Handler) ListForUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	page := pagination.FromQuery(c.Query("limit"), c.Query("offset"))
	rows, more, err := h.service.ListForUser(c.Request.Context(), userID, page)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if rows == nil {
		rows = []UserMessage{}
	}
	response.List(c, len(rows), rows, more)
}
