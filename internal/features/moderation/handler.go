package moderation

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

// FileReport godoc
// @Summary File or increment a report for a message
// @Tags moderation
// @Accept json
// @Produce json
// @Param uid path string true "Message ID"
// @Param request body FileReportRequest true "Report context"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Router /message/report/{uid} [put]
func (h *Handler) FileReport(c *gin.Context) {
	// The path parameter names the message; the body's messageId is
	// accepted for compatibility but the path wins.
	messageID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}

	var req FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "userId and restaurantId are required")
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	restaurantID, err := primitive.ObjectIDFromHex(req.RestaurantID)
	if err != nil {
		response.BadRequest(c, "invalid restaurant id")
		return
	}

	if err := h.service.File(c.Request.Context(), userID, restaurantID, messageID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Confirm(c, "report filed")
}

// Queue godoc
// @Summary Moderation queue of open reports, oldest first
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.QueueBody
// @Failure 401 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /message/reported [get]
func (h *Handler) Queue(c *gin.Context) {
	page := pagination.FromQuery(c.Query("limit"), c.Query("offset"))
	entries, more, err := h.service.Queue(c.Request.Context(), page)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if entries == nil {
		entries = []QueueEntry{}
	}
	response.Queue(c, len(entries), entries, more)
}

// Resolve godoc
// @Summary Resolve a report
// @Description rejected=true deletes the reported message as well; otherwise only the report is cleared.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Report ID"
// @Param rejected query bool false "Take the message down"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorBody
// @Router /message/report/{uid} [delete]
func (h *Handler) Resolve(c *gin.Context) {
	reportID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}

	rejected := c.Query("rejected") == "true"
	admin := c.MustGet("admin").(*auth.Admin)

	if err := h.service.Resolve(c.Request.Context(), reportID, rejected, admin.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Confirm(c, "report resolved")
}
