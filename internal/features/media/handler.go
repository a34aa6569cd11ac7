package media

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise/internal/pkg/cloudinary"
	"github.com/platewise/platewise/internal/pkg/response"
)

type Handler struct {
	cloudinary *cloudinary.Service
}

func NewHandler(cld *cloudinary.Service) *Handler {
	return &Handler{cloudinary: cld}
}

// UploadImage godoc
// @Summary Upload an image
// @Description Upload a restaurant photo or avatar to Cloudinary
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image to upload"
// @Success 200 {object} cloudinary.UploadResult
// @Failure 400 {object} response.ErrorBody
// @Router /media/image [post]
func (h *Handler) UploadImage(c *gin.Context) {
	if h.cloudinary == nil {
		response.Internal(c, "media uploads are not configured")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if err := cloudinary.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.cloudinary.UploadImage(c.Request.Context(), file, header.Filename)
	if err != nil {
		response.Internal(c, "failed to upload image")
		return
	}

	response.OK(c, result)
}
