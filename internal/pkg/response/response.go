package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierr "github.com/platewise/platewise/pkg/errors"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Message string `json:"message" example:"resource not found"`
}

// ListBody is the envelope for message listings.
type ListBody struct {
	Number int         `json:"number" example:"2"`
	Obj    interface{} `json:"obj"`
	More   bool        `json:"more" example:"true"`
}

// QueueBody is the envelope for the moderation queue. The queue predates the
// message listings and kept its original "pageleft" flag name; clients depend
// on both spellings.
type QueueBody struct {
	Number   int         `json:"number" example:"2"`
	Obj      interface{} `json:"obj"`
	PageLeft bool        `json:"pageleft" example:"false"`
}

// OK sends a 200 with an arbitrary payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Confirm sends a 200 with a confirmation message only.
func Confirm(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// List sends a message-listing envelope.
func List(c *gin.Context, number int, obj interface{}, more bool) {
	c.JSON(http.StatusOK, ListBody{Number: number, Obj: obj, More: more})
}

// Queue sends a moderation-queue envelope.
func Queue(c *gin.Context, number int, obj interface{}, pageLeft bool) {
	c.JSON(http.StatusOK, QueueBody{Number: number, Obj: obj, PageLeft: pageLeft})
}

// Error sends an error envelope with an explicit status and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Message: message})
}

// Fail maps a taxonomy error onto its status and fixed message. Internal
// detail never reaches the wire; callers wanting a more specific client
// message use Error directly.
func Fail(c *gin.Context, err error) {
	Error(c, apierr.StatusOf(err), messageFor(err))
}

func messageFor(err error) string {
	switch {
	case apierr.Is(err, apierr.ErrRateLimited):
		return "only one review per restaurant every 24 hours"
	case apierr.Is(err, apierr.ErrValidation):
		return "invalid request"
	case apierr.Is(err, apierr.ErrUnauthorized):
		return "unauthorized"
	case apierr.Is(err, apierr.ErrNotFound):
		return "resource not found"
	case apierr.Is(err, apierr.ErrDuplicate):
		return "resource already exists"
	default:
		return "internal server error"
	}
}

// BadRequest sends a 400 error envelope.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error envelope.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 error envelope.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Internal sends a 500 error envelope.
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
