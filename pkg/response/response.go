package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// FromError maps err to a status and body. Errors that are not *apperr.Error are internal.
func FromError(err error) (int, ErrorBody) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindInternal {
			return http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error"}
		}
		return ae.Status(), ErrorBody{Error: ae.Message, Details: ae.Details}
	}
	return http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error"}
}

// Fail records err on the context for the request logger and aborts with the mapped body.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := FromError(err)
	c.AbortWithStatusJSON(status, body)
}

// Message aborts with a plain error message.
func Message(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

func JSON(c *gin.Context, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, body)
}
