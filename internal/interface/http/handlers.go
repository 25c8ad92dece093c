// Package handlers holds the gin HTTP handlers. Handlers decode requests, pass
// the caller identity to services explicitly and map errors with response.Fail.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
	"github.com/oksasatya/go-ddd-user-terms/pkg/validation"
)

const msgInvalidJSON = "Invalid JSON body"

// failBind answers a body that could not be decoded or bound with 400 and per-field details.
func failBind(c *gin.Context, msg string, err error) {
	response.Fail(c, apperr.Invalid(msg, validation.ToDetails(err)))
}
