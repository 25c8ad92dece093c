package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/application"
	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
)

type TermsHandler struct {
	Svc *application.TermsService
}

func NewTermsHandler(svc *application.TermsService) *TermsHandler {
	return &TermsHandler{Svc: svc}
}

func (h *TermsHandler) Create(c *gin.Context) {
	var in application.CreateTermInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, msgInvalidJSON, err)
		return
	}
	t, err := h.Svc.CreateTerm(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, t)
}

func (h *TermsHandler) List(c *gin.Context) {
	list, err := h.Svc.GetTerms(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}
