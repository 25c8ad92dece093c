package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/application"
	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
)

const defaultSeedCount = 50

type InitHandler struct {
	Svc *application.UserService
}

func NewInitHandler(svc *application.UserService) *InitHandler {
	return &InitHandler{Svc: svc}
}

// SeedUsers handles POST /api/init/seed-users?count=N.
func (h *InitHandler) SeedUsers(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil || count <= 0 {
		count = defaultSeedCount
	}
	if limit := h.Svc.MaxDemoCount(); count > limit {
		response.Message(c, http.StatusBadRequest, fmt.Sprintf("Cannot seed more than %d users at a time", limit))
		return
	}
	batch, err := h.Svc.CreateDemoUsers(c.Request.Context(), count)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"message":         fmt.Sprintf("Successfully created %d demo users.", batch.Count),
		"defaultPassword": batch.DefaultPassword,
	})
}
