package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB     Pinger
	Logger logrus.FieldLogger
}

func NewHealthHandler(db Pinger, logger logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{DB: db, Logger: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		h.Logger.WithError(err).Warn("health check failed")
		response.Message(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true})
}
