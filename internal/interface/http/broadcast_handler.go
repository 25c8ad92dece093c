package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/application"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
)

const EventBroadcastMessage = "broadcast-message"

// Subscriber is the local end of the broadcast hub.
type Subscriber interface {
	Subscribe() (<-chan entity.BroadcastMessage, func())
}

type BroadcastHandler struct {
	Svc       *application.BroadcastService
	Hub       Subscriber
	Heartbeat time.Duration
}

func NewBroadcastHandler(svc *application.BroadcastService, hub Subscriber, heartbeat time.Duration) *BroadcastHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &BroadcastHandler{Svc: svc, Hub: hub, Heartbeat: heartbeat}
}

type broadcastRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send handles POST /broadcast.
func (h *BroadcastHandler) Send(c *gin.Context) {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Unauthorized: No token provided or invalid format")
		return
	}
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, "Message is required and must be a non-empty string", err)
		return
	}
	if _, err := h.Svc.Send(c.Request.Context(), caller, req.Message); err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "message": "Broadcast sent successfully"})
}

// Stream handles GET /broadcast/stream as Server-Sent Events until the client goes away.
func (h *BroadcastHandler) Stream(c *gin.Context) {
	msgs, cancel := h.Hub.Subscribe()
	defer cancel()

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	w.Flush()

	tick := time.NewTicker(h.Heartbeat)
	defer tick.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			c.SSEvent(EventBroadcastMessage, m)
			w.Flush()
		case <-tick.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		}
	}
}
