package application

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
)

// BroadcastPublisher fans a message out to every subscriber.
type BroadcastPublisher interface {
	Publish(ctx context.Context, m entity.BroadcastMessage) error
}

type BroadcastService struct {
	pub BroadcastPublisher
	now func() time.Time
}

func NewBroadcastService(pub BroadcastPublisher) *BroadcastService {
	return &BroadcastService{pub: pub, now: time.Now}
}

// Send publishes text on behalf of an admin caller.
func (s *BroadcastService) Send(ctx context.Context, caller entity.Identity, text string) (entity.BroadcastMessage, error) {
	if !caller.IsAdmin() {
		return entity.BroadcastMessage{}, apperr.Forbidden("Forbidden: Admin access required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return entity.BroadcastMessage{}, apperr.BadRequest("Message is required and must be a non-empty string")
	}
	m := entity.BroadcastMessage{Text: text, Sender: caller.Email, Timestamp: s.now().UTC()}
	if err := s.pub.Publish(ctx, m); err != nil {
		return entity.BroadcastMessage{}, apperr.Internal(err)
	}
	broadcastSent.Add(1)
	return m, nil
}
