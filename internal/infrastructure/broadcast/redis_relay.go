package broadcast

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
)

// RedisRelay publishes messages on a Redis channel and relays everything received
// on that channel to the local hub, so every instance reaches its own clients.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	logger  logrus.FieldLogger
}

func NewRedisRelay(rdb *redis.Client, channel string, hub *Hub, logger logrus.FieldLogger) *RedisRelay {
	return &RedisRelay{rdb: rdb, channel: channel, hub: hub, logger: logger}
}

func (r *RedisRelay) Publish(ctx context.Context, m entity.BroadcastMessage) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, b).Err()
}

// Run relays until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.logger.WithField("channel", r.channel).Info("broadcast relay subscribed")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("broadcast relay: subscription closed")
			}
			var m entity.BroadcastMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				r.logger.WithError(err).Warn("broadcast relay: bad payload")
				continue
			}
			r.hub.Deliver(m)
		}
	}
}
