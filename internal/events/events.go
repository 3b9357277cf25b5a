// Package events publishes cart changes on a watermill topic.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const TopicCartChanged = "cart.changed"

// CartChanged is the payload of a TopicCartChanged message.
type CartChanged struct {
	SessionID  string    `json:"sessionId"`
	Version    uint64    `json:"version"`
	Count      int       `json:"count"`
	Total      int64     `json:"total"`
	Lines      int       `json:"lines"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher struct {
	pub    message.Publisher
	logger *zap.Logger
}

func NewPublisher(pub message.Publisher, logger *zap.Logger) *Publisher {
	return &Publisher{pub: pub, logger: logging.OrNop(logger).Named("events")}
}

func (p *Publisher) PublishCartChanged(ev CartChanged) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal cart changed: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("session_id", ev.SessionID)
	if err := p.pub.Publish(TopicCartChanged, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicCartChanged, err)
	}
	return nil
}

// CartHook subscribes to a session's cart and publishes every change.
// Its signature matches session.CartHook.
func (p *Publisher) CartHook(sess domain.Session, store *cart.Store) func() {
	return store.Subscribe(func(snap cart.Snapshot) {
		err := p.PublishCartChanged(CartChanged{
			SessionID:  sess.ID,
			Version:    snap.Version,
			Count:      snap.Count,
			Total:      snap.Total,
			Lines:      len(snap.Items),
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			p.logger.Warn("cart change not published", zap.String("session_id", sess.ID), zap.Error(err))
		}
	})
}

// Consume reads TopicCartChanged until ctx is done, calling handle for
// each decoded event. Every message is acked; decode and handler failures
// are logged and the message is dropped.
func Consume(ctx context.Context, sub message.Subscriber, logger *zap.Logger, handle func(CartChanged) error) error {
	logger = logging.OrNop(logger).Named("events")
	msgs, err := sub.Subscribe(ctx, TopicCartChanged)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicCartChanged, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev CartChanged
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				logger.Warn("undecodable cart event", zap.String("uuid", msg.UUID), zap.Error(err))
				msg.Ack()
				continue
			}
			if err := handle(ev); err != nil {
				logger.Warn("cart event handler failed", zap.String("uuid", msg.UUID), zap.Error(err))
			}
			msg.Ack()
		}
	}
}

// LogChanges is a Consume handler that writes each change to logger.
func LogChanges(logger *zap.Logger) func(CartChanged) error {
	logger = logging.OrNop(logger)
	return func(ev CartChanged) error {
		logger.Info("cart changed",
			zap.String("session_id", ev.SessionID),
			zap.Uint64("version", ev.Version),
			zap.Int("count", ev.Count),
			zap.Int64("total", ev.Total),
			zap.Int("lines", ev.Lines),
		)
		return nil
	}
}
