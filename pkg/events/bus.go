package events

import (
	"context"
	"encoding/json"
	"fmt"

	"hr-helpdesk-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher sends events to an external bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus publishes events as JSON onto a watermill topic and optionally mirrors
// them to an external publisher. Mirror failures are logged, never returned.
type Bus struct {
	pub    message.Publisher
	topic  string
	mirror Publisher
	logger logger.ILogger
}

func NewBus(pub message.Publisher, topic string, mirror Publisher, log logger.ILogger) *Bus {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Bus{pub: pub, topic: topic, mirror: mirror, logger: log}
}

func (b *Bus) Topic() string { return b.topic }

func (b *Bus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", event.EventType())
	msg.SetContext(ctx)

	if err := b.pub.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.EventType(), err)
	}

	if b.mirror != nil {
		if err := b.mirror.Publish(ctx, event); err != nil {
			b.logger.Warn("events", "Mirror publish failed", map[string]interface{}{
				"event_type": event.EventType(),
				"error":      err.Error(),
			})
		}
	}
	return nil
}
