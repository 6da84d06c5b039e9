package service

import (
	"context"
	"encoding/json"

	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const eventTypeMetadataKey = "event_type"

// EventMirror receives a copy of every published event (the NATS publisher).
type EventMirror interface {
	Publish(ctx context.Context, event events.Event) error
}

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	mirror    EventMirror
	logger    logger.ILogger
}

// NewPublisherService publishes onto the in-process bus; mirror may be nil.
func NewPublisherService(topicName string, publisher message.Publisher, mirror EventMirror, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		mirror:    mirror,
		logger:    log,
	}
}

func (s *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(eventTypeMetadataKey, event.EventType())
	msg.SetContext(ctx)

	if err := s.publisher.Publish(s.topicName, msg); err != nil {
		return err
	}

	// The mirror is best effort; the in-process bus is the source of truth.
	if s.mirror != nil {
		if err := s.mirror.Publish(ctx, event); err != nil {
			s.logger.Warn("PublisherService", "Failed to mirror event to NATS", map[string]interface{}{
				"error":      err.Error(),
				"event_type": event.EventType(),
			})
		}
	}
	return nil
}
