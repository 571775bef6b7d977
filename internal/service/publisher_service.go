package service

import (
	"context"

	"expense-log-be/internal/pkg/logger"
	"expense-log-be/pkg/events"
	pktNats "expense-log-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName      string
	publisher      message.Publisher
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

// NewPublisherService publishes on the in-process bus and, when
// eventPublisher is non-nil, mirrors every event to NATS.
func NewPublisherService(
	topicName string,
	publisher message.Publisher,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IPublisherService {
	return &publisherService{
		topicName:      topicName,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		return err
	}

	if p.eventPublisher != nil {
		if err := p.eventPublisher.Publish(ctx, event); err != nil {
			p.logger.Warn(logger.ModuleEvents, "Failed to mirror event to NATS", map[string]interface{}{
				"event_type": event.EventType(),
				"error":      err.Error(),
			})
		}
	}
	return nil
}

// publishAfterCommit reports an event whose write already committed. A
// failure is logged, never returned, since the data change stands.
func publishAfterCommit(ctx context.Context, publisher IPublisherService, log logger.ILogger, module string, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn(module, "Failed to publish event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
}
