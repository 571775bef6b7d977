package service

import (
	"context"

	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/websocket"
	"expense-log-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	transactionDatesKeyPrefix = "bank.transaction_dates:"
	expenseDatesKeyPrefix     = "month.expense_dates:"
)

// Feed message types pushed to browsers.
const (
	FeedBalance  = "balance"
	FeedExpenses = "expenses"
	FeedSalary   = "salary"
)

type FeedBroadcaster interface {
	Broadcast(ctx context.Context, msg websocket.FeedMessage) error
}

type IConsumerService interface {
	// Consume blocks, handling bus messages until ctx is cancelled.
	Consume(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	dateCache  *memory.DateCache
	feed       FeedBroadcaster
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	dateCache *memory.DateCache,
	feed FeedBroadcaster,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		dateCache:  dateCache,
		feed:       feed,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	cs.logger.Info(logger.ModuleEvents, "Ledger event consumer started", map[string]interface{}{
		"topic": cs.topicName,
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			cs.processMessage(ctx, msg)
		}
	}
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error(logger.ModuleEvents, "Failed to decode bus message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Redelivery cannot fix a malformed payload.
		msg.Ack()
		return
	}

	if err := cs.Handle(ctx, event); err != nil {
		cs.logger.Error(logger.ModuleEvents, "Failed to handle event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

// Handle invalidates cached date lists touched by the event and pushes the
// change to live feed sockets.
func (cs *consumerService) Handle(ctx context.Context, event events.Event) error {
	data := event.Payload()

	var feed websocket.FeedMessage
	switch event.EventType() {
	case events.TransactionRecorded:
		cs.dateCache.InvalidatePrefix(transactionDatesKeyPrefix)
		feed = websocket.FeedMessage{Type: FeedBalance, Data: data}
	case events.BalanceSet:
		feed = websocket.FeedMessage{Type: FeedBalance, Data: data}
	case events.ExpenseChanged:
		cs.dateCache.InvalidatePrefix(expenseDatesKeyPrefix)
		feed = websocket.FeedMessage{Type: FeedExpenses, Data: data}
	case events.SalarySet:
		feed = websocket.FeedMessage{Type: FeedSalary, Data: data}
	default:
		cs.logger.Debug(logger.ModuleEvents, "Ignoring unknown event", map[string]interface{}{
			"event_type": event.EventType(),
		})
		return nil
	}

	cs.logger.Debug(logger.ModuleEvents, "Event handled", map[string]interface{}{
		"event_type": event.EventType(),
	})

	if cs.feed == nil {
		return nil
	}
	return cs.feed.Broadcast(ctx, feed)
}
