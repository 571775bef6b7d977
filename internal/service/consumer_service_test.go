package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/websocket"
	"expense-log-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	mu       sync.Mutex
	messages []websocket.FeedMessage
	err      error
}

func (f *fakeFeed) Broadcast(ctx context.Context, msg websocket.FeedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return f.err
}

func (f *fakeFeed) received() []websocket.FeedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]websocket.FeedMessage(nil), f.messages...)
}

func seededCache() *memory.DateCache {
	cache := memory.NewDateCache(time.Minute)
	cache.Set(transactionDatesKeyPrefix+"10", []time.Time{testNow})
	cache.Set(expenseDatesKeyPrefix+"10", []time.Time{testNow})
	return cache
}

func TestConsumer_HandleInvalidatesAndBroadcasts(t *testing.T) {
	cases := []struct {
		eventType        string
		feedType         string
		transactionsGone bool
		expensesGone     bool
	}{
		{events.TransactionRecorded, FeedBalance, true, false},
		{events.BalanceSet, FeedBalance, false, false},
		{events.ExpenseChanged, FeedExpenses, false, true},
		{events.SalarySet, FeedSalary, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			cache := seededCache()
			feed := &fakeFeed{}
			consumer := NewConsumerService(nil, "ledger_events", cache, feed, logger.NewNopLogger())

			err := consumer.Handle(context.Background(), events.New(tc.eventType, map[string]interface{}{"k": "v"}))
			require.NoError(t, err)

			_, txCached := cache.Get(transactionDatesKeyPrefix + "10")
			_, expCached := cache.Get(expenseDatesKeyPrefix + "10")
			assert.Equal(t, tc.transactionsGone, !txCached)
			assert.Equal(t, tc.expensesGone, !expCached)

			got := feed.received()
			require.Len(t, got, 1)
			assert.Equal(t, tc.feedType, got[0].Type)
			assert.Equal(t, map[string]interface{}{"k": "v"}, got[0].Data)
		})
	}
}

func TestConsumer_HandleIgnoresUnknownEvents(t *testing.T) {
	feed := &fakeFeed{}
	consumer := NewConsumerService(nil, "ledger_events", seededCache(), feed, logger.NewNopLogger())

	require.NoError(t, consumer.Handle(context.Background(), events.New("SOMETHING_ELSE", nil)))
	assert.Empty(t, feed.received())
}

func TestConsumer_HandleReturnsBroadcastError(t *testing.T) {
	feed := &fakeFeed{err: errors.New("redis down")}
	consumer := NewConsumerService(nil, "ledger_events", seededCache(), feed, logger.NewNopLogger())

	err := consumer.Handle(context.Background(), events.New(events.BalanceSet, nil))
	assert.EqualError(t, err, "redis down")
}

func TestConsumer_ConsumesPublishedEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	defer pubSub.Close()

	cache := seededCache()
	feed := &fakeFeed{}
	log := logger.NewNopLogger()
	publisher := NewPublisherService("ledger_events", pubSub, nil, log)
	consumer := NewConsumerService(pubSub, "ledger_events", cache, feed, log)

	require.NoError(t, pubSub.Publish("ledger_events", message.NewMessage(watermill.NewUUID(), []byte("garbage"))))
	require.NoError(t, publisher.Publish(context.Background(), events.New(events.ExpenseChanged, map[string]interface{}{"action": "created"})))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Consume(ctx) }()

	require.Eventually(t, func() bool { return len(feed.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, FeedExpenses, feed.received()[0].Type)
	_, cached := cache.Get(expenseDatesKeyPrefix + "10")
	assert.False(t, cached)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
