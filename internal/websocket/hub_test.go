package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"expense-log-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesLocalClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	client := &Client{Hub: hub, Username: "admin", Send: make(chan []byte, 1)}
	require.True(t, hub.add(client))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Broadcast(ctx, FeedMessage{Type: "balance", Data: map[string]string{"current_balance": "70.00"}}))

	select {
	case raw := <-client.Send:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "balance", msg["type"])
		assert.Equal(t, "70.00", msg["data"].(map[string]interface{})["current_balance"])
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHub_DropsClientWithFullBuffer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	client := &Client{Hub: hub, Username: "admin", Send: make(chan []byte)}
	require.True(t, hub.add(client))

	require.NoError(t, hub.Broadcast(ctx, FeedMessage{Type: "balance"}))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_AddAfterShutdownFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.add(&Client{Hub: hub, Send: make(chan []byte, 1)}))
}
