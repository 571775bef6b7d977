package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"expense-log-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries feed messages between instances.
const ClusterChannel = "cluster_events"

// FeedMessage is what browsers receive on the live feed socket.
type FeedMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterEnvelope struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// Hub fans ledger updates out to every open feed socket, locally and on
// other instances through Redis pub/sub.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	rdb *redis.Client
	// instanceID lets an instance ignore its own Redis echoes.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run serves register/unregister requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(logger.ModuleEvents, "Feed client registered", map[string]interface{}{
				"username": client.Username,
				"clients":  count,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount reports how many sockets this instance serves.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to all local clients and publishes it for other
// instances.
func (h *Hub) Broadcast(ctx context.Context, msg FeedMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.deliver(data)

	if h.rdb != nil {
		payload, err := json.Marshal(clusterEnvelope{Origin: h.instanceID, Message: data})
		if err != nil {
			return err
		}
		if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
			h.logger.Warn(logger.ModuleEvents, "Failed to publish feed message to Redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (h *Hub) deliver(data []byte) {
	var stale []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.logger.Warn(logger.ModuleEvents, "Feed client buffer full, dropping connection", map[string]interface{}{
			"username": client.Username,
		})
		h.remove(client)
	}
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var envelope clusterEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				h.logger.Warn(logger.ModuleEvents, "Redis feed message parse error", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if envelope.Origin == h.instanceID {
				continue
			}
			h.deliver(envelope.Message)
		}
	}
}
