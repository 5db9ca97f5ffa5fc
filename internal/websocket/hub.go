package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/pkg/livefeed"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the redis channel hubs use to reach clients connected to
// other instances.
const ClusterChannel = "autobuild_cluster_events"

type clusterMessage struct {
	Origin      string          `json:"origin"`
	RequesterID string          `json:"requester_id"`
	Message     json.RawMessage `json:"message"`
}

// Hub tracks websocket clients per requester and delivers build updates to
// them. Any number of connections may share a requester id.
type Hub struct {
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger
}

var _ livefeed.Publisher = (*Hub)(nil)

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run processes registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.RequesterID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.RequesterID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"requester_id": client.RequesterID})
		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

// add hands the client to Run. It reports false once the hub stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// removeLocked drops the client and closes its queue exactly once.
func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.RequesterID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.RequesterID)
		h.logger.Info("Hub", "Requester has no open connections", map[string]interface{}{"requester_id": client.RequesterID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

// Publish pushes the update to the requester's local connections and, when
// redis is configured, to the other instances.
func (h *Hub) Publish(ctx context.Context, update livefeed.Update) error {
	data, err := json.Marshal(map[string]interface{}{
		"type": livefeed.EventType,
		"data": update,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	h.deliver(update.RequesterID, data)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{Origin: h.instanceID, RequesterID: update.RequesterID, Message: data})
	if err != nil {
		return err
	}
	if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// deliver queues data on every connection of the requester. Connections whose
// queue is full are dropped.
func (h *Hub) deliver(requesterID string, data []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.clients[requesterID] {
		select {
		case client.Send <- data:
			delivered++
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"requester_id": requesterID})
			h.removeLocked(client)
		}
	}
	return delivered
}

// Connections is the number of open connections of the requester.
func (h *Hub) Connections(requesterID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[requesterID])
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterMessage([]byte(msg.Payload))
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Malformed cluster message", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceID {
		return
	}
	h.deliver(payload.RequesterID, payload.Message)
}
