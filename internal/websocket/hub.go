package websocket

import (
	"context"
	"encoding/json"

	"pdf-extractor/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the Redis channel shared by all instances.
const ClusterChannel = "pdf_extractor_state"

type delivery struct {
	sessionID string
	data      []byte
}

type clusterMessage struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

// Hub fans state messages out to the sockets of a session.
// The clients map is owned by the Run goroutine.
type Hub struct {
	// SessionID -> open sockets (several tabs may share a session)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	deliveries chan delivery
	counts     chan chan int

	// Redis connection for cross-instance communication, nil when running alone
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
		counts:     make(chan chan int),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliveries:
			// remove reslices the session's list, so drop slow clients after the loop.
			var slow []*Client
			for _, client := range h.clients[d.sessionID] {
				select {
				case client.Send <- d.data:
				default:
					slow = append(slow, client)
				}
			}
			for _, client := range slow {
				h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": d.sessionID})
				h.remove(client)
			}

		case reply := <-h.counts:
			n := 0
			for _, clients := range h.clients {
				n += len(clients)
			}
			reply <- n
		}
	}
}

// remove drops client and closes its Send channel exactly once.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no open sockets", map[string]interface{}{"session_id": client.SessionID})
	}
}

// Send queues data for every socket of sessionID, here and on other instances.
func (h *Hub) Send(sessionID string, data []byte) {
	h.deliveries <- delivery{sessionID: sessionID, data: data}

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:          h.instanceID,
			TargetSessionID: sessionID,
			Message:         data,
		})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// ClientCount returns the number of registered sockets.
func (h *Hub) ClientCount() int {
	reply := make(chan int)
	h.counts <- reply
	return <-reply
}

// Every instance subscribes to one channel and delivers only to the
// sessions it holds locally.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID || payload.TargetSessionID == "" {
			continue
		}
		h.deliveries <- delivery{sessionID: payload.TargetSessionID, data: payload.Message}
	}
}
