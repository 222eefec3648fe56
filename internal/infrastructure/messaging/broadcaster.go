// Package messaging provides the websocket broadcaster for admin live updates.
package messaging

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Client represents a single connected admin panel.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// UpdateBroadcaster fans content-update events out to every connected admin
// client so open panels refresh edited roots live.
type UpdateBroadcaster struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan content.UpdateEvent
	logger     *logging.ChanneledLogger
}

// NewUpdateBroadcaster creates a new broadcaster instance.
func NewUpdateBroadcaster(logger *logging.ChanneledLogger) *UpdateBroadcaster {
	return &UpdateBroadcaster{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan content.UpdateEvent, sendBuffer),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *UpdateBroadcaster) Run() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.clients[client] = true
			b.logger.Realtime().Debug("Admin update client registered", "clients", len(b.clients))

		case client := <-b.unregister:
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.logger.Realtime().Debug("Admin update client unregistered", "clients", len(b.clients))

		case event := <-b.events:
			b.fanOut(event)

		case <-ticker.C:
			for client := range b.clients {
				client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					delete(b.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// Register queues a client for registration.
func (b *UpdateBroadcaster) Register(client *Client) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *UpdateBroadcaster) Unregister(client *Client) {
	b.unregister <- client
}

// Broadcast queues a content-update event for delivery. Never blocks the
// caller; when the event buffer is full the event is dropped, the admin
// panel re-syncs on its next full fetch.
func (b *UpdateBroadcaster) Broadcast(event content.UpdateEvent) {
	select {
	case b.events <- event:
	default:
		b.logger.Realtime().Warn("Update event dropped, broadcaster buffer full", "key", event.Key)
	}
}

func (b *UpdateBroadcaster) fanOut(event content.UpdateEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Realtime().Error("Failed to marshal update event", "error", err.Error())
		return
	}

	for client := range b.clients {
		select {
		case client.Send <- payload:
		default:
			// slow client, drop it rather than stall the loop
			delete(b.clients, client)
			close(client.Send)
		}
	}
	b.logger.Realtime().Debug("Update event broadcast", "key", event.Key, "lang", event.Lang, "clients", len(b.clients))
}

// WritePump drains a client's send channel onto its websocket connection.
// Runs as a goroutine per connection, started by the handler.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
