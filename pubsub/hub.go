// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/coder/websocket"

	"github.com/applyo/livepoll/models"
)

const (
	// Per-client buffer; a subscriber that falls this far behind is dropped
	clientSendBuffer = 8
	broadcastBuffer  = 64
)

// Message is one broadcast addressed to every subscriber of a poll.
type Message struct {
	PollID string
	Data   []byte
}

// Client is one live subscriber. A connection holds at most one
// subscription; unsubscription happens implicitly on disconnect.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	PollID string
}

func NewClient(h *Hub, conn *websocket.Conn, pollID string) *Client {
	return &Client{
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, clientSendBuffer),
		PollID: pollID,
	}
}

// Hub fans poll snapshots out to subscribers grouped by poll id. All
// subscriber-map access happens on the Run goroutine, so the hub needs
// no locks.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the subscriber map. Returns when ctx is canceled, closing
// every remaining client send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					close(c.Send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			close(h.done)
			return

		case client := <-h.register:
			conns := h.clients[client.PollID]
			if conns == nil {
				conns = make(map[*Client]bool)
				h.clients[client.PollID] = conns
			}
			conns[client] = true

		case client := <-h.unregister:
			conns := h.clients[client.PollID]
			if conns != nil {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.Send)
					if len(conns) == 0 {
						delete(h.clients, client.PollID)
					}
				}
			}

		case msg := <-h.broadcast:
			conns := h.clients[msg.PollID]
			for c := range conns {
				select {
				case c.Send <- msg.Data:

				default:
					// Subscriber can't keep up; drop it
					close(c.Send)
					delete(conns, c)
				}
			}
			if len(conns) == 0 {
				delete(h.clients, msg.PollID)
			}
		}
	}
}

// Register adds a subscriber to its poll topic.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a subscriber; safe to call after the Run loop
// already dropped it or stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish sends the full poll snapshot to every subscriber of the
// poll's topic. Non-blocking: if the hub can't keep up the snapshot is
// dropped and an error returned for the caller to log. Implements
// vote.Publisher.
func (h *Hub) Publish(poll models.Poll) error {
	data, err := json.Marshal(poll)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- Message{PollID: poll.ID, Data: data}:
		return nil
	default:
		return errors.New("broadcast channel full, snapshot dropped")
	}
}

// WritePump sends hub messages to the websocket connection until the
// send channel closes.
func (c *Client) WritePump(ctx context.Context) {
	defer c.Conn.Close(websocket.StatusNormalClosure, "")

	for m := range c.Send {
		if err := c.Conn.Write(ctx, websocket.MessageText, m); err != nil {
			slog.Debug("websocket write failed", "poll_id", c.PollID, "error", err)
			break
		}
	}
}

// ReadPump drains the connection so pings and close frames are
// processed; any client payload is ignored. Returns on disconnect,
// which unregisters the client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := c.Conn.Read(ctx); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				slog.Debug("websocket closed", "poll_id", c.PollID, "error", err)
			}
			return
		}
	}
}
