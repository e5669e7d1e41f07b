// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/applyo/livepoll/pubsub"
)

type LiveHandler struct {
	db  *sql.DB
	hub *pubsub.Hub
}

func NewLiveHandler(db *sql.DB, hub *pubsub.Hub) *LiveHandler {
	return &LiveHandler{db: db, hub: hub}
}

// Subscribe handles GET /polls/:id/live. Each connection subscribes to
// exactly one poll topic and stays subscribed until it disconnects.
// Joins for malformed or unknown poll ids are silently closed: no
// error is surfaced to the channel.
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Debug("websocket accept failed", "error", err)
		return
	}

	var exists bool
	err = h.db.QueryRowContext(r.Context(), `
		SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)
	`, pollID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check poll existence", "error", err, "poll_id", pollID)
		conn.Close(websocket.StatusInternalError, "")
		return
	}
	if !exists {
		slog.Warn("subscription to unknown poll ignored", "poll_id", pollID)
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}

	client := pubsub.NewClient(h.hub, conn, pollID)
	h.hub.Register(client)

	slog.Info("subscriber joined", "poll_id", pollID)

	go client.WritePump(r.Context())
	client.ReadPump(r.Context())
}
