package sse

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive comments.
	pingPeriod = 15 * time.Second

	// Buffer size for outgoing messages.
	sendBufferSize = 256
)

// Client is one connected SSE consumer.
type Client struct {
	hub  *Hub
	uid  string
	send chan []byte
}

// NewClient creates a client bound to a hub.
func NewClient(hub *Hub, uid string) *Client {
	return &Client{
		hub:  hub,
		uid:  uid,
		send: make(chan []byte, sendBufferSize),
	}
}

// ServeSSE streams hub events to one HTTP response until the client
// disconnects or the hub closes.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, uid string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(hub, uid)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
