package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/round"
)

// Relay bridges round feeds onto SSE hubs: one hub per round code, fed by
// a single live subscription shared by all of its clients.
type Relay struct {
	manager *round.Manager
	logger  *slog.Logger

	mu   sync.Mutex
	hubs map[model.RoundCode]*relayEntry
}

type relayEntry struct {
	hub  *Hub
	feed *round.Feed
}

// NewRelay creates a relay over the round manager.
func NewRelay(manager *round.Manager, logger *slog.Logger) *Relay {
	return &Relay{
		manager: manager,
		logger:  logger.With(slog.String("component", "sse")),
		hubs:    make(map[model.RoundCode]*relayEntry),
	}
}

// HubFor returns the hub for a round, starting its feed on first use. The
// feed outlives any single request, so it is not bound to a request
// context.
func (r *Relay) HubFor(code model.RoundCode) (*Hub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.hubs[code]; ok {
		return entry.hub, nil
	}

	feed, err := r.manager.Listen(context.Background(), code)
	if err != nil {
		return nil, err
	}
	hub := NewHub(code, r.logger)
	go hub.Run()
	r.hubs[code] = &relayEntry{hub: hub, feed: feed}
	go r.pump(code, hub, feed)
	return hub, nil
}

// pump forwards decoded round snapshots into the hub until the feed ends.
// A nil round means the document was deleted.
func (r *Relay) pump(code model.RoundCode, hub *Hub, feed *round.Feed) {
	for g := range feed.Updates() {
		if g == nil {
			hub.BroadcastEvent("round-ended", string(code))
			continue
		}
		data, err := json.Marshal(model.EncodeGroupRound(g))
		if err != nil {
			r.logger.Warn("sse round encode failed",
				slog.String("round", string(code)), slog.Any("error", err))
			continue
		}
		hub.BroadcastEvent("round", string(data))
	}
	hub.Close()
	r.mu.Lock()
	delete(r.hubs, code)
	r.mu.Unlock()
}

// Remove tears down a round's hub, disconnecting its clients.
func (r *Relay) Remove(code model.RoundCode) {
	r.mu.Lock()
	entry, ok := r.hubs[code]
	r.mu.Unlock()
	if ok {
		entry.feed.Cancel()
	}
}

// CleanupEmptyHubs tears down hubs with no connected clients.
func (r *Relay) CleanupEmptyHubs() {
	r.mu.Lock()
	var idle []*relayEntry
	for _, entry := range r.hubs {
		if entry.hub.ClientCount() == 0 {
			idle = append(idle, entry)
		}
	}
	r.mu.Unlock()
	for _, entry := range idle {
		entry.feed.Cancel()
	}
}

// Close tears down every hub.
func (r *Relay) Close() {
	r.mu.Lock()
	entries := make([]*relayEntry, 0, len(r.hubs))
	for _, entry := range r.hubs {
		entries = append(entries, entry)
	}
	r.mu.Unlock()
	for _, entry := range entries {
		entry.feed.Cancel()
	}
}
