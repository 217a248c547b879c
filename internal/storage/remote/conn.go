package remote

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// pinger is the slice of the client used by the probe loop.
type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// ConnFeed reports boolean connected/disconnected state. In fallback mode
// it reports a constant true: the local store is always reachable.
type ConnFeed struct {
	ch     chan bool
	cancel func()
	once   sync.Once
}

// Updates returns the connectivity delivery channel.
func (f *ConnFeed) Updates() <-chan bool {
	return f.ch
}

// Cancel detaches the feed.
func (f *ConnFeed) Cancel() {
	f.once.Do(f.cancel)
}

// connectivity tracks connected state and fans out changes.
type connectivity struct {
	mu        sync.Mutex
	connected bool
	known     bool
	next      int
	feeds     map[int]*ConnFeed
}

func newConnectivity() *connectivity {
	return &connectivity{feeds: make(map[int]*ConnFeed)}
}

func (c *connectivity) set(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.known && c.connected == connected {
		return
	}
	c.known = true
	c.connected = connected
	for _, f := range c.feeds {
		select {
		case f.ch <- connected:
		default:
		}
	}
}

func (c *connectivity) subscribe() *ConnFeed {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	id := c.next
	feed := &ConnFeed{ch: make(chan bool, 4)}
	feed.cancel = func() {
		c.mu.Lock()
		delete(c.feeds, id)
		c.mu.Unlock()
		close(feed.ch)
	}
	c.feeds[id] = feed

	if c.known {
		feed.ch <- c.connected
	}
	return feed
}

// Connectivity returns a feed of connection state changes. The current
// state, once known, is delivered first.
func (s *Store) Connectivity() *ConnFeed {
	return s.conn.subscribe()
}

// Connected reports the last observed connectivity. Before initialization
// settles it reports false.
func (s *Store) Connected() bool {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	return s.conn.known && s.conn.connected
}

// pingLoop probes the backend after a successful init and flips the
// connectivity feed on change. It runs until the store is closed.
func (s *Store) pingLoop(client pinger) {
	interval := s.cfg.PingInterval
	if interval <= 0 {
		interval = DefaultConfig().PingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			s.logger.Warn("connectivity probe failed", slog.Any("error", err))
		}
		s.conn.set(err == nil)
	}
}
