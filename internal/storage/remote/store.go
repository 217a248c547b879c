package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/storage"
)

// writeRetries bounds optimistic-lock retries on contended namespaces.
const writeRetries = 8

// ErrWriteContention is returned when a write loses the optimistic lock on
// every retry.
var ErrWriteContention = errors.New("remote write contention")

// Store adapts a Redis backend to the path store contract. Each namespace
// root (first path segment) is one JSON document under one key; writes are
// WATCH-guarded read-modify-write and publish the changed path on the
// namespace's channel, which backs live subscriptions across devices.
//
// Initialization is asynchronous. Every operation gates on the ready
// signal; if initialization failed, the operation is served by the local
// fallback store instead, permanently for this process. Data written during
// an outage is not migrated back.
type Store struct {
	cfg      Config
	logger   *slog.Logger
	fallback storage.Store

	client atomic.Pointer[redis.Client]
	state  atomic.Int32
	ready  chan struct{}

	done      chan struct{}
	closeOnce sync.Once

	conn *connectivity
}

// New creates a Store and begins connecting in the background. fallback
// serves every operation if the backend never becomes ready.
func New(cfg Config, fallback storage.Store, logger *slog.Logger) *Store {
	s := &Store{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "remote-store")),
		fallback: fallback,
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
		conn:     newConnectivity(),
	}
	go s.connect()
	return s
}

// NewWithClient creates a Store over an existing client, ready immediately
// (for testing against miniredis).
func NewWithClient(client *redis.Client, cfg Config, fallback storage.Store, logger *slog.Logger) *Store {
	s := &Store{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "remote-store")),
		fallback: fallback,
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
		conn:     newConnectivity(),
	}
	s.client.Store(client)
	s.state.Store(int32(StateReady))
	s.conn.set(true)
	close(s.ready)
	return s
}

var _ storage.Store = (*Store)(nil)

// connect performs one-shot asynchronous initialization. The ready channel
// closes exactly once regardless of outcome.
func (s *Store) connect() {
	defer close(s.ready)

	opts, err := redis.ParseURL(s.cfg.URL)
	if err != nil {
		s.fail(err)
		return
	}
	opts.PoolSize = s.cfg.PoolSize
	opts.MinIdleConns = s.cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		s.fail(err)
		return
	}

	s.client.Store(client)
	s.state.Store(int32(StateReady))
	s.conn.set(true)
	s.logger.Info("remote backend connected", slog.String("url", s.cfg.URL))
	go s.pingLoop(client)
}

func (s *Store) fail(err error) {
	s.state.Store(int32(StateFailed))
	// Fallback mode reports constant connectivity: the local store is
	// always reachable.
	s.conn.set(true)
	s.logger.Warn("remote backend unavailable, serving locally", slog.Any("error", err))
}

// State returns the current initialization state.
func (s *Store) State() ConnState {
	return ConnState(s.state.Load())
}

// Close stops the connectivity probe and releases the backend connection.
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	if client := s.client.Load(); client != nil {
		return client.Close()
	}
	return nil
}

// await blocks until initialization settles or ctx is done. A nil client
// means the fallback store serves this operation.
func (s *Store) await(ctx context.Context) (*redis.Client, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.State() != StateReady {
		return nil, nil
	}
	return s.client.Load(), nil
}

// Key and channel layout.

func (s *Store) treeKey(root string) string {
	return fmt.Sprintf("%s:tree:%s", s.cfg.KeyPrefix, root)
}

func (s *Store) changeChannel(root string) string {
	return fmt.Sprintf("%s:changes:%s", s.cfg.KeyPrefix, root)
}

// loadTree reads the namespace document for root. A missing key is an
// empty document.
func loadTree(ctx context.Context, c redis.Cmdable, key, root string) (storage.Document, error) {
	raw, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return storage.Document{}, nil
	}
	if err != nil {
		return nil, err
	}
	// The stored blob is the value at the namespace root, wrapped so path
	// resolution sees full paths.
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("namespace %s corrupt: %w", root, err)
	}
	if value == nil {
		return storage.Document{}, nil
	}
	return storage.Document{root: value}, nil
}

// mutate applies fn to the namespace document under an optimistic lock and
// publishes one message per changed path.
func (s *Store) mutate(ctx context.Context, client *redis.Client, p path.Path, fn func(doc storage.Document) []path.Path) error {
	root := p.Root()
	key := s.treeKey(root)

	txn := func(tx *redis.Tx) error {
		doc, err := loadTree(ctx, tx, key, root)
		if err != nil {
			return err
		}
		changed := fn(doc)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			value, ok := doc[root]
			if !ok {
				pipe.Del(ctx, key)
			} else {
				data, err := json.Marshal(value)
				if err != nil {
					return err
				}
				pipe.Set(ctx, key, data, 0)
			}
			for _, c := range changed {
				pipe.Publish(ctx, s.changeChannel(root), c.String())
			}
			return nil
		})
		return err
	}

	for i := 0; i < writeRetries; i++ {
		err := client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrWriteContention
}

func (s *Store) Set(ctx context.Context, p path.Path, value any) error {
	client, err := s.await(ctx)
	if err != nil {
		return err
	}
	if client == nil {
		return s.fallback.Set(ctx, p, value)
	}
	return s.mutate(ctx, client, p, func(doc storage.Document) []path.Path {
		storage.SetAt(doc, p, storage.Normalize(value))
		return []path.Path{p}
	})
}

func (s *Store) Update(ctx context.Context, p path.Path, children map[string]any) error {
	client, err := s.await(ctx)
	if err != nil {
		return err
	}
	if client == nil {
		return s.fallback.Update(ctx, p, children)
	}
	return s.mutate(ctx, client, p, func(doc storage.Document) []path.Path {
		normalized := make(map[string]any, len(children))
		for k, v := range children {
			normalized[k] = storage.Normalize(v)
		}
		return storage.ApplyUpdate(doc, p, normalized)
	})
}

func (s *Store) Remove(ctx context.Context, p path.Path) error {
	return s.Set(ctx, p, nil)
}

func (s *Store) Once(ctx context.Context, p path.Path) (storage.Snapshot, error) {
	client, err := s.await(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	if client == nil {
		return s.fallback.Once(ctx, p)
	}

	doc, err := loadTree(ctx, client, s.treeKey(p.Root()), p.Root())
	if err != nil {
		return storage.Snapshot{}, err
	}
	value, found := storage.GetAt(doc, p)
	return storage.SnapshotOf(value, found), nil
}

func (s *Store) Subscribe(ctx context.Context, p path.Path) (*storage.Subscription, error) {
	client, err := s.await(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return s.fallback.Subscribe(ctx, p)
	}

	pubsub := client.Subscribe(ctx, s.changeChannel(p.Root()))
	// Force the SUBSCRIBE onto the wire before the initial read, so no
	// change between snapshot and registration is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := storage.NewSubscription(func() {
		_ = pubsub.Close()
	})

	initial, err := s.Once(ctx, p)
	if err != nil {
		sub.Cancel()
		return nil, err
	}
	sub.Push(initial)

	go s.forward(p, pubsub, sub)
	return sub, nil
}

// forward relays published change paths into snapshot deliveries.
func (s *Store) forward(p path.Path, pubsub *redis.PubSub, sub *storage.Subscription) {
	ctx := context.Background()
	for msg := range pubsub.Channel() {
		changed, err := path.Parse(msg.Payload)
		if err != nil || !p.Related(changed) {
			continue
		}
		snap, err := s.Once(ctx, p)
		if err != nil {
			s.logger.Warn("subscription read failed",
				slog.String("path", p.String()), slog.Any("error", err))
			continue
		}
		if !sub.Push(snap) {
			s.logger.Warn("subscription update dropped", slog.String("path", p.String()))
		}
	}
}

