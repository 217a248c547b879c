package local

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/storage"
	"github.com/mhalloran/golfsync/internal/storage/blob"
)

// Store is the on-device path store: one nested document held in memory,
// persisted in full to the blob store on every mutation, with listener
// notification for ancestor/descendant/self writes.
//
// Unreadable or corrupt blobs are treated as an empty document. The local
// store is a single-device cache; availability wins over strictness here.
type Store struct {
	blobs   blob.Store
	blobKey string
	logger  *slog.Logger

	mu     sync.Mutex
	doc    storage.Document
	loaded bool

	subs *registry
}

// New creates a Store persisting its document under blobKey.
func New(blobs blob.Store, blobKey string, logger *slog.Logger) *Store {
	return &Store{
		blobs:   blobs,
		blobKey: blobKey,
		logger:  logger.With(slog.String("component", "local-store")),
		subs:    newRegistry(),
	}
}

var _ storage.Store = (*Store)(nil)

// load reads the document blob, once. Caller holds s.mu.
func (s *Store) load(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.doc = storage.Document{}

	raw, found, err := s.blobs.Load(ctx, s.blobKey)
	if err != nil {
		s.logger.Warn("document load failed, starting empty", slog.Any("error", err))
		return
	}
	if !found {
		return
	}
	var doc storage.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.logger.Warn("document blob corrupt, starting empty", slog.Any("error", err))
		return
	}
	if doc != nil {
		s.doc = doc
	}
}

// persist writes the full document back. Write failures are swallowed so a
// broken disk degrades to in-memory operation instead of failing callers.
// Caller holds s.mu.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.doc)
	if err != nil {
		s.logger.Warn("document marshal failed", slog.Any("error", err))
		return
	}
	if err := s.blobs.Save(ctx, s.blobKey, string(data)); err != nil {
		s.logger.Warn("document persist failed", slog.Any("error", err))
	}
}

// snapshotAt computes the snapshot for p. Caller holds s.mu.
func (s *Store) snapshotAt(p path.Path) storage.Snapshot {
	value, found := storage.GetAt(s.doc, p)
	return storage.SnapshotOf(value, found)
}

func (s *Store) Set(ctx context.Context, p path.Path, value any) error {
	s.mu.Lock()
	s.load(ctx)
	storage.SetAt(s.doc, p, storage.Normalize(value))
	s.persist(ctx)
	s.notify(p)
	s.mu.Unlock()
	return nil
}

func (s *Store) Update(ctx context.Context, p path.Path, children map[string]any) error {
	s.mu.Lock()
	s.load(ctx)
	normalized := make(map[string]any, len(children))
	for k, v := range children {
		normalized[k] = storage.Normalize(v)
	}
	changed := storage.ApplyUpdate(s.doc, p, normalized)
	s.persist(ctx)
	for _, c := range changed {
		s.notify(c)
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) Remove(ctx context.Context, p path.Path) error {
	return s.Set(ctx, p, nil)
}

func (s *Store) Once(ctx context.Context, p path.Path) (storage.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)
	return s.snapshotAt(p), nil
}

func (s *Store) Subscribe(ctx context.Context, p path.Path) (*storage.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	sub := s.subs.add(p)
	// Initial snapshot is buffered before any future change can be, so the
	// consumer always observes current-state-then-changes.
	sub.Push(s.snapshotAt(p))
	return sub, nil
}

// notify delivers post-write snapshots to every subscription whose path is
// related to the changed path. Caller holds s.mu.
func (s *Store) notify(changed path.Path) {
	s.subs.each(func(subscribed path.Path, sub *storage.Subscription) {
		if !subscribed.Related(changed) {
			return
		}
		if !sub.Push(s.snapshotAt(subscribed)) {
			s.logger.Warn("listener update dropped",
				slog.String("path", subscribed.String()))
		}
	})
}

