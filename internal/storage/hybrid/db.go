package hybrid

import (
	"context"

	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/storage"
)

// DB routes path operations to the local or remote store per the
// classifier. It replaces the original design's process-wide singletons
// with an injectable pair of stores.
type DB struct {
	local  storage.Store
	remote storage.Store
}

// New creates a DB over the two stores. remote may be the local store
// itself for a fully on-device deployment.
func New(local, remote storage.Store) *DB {
	return &DB{local: local, remote: remote}
}

// Local returns the private-path store directly, bypassing classification.
// Migration of data written before a namespace became shared needs this.
func (db *DB) Local() storage.Store {
	return db.local
}

// storeFor picks the backing store for a path.
func (db *DB) storeFor(p path.Path) storage.Store {
	if IsShared(p) {
		return db.remote
	}
	return db.local
}

// Ref returns a reference bound to p. References are cheap, stateless
// beyond the path, and classify on creation.
func (db *DB) Ref(p path.Path) Ref {
	return Ref{db: db, path: p}
}

// ParseRef parses and binds a path in one step.
func (db *DB) ParseRef(s string) (Ref, error) {
	p, err := path.Parse(s)
	if err != nil {
		return Ref{}, err
	}
	return db.Ref(p), nil
}

// Ref is an ephemeral handle to one path. Its operations dispatch through
// the classifier at call time.
type Ref struct {
	db   *DB
	path path.Path
}

// Path returns the bound path.
func (r Ref) Path() path.Path {
	return r.path
}

// Child derives a reference to a sub-path. It goes back through the
// factory so classification is re-run, never inherited: a private parent
// can in principle have a shared child.
func (r Ref) Child(segs ...string) (Ref, error) {
	p, err := r.path.Child(segs...)
	if err != nil {
		return Ref{}, err
	}
	return r.db.Ref(p), nil
}

// MustChild derives a sub-path reference and panics on malformed segments.
func (r Ref) MustChild(segs ...string) Ref {
	c, err := r.Child(segs...)
	if err != nil {
		panic("hybrid ref child: " + err.Error())
	}
	return c
}

func (r Ref) Set(ctx context.Context, value any) error {
	return r.db.storeFor(r.path).Set(ctx, r.path, value)
}

func (r Ref) Update(ctx context.Context, children map[string]any) error {
	return r.db.storeFor(r.path).Update(ctx, r.path, children)
}

func (r Ref) Remove(ctx context.Context) error {
	return r.db.storeFor(r.path).Remove(ctx, r.path)
}

func (r Ref) Once(ctx context.Context) (storage.Snapshot, error) {
	return r.db.storeFor(r.path).Once(ctx, r.path)
}

func (r Ref) Subscribe(ctx context.Context) (*storage.Subscription, error) {
	return r.db.storeFor(r.path).Subscribe(ctx, r.path)
}
