package storage

import (
	"context"

	"github.com/mhalloran/golfsync/internal/path"
)

// Store defines the path-addressed operation set shared by the local store,
// the remote synchronized store, and hybrid references.
//
// Values are the JSON-equivalent kinds: nil, bool, float64, string,
// map[string]any. Setting nil at a path removes that key and its subtree.
type Store interface {
	// Set assigns value at p, materializing intermediate maps as needed.
	// A nil value deletes the node and its subtree.
	Set(ctx context.Context, p path.Path, value any) error

	// Update performs Set(p/k, v) for each top-level key k of children.
	// Only the first level under p is merged; deeper structures replace.
	Update(ctx context.Context, p path.Path, children map[string]any) error

	// Remove is equivalent to Set(p, nil).
	Remove(ctx context.Context, p path.Path) error

	// Once reads the current value at p.
	Once(ctx context.Context, p path.Path) (Snapshot, error)

	// Subscribe registers for changes affecting p (self, ancestor or
	// descendant writes). The current snapshot is delivered first,
	// asynchronously, then one snapshot per future change.
	Subscribe(ctx context.Context, p path.Path) (*Subscription, error)
}
