package local

import (
	"sync"

	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/storage"
)

// registry tracks subscriptions by subscribed path. Entries for a path are
// pruned when its last subscription is cancelled.
type registry struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]entry
}

type entry struct {
	path path.Path
	sub  *storage.Subscription
}

func newRegistry() *registry {
	return &registry{subs: make(map[string]map[int]entry)}
}

func (r *registry) add(p path.Path) *storage.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	id := r.next
	key := p.String()

	sub := storage.NewSubscription(func() {
		r.remove(key, id)
	})

	if r.subs[key] == nil {
		r.subs[key] = make(map[int]entry)
	}
	r.subs[key][id] = entry{path: p, sub: sub}
	return sub
}

func (r *registry) remove(key string, id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.subs[key]; ok {
		delete(m, id)
		if len(m) == 0 {
			delete(r.subs, key)
		}
	}
}

func (r *registry) each(fn func(subscribed path.Path, sub *storage.Subscription)) {
	r.mu.Lock()
	entries := make([]entry, 0, len(r.subs))
	for _, m := range r.subs {
		for _, e := range m {
			entries = append(entries, e)
		}
	}
	r.mu.Unlock()

	for _, e := range entries {
		fn(e.path, e.sub)
	}
}
