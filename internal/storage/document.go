package storage

import (
	"encoding/json"

	"github.com/mhalloran/golfsync/internal/path"
)

// Document is the nested keyed structure both stores operate on. It is the
// in-memory form of one JSON blob.
type Document map[string]any

// GetAt resolves p against the document. found is false when any segment
// is absent or an intermediate node is not a map.
func GetAt(doc Document, p path.Path) (value any, found bool) {
	var current any = map[string]any(doc)
	for _, seg := range p.Segments() {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetAt assigns value at p, materializing intermediate maps as needed.
// A non-map intermediate node is replaced by an empty map (destructive
// coercion). A nil value deletes the key at p together with its subtree.
func SetAt(doc Document, p path.Path, value any) {
	segs := p.Segments()
	current := map[string]any(doc)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			if value == nil {
				// Nothing to delete below a missing or scalar node.
				return
			}
			next = map[string]any{}
			current[seg] = next
		}
		current = next
	}

	leaf := segs[len(segs)-1]
	if value == nil {
		delete(current, leaf)
		return
	}
	current[leaf] = value
}

// ApplyUpdate performs the shallow merge contract of Update: one SetAt per
// top-level key of children. Returns the affected paths for notification.
func ApplyUpdate(doc Document, p path.Path, children map[string]any) []path.Path {
	changed := make([]path.Path, 0, len(children))
	for key, value := range children {
		child, err := p.Child(key)
		if err != nil {
			continue
		}
		SetAt(doc, child, value)
		changed = append(changed, child)
	}
	return changed
}

// Normalize coerces a value to its JSON-equivalent kinds (nil, bool,
// float64, string, map[string]any) so that what a listener observes before
// persistence matches what a reader decodes after, regardless of routing.
func Normalize(value any) any {
	switch value.(type) {
	case nil, bool, string, float64, map[string]any:
		return value
	}
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return value
	}
	return out
}
