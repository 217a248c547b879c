package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhalloran/golfsync/internal/path"
)

func mustPath(t *testing.T, raw string) path.Path {
	t.Helper()
	p, err := path.Parse(raw)
	require.NoError(t, err)
	return p
}

func TestSetAtAndGetAt(t *testing.T) {
	doc := Document{}

	SetAt(doc, mustPath(t, "a/b/c"), "v")

	value, found := GetAt(doc, mustPath(t, "a/b/c"))
	assert.True(t, found)
	assert.Equal(t, "v", value)

	_, found = GetAt(doc, mustPath(t, "a/b/missing"))
	assert.False(t, found)
	_, found = GetAt(doc, mustPath(t, "a/b/c/deeper"))
	assert.False(t, found, "no children below a leaf")
}

func TestSetAtNilDeletes(t *testing.T) {
	doc := Document{}
	SetAt(doc, mustPath(t, "a/b"), "v")
	SetAt(doc, mustPath(t, "a/c"), "w")

	SetAt(doc, mustPath(t, "a/b"), nil)

	_, found := GetAt(doc, mustPath(t, "a/b"))
	assert.False(t, found)
	_, found = GetAt(doc, mustPath(t, "a/c"))
	assert.True(t, found)
}

func TestSetAtNilBelowMissingIsNoop(t *testing.T) {
	doc := Document{}
	SetAt(doc, mustPath(t, "a"), "scalar")

	SetAt(doc, mustPath(t, "a/b/c"), nil)

	value, found := GetAt(doc, mustPath(t, "a"))
	assert.True(t, found)
	assert.Equal(t, "scalar", value, "deleting below a scalar must not coerce it")
}

func TestSetAtCoercesScalarIntermediates(t *testing.T) {
	doc := Document{}
	SetAt(doc, mustPath(t, "a"), "scalar")

	SetAt(doc, mustPath(t, "a/b"), 1)

	value, found := GetAt(doc, mustPath(t, "a"))
	assert.True(t, found)
	assert.Equal(t, map[string]any{"b": 1}, value)
}

func TestApplyUpdateReturnsChangedPaths(t *testing.T) {
	doc := Document{}
	changed := ApplyUpdate(doc, mustPath(t, "rounds/1"), map[string]any{
		"players/u2": map[string]any{"name": "Bob"},
		"status":     "active",
	})

	require.Len(t, changed, 2)
	raws := []string{changed[0].String(), changed[1].String()}
	assert.ElementsMatch(t, []string{"rounds/1/players/u2", "rounds/1/status"}, raws)

	value, found := GetAt(doc, mustPath(t, "rounds/1/players/u2/name"))
	assert.True(t, found)
	assert.Equal(t, "Bob", value)
}

func TestNormalize(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	normalized := Normalize(payload{Name: "x", Count: 2})
	assert.Equal(t, map[string]any{"name": "x", "count": float64(2)}, normalized)

	assert.Equal(t, float64(3), Normalize(3))
	assert.Equal(t, true, Normalize(true))
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, []any{"a", float64(1)}, Normalize([]any{"a", 1}))
}
