package blob

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, found, err := store.Load(ctx, KeyPathDocument)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, KeyPathDocument, `{"a":1}`))
	value, found, err := store.Load(ctx, KeyPathDocument)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"a":1}`, value)

	// Upsert replaces.
	require.NoError(t, store.Save(ctx, KeyPathDocument, `{"a":2}`))
	value, _, err = store.Load(ctx, KeyPathDocument)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, value)

	require.NoError(t, store.Delete(ctx, KeyPathDocument))
	_, found, err = store.Load(ctx, KeyPathDocument)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting a missing key is fine.
	require.NoError(t, store.Delete(ctx, "never-written"))
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blobs.db")
	ctx := context.Background()

	store, err := OpenSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, KeySession, `{"uid":"u1"}`))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	value, found, err := reopened.Load(ctx, KeySession)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"uid":"u1"}`, value)
}
