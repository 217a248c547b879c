package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mhalloran/golfsync/internal/dependencies/mocks"
	"github.com/mhalloran/golfsync/internal/round"
	"github.com/mhalloran/golfsync/internal/storage/blob"
	"github.com/mhalloran/golfsync/internal/storage/hybrid"
	"github.com/mhalloran/golfsync/internal/storage/local"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// SharedLocal backs the shared namespaces in tests, standing in for
	// the remote store.
	SharedLocal *local.Store
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Shared namespaces are routed to a second in-memory store rather than a
// real Redis backend.
func NewTestApp() *TestApp {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	blobs := blob.NewMemory()
	localStore := local.New(blobs, blob.KeyPathDocument, logger)
	sharedStore := local.New(blob.NewMemory(), "test-shared", logger)
	db := hybrid.New(localStore, sharedStore)

	mockClock := mocks.NewMockClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(blobs, localStore, nil, db, mockClock, mockRandom, round.DefaultConfig(), logger)

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		SharedLocal: sharedStore,
	}
}
