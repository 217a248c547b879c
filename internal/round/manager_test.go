package round

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mhalloran/golfsync/internal/dependencies/mocks"
	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/storage/blob"
	"github.com/mhalloran/golfsync/internal/storage/hybrid"
	"github.com/mhalloran/golfsync/internal/storage/local"
	"github.com/mhalloran/golfsync/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	db      *hybrid.DB
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	manager *Manager
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	logger := testutil.NopLogger()
	private := local.New(blob.NewMemory(), blob.KeyPathDocument, logger)
	shared := local.New(blob.NewMemory(), "test-shared", logger)
	s.db = hybrid.New(private, shared)
	s.clock = mocks.NewMockClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.manager = NewManager(s.db, s.clock, s.random, logger, DefaultConfig())
	s.ctx = context.Background()
}

func (s *ManagerSuite) createRound(code model.RoundCode) *model.GroupRound {
	g, err := s.manager.Create(s.ctx, "u1", "Alice", model.RoundMeta{
		CourseID: "sprain-lake",
		Tee:      "white",
		Date:     "2024-05-01",
	}, code)
	s.Require().NoError(err)
	return g
}

// Create tests

func (s *ManagerSuite) TestCreateWithExplicitCode() {
	g := s.createRound("AB3X9K")

	s.Equal(model.RoundCode("AB3X9K"), g.Code)
	s.Equal(model.StatusActive, g.Meta.Status)
	s.Equal("u1", g.Meta.CreatedBy)
	s.Equal("Alice", g.Players["u1"].Name)
	s.Equal(model.Scores{}, g.Scores["u1"])

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal("Alice", stored.Players["u1"].Name)
	s.Equal(model.StatusActive, stored.Meta.Status)
	for i := 0; i < model.HolesPerRound; i++ {
		s.Equal(0, stored.Scores["u1"][i])
	}
}

func (s *ManagerSuite) TestCreateGeneratesCode() {
	s.random.QueueString("QRST23")

	g, err := s.manager.Create(s.ctx, "u1", "Alice", model.RoundMeta{}, "")
	s.Require().NoError(err)
	s.Equal(model.RoundCode("QRST23"), g.Code)
}

func (s *ManagerSuite) TestCreateRejectsActiveCode() {
	s.createRound("AB3X9K")

	_, err := s.manager.Create(s.ctx, "u2", "Bob", model.RoundMeta{}, "AB3X9K")
	s.Require().ErrorIs(err, model.ErrCodeInUse)
}

func (s *ManagerSuite) TestCreateRejectsMalformedCode() {
	s.createRound("AB3X9K")

	malformed := []model.RoundCode{
		"/",             // the activeRounds root itself
		"AB3X9K/scores", // a subtree of an existing round
		"abc234",        // lowercase is outside the alphabet
		"AB3X0K",        // 0 is outside the alphabet
		"AB3X9",
		"AB3X9KZ",
	}
	for _, code := range malformed {
		_, err := s.manager.Create(s.ctx, "u2", "Bob", model.RoundMeta{}, code)
		s.Require().ErrorIs(err, model.ErrInvalidRoundCode, "code %q", code)
	}

	// The existing round survives every rejected attempt.
	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(model.StatusActive, stored.Meta.Status)
	s.Equal("Alice", stored.Players["u1"].Name)
}

func (s *ManagerSuite) TestCreateReusesTerminalCode() {
	s.createRound("AB3X9K")
	s.Require().NoError(s.manager.EndForAll(s.ctx, "AB3X9K", "u1"))

	g, err := s.manager.Create(s.ctx, "u2", "Bob", model.RoundMeta{}, "AB3X9K")
	s.Require().NoError(err)
	s.Equal("u2", g.Meta.CreatedBy)

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(model.StatusActive, stored.Meta.Status)
	s.NotContains(stored.Players, "u1")
}

// Join tests

func (s *ManagerSuite) TestJoinAddsPlayer() {
	s.createRound("AB3X9K")

	g, err := s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().NoError(err)
	s.Equal("Bob", g.Players["u2"].Name)

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Len(stored.Players, 2)
	s.Equal(model.Scores{}, stored.Scores["u2"])
	s.Equal(0, stored.CurrentHole["u2"])
}

func (s *ManagerSuite) TestJoinIsIdempotent() {
	s.createRound("AB3X9K")
	_, err := s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().NoError(err)
	s.Require().NoError(s.manager.UpdateScore(s.ctx, "AB3X9K", "u2", 0, 5))

	_, err = s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().NoError(err)

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Len(stored.Players, 2)
	s.Equal(5, stored.Scores["u2"][0], "re-join must not reset scores")
}

func (s *ManagerSuite) TestJoinUnknownCode() {
	_, err := s.manager.Join(s.ctx, "ZZZZZZ", "u2", "Bob")
	s.Require().ErrorIs(err, model.ErrRoundNotFound)
}

func (s *ManagerSuite) TestJoinCorruptRound() {
	ref, err := s.db.ParseRef("activeRounds/BADBAD")
	s.Require().NoError(err)
	s.Require().NoError(ref.Set(s.ctx, map[string]any{"players": map[string]any{}}))

	_, err = s.manager.Join(s.ctx, "BADBAD", "u2", "Bob")
	s.Require().ErrorIs(err, model.ErrRoundCorrupted)
}

func (s *ManagerSuite) TestJoinFinishedRound() {
	s.createRound("AB3X9K")
	s.Require().NoError(s.manager.Finish(s.ctx, "AB3X9K", "u1"))

	_, err := s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().ErrorIs(err, model.ErrRoundNotActive)
}

func (s *ManagerSuite) TestJoinAfterPersonalFinish() {
	s.createRound("AB3X9K")
	_, err := s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().NoError(err)
	s.Require().NoError(s.manager.MarkPlayerFinished(s.ctx, "AB3X9K", "u2"))

	_, err = s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().ErrorIs(err, model.ErrPlayerFinished)
}

// Score and tracking updates

func (s *ManagerSuite) TestUpdateScore() {
	s.createRound("AB3X9K")

	s.Require().NoError(s.manager.UpdateScore(s.ctx, "AB3X9K", "u1", 4, 6))

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(6, stored.Scores["u1"][4])
	s.Equal(0, stored.Scores["u1"][3])
}

func (s *ManagerSuite) TestUpdateScoreInvalidHole() {
	s.createRound("AB3X9K")

	s.ErrorIs(s.manager.UpdateScore(s.ctx, "AB3X9K", "u1", 18, 4), model.ErrInvalidHole)
	s.ErrorIs(s.manager.UpdateScore(s.ctx, "AB3X9K", "u1", -1, 4), model.ErrInvalidHole)
}

func (s *ManagerSuite) TestUpdateTracking() {
	s.createRound("AB3X9K")

	s.Require().NoError(s.manager.UpdateTracking(s.ctx, "AB3X9K", "u1", model.TrackPutts, 2, 3))
	s.Require().NoError(s.manager.UpdateTracking(s.ctx, "AB3X9K", "u1", model.TrackFairway, 2, true))
	s.Require().NoError(s.manager.UpdateTracking(s.ctx, "AB3X9K", "u1", model.TrackMulliganLocations, 2, []string{"tee"}))

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(3, stored.Tracking["u1"].Putts[2])
	s.True(stored.Tracking["u1"].Fairway[2])
	s.Equal([]string{"tee"}, stored.Tracking["u1"].MulliganLocations[2])
}

func (s *ManagerSuite) TestUpdateTrackingUnknownType() {
	s.createRound("AB3X9K")

	err := s.manager.UpdateTracking(s.ctx, "AB3X9K", "u1", "birdwatching", 2, 1)
	s.ErrorIs(err, model.ErrInvalidTrackType)
}

func (s *ManagerSuite) TestUpdateCurrentHole() {
	s.createRound("AB3X9K")

	s.Require().NoError(s.manager.UpdateCurrentHole(s.ctx, "AB3X9K", "u1", 9))

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(9, stored.CurrentHole["u1"])
}

// Lifecycle

func (s *ManagerSuite) TestCheckAndCleanupFinishesWhenAllDone() {
	s.createRound("AB3X9K")
	_, err := s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().NoError(err)

	s.Require().NoError(s.manager.MarkPlayerFinished(s.ctx, "AB3X9K", "u1"))
	s.Require().NoError(s.manager.CheckAndCleanup(s.ctx, "AB3X9K"))

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(model.StatusActive, stored.Meta.Status, "one unfinished player keeps the round active")

	s.Require().NoError(s.manager.MarkPlayerFinished(s.ctx, "AB3X9K", "u2"))
	s.Require().NoError(s.manager.CheckAndCleanup(s.ctx, "AB3X9K"))

	stored, err = s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(model.StatusFinished, stored.Meta.Status)
	s.Equal(s.clock.Now().UnixMilli(), stored.Meta.FinishedAt)
	s.Equal(1, s.clock.PendingTimers(), "deletion scheduled but not yet executed")
}

func (s *ManagerSuite) TestGraceWindowDeletion() {
	s.createRound("AB3X9K")
	s.Require().NoError(s.manager.MarkPlayerFinished(s.ctx, "AB3X9K", "u1"))
	s.Require().NoError(s.manager.CheckAndCleanup(s.ctx, "AB3X9K"))

	s.clock.Advance(4 * time.Minute)
	_, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err, "round still readable inside the grace window")

	s.clock.Advance(2 * time.Minute)
	_, err = s.manager.Get(s.ctx, "AB3X9K")
	s.Require().ErrorIs(err, model.ErrRoundNotFound)
}

func (s *ManagerSuite) TestCreateBeforeScheduledDeletionFires() {
	s.createRound("AB3X9K")
	s.Require().NoError(s.manager.MarkPlayerFinished(s.ctx, "AB3X9K", "u1"))
	s.Require().NoError(s.manager.CheckAndCleanup(s.ctx, "AB3X9K"))

	g, err := s.manager.Create(s.ctx, "u2", "Bob", model.RoundMeta{}, "AB3X9K")
	s.Require().NoError(err)
	s.Equal("u2", g.Meta.CreatedBy)
}

func (s *ManagerSuite) TestFinishRequiresCreator() {
	s.createRound("AB3X9K")
	_, err := s.manager.Join(s.ctx, "AB3X9K", "u2", "Bob")
	s.Require().NoError(err)

	s.ErrorIs(s.manager.Finish(s.ctx, "AB3X9K", "u2"), model.ErrNotCreator)
	s.ErrorIs(s.manager.EndForAll(s.ctx, "AB3X9K", "u2"), model.ErrNotCreator)
}

func (s *ManagerSuite) TestEndForAll() {
	s.createRound("AB3X9K")

	s.Require().NoError(s.manager.EndForAll(s.ctx, "AB3X9K", "u1"))

	stored, err := s.manager.Get(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	s.Equal(model.StatusEnded, stored.Meta.Status)
	s.Equal(1, s.clock.PendingTimers())
}

func (s *ManagerSuite) TestIsPlayerFinished() {
	s.createRound("AB3X9K")

	done, err := s.manager.IsPlayerFinished(s.ctx, "AB3X9K", "u1")
	s.Require().NoError(err)
	s.False(done)

	s.Require().NoError(s.manager.MarkPlayerFinished(s.ctx, "AB3X9K", "u1"))

	done, err = s.manager.IsPlayerFinished(s.ctx, "AB3X9K", "u1")
	s.Require().NoError(err)
	s.True(done)
}

// Listen

func (s *ManagerSuite) TestListenDeliversSnapshotsAndDeletion() {
	s.createRound("AB3X9K")

	feed, err := s.manager.Listen(s.ctx, "AB3X9K")
	s.Require().NoError(err)
	defer feed.Cancel()

	initial := <-feed.Updates()
	s.Require().NotNil(initial)
	s.Equal(model.RoundCode("AB3X9K"), initial.Code)

	s.Require().NoError(s.manager.UpdateScore(s.ctx, "AB3X9K", "u1", 0, 4))
	next := <-feed.Updates()
	s.Require().NotNil(next)
	s.Equal(4, next.Scores["u1"][0])

	s.Require().NoError(s.manager.Remove(s.ctx, "AB3X9K"))
	gone := <-feed.Updates()
	s.Nil(gone, "deletion is delivered as a nil round")
}

// Solo persistence

func (s *ManagerSuite) soloRound() *model.Round {
	return &model.Round{
		CourseID: "sprain-lake",
		Tee:      "white",
		Date:     "2024-05-01",
		Players:  []string{"Alice"},
		Scores:   map[string]model.Scores{"Alice": {}},
		Tracking: map[string]model.PlayerTracking{"Alice": {}},
	}
}

func (s *ManagerSuite) TestActiveSoloSlot() {
	_, err := s.manager.ActiveSolo(s.ctx, "u1")
	s.Require().ErrorIs(err, model.ErrNoActiveRound)

	s.Require().NoError(s.manager.SetActiveSolo(s.ctx, "u1", s.soloRound()))

	got, err := s.manager.ActiveSolo(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("sprain-lake", got.CourseID)
	s.Equal([]string{"Alice"}, got.Players)

	s.Require().NoError(s.manager.ClearActiveSolo(s.ctx, "u1"))
	_, err = s.manager.ActiveSolo(s.ctx, "u1")
	s.Require().ErrorIs(err, model.ErrNoActiveRound)
}

func (s *ManagerSuite) TestSavedRoundArchive() {
	r := s.soloRound()
	id, err := s.manager.SaveRound(s.ctx, "u1", r)
	s.Require().NoError(err)
	s.NotEmpty(id)

	second := s.soloRound()
	second.Date = "2024-05-08"
	_, err = s.manager.SaveRound(s.ctx, "u1", second)
	s.Require().NoError(err)

	rounds, err := s.manager.SavedRounds(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal("2024-05-08", rounds[0].Date, "most recent first")

	s.Require().NoError(s.manager.DeleteSavedRound(s.ctx, "u1", id))
	rounds, err = s.manager.SavedRounds(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(rounds, 1)
}

func (s *ManagerSuite) TestMigrateSavedRounds() {
	p := savedRoundsPath("u1")
	legacy := map[string]any{
		"old-1": model.EncodeRound(s.soloRound()),
	}
	s.Require().NoError(s.db.Local().Set(s.ctx, p, legacy))

	s.Require().NoError(s.manager.MigrateSavedRounds(s.ctx, "u1"))

	rounds, err := s.manager.SavedRounds(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(rounds, 1)
	s.Equal("sprain-lake", rounds[0].CourseID)

	// The local copy is gone and a second migration is a no-op.
	local, err := s.db.Local().Once(s.ctx, p)
	s.Require().NoError(err)
	s.False(local.Exists)
	s.Require().NoError(s.manager.MigrateSavedRounds(s.ctx, "u1"))
}

func (s *ManagerSuite) TestMigrateSkipsWhenSharedHasData() {
	r := s.soloRound()
	_, err := s.manager.SaveRound(s.ctx, "u1", r)
	s.Require().NoError(err)

	legacy := s.soloRound()
	legacy.CourseID = "stale-course"
	s.Require().NoError(s.db.Local().Set(s.ctx, savedRoundsPath("u1"), map[string]any{
		"old-1": model.EncodeRound(legacy),
	}))

	s.Require().NoError(s.manager.MigrateSavedRounds(s.ctx, "u1"))

	rounds, err := s.manager.SavedRounds(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(rounds, 1)
	s.NotEqual("stale-course", rounds[0].CourseID)
}
