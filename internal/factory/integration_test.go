package factory

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/round"
	"github.com/mhalloran/golfsync/internal/storage/blob"
	"github.com/mhalloran/golfsync/internal/storage/hybrid"
	"github.com/mhalloran/golfsync/internal/storage/local"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: account creation through scoring a shared round
func (s *IntegrationSuite) TestSignUpAndPlayRound() {
	alice, err := s.app.AuthService.SignUp(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("QRST23")
	code := s.app.RoundManager.GenerateCode()
	s.Equal(model.RoundCode("QRST23"), code)

	round, err := s.app.RoundManager.Create(s.ctx, alice.ID, alice.Username, model.RoundMeta{
		CourseID: "pebble-creek",
		Date:     "2024-05-01",
	}, code)
	s.Require().NoError(err)
	s.Equal(model.StatusActive, round.Meta.Status)

	err = s.app.RoundManager.UpdateScore(s.ctx, code, alice.ID, 0, 4)
	s.Require().NoError(err)

	got, err := s.app.RoundManager.Get(s.ctx, code)
	s.Require().NoError(err)
	s.Equal(4, got.Scores[alice.ID][0])
}

// Test: active round data lands in the shared store, not the device store
func (s *IntegrationSuite) TestRoundDataRoutedToSharedStore() {
	alice, err := s.app.AuthService.SignUp(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	_, err = s.app.RoundManager.Create(s.ctx, alice.ID, alice.Username, model.RoundMeta{
		CourseID: "pebble-creek",
		Date:     "2024-05-01",
	}, model.RoundCode("ABC234"))
	s.Require().NoError(err)

	p := path.MustParse("activeRounds/ABC234")
	snap, err := s.app.SharedLocal.Once(s.ctx, p)
	s.Require().NoError(err)
	s.True(snap.Exists)

	snap, err = s.app.Local.Once(s.ctx, p)
	s.Require().NoError(err)
	s.False(snap.Exists)
}

// Test: a finished round survives the grace window, then its code frees up
func (s *IntegrationSuite) TestGraceWindowDeletion() {
	alice, err := s.app.AuthService.SignUp(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	code := model.RoundCode("ABC234")
	_, err = s.app.RoundManager.Create(s.ctx, alice.ID, alice.Username, model.RoundMeta{
		CourseID: "pebble-creek",
		Date:     "2024-05-01",
	}, code)
	s.Require().NoError(err)

	err = s.app.RoundManager.EndForAll(s.ctx, code, alice.ID)
	s.Require().NoError(err)

	s.app.MockClock.Advance(4 * time.Minute)
	got, err := s.app.RoundManager.Get(s.ctx, code)
	s.Require().NoError(err)
	s.Equal(model.StatusEnded, got.Meta.Status)

	s.app.MockClock.Advance(2 * time.Minute)
	_, err = s.app.RoundManager.Get(s.ctx, code)
	s.ErrorIs(err, model.ErrRoundNotFound)
}

// Test: a credential minted on one device signs in on a second device
// through the shared namespace
func (s *IntegrationSuite) TestCredentialSyncAcrossDevices() {
	alice, err := s.app.AuthService.SignUp(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	// A second device shares the backend but has its own local state
	otherBlobs := blob.NewMemory()
	otherLocal := local.New(otherBlobs, blob.KeyPathDocument, discardLogger())
	otherDB := hybrid.New(otherLocal, s.app.SharedLocal)
	otherApp := newWithDependencies(otherBlobs, otherLocal, nil, otherDB,
		s.app.MockClock, s.app.MockRandom, round.DefaultConfig(), discardLogger())

	user, err := otherApp.AuthService.SignIn(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal(alice.ID, user.ID)

	// A wrong password is rejected the same way on the second device
	_, err = otherApp.AuthService.SignIn(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

// Test: saved rounds migrate from the device store into the shared store
func (s *IntegrationSuite) TestSavedRoundMigration() {
	alice, err := s.app.AuthService.SignUp(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	id, err := s.app.RoundManager.SaveRound(s.ctx, alice.ID, &model.Round{
		CourseID: "pebble-creek",
		Date:     "2024-05-01",
		Players:  []string{"alice"},
	})
	s.Require().NoError(err)
	s.NotEmpty(id)

	saved, err := s.app.RoundManager.SavedRounds(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Len(saved, 1)
}

// Test: support tickets land under their own shared namespace
func (s *IntegrationSuite) TestSupportTicketStored() {
	alice, err := s.app.AuthService.SignUp(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	id, err := s.app.SupportService.SubmitTicket(s.ctx, alice.ID, alice.Username, "bug", "scores vanish", "/round")
	s.Require().NoError(err)

	snap, err := s.app.SharedLocal.Once(s.ctx, path.MustParse("supportTickets").MustChild(id))
	s.Require().NoError(err)
	s.True(snap.Exists)
}
