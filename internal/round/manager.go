package round

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mhalloran/golfsync/internal/dependencies/clock"
	"github.com/mhalloran/golfsync/internal/dependencies/random"
	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/storage/hybrid"
)

// Join codes avoid visually ambiguous symbols (no 0/O/1/I).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

const activeRoundsRoot = "activeRounds"

// Config holds round lifecycle configuration.
type Config struct {
	// GraceWindow is how long a terminal round document stays readable
	// before its scheduled deletion frees the code for reuse.
	GraceWindow time.Duration
}

// DefaultConfig returns the round configuration defaults.
func DefaultConfig() Config {
	return Config{
		GraceWindow: 5 * time.Minute,
	}
}

// Manager drives the group-round lifecycle and solo-round persistence on
// top of the path database.
type Manager struct {
	db     *hybrid.DB
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
	cfg    Config
}

// NewManager creates a round manager.
func NewManager(db *hybrid.DB, clk clock.Clock, rnd random.Random, logger *slog.Logger, cfg Config) *Manager {
	return &Manager{
		db:     db,
		clock:  clk,
		random: rnd,
		logger: logger.With("component", "round"),
		cfg:    cfg,
	}
}

// GenerateCode produces a fresh join code.
func (m *Manager) GenerateCode() model.RoundCode {
	return model.RoundCode(m.random.String(codeLength, codeAlphabet))
}

// validCode reports whether code is exactly codeLength symbols from
// codeAlphabet. Anything else would address outside a single round's
// own document under the activeRounds root.
func validCode(code model.RoundCode) bool {
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(codeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}

func roundPath(code model.RoundCode) path.Path {
	return path.MustParse(activeRoundsRoot).MustChild(string(code))
}

func (m *Manager) roundRef(code model.RoundCode) hybrid.Ref {
	return m.db.Ref(roundPath(code))
}

// load reads and decodes the round document for code.
func (m *Manager) load(ctx context.Context, code model.RoundCode) (*model.GroupRound, error) {
	snap, err := m.roundRef(code).Once(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, model.ErrRoundNotFound
	}
	return model.DecodeGroupRound(code, snap.Value)
}

// Create starts a new group round with the creator as sole player. An
// empty code requests a generated one; an explicit code must be a well
// formed join code. An explicit code already naming a round is rejected
// unless that round's status is terminal, in which case the old document
// is overwritten.
//
// The existence check and the write are not atomic: two near-simultaneous
// creates with the same explicit code can both pass the check, last write
// wins.
func (m *Manager) Create(ctx context.Context, creatorID, creatorName string, meta model.RoundMeta, code model.RoundCode) (*model.GroupRound, error) {
	if code == "" {
		code = m.GenerateCode()
	} else if !validCode(code) {
		return nil, model.ErrInvalidRoundCode
	}

	snap, err := m.roundRef(code).Once(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Exists {
		existing, err := model.DecodeGroupRound(code, snap.Value)
		// A decodable round that has not finished keeps its code. A
		// corrupt document cannot be resumed, so its code is reusable.
		if err == nil && !existing.Meta.Status.Terminal() {
			return nil, model.ErrCodeInUse
		}
	}

	g := model.NewGroupRound(code, creatorID, creatorName, meta, m.clock.Now())
	if err := m.roundRef(code).Set(ctx, model.EncodeGroupRound(g)); err != nil {
		return nil, err
	}
	m.logger.Info("round created", "code", code, "creator", creatorID)
	return g, nil
}

// Join adds a player to an active round. Joining a round the player is
// already in succeeds without changing anything; a player in the finished
// set cannot rejoin, their scores stay preserved.
func (m *Manager) Join(ctx context.Context, code model.RoundCode, uid, name string) (*model.GroupRound, error) {
	g, err := m.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if g.Meta.Status != model.StatusActive {
		return nil, model.ErrRoundNotActive
	}
	if g.FinishedPlayers[uid] {
		return nil, model.ErrPlayerFinished
	}
	if _, ok := g.Players[uid]; ok {
		return g, nil
	}

	player := model.RoundPlayer{Name: name, JoinedAt: m.clock.Now().UnixMilli()}
	err = m.roundRef(code).Update(ctx, map[string]any{
		"players/" + uid:     model.EncodePlayer(player),
		"scores/" + uid:      model.EncodeScores(model.Scores{}),
		"tracking/" + uid:    model.EncodeTracking(model.PlayerTracking{}),
		"currentHole/" + uid: 0,
	})
	if err != nil {
		return nil, err
	}

	g.Players[uid] = player
	g.Scores[uid] = model.Scores{}
	g.Tracking[uid] = model.PlayerTracking{}
	g.CurrentHole[uid] = 0
	m.logger.Info("player joined", "code", code, "uid", uid)
	return g, nil
}

// Get reads the current round document.
func (m *Manager) Get(ctx context.Context, code model.RoundCode) (*model.GroupRound, error) {
	return m.load(ctx, code)
}

// UpdateScore writes one player's stroke count for one hole. Each score
// leaf is logically owned by one player, so last write wins is acceptable.
func (m *Manager) UpdateScore(ctx context.Context, code model.RoundCode, uid string, hole, strokes int) error {
	if hole < 0 || hole >= model.HolesPerRound {
		return model.ErrInvalidHole
	}
	ref := m.roundRef(code).MustChild("scores", uid, strconv.Itoa(hole))
	return ref.Set(ctx, strokes)
}

// UpdateTracking writes one tracking value for one hole.
func (m *Manager) UpdateTracking(ctx context.Context, code model.RoundCode, uid string, track model.TrackType, hole int, value any) error {
	if !model.ValidTrackType(track) {
		return model.ErrInvalidTrackType
	}
	if hole < 0 || hole >= model.HolesPerRound {
		return model.ErrInvalidHole
	}
	ref := m.roundRef(code).MustChild("tracking", uid, string(track), strconv.Itoa(hole))
	return ref.Set(ctx, value)
}

// UpdateCurrentHole moves a player's viewed-hole cursor.
func (m *Manager) UpdateCurrentHole(ctx context.Context, code model.RoundCode, uid string, hole int) error {
	if hole < 0 || hole >= model.HolesPerRound {
		return model.ErrInvalidHole
	}
	return m.roundRef(code).MustChild("currentHole", uid).Set(ctx, hole)
}

// MarkPlayerFinished flags one player as done with the round.
func (m *Manager) MarkPlayerFinished(ctx context.Context, code model.RoundCode, uid string) error {
	return m.roundRef(code).MustChild("finishedPlayers", uid).Set(ctx, true)
}

// IsPlayerFinished reports whether the player has been flagged done.
func (m *Manager) IsPlayerFinished(ctx context.Context, code model.RoundCode, uid string) (bool, error) {
	snap, err := m.roundRef(code).MustChild("finishedPlayers", uid).Once(ctx)
	if err != nil {
		return false, err
	}
	done, _ := snap.Value.(bool)
	return snap.Exists && done, nil
}

// CheckAndCleanup finishes the round once every listed player is flagged
// done: status moves to finished, the finish time is stamped, and deletion
// is scheduled after the grace window. Rounds that are not yet all
// finished, or already terminal, are left alone.
func (m *Manager) CheckAndCleanup(ctx context.Context, code model.RoundCode) error {
	g, err := m.load(ctx, code)
	if err != nil {
		return err
	}
	if g.Meta.Status != model.StatusActive || !g.AllPlayersFinished() {
		return nil
	}
	return m.terminate(ctx, code, model.StatusFinished)
}

// Finish is the creator's explicit end-of-round action.
func (m *Manager) Finish(ctx context.Context, code model.RoundCode, actorID string) error {
	g, err := m.load(ctx, code)
	if err != nil {
		return err
	}
	if g.Meta.CreatedBy != actorID {
		return model.ErrNotCreator
	}
	if g.Meta.Status.Terminal() {
		return nil
	}
	return m.terminate(ctx, code, model.StatusFinished)
}

// EndForAll is the creator's administrative override, forcing the round to
// the ended status for every player.
func (m *Manager) EndForAll(ctx context.Context, code model.RoundCode, actorID string) error {
	g, err := m.load(ctx, code)
	if err != nil {
		return err
	}
	if g.Meta.CreatedBy != actorID {
		return model.ErrNotCreator
	}
	if g.Meta.Status.Terminal() {
		return nil
	}
	return m.terminate(ctx, code, model.StatusEnded)
}

// terminate stamps the terminal status and schedules the grace-window
// deletion. The scheduled deletion is fire-and-forget; its failure leaves
// a stale document that the next create-with-code overwrites.
func (m *Manager) terminate(ctx context.Context, code model.RoundCode, status model.RoundStatus) error {
	err := m.roundRef(code).MustChild("meta").Update(ctx, map[string]any{
		"status":     string(status),
		"finishedAt": m.clock.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}
	m.logger.Info("round terminal", "code", code, "status", status)

	m.clock.AfterFunc(m.cfg.GraceWindow, func() {
		delCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.Remove(delCtx, code); err != nil {
			m.logger.Warn("scheduled round deletion failed", "code", code, "error", err)
		}
	})
	return nil
}

// Remove deletes the whole round document immediately.
func (m *Manager) Remove(ctx context.Context, code model.RoundCode) error {
	return m.roundRef(code).Remove(ctx)
}
