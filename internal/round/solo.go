package round

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/path"
)

// Solo rounds live on the private side of the classifier: one active slot
// per user, no listener machinery needed beyond what the store provides.
const soloRoundsRoot = "soloRounds"

func soloPath(uid string) path.Path {
	return path.MustParse(soloRoundsRoot).MustChild(uid)
}

func savedRoundsPath(uid string) path.Path {
	return path.MustParse("users").MustChild(uid, "rounds")
}

// SetActiveSolo writes the user's single active solo round, replacing any
// previous one.
func (m *Manager) SetActiveSolo(ctx context.Context, uid string, r *model.Round) error {
	return m.db.Ref(soloPath(uid)).Set(ctx, model.EncodeRound(r))
}

// ActiveSolo reads the user's active solo round.
func (m *Manager) ActiveSolo(ctx context.Context, uid string) (*model.Round, error) {
	snap, err := m.db.Ref(soloPath(uid)).Once(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, model.ErrNoActiveRound
	}
	r := model.DecodeRound(snap.Value)
	if r == nil {
		return nil, model.ErrNoActiveRound
	}
	return r, nil
}

// ClearActiveSolo empties the active slot.
func (m *Manager) ClearActiveSolo(ctx context.Context, uid string) error {
	return m.db.Ref(soloPath(uid)).Remove(ctx)
}

// SaveRound archives a completed round under the user's saved rounds,
// assigning an identifier if the round has none.
func (m *Manager) SaveRound(ctx context.Context, uid string, r *model.Round) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	ref := m.db.Ref(savedRoundsPath(uid)).MustChild(r.ID)
	if err := ref.Set(ctx, model.EncodeRound(r)); err != nil {
		return "", err
	}
	return r.ID, nil
}

// SavedRounds lists the user's archived rounds, most recent date first.
func (m *Manager) SavedRounds(ctx context.Context, uid string) ([]*model.Round, error) {
	snap, err := m.db.Ref(savedRoundsPath(uid)).Once(ctx)
	if err != nil {
		return nil, err
	}
	entries, _ := snap.Value.(map[string]any)
	rounds := make([]*model.Round, 0, len(entries))
	for id, raw := range entries {
		r := model.DecodeRound(raw)
		if r == nil {
			m.logger.Warn("skipping unreadable saved round", "uid", uid, "id", id)
			continue
		}
		if r.ID == "" {
			r.ID = id
		}
		rounds = append(rounds, r)
	}
	sort.Slice(rounds, func(i, j int) bool {
		if rounds[i].Date != rounds[j].Date {
			return rounds[i].Date > rounds[j].Date
		}
		return rounds[i].ID < rounds[j].ID
	})
	return rounds, nil
}

// DeleteSavedRound removes one archived round.
func (m *Manager) DeleteSavedRound(ctx context.Context, uid, id string) error {
	return m.db.Ref(savedRoundsPath(uid)).MustChild(id).Remove(ctx)
}

// MigrateSavedRounds copies a user's archive from the private store into
// the shared namespace, once. Rounds saved before the archive became
// shared are stranded on the device otherwise. The copy is skipped when
// the shared side already has any data, so it never overwrites rounds
// saved from another device.
func (m *Manager) MigrateSavedRounds(ctx context.Context, uid string) error {
	p := savedRoundsPath(uid)

	shared, err := m.db.Ref(p).Once(ctx)
	if err != nil {
		return err
	}
	if shared.Exists {
		return nil
	}

	local, err := m.db.Local().Once(ctx, p)
	if err != nil || !local.Exists {
		return err
	}
	if err := m.db.Ref(p).Set(ctx, local.Value); err != nil {
		return err
	}
	if err := m.db.Local().Remove(ctx, p); err != nil {
		m.logger.Warn("migrated rounds left behind in local store", "uid", uid, "error", err)
	}
	m.logger.Info("saved rounds migrated", "uid", uid)
	return nil
}
