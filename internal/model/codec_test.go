package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhalloran/golfsync/internal/model"
)

func buildRound(t *testing.T) *model.GroupRound {
	t.Helper()
	g := model.NewGroupRound("AB23CD", "u1", "Alice", model.RoundMeta{
		CourseID: "course-1",
		Tee:      "white",
		TeeLabel: "White",
		Date:     "2026-08-30",
	}, time.UnixMilli(1700000000000))
	scores := g.Scores["u1"]
	scores[0] = 4
	scores[17] = 5
	g.Scores["u1"] = scores
	tracking := g.Tracking["u1"]
	tracking.Putts[3] = 2
	tracking.Fairway[0] = true
	tracking.MulliganLocations[7] = []string{"tee", "fairway"}
	g.Tracking["u1"] = tracking
	g.CurrentHole["u1"] = 9
	g.FinishedPlayers["u1"] = true
	return g
}

func TestGroupRoundRoundTrip(t *testing.T) {
	g := buildRound(t)

	wire := model.EncodeGroupRound(g)

	// The wire form survives a JSON round trip, which is what the stores do.
	raw, err := json.Marshal(wire)
	require.NoError(t, err)
	var decodedWire any
	require.NoError(t, json.Unmarshal(raw, &decodedWire))

	got, err := model.DecodeGroupRound(g.Code, decodedWire)
	require.NoError(t, err)
	assert.Equal(t, g.Code, got.Code)
	assert.Equal(t, g.Meta, got.Meta)
	assert.Equal(t, g.Players, got.Players)
	assert.Equal(t, g.Scores, got.Scores)
	assert.Equal(t, g.CurrentHole, got.CurrentHole)
	assert.Equal(t, g.FinishedPlayers, got.FinishedPlayers)
	assert.Equal(t, [18]int(g.Tracking["u1"].Putts), [18]int(got.Tracking["u1"].Putts))
	assert.Equal(t, g.Tracking["u1"].Fairway, got.Tracking["u1"].Fairway)
	assert.Equal(t, []string{"tee", "fairway"}, got.Tracking["u1"].MulliganLocations[7])
}

func TestEncodeScoresIndexKeyed(t *testing.T) {
	var s model.Scores
	s[0] = 3
	s[9] = 4

	wire := model.EncodeScores(s)

	assert.Len(t, wire, model.HolesPerRound)
	assert.Equal(t, 3, wire["0"])
	assert.Equal(t, 4, wire["9"])
	assert.Equal(t, 0, wire["17"])
}

func TestDecodeDefaultsMissingIndexes(t *testing.T) {
	doc := map[string]any{
		"meta": map[string]any{
			"createdBy": "u1",
			"status":    "active",
		},
		"players": map[string]any{
			"u1": map[string]any{"name": "Alice", "joinedAt": float64(1700000000000)},
		},
		// Sparse scores written one hole at a time.
		"scores": map[string]any{
			"u1": map[string]any{"4": float64(6)},
		},
	}

	got, err := model.DecodeGroupRound("AB23CD", doc)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Scores["u1"][4])
	assert.Equal(t, 0, got.Scores["u1"][0])
	assert.Equal(t, 0, got.CurrentHole["u1"])
	assert.Empty(t, got.Tracking["u1"].MulliganLocations[0])
}

func TestDecodeCorruptDocuments(t *testing.T) {
	_, err := model.DecodeGroupRound("AB23CD", "not a map")
	assert.ErrorIs(t, err, model.ErrRoundCorrupted)

	_, err = model.DecodeGroupRound("AB23CD", map[string]any{"players": map[string]any{}})
	assert.ErrorIs(t, err, model.ErrRoundCorrupted)
}
