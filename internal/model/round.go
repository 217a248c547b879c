package model

import "time"

// HolesPerRound is the fixed length of every score and tracking sequence.
const HolesPerRound = 18

// RoundCode is the human-entered join code for a group round.
type RoundCode string

// RoundStatus is the lifecycle state of a group round. Transitions are
// monotonic: active -> finished or ended, then deletion after the grace
// window.
type RoundStatus string

const (
	StatusActive   RoundStatus = "active"
	StatusFinished RoundStatus = "finished"
	StatusEnded    RoundStatus = "ended"
)

// Terminal reports whether the status permits reuse of the round's code.
func (s RoundStatus) Terminal() bool {
	return s == StatusFinished || s == StatusEnded
}

// TrackType names one per-hole tracking sequence.
type TrackType string

const (
	TrackPutts             TrackType = "putts"
	TrackFairway           TrackType = "fairway"
	TrackGIR               TrackType = "gir"
	TrackMulligans         TrackType = "mulligans"
	TrackMulliganLocations TrackType = "mulliganLocations"
	TrackPenalties         TrackType = "penalties"
	TrackPenaltyLocations  TrackType = "penaltyLocations"
)

// ValidTrackType reports whether t names a known tracking sequence.
func ValidTrackType(t TrackType) bool {
	switch t {
	case TrackPutts, TrackFairway, TrackGIR, TrackMulligans,
		TrackMulliganLocations, TrackPenalties, TrackPenaltyLocations:
		return true
	}
	return false
}

// Scores is one player's 18-hole score sequence; 0 means unscored.
type Scores [HolesPerRound]int

// PlayerTracking holds per-hole stat tracking for one player. The zero
// value is a fully valid empty tracking block: counts 0, flags false,
// location tags nil.
type PlayerTracking struct {
	Putts             [HolesPerRound]int      `json:"putts"`
	Fairway           [HolesPerRound]bool     `json:"fairway"`
	GIR               [HolesPerRound]bool     `json:"gir"`
	Mulligans         [HolesPerRound]int      `json:"mulligans"`
	MulliganLocations [HolesPerRound][]string `json:"mulliganLocations"`
	Penalties         [HolesPerRound]int      `json:"penalties"`
	PenaltyLocations  [HolesPerRound][]string `json:"penaltyLocations"`
}

// RoundMeta is the metadata block of a group round. A round document
// missing this block is corrupt.
type RoundMeta struct {
	CourseID   string      `json:"courseId"`
	Tee        string      `json:"tee"`
	TeeLabel   string      `json:"teeLabel"`
	Date       string      `json:"date"`
	CreatedBy  string      `json:"createdBy"`
	CreatedAt  int64       `json:"createdAt"`  // unix millis
	FinishedAt int64       `json:"finishedAt"` // unix millis, 0 until terminal
	Status     RoundStatus `json:"status"`
}

// RoundPlayer is one participant's entry in the players mapping.
type RoundPlayer struct {
	Name     string `json:"name"`
	JoinedAt int64  `json:"joinedAt"` // unix millis
}

// GroupRound is the remote-synchronized round document, keyed by code
// under the shared activeRounds namespace.
type GroupRound struct {
	Code            RoundCode
	Meta            RoundMeta
	Players         map[string]RoundPlayer
	Scores          map[string]Scores
	Tracking        map[string]PlayerTracking
	CurrentHole     map[string]int
	FinishedPlayers map[string]bool
}

// NewGroupRound builds a fresh active round with the creator pre-seeded as
// the sole player with zeroed scores and tracking.
func NewGroupRound(code RoundCode, creatorID, creatorName string, meta RoundMeta, now time.Time) *GroupRound {
	meta.CreatedBy = creatorID
	meta.CreatedAt = now.UnixMilli()
	meta.FinishedAt = 0
	meta.Status = StatusActive

	return &GroupRound{
		Code: code,
		Meta: meta,
		Players: map[string]RoundPlayer{
			creatorID: {Name: creatorName, JoinedAt: now.UnixMilli()},
		},
		Scores:          map[string]Scores{creatorID: {}},
		Tracking:        map[string]PlayerTracking{creatorID: {}},
		CurrentHole:     map[string]int{creatorID: 0},
		FinishedPlayers: map[string]bool{},
	}
}

// AllPlayersFinished reports whether every listed player appears in the
// finished set. An empty players mapping is never "all finished".
func (g *GroupRound) AllPlayersFinished() bool {
	if len(g.Players) == 0 {
		return false
	}
	for uid := range g.Players {
		if !g.FinishedPlayers[uid] {
			return false
		}
	}
	return true
}

// Round is the flattened, display-oriented shape shared by solo rounds and
// decoded group rounds: players addressed by name, one viewed hole.
type Round struct {
	ID          string                    `json:"id,omitempty"`
	CourseID    string                    `json:"courseId"`
	Tee         string                    `json:"tee"`
	TeeLabel    string                    `json:"teeLabel"`
	Date        string                    `json:"date"`
	Players     []string                  `json:"players"`
	Scores      map[string]Scores         `json:"scores"`
	Tracking    map[string]PlayerTracking `json:"tracking"`
	CurrentHole int                       `json:"currentHole"`

	// Group-only fields, zero for solo rounds.
	GroupCode RoundCode         `json:"groupCode,omitempty"`
	CreatedBy string            `json:"createdBy,omitempty"`
	Status    RoundStatus       `json:"status,omitempty"`
	UIDToName map[string]string `json:"-"`
	NameToUID map[string]string `json:"-"`
}

// RoundFromGroup flattens a group round into the display shape, keying
// scores and tracking by player name.
func RoundFromGroup(g *GroupRound) *Round {
	r := &Round{
		CourseID:  g.Meta.CourseID,
		Tee:       g.Meta.Tee,
		TeeLabel:  g.Meta.TeeLabel,
		Date:      g.Meta.Date,
		Scores:    make(map[string]Scores, len(g.Players)),
		Tracking:  make(map[string]PlayerTracking, len(g.Players)),
		GroupCode: g.Code,
		CreatedBy: g.Meta.CreatedBy,
		Status:    g.Meta.Status,
		UIDToName: make(map[string]string, len(g.Players)),
		NameToUID: make(map[string]string, len(g.Players)),
	}
	for uid, p := range g.Players {
		r.Players = append(r.Players, p.Name)
		r.UIDToName[uid] = p.Name
		r.NameToUID[p.Name] = uid
		r.Scores[p.Name] = g.Scores[uid]
		r.Tracking[p.Name] = g.Tracking[uid]
	}
	return r
}
