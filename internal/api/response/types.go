package response

import (
	"github.com/mhalloran/golfsync/internal/model"
)

// UserResponse is the wire form of a signed-in user.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
}

// UserFromModel converts a model user.
func UserFromModel(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// PlayerResponse is one participant of a group round.
type PlayerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinedAt int64  `json:"joined_at"`
	Finished bool   `json:"finished"`
}

// GroupRoundResponse is the wire form of a group round.
type GroupRoundResponse struct {
	Code        string                          `json:"code"`
	CourseID    string                          `json:"course_id"`
	Tee         string                          `json:"tee"`
	TeeLabel    string                          `json:"tee_label,omitempty"`
	Date        string                          `json:"date"`
	CreatedBy   string                          `json:"created_by"`
	CreatedAt   int64                           `json:"created_at"`
	FinishedAt  int64                           `json:"finished_at,omitempty"`
	Status      string                          `json:"status"`
	Players     []PlayerResponse                `json:"players"`
	Scores      map[string]model.Scores         `json:"scores"`
	Tracking    map[string]model.PlayerTracking `json:"tracking"`
	CurrentHole map[string]int                  `json:"current_hole"`
}

// GroupRoundFromModel converts a group round.
func GroupRoundFromModel(g *model.GroupRound) GroupRoundResponse {
	resp := GroupRoundResponse{
		Code:        string(g.Code),
		CourseID:    g.Meta.CourseID,
		Tee:         g.Meta.Tee,
		TeeLabel:    g.Meta.TeeLabel,
		Date:        g.Meta.Date,
		CreatedBy:   g.Meta.CreatedBy,
		CreatedAt:   g.Meta.CreatedAt,
		FinishedAt:  g.Meta.FinishedAt,
		Status:      string(g.Meta.Status),
		Scores:      g.Scores,
		Tracking:    g.Tracking,
		CurrentHole: g.CurrentHole,
	}
	for uid, p := range g.Players {
		resp.Players = append(resp.Players, PlayerResponse{
			ID:       uid,
			Name:     p.Name,
			JoinedAt: p.JoinedAt,
			Finished: g.FinishedPlayers[uid],
		})
	}
	return resp
}

// RoundResponse is the wire form of a solo or saved round.
type RoundResponse struct {
	ID          string                          `json:"id,omitempty"`
	CourseID    string                          `json:"course_id"`
	Tee         string                          `json:"tee"`
	TeeLabel    string                          `json:"tee_label,omitempty"`
	Date        string                          `json:"date"`
	Players     []string                        `json:"players"`
	Scores      map[string]model.Scores         `json:"scores"`
	Tracking    map[string]model.PlayerTracking `json:"tracking"`
	CurrentHole int                             `json:"current_hole"`
}

// RoundFromModel converts a flattened round.
func RoundFromModel(r *model.Round) RoundResponse {
	return RoundResponse{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Tee:         r.Tee,
		TeeLabel:    r.TeeLabel,
		Date:        r.Date,
		Players:     r.Players,
		Scores:      r.Scores,
		Tracking:    r.Tracking,
		CurrentHole: r.CurrentHole,
	}
}

// TicketResponse acknowledges a submitted support ticket.
type TicketResponse struct {
	ID string `json:"id"`
}

// HealthResponse reports service and backend status.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}
