package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mhalloran/golfsync/internal/api/middleware"
	"github.com/mhalloran/golfsync/internal/api/request"
	"github.com/mhalloran/golfsync/internal/api/response"
	"github.com/mhalloran/golfsync/internal/api/sse"
	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/round"
)

// RoundHandler handles group-round endpoints.
type RoundHandler struct {
	rounds *round.Manager
	relay  *sse.Relay
}

// NewRoundHandler creates a round handler.
func NewRoundHandler(rounds *round.Manager, relay *sse.Relay) *RoundHandler {
	return &RoundHandler{rounds: rounds, relay: relay}
}

func roundCode(r *http.Request) model.RoundCode {
	return model.RoundCode(mux.Vars(r)["code"])
}

// Create handles POST /api/v1/rounds
func (h *RoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var req request.CreateRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.CourseID == "" {
		WriteError(w, NewInvalidRequestError("course_id is required"))
		return
	}

	name := req.DisplayName
	if name == "" {
		name = user.Username
	}
	g, err := h.rounds.Create(r.Context(), user.ID, name, model.RoundMeta{
		CourseID: req.CourseID,
		Tee:      req.Tee,
		TeeLabel: req.TeeLabel,
		Date:     req.Date,
	}, model.RoundCode(req.Code))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.GroupRoundFromModel(g))
}

// Get handles GET /api/v1/rounds/{code}
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.rounds.Get(r.Context(), roundCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GroupRoundFromModel(g))
}

// Join handles POST /api/v1/rounds/{code}/join
func (h *RoundHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var req request.JoinRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	name := req.DisplayName
	if name == "" {
		name = user.Username
	}
	g, err := h.rounds.Join(r.Context(), roundCode(r), user.ID, name)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GroupRoundFromModel(g))
}

// Score handles PATCH /api/v1/rounds/{code}/score
func (h *RoundHandler) Score(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var req request.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.rounds.UpdateScore(r.Context(), roundCode(r), user.ID, req.Hole, req.Strokes); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Tracking handles PATCH /api/v1/rounds/{code}/tracking
func (h *RoundHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var req request.TrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	err := h.rounds.UpdateTracking(r.Context(), roundCode(r), user.ID,
		model.TrackType(req.Type), req.Hole, req.Value)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// CurrentHole handles PATCH /api/v1/rounds/{code}/current-hole
func (h *RoundHandler) CurrentHole(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var req request.CurrentHoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.rounds.UpdateCurrentHole(r.Context(), roundCode(r), user.ID, req.Hole); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// FinishPlayer handles POST /api/v1/rounds/{code}/finish-player. Marking
// the last unfinished player flips the round to finished and schedules its
// cleanup.
func (h *RoundHandler) FinishPlayer(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roundCode(r)

	if err := h.rounds.MarkPlayerFinished(r.Context(), code, user.ID); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.rounds.CheckAndCleanup(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Finish handles POST /api/v1/rounds/{code}/finish
func (h *RoundHandler) Finish(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	if err := h.rounds.Finish(r.Context(), roundCode(r), user.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// End handles POST /api/v1/rounds/{code}/end
func (h *RoundHandler) End(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	if err := h.rounds.EndForAll(r.Context(), roundCode(r), user.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Events handles GET /api/v1/rounds/{code}/events, streaming round
// snapshots over SSE.
func (h *RoundHandler) Events(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roundCode(r)

	// The round must exist before a stream is established for it.
	if _, err := h.rounds.Get(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}
	hub, err := h.relay.HubFor(code)
	if err != nil {
		WriteError(w, err)
		return
	}
	sse.ServeSSE(w, r, hub, user.ID)
}
