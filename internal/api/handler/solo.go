package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mhalloran/golfsync/internal/api/middleware"
	"github.com/mhalloran/golfsync/internal/api/response"
	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/round"
)

// SoloHandler handles the active solo round slot and the saved-rounds
// archive.
type SoloHandler struct {
	rounds *round.Manager
}

// NewSoloHandler creates a solo handler.
func NewSoloHandler(rounds *round.Manager) *SoloHandler {
	return &SoloHandler{rounds: rounds}
}

// PutActive handles PUT /api/v1/solo/round
func (h *SoloHandler) PutActive(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var body model.Round
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if body.CourseID == "" {
		WriteError(w, NewInvalidRequestError("courseId is required"))
		return
	}

	if err := h.rounds.SetActiveSolo(r.Context(), user.ID, &body); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GetActive handles GET /api/v1/solo/round
func (h *SoloHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	rnd, err := h.rounds.ActiveSolo(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoundFromModel(rnd))
}

// ClearActive handles DELETE /api/v1/solo/round
func (h *SoloHandler) ClearActive(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	if err := h.rounds.ClearActiveSolo(r.Context(), user.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ListSaved handles GET /api/v1/saved-rounds
func (h *SoloHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	saved, err := h.rounds.SavedRounds(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	out := make([]response.RoundResponse, 0, len(saved))
	for _, s := range saved {
		out = append(out, response.RoundFromModel(s))
	}
	response.JSON(w, http.StatusOK, out)
}

// Save handles POST /api/v1/saved-rounds
func (h *SoloHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var body model.Round
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if body.CourseID == "" {
		WriteError(w, NewInvalidRequestError("courseId is required"))
		return
	}

	id, err := h.rounds.SaveRound(r.Context(), user.ID, &body)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteSaved handles DELETE /api/v1/saved-rounds/{id}
func (h *SoloHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	if err := h.rounds.DeleteSavedRound(r.Context(), user.ID, mux.Vars(r)["id"]); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Migrate handles POST /api/v1/saved-rounds/migrate. It copies rounds saved
// before the archive namespace was shared into the shared store.
func (h *SoloHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	if err := h.rounds.MigrateSavedRounds(r.Context(), user.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
