package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mhalloran/golfsync/internal/api/middleware"
	"github.com/mhalloran/golfsync/internal/api/request"
	"github.com/mhalloran/golfsync/internal/api/response"
	"github.com/mhalloran/golfsync/internal/support"
)

// SupportHandler handles support ticket submission.
type SupportHandler struct {
	support *support.Service
}

// NewSupportHandler creates a support handler.
func NewSupportHandler(svc *support.Service) *SupportHandler {
	return &SupportHandler{support: svc}
}

// Submit handles POST /api/v1/support/tickets
func (h *SupportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var req request.SubmitTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Type == "" || req.Description == "" {
		WriteError(w, NewInvalidRequestError("type and description are required"))
		return
	}

	id, err := h.support.SubmitTicket(r.Context(), user.ID, user.Username, req.Type, req.Description, req.Page)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.TicketResponse{ID: id})
}
