package support

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mhalloran/golfsync/internal/dependencies/clock"
	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/storage/hybrid"
)

// Ticket is one user-submitted support request.
type Ticket struct {
	ID          string `json:"id"`
	UID         string `json:"uid"`
	Username    string `json:"username"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Page        string `json:"page"`
	Timestamp   int64  `json:"timestamp"` // unix millis
	Status      string `json:"status"`
}

// Service writes support tickets into the shared namespace.
type Service struct {
	db     *hybrid.DB
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a support service.
func New(db *hybrid.DB, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{db: db, clock: clk, logger: logger.With("component", "support")}
}

// SubmitTicket records one ticket and returns its identifier. New tickets
// always open in the "open" status.
func (s *Service) SubmitTicket(ctx context.Context, uid, username, ticketType, description, page string) (string, error) {
	t := Ticket{
		ID:          uuid.NewString(),
		UID:         uid,
		Username:    username,
		Type:        ticketType,
		Description: description,
		Page:        page,
		Timestamp:   s.clock.Now().UnixMilli(),
		Status:      "open",
	}
	p := path.MustParse("supportTickets").MustChild(t.ID)
	err := s.db.Ref(p).Set(ctx, map[string]any{
		"id":          t.ID,
		"uid":         t.UID,
		"username":    t.Username,
		"type":        t.Type,
		"description": t.Description,
		"page":        t.Page,
		"timestamp":   t.Timestamp,
		"status":      t.Status,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("support ticket submitted", "id", t.ID, "type", t.Type)
	return t.ID, nil
}
