package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mhalloran/golfsync/internal/api/handler"
	"github.com/mhalloran/golfsync/internal/api/middleware"
	"github.com/mhalloran/golfsync/internal/api/response"
	"github.com/mhalloran/golfsync/internal/api/sse"
	"github.com/mhalloran/golfsync/internal/auth"
	"github.com/mhalloran/golfsync/internal/round"
	"github.com/mhalloran/golfsync/internal/storage/remote"
	"github.com/mhalloran/golfsync/internal/support"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoundManager   *round.Manager
	SupportService *support.Service
	Relay          *sse.Relay

	// RemoteStore is optional; when nil the health endpoint reports a
	// local-only backend.
	RemoteStore *remote.Store
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	roundHandler := handler.NewRoundHandler(cfg.RoundManager, cfg.Relay)
	soloHandler := handler.NewSoloHandler(cfg.RoundManager)
	supportHandler := handler.NewSupportHandler(cfg.SupportService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no session required for signing up/in)
	api.HandleFunc("/auth/signup", authHandler.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", authHandler.SignIn).Methods(http.MethodPost)

	// Protected auth routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/signout", authHandler.SignOut).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	authProtected.HandleFunc("/password", authHandler.ChangePassword).Methods(http.MethodPost)
	authProtected.HandleFunc("/username", authHandler.ChangeUsername).Methods(http.MethodPost)
	authProtected.HandleFunc("/account", authHandler.DeleteAccount).Methods(http.MethodDelete)
	authProtected.HandleFunc("/avatar", authHandler.SaveAvatar).Methods(http.MethodPut)
	authProtected.HandleFunc("/avatar", authHandler.GetAvatar).Methods(http.MethodGet)
	authProtected.HandleFunc("/avatar", authHandler.DeleteAvatar).Methods(http.MethodDelete)

	// Group round routes (all require a signed-in user)
	rounds := api.PathPrefix("/rounds").Subrouter()
	rounds.Use(authMiddleware)
	rounds.HandleFunc("", roundHandler.Create).Methods(http.MethodPost)
	rounds.HandleFunc("/{code}", roundHandler.Get).Methods(http.MethodGet)
	rounds.HandleFunc("/{code}/join", roundHandler.Join).Methods(http.MethodPost)
	rounds.HandleFunc("/{code}/score", roundHandler.Score).Methods(http.MethodPatch)
	rounds.HandleFunc("/{code}/tracking", roundHandler.Tracking).Methods(http.MethodPatch)
	rounds.HandleFunc("/{code}/current-hole", roundHandler.CurrentHole).Methods(http.MethodPatch)
	rounds.HandleFunc("/{code}/finish-player", roundHandler.FinishPlayer).Methods(http.MethodPost)
	rounds.HandleFunc("/{code}/finish", roundHandler.Finish).Methods(http.MethodPost)
	rounds.HandleFunc("/{code}/end", roundHandler.End).Methods(http.MethodPost)
	rounds.HandleFunc("/{code}/events", roundHandler.Events).Methods(http.MethodGet)

	// Solo round routes
	solo := api.PathPrefix("/solo").Subrouter()
	solo.Use(authMiddleware)
	solo.HandleFunc("/round", soloHandler.PutActive).Methods(http.MethodPut)
	solo.HandleFunc("/round", soloHandler.GetActive).Methods(http.MethodGet)
	solo.HandleFunc("/round", soloHandler.ClearActive).Methods(http.MethodDelete)

	// Saved rounds archive
	saved := api.PathPrefix("/saved-rounds").Subrouter()
	saved.Use(authMiddleware)
	saved.HandleFunc("", soloHandler.ListSaved).Methods(http.MethodGet)
	saved.HandleFunc("", soloHandler.Save).Methods(http.MethodPost)
	saved.HandleFunc("/migrate", soloHandler.Migrate).Methods(http.MethodPost)
	saved.HandleFunc("/{id}", soloHandler.DeleteSaved).Methods(http.MethodDelete)

	// Support routes
	supportRoutes := api.PathPrefix("/support").Subrouter()
	supportRoutes.Use(authMiddleware)
	supportRoutes.HandleFunc("/tickets", supportHandler.Submit).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.RemoteStore)).Methods(http.MethodGet)

	return r
}

func healthHandler(store *remote.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend := "local"
		if store != nil && store.State() == remote.StateReady {
			backend = "connected"
		}
		response.JSON(w, http.StatusOK, response.HealthResponse{
			Status:  "ok",
			Backend: backend,
		})
	}
}
