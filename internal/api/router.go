package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/citygame/checkin/internal/api/handler"
	"github.com/citygame/checkin/internal/api/middleware"
	"github.com/citygame/checkin/internal/dependencies/clock"
	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/services/auth"
	"github.com/citygame/checkin/internal/services/export"
	"github.com/citygame/checkin/internal/services/ledger"
	"github.com/citygame/checkin/internal/services/registry"
	"github.com/citygame/checkin/internal/services/scoring"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Clock           clock.Clock
	AuthService     *auth.Service
	RegistryService *registry.Service
	LedgerService   *ledger.Service
	ScoringService  *scoring.Service
	ExportService   *export.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	teamHandler := handler.NewTeamHandler(cfg.RegistryService, cfg.LedgerService, cfg.ScoringService)
	adminHandler := handler.NewAdminHandler(cfg.ScoringService, cfg.ExportService, cfg.Clock)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	teamOnly := middleware.RequireRole(model.RoleTeam)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Login requires no session; the session probe works with or without one
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/session", optionalAuthMiddleware(http.HandlerFunc(authHandler.Session))).Methods(http.MethodGet)
	api.Handle("/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout))).Methods(http.MethodPost)

	// Team routes
	team := api.PathPrefix("/team").Subrouter()
	team.Use(authMiddleware)
	team.Use(teamOnly)
	team.HandleFunc("/dashboard", teamHandler.Dashboard).Methods(http.MethodGet)

	checkins := api.PathPrefix("/checkins").Subrouter()
	checkins.Use(authMiddleware)
	checkins.Use(teamOnly)
	checkins.HandleFunc("", teamHandler.Checkin).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.Use(adminOnly)
	admin.HandleFunc("/dashboard", adminHandler.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/export.csv", adminHandler.ExportCSV).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
