package handler

import (
	"encoding/json"
	"net/http"

	"github.com/citygame/checkin/internal/api/apierr"
	"github.com/citygame/checkin/internal/api/middleware"
	"github.com/citygame/checkin/internal/api/request"
	"github.com/citygame/checkin/internal/api/response"
	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/services/ledger"
	"github.com/citygame/checkin/internal/services/registry"
	"github.com/citygame/checkin/internal/services/scoring"
)

// TeamHandler handles the team dashboard and check-in submission
type TeamHandler struct {
	registryService *registry.Service
	ledgerService   *ledger.Service
	scoringService  *scoring.Service
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(registryService *registry.Service, ledgerService *ledger.Service, scoringService *scoring.Service) *TeamHandler {
	return &TeamHandler{
		registryService: registryService,
		ledgerService:   ledgerService,
		scoringService:  scoringService,
	}
}

// Dashboard handles GET /api/v1/team/dashboard.
// Check-ins are scoped to the session's own identity: a team can only ever
// see its own progress.
func (h *TeamHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	posts, err := h.registryService.ListPosts(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	score, err := h.scoringService.ScoreForTeam(r.Context(), identity.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	visited, err := h.visitedPosts(r, identity.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	dashboardPosts := make([]response.DashboardPost, len(posts))
	for i, p := range posts {
		dashboardPosts[i] = response.DashboardPost{
			ID:      int(p.ID),
			Visited: visited[p.ID],
		}
	}

	response.JSON(w, http.StatusOK, response.TeamDashboard{
		Team:  response.IdentityFromModel(identity),
		Score: score,
		Posts: dashboardPosts,
	})
}

// Checkin handles POST /api/v1/checkins
func (h *TeamHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PostID <= 0 {
		apierr.WriteError(w, apierr.NewInvalidRequestError("post_id is required"))
		return
	}

	checkin, err := h.ledgerService.RecordCheckin(r.Context(), identity.ID, model.PostID(req.PostID), req.Pin, req.GamePoints)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CheckinFromModel(checkin))
}

func (h *TeamHandler) visitedPosts(r *http.Request, teamID model.IdentityID) (map[model.PostID]bool, error) {
	checkins, err := h.scoringService.CheckinsForTeam(r.Context(), teamID)
	if err != nil {
		return nil, err
	}

	visited := make(map[model.PostID]bool, len(checkins))
	for _, c := range checkins {
		visited[c.PostID] = true
	}
	return visited, nil
}
