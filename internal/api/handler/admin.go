package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/citygame/checkin/internal/api/apierr"
	"github.com/citygame/checkin/internal/api/response"
	"github.com/citygame/checkin/internal/dependencies/clock"
	"github.com/citygame/checkin/internal/services/export"
	"github.com/citygame/checkin/internal/services/scoring"
)

// AdminHandler handles the admin dashboard and CSV export
type AdminHandler struct {
	scoringService *scoring.Service
	exportService  *export.Service
	clock          clock.Clock
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(scoringService *scoring.Service, exportService *export.Service, clock clock.Clock) *AdminHandler {
	return &AdminHandler{
		scoringService: scoringService,
		exportService:  exportService,
		clock:          clock,
	}
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.scoringService.Ranking(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	history, err := h.scoringService.History(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	rankingResp := make([]response.RankingEntry, len(ranking))
	for i, t := range ranking {
		rankingResp[i] = response.RankingEntryFromModel(t)
	}

	historyResp := make([]response.HistoryEntry, len(history))
	for i, e := range history {
		historyResp[i] = response.HistoryEntryFromModel(e)
	}

	response.JSON(w, http.StatusOK, response.AdminDashboard{
		Ranking:      rankingResp,
		History:      historyResp,
		TotalRecords: len(historyResp),
	})
}

// ExportCSV handles GET /api/v1/admin/export.csv
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	// Build the document first so a storage failure still gets a clean
	// JSON error instead of a truncated download
	var buf bytes.Buffer
	if err := h.exportService.WriteHistoryCSV(r.Context(), &buf); err != nil {
		apierr.WriteError(w, err)
		return
	}

	filename := fmt.Sprintf("city-game-export-%d.csv", h.clock.Now().UnixMilli())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}
