package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

type mergeTeamsRequest struct {
	FromTeamID string `json:"fromTeamId" validate:"required"`
	IntoTeamID string `json:"intoTeamId" validate:"required"`
}

func (h *Handler) MergeTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MergeTeams")
	defer span.End()

	var req mergeTeamsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.maintenanceService.Merge(ctx, req.FromTeamID, req.IntoTeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "merge teams failed",
			"from_team_id", req.FromTeamID,
			"into_team_id", req.IntoTeamID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	// Merged identities invalidate cached team reads.
	h.cache.DeletePrefix(ctx, "team:")

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) UnmergeTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnmergeTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if teamID == "" {
		writeError(ctx, w, fmt.Errorf("%w: team id is required", usecase.ErrInvalidInput))
		return
	}

	result, err := h.maintenanceService.Unmerge(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "unmerge team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.cache.DeletePrefix(ctx, "team:")

	writeSuccess(ctx, w, http.StatusOK, result)
}
