package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

const rankingsCachePrefix = "rankings:"

func (h *Handler) ListRankingsByCohort(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRankingsByCohort")
	defer span.End()

	cohort := team.Cohort{
		AgeGroup: strings.TrimSpace(r.PathValue("ageGroup")),
		Gender:   strings.TrimSpace(r.PathValue("gender")),
	}

	key := rankingsCachePrefix + cohort.AgeGroup + ":" + cohort.Gender
	value, err := h.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rows, err := h.rankingService.ListCohort(ctx, cohort)
		if err != nil {
			return nil, err
		}
		items := make([]rankingRowDTO, 0, len(rows))
		for _, row := range rows {
			items = append(items, rankingRowToDTO(row))
		}
		return items, nil
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list rankings failed", "cohort", cohort.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, value)
}
