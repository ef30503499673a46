package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

func (h *Handler) ListPendingReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingReviews")
	defer span.End()

	limit, err := queryLimit(r, 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.reviewService.ListPending(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending reviews failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]reviewEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, reviewEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveReview")
	defer span.End()

	id, err := reviewIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.reviewService.Approve(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "approve review failed", "review_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reviewEntryToDTO(entry))
}

func (h *Handler) RejectReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectReview")
	defer span.End()

	id, err := reviewIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.reviewService.Reject(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "reject review failed", "review_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reviewEntryToDTO(entry))
}

func reviewIDFromPath(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("reviewID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid review id %q", usecase.ErrInvalidInput, raw)
	}
	return id, nil
}
