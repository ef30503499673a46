package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

type reresolveJobRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1"`
}

type pullJobRequest struct {
	Since string `json:"since" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) RunRankingJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRankingJob")
	defer span.End()

	result, err := h.rankingService.RunAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run ranking job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	// Snapshots superseded the cached reads wholesale.
	h.cache.DeletePrefix(ctx, rankingsCachePrefix)

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunReresolveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReresolveJob")
	defer span.End()

	req, err := decodeReresolveJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resolved, err := h.ingestionService.ReresolveUnassigned(ctx, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "run reresolve job failed", "limit", req.Limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"resolved": resolved})
}

func (h *Handler) RunPullJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPullJob")
	defer span.End()

	provider := strings.TrimSpace(r.PathValue("provider"))

	req, err := decodePullJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var since time.Time
	if req.Since != "" {
		since, _ = time.Parse("2006-01-02", req.Since)
	}

	report, err := h.feedService.PullProvider(ctx, provider, since)
	if err != nil {
		h.logger.WarnContext(ctx, "run pull job failed", "provider", provider, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func decodePullJobRequest(r *http.Request) (pullJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req pullJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return pullJobRequest{}, nil
		}
		return pullJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func decodeReresolveJobRequest(r *http.Request) (reresolveJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req reresolveJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return reresolveJobRequest{}, nil
		}
		return reresolveJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
