package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

// providerRecordDTO is one perspective row as posted by a scraper adapter.
// Dates are accepted as either RFC3339 timestamps or plain ISO dates.
type providerRecordDTO struct {
	TeamID       string `json:"teamId" validate:"required"`
	TeamName     string `json:"teamName" validate:"required"`
	ClubName     string `json:"clubName"`
	OpponentID   string `json:"opponentId" validate:"required"`
	OpponentName string `json:"opponentName" validate:"required"`
	OpponentClub string `json:"opponentClub"`
	AgeGroup     string `json:"ageGroup" validate:"required"`
	Gender       string `json:"gender" validate:"required,oneof=M F"`
	Date         string `json:"date" validate:"required"`
	Home         bool   `json:"home"`
	GoalsFor     *int   `json:"goalsFor"`
	GoalsAgainst *int   `json:"goalsAgainst"`
	Division     string `json:"division"`
	SourceURL    string `json:"sourceUrl"`
	ScrapedAt    string `json:"scrapedAt"`
}

type ingestProviderRequest struct {
	Records []providerRecordDTO `json:"records" validate:"required,min=1,dive"`
}

type ingestBatchRequest struct {
	Batches map[string][]providerRecordDTO `json:"batches" validate:"required,min=1"`
}

func (h *Handler) IngestProviderBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestProviderBatch")
	defer span.End()

	provider := strings.TrimSpace(r.PathValue("provider"))

	var req ingestProviderRequest
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

	records, err := providerRecordsFromDTOs(provider, req.Records)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.ingestionService.IngestProviderBatch(ctx, provider, records)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest provider batch failed", "provider", provider, "records", len(records), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestBatch")
	defer span.End()

	var req ingestBatchRequest
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

	batches := make(map[string][]game.ProviderRecord, len(req.Batches))
	for provider, dtos := range req.Batches {
		records, err := providerRecordsFromDTOs(provider, dtos)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		batches[provider] = records
	}

	report, err := h.ingestionService.IngestBatch(ctx, batches)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest batch failed", "providers", len(batches), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListConflicts")
	defer span.End()

	limit, err := queryLimit(r, 100)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	conflicts, err := h.gameRepo.ListConflicts(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list conflicts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]conflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		items = append(items, conflictToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func providerRecordsFromDTOs(provider string, dtos []providerRecordDTO) ([]game.ProviderRecord, error) {
	records := make([]game.ProviderRecord, 0, len(dtos))
	for i, dto := range dtos {
		date, err := parseRecordDate(dto.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", usecase.ErrInvalidInput, i, err)
		}

		scrapedAt := time.Now().UTC()
		if strings.TrimSpace(dto.ScrapedAt) != "" {
			scrapedAt, err = time.Parse(time.RFC3339, dto.ScrapedAt)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: invalid scrapedAt: %v", usecase.ErrInvalidInput, i, err)
			}
		}

		records = append(records, game.ProviderRecord{
			Provider:     provider,
			TeamID:       dto.TeamID,
			TeamName:     dto.TeamName,
			ClubName:     dto.ClubName,
			OpponentID:   dto.OpponentID,
			OpponentName: dto.OpponentName,
			OpponentClub: dto.OpponentClub,
			AgeGroup:     dto.AgeGroup,
			Gender:       dto.Gender,
			Date:         date,
			Home:         dto.Home,
			GoalsFor:     dto.GoalsFor,
			GoalsAgainst: dto.GoalsAgainst,
			Division:     dto.Division,
			SourceURL:    dto.SourceURL,
			ScrapedAt:    scrapedAt,
		})
	}
	return records, nil
}

func parseRecordDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}
