package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
	"github.com/dallasheidt14/PitchRank-sub004/internal/platform/cache"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

type Handler struct {
	ingestionService   *usecase.IngestionService
	rankingService     *usecase.RankingService
	reviewService      *usecase.ReviewService
	maintenanceService *usecase.MaintenanceService
	feedService        *usecase.FeedService
	gameRepo           game.Repository
	cache              *cache.Store
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	rankingService *usecase.RankingService,
	reviewService *usecase.ReviewService,
	maintenanceService *usecase.MaintenanceService,
	feedService *usecase.FeedService,
	gameRepo game.Repository,
	cacheStore *cache.Store,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		ingestionService:   ingestionService,
		rankingService:     rankingService,
		reviewService:      reviewService,
		maintenanceService: maintenanceService,
		feedService:        feedService,
		gameRepo:           gameRepo,
		cache:              cacheStore,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryLimit(r *http.Request, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type rankingRowDTO struct {
	TeamID      string  `json:"teamId"`
	AgeGroup    string  `json:"ageGroup"`
	Gender      string  `json:"gender"`
	GamesPlayed int     `json:"gamesPlayed"`
	WinPct      float64 `json:"winPct"`
	NormOffense float64 `json:"normOffense"`
	NormDefense float64 `json:"normDefense"`
	NormSOS     float64 `json:"normSos"`
	PowerScore  float64 `json:"powerScore"`
	Rank        int     `json:"rank"`
	Status      string  `json:"status"`
	SnapshotAt  string  `json:"snapshotAt"`
}

type reviewEntryDTO struct {
	ID               int64   `json:"id"`
	Provider         string  `json:"provider"`
	ProviderTeamID   string  `json:"providerTeamId"`
	ProviderTeamName string  `json:"providerTeamName"`
	ClubName         string  `json:"clubName,omitempty"`
	AgeGroup         string  `json:"ageGroup"`
	Gender           string  `json:"gender"`
	CandidateTeamID  string  `json:"candidateTeamId,omitempty"`
	Confidence       float64 `json:"confidence"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"createdAt"`
	DecidedAt        string  `json:"decidedAt,omitempty"`
}

type conflictDTO struct {
	ID             int64  `json:"id"`
	GameID         string `json:"gameId"`
	Provider       string `json:"provider"`
	ExistingHome   int    `json:"existingHomeScore"`
	ExistingAway   int    `json:"existingAwayScore"`
	IncomingHome   int    `json:"incomingHomeScore"`
	IncomingAway   int    `json:"incomingAwayScore"`
	IncomingScrape string `json:"incomingScrapedAt"`
	CreatedAt      string `json:"createdAt"`
}

func rankingRowToDTO(v ranking.Row) rankingRowDTO {
	return rankingRowDTO{
		TeamID:      v.TeamID,
		AgeGroup:    v.AgeGroup,
		Gender:      v.Gender,
		GamesPlayed: v.GamesPlayed,
		WinPct:      v.WinPct,
		NormOffense: v.NormOffense,
		NormDefense: v.NormDefense,
		NormSOS:     v.NormSOS,
		PowerScore:  v.PowerScore,
		Rank:        v.Rank,
		Status:      v.Status,
		SnapshotAt:  v.SnapshotAt.UTC().Format(time.RFC3339),
	}
}

func reviewEntryToDTO(v review.Entry) reviewEntryDTO {
	dto := reviewEntryDTO{
		ID:               v.ID,
		Provider:         v.Provider,
		ProviderTeamID:   v.ProviderTeamID,
		ProviderTeamName: v.ProviderTeamName,
		ClubName:         v.ClubName,
		AgeGroup:         v.AgeGroup,
		Gender:           v.Gender,
		CandidateTeamID:  v.CandidateTeamID,
		Confidence:       v.Confidence,
		Status:           string(v.Status),
		CreatedAt:        v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.DecidedAt != nil {
		dto.DecidedAt = v.DecidedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func conflictToDTO(v game.Conflict) conflictDTO {
	return conflictDTO{
		ID:             v.ID,
		GameID:         v.GameID,
		Provider:       v.Provider,
		ExistingHome:   v.ExistingHome,
		ExistingAway:   v.ExistingAway,
		IncomingHome:   v.IncomingHome,
		IncomingAway:   v.IncomingAway,
		IncomingScrape: v.IncomingScrap.UTC().Format(time.RFC3339),
		CreatedAt:      v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
