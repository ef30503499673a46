package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
	"github.com/dallasheidt14/PitchRank-sub004/internal/infrastructure/repository/memory"
	"github.com/dallasheidt14/PitchRank-sub004/internal/platform/cache"
	idgen "github.com/dallasheidt14/PitchRank-sub004/internal/platform/id"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

const testJobToken = "test-job-token"

func newTestRouter(t *testing.T, feed usecase.FeedClient) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	teamRepo := memory.NewTeamRepository(nil)
	aliasRepo := memory.NewAliasRepository()
	reviewRepo := memory.NewReviewRepository()
	gameRepo := memory.NewGameRepository()
	rankRepo := memory.NewRankingRepository()

	resolver, err := usecase.NewResolverService(teamRepo, aliasRepo, reviewRepo, idgen.NewRandomGenerator(), usecase.ResolverConfig{
		AutoApproveThreshold: 0.90,
		ReviewThreshold:      0.70,
	}, logger)
	if err != nil {
		t.Fatalf("new resolver service: %v", err)
	}

	ingestion, err := usecase.NewIngestionService(resolver, aliasRepo, gameRepo, usecase.IngestConfig{
		AgeMismatchTolerance: 1,
		ConflictPolicy:       usecase.ConflictPolicyFlag,
		MaxWorkers:           2,
	}, logger)
	if err != nil {
		t.Fatalf("new ingestion service: %v", err)
	}

	rankingSvc, err := usecase.NewRankingService(teamRepo, gameRepo, rankRepo, usecase.RankingConfig{
		WindowDays:           365,
		MaxGames:             30,
		Bands:                ranking.BandWeights{Recent: 0.50, Middle: 0.35, Oldest: 0.15},
		Points:               ranking.PointValues{Win: 3, Draw: 1, Loss: 0},
		MinGames:             1,
		SOSIterations:        2,
		SOSDefault:           0.5,
		MaxConcurrentCohorts: 1,
	}, logger)
	if err != nil {
		t.Fatalf("new ranking service: %v", err)
	}

	reviewSvc := usecase.NewReviewService(reviewRepo, aliasRepo, teamRepo, logger)
	maintenanceSvc := usecase.NewMaintenanceService(
		memory.NewMaintenanceStore(teamRepo, aliasRepo, gameRepo),
		idgen.NewRandomGenerator(),
		logger,
	)

	feedSvc := usecase.NewFeedService(feed, ingestion, logger)

	handler := NewHandler(ingestion, rankingSvc, reviewSvc, maintenanceSvc, feedSvc, gameRepo, cache.NewStore(time.Minute), logger)
	return NewRouter(handler, logger, nil, testJobToken)
}

func TestRouter_InternalRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/rank", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRouter_IngestRankAndListFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := `{"records":[
		{"teamId":"100","teamName":"FC Dallas 2014B Red","clubName":"FC Dallas","opponentId":"200","opponentName":"Solar SC 2014B","opponentClub":"Solar SC","ageGroup":"U12","gender":"M","date":"2026-05-01","home":true,"goalsFor":3,"goalsAgainst":1},
		{"teamId":"200","teamName":"Solar SC 2014B","clubName":"Solar SC","opponentId":"100","opponentName":"FC Dallas 2014B Red","opponentClub":"FC Dallas","ageGroup":"U12","gender":"M","date":"2026-05-01","home":false,"goalsFor":1,"goalsAgainst":3}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingest/gotsport", strings.NewReader(payload))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ingest: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var ingestBody struct {
		Data usecase.IngestReport `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &ingestBody); err != nil {
		t.Fatalf("unmarshal ingest response: %v", err)
	}
	if ingestBody.Data.Accepted != 1 {
		t.Fatalf("expected 1 accepted game, got %+v", ingestBody.Data)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/rank", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("rank job: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/rankings/U12/M", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list rankings: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var listBody struct {
		Data []rankingRowDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("unmarshal rankings response: %v", err)
	}
	if len(listBody.Data) != 2 {
		t.Fatalf("expected 2 ranking rows, got %d", len(listBody.Data))
	}
	if listBody.Data[0].Rank != 1 {
		t.Fatalf("expected first row to carry rank 1, got %d", listBody.Data[0].Rank)
	}
}

func TestRouter_IngestRejectsMalformedPayload(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingest/gotsport", strings.NewReader(`{"records":[{"unknown":true}]}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

type stubFeedClient struct {
	records []game.ProviderRecord
}

func (f *stubFeedClient) FetchResults(_ context.Context, provider string, _ time.Time) ([]game.ProviderRecord, error) {
	out := make([]game.ProviderRecord, len(f.records))
	copy(out, f.records)
	for i := range out {
		out[i].Provider = provider
	}
	return out, nil
}

func TestRouter_PullJobIngestsFeedRows(t *testing.T) {
	goals := func(v int) *int { return &v }
	feed := &stubFeedClient{records: []game.ProviderRecord{
		{
			TeamID: "100", TeamName: "FC Dallas 2014B Red", ClubName: "FC Dallas",
			OpponentID: "200", OpponentName: "Solar SC 2014B", OpponentClub: "Solar SC",
			AgeGroup: "U12", Gender: "M",
			Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			Home: true, GoalsFor: goals(3), GoalsAgainst: goals(1),
			ScrapedAt: time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC),
		},
	}}
	router := newTestRouter(t, feed)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/pull/gotsport", strings.NewReader(`{"since":"2026-04-24"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("pull job: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data usecase.IngestReport `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal pull response: %v", err)
	}
	if body.Data.Provider != "gotsport" || body.Data.Accepted != 1 {
		t.Fatalf("expected one accepted game for gotsport, got %+v", body.Data)
	}
}

func TestRouter_PullJobWithoutFeedIsUnavailable(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/pull/gotsport", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", rec.Code, rec.Body.String())
	}
}
