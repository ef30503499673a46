package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

// Composite weighting: strength-of-schedule carries more than either raw
// component.
const (
	compositeOffenseWeight = 0.25
	compositeDefenseWeight = 0.25
	compositeSOSWeight     = 0.50

	// sosBlend mixes a team's baseline with its schedule-adjusted strength
	// between refinement iterations.
	sosBlendBaseline = 0.70
	sosBlendSchedule = 0.30
)

type RankingConfig struct {
	WindowDays           int
	MaxGames             int
	Bands                ranking.BandWeights
	Points               ranking.PointValues
	MinGames             int
	SOSIterations        int
	SOSDefault           float64
	MaxConcurrentCohorts int
}

func (c RankingConfig) validate() error {
	if c.WindowDays <= 0 {
		return fmt.Errorf("window days must be > 0")
	}
	if c.MaxGames <= 0 {
		return fmt.Errorf("max games must be > 0")
	}
	if c.Bands.Recent <= 0 || c.Bands.Middle <= 0 || c.Bands.Oldest <= 0 {
		return fmt.Errorf("recency band weights must all be > 0")
	}
	if math.Abs(c.Bands.Sum()-1) > 1e-9 {
		return fmt.Errorf("recency band weights must sum to 1, got %v", c.Bands.Sum())
	}
	if c.Points.Win <= 0 {
		return fmt.Errorf("win points must be > 0")
	}
	if c.MinGames < 1 {
		return fmt.Errorf("min games must be >= 1")
	}
	if c.SOSIterations < 0 {
		return fmt.Errorf("sos iterations cannot be negative")
	}
	if c.SOSDefault < 0 || c.SOSDefault > 1 {
		return fmt.Errorf("sos default %v out of [0,1]", c.SOSDefault)
	}
	if c.MaxConcurrentCohorts < 1 {
		return fmt.Errorf("max concurrent cohorts must be >= 1")
	}
	return nil
}

// CohortSummary reports one cohort's ranking run.
type CohortSummary struct {
	AgeGroup string `json:"age_group"`
	Gender   string `json:"gender"`
	Teams    int    `json:"teams"`
	Active   int    `json:"active"`
	Games    int    `json:"games"`
}

type RankingRunResult struct {
	SnapshotAt time.Time       `json:"snapshot_at"`
	Cohorts    int             `json:"cohorts"`
	Summaries  []CohortSummary `json:"summaries"`
}

// RankingService recomputes cohort strength rankings wholesale from the
// persisted game and team data. It is a read-only consumer of identity data
// and records the snapshot time it used, since it is not transactionally
// isolated from late-arriving games.
type RankingService struct {
	teamRepo team.Repository
	gameRepo game.Repository
	rankRepo ranking.Repository
	cfg      RankingConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewRankingService(
	teamRepo team.Repository,
	gameRepo game.Repository,
	rankRepo ranking.Repository,
	cfg RankingConfig,
	logger *slog.Logger,
) (*RankingService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingService{
		teamRepo: teamRepo,
		gameRepo: gameRepo,
		rankRepo: rankRepo,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// RunAll recomputes every cohort, bounded-parallel across cohorts.
func (s *RankingService) RunAll(ctx context.Context) (RankingRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RunAll")
	defer span.End()

	cohorts, err := s.teamRepo.ListCohorts(ctx)
	if err != nil {
		return RankingRunResult{}, fmt.Errorf("list cohorts: %w", err)
	}

	snapshotAt := s.now().UTC()

	runner := pool.NewWithResults[CohortSummary]().
		WithErrors().
		WithMaxGoroutines(s.cfg.MaxConcurrentCohorts)
	for _, cohort := range cohorts {
		cohort := cohort
		runner.Go(func() (CohortSummary, error) {
			rows, games, err := s.computeCohort(ctx, cohort, snapshotAt)
			if err != nil {
				return CohortSummary{}, fmt.Errorf("cohort %s: %w", cohort, err)
			}
			if err := s.rankRepo.ReplaceCohort(ctx, cohort, rows); err != nil {
				return CohortSummary{}, fmt.Errorf("replace cohort %s rankings: %w", cohort, err)
			}

			active := 0
			for _, row := range rows {
				if row.Status == ranking.StatusActive {
					active++
				}
			}
			return CohortSummary{
				AgeGroup: cohort.AgeGroup,
				Gender:   cohort.Gender,
				Teams:    len(rows),
				Active:   active,
				Games:    games,
			}, nil
		})
	}

	summaries, err := runner.Wait()
	if err != nil {
		return RankingRunResult{}, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AgeGroup != summaries[j].AgeGroup {
			return summaries[i].AgeGroup < summaries[j].AgeGroup
		}
		return summaries[i].Gender < summaries[j].Gender
	})

	s.logger.InfoContext(ctx, "ranking run finished",
		"cohorts", len(summaries),
		"snapshot_at", snapshotAt,
	)
	return RankingRunResult{
		SnapshotAt: snapshotAt,
		Cohorts:    len(summaries),
		Summaries:  summaries,
	}, nil
}

// RunCohort recomputes and persists one cohort.
func (s *RankingService) RunCohort(ctx context.Context, cohort team.Cohort) ([]ranking.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RunCohort")
	defer span.End()

	if err := cohort.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rows, _, err := s.computeCohort(ctx, cohort, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.rankRepo.ReplaceCohort(ctx, cohort, rows); err != nil {
		return nil, fmt.Errorf("replace cohort rankings: %w", err)
	}
	return rows, nil
}

// ListCohort returns the current persisted ranking rows for a cohort.
func (s *RankingService) ListCohort(ctx context.Context, cohort team.Cohort) ([]ranking.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ListCohort")
	defer span.End()

	if err := cohort.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rows, err := s.rankRepo.ListByCohort(ctx, cohort)
	if err != nil {
		return nil, fmt.Errorf("list cohort rankings: %w", err)
	}
	return rows, nil
}

// teamWindow is one team's windowed game history with its recency weights.
type teamWindow struct {
	sides   []ranking.GameSide
	weights []float64
}

func (s *RankingService) computeCohort(
	ctx context.Context,
	cohort team.Cohort,
	snapshotAt time.Time,
) ([]ranking.Row, int, error) {
	since := snapshotAt.AddDate(0, 0, -s.cfg.WindowDays)

	teams, err := s.teamRepo.ListByCohort(ctx, cohort)
	if err != nil {
		return nil, 0, fmt.Errorf("list cohort teams: %w", err)
	}
	games, err := s.gameRepo.ListByCohort(ctx, cohort, since)
	if err != nil {
		return nil, 0, fmt.Errorf("list cohort games: %w", err)
	}

	appearances := collectSides(games)

	windows := make(map[string]teamWindow, len(teams))
	for _, item := range teams {
		if item.Deprecated {
			continue
		}
		sides := append([]ranking.GameSide(nil), appearances[item.ID]...)
		ranking.SortSidesMostRecentFirst(sides)
		if len(sides) > s.cfg.MaxGames {
			sides = sides[:s.cfg.MaxGames]
		}
		windows[item.ID] = teamWindow{
			sides:   sides,
			weights: ranking.RecencyWeights(len(sides), s.cfg.Bands),
		}
	}

	// Baseline strengths for every cohort team meeting the minimum-games
	// threshold. Everything else is a "missing opponent" for SOS purposes.
	strengths := make(map[string]float64, len(windows))
	for id, window := range windows {
		if len(window.sides) >= s.cfg.MinGames {
			strengths[id] = ranking.BaselineRate(window.sides, window.weights, s.cfg.Points)
		}
	}

	estimate := s.opponentEstimator(appearances)

	// Iterative refinement over immutable snapshots: each pass rebuilds the
	// strength map from the previous one.
	rawSOS := make(map[string]float64, len(windows))
	current := strengths
	iterations := s.cfg.SOSIterations
	if iterations < 1 {
		iterations = 1
	}
	for iter := 0; iter < iterations; iter++ {
		for id, window := range windows {
			rawSOS[id] = ranking.SOS(window.sides, window.weights, current, estimate)
		}
		if iter == iterations-1 {
			break
		}
		next := make(map[string]float64, len(current))
		for id := range current {
			next[id] = sosBlendBaseline*current[id] + sosBlendSchedule*rawSOS[id]
		}
		current = next
	}

	rows := s.buildRows(cohort, windows, rawSOS, snapshotAt)
	return rows, len(games), nil
}

// opponentEstimator derives strength for opponents absent from the strength
// map from whatever partial signal their in-window appearances carry, so that
// unrelated missing opponents do not all land on the cohort default.
func (s *RankingService) opponentEstimator(appearances map[string][]ranking.GameSide) func(string) float64 {
	cache := make(map[string]float64)
	return func(opponentID string) float64 {
		if opponentID == "" {
			return s.cfg.SOSDefault
		}
		if cached, ok := cache[opponentID]; ok {
			return cached
		}

		sides := appearances[opponentID]
		estimate := s.cfg.SOSDefault
		if len(sides) > 0 {
			total := 0.0
			for _, side := range sides {
				total += ranking.Points(side.GoalsFor, side.GoalsAgainst, s.cfg.Points)
			}
			estimate = total / (float64(len(sides)) * s.cfg.Points.Win)
		}
		cache[opponentID] = estimate
		return estimate
	}
}

func (s *RankingService) buildRows(
	cohort team.Cohort,
	windows map[string]teamWindow,
	rawSOS map[string]float64,
	snapshotAt time.Time,
) []ranking.Row {
	rawOffense := make(map[string]float64, len(windows))
	rawDefense := make(map[string]float64, len(windows))
	active := make(map[string]struct{}, len(windows))

	for id, window := range windows {
		gf, ga := ranking.WeightedGoals(window.sides, window.weights)
		rawOffense[id] = gf
		rawDefense[id] = ga
		if len(window.sides) >= s.cfg.MinGames {
			active[id] = struct{}{}
		}
	}

	// Percentile normalization runs strictly within the cohort, and only over
	// teams eligible for a ranking position.
	activeOffense := filterKeys(rawOffense, active)
	activeDefense := filterKeys(rawDefense, active)
	activeSOS := filterKeys(rawSOS, active)

	normOffense := ranking.PercentileRanks(activeOffense, true)
	normDefense := ranking.PercentileRanks(activeDefense, false)
	normSOS := ranking.PercentileRanks(activeSOS, true)

	rows := make([]ranking.Row, 0, len(windows))
	for id, window := range windows {
		row := ranking.Row{
			TeamID:      id,
			AgeGroup:    cohort.AgeGroup,
			Gender:      cohort.Gender,
			GamesPlayed: len(window.sides),
			WinPct:      winPct(window.sides),
			RawOffense:  rawOffense[id],
			RawDefense:  rawDefense[id],
			RawSOS:      rawSOS[id],
			Status:      ranking.StatusInactive,
			SnapshotAt:  snapshotAt,
		}
		if _, ok := active[id]; ok {
			row.Status = ranking.StatusActive
			row.NormOffense = normOffense[id]
			row.NormDefense = normDefense[id]
			row.NormSOS = normSOS[id]
			row.PowerScore = compositeOffenseWeight*row.NormOffense +
				compositeDefenseWeight*row.NormDefense +
				compositeSOSWeight*row.NormSOS
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if (a.Status == ranking.StatusActive) != (b.Status == ranking.StatusActive) {
			return a.Status == ranking.StatusActive
		}
		if a.PowerScore != b.PowerScore {
			return a.PowerScore > b.PowerScore
		}
		if a.WinPct != b.WinPct {
			return a.WinPct > b.WinPct
		}
		return a.TeamID < b.TeamID
	})

	position := 0
	for idx := range rows {
		if rows[idx].Status != ranking.StatusActive {
			continue
		}
		position++
		rows[idx].Rank = position
	}
	return rows
}

// collectSides indexes every canonical team's appearances across the loaded
// games, including out-of-cohort opponents, which is exactly the partial
// signal the SOS estimator needs.
func collectSides(games []game.Game) map[string][]ranking.GameSide {
	out := make(map[string][]ranking.GameSide)
	for _, g := range games {
		if g.HomeTeamID != "" {
			out[g.HomeTeamID] = append(out[g.HomeTeamID], ranking.GameSide{
				GameID:       g.ID,
				Date:         g.Date,
				GoalsFor:     g.HomeScore,
				GoalsAgainst: g.AwayScore,
				OpponentID:   g.AwayTeamID,
			})
		}
		if g.AwayTeamID != "" {
			out[g.AwayTeamID] = append(out[g.AwayTeamID], ranking.GameSide{
				GameID:       g.ID,
				Date:         g.Date,
				GoalsFor:     g.AwayScore,
				GoalsAgainst: g.HomeScore,
				OpponentID:   g.HomeTeamID,
			})
		}
	}
	return out
}

func filterKeys(values map[string]float64, keep map[string]struct{}) map[string]float64 {
	out := make(map[string]float64, len(keep))
	for key := range keep {
		out[key] = values[key]
	}
	return out
}

func winPct(sides []ranking.GameSide) float64 {
	if len(sides) == 0 {
		return 0
	}
	wins := 0
	for _, side := range sides {
		if side.GoalsFor > side.GoalsAgainst {
			wins++
		}
	}
	return float64(wins) / float64(len(sides))
}
