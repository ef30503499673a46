package usecase_test

import (
	. "github.com/dallasheidt14/PitchRank-sub004/internal/usecase"

	"testing"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	"github.com/dallasheidt14/PitchRank-sub004/internal/infrastructure/repository/memory"
)

var cohortU12M = team.Cohort{AgeGroup: "U12", Gender: "M"}

func defaultRankingConfig() RankingConfig {
	return RankingConfig{
		WindowDays:           365,
		MaxGames:             30,
		Bands:                ranking.BandWeights{Recent: 0.50, Middle: 0.35, Oldest: 0.15},
		Points:               ranking.PointValues{Win: 3, Draw: 1, Loss: 0},
		MinGames:             1,
		SOSIterations:        2,
		SOSDefault:           0.5,
		MaxConcurrentCohorts: 2,
	}
}

type rankingFixture struct {
	teams   *memory.TeamRepository
	games   *memory.GameRepository
	ranks   *memory.RankingRepository
	service *RankingService
}

func newRankingFixture(t *testing.T, seed []team.Team, cfg RankingConfig) *rankingFixture {
	t.Helper()

	teams := memory.NewTeamRepository(seed)
	games := memory.NewGameRepository()
	ranks := memory.NewRankingRepository()
	service, err := NewRankingService(teams, games, ranks, cfg, testLogger())
	if err != nil {
		t.Fatalf("new ranking service: %v", err)
	}
	return &rankingFixture{teams: teams, games: games, ranks: ranks, service: service}
}

func (fx *rankingFixture) seedGame(t *testing.T, id string, date time.Time, homeID, awayID string, homeScore, awayScore int) {
	t.Helper()

	err := fx.games.Insert(t.Context(), mustGame(id, date, homeID, awayID, homeScore, awayScore))
	if err != nil {
		t.Fatalf("seed game %s: %v", id, err)
	}
}

func mustGame(id string, date time.Time, homeID, awayID string, homeScore, awayScore int) game.Game {
	return game.Game{
		ID:             id,
		Provider:       "gotsport",
		HomeTeamID:     homeID,
		AwayTeamID:     awayID,
		HomeProviderID: "p-" + homeID + "-" + id,
		AwayProviderID: "p-" + awayID + "-" + id,
		Date:           date,
		HomeScore:      homeScore,
		AwayScore:      awayScore,
		AgeGroup:       "U12",
		Gender:         "M",
		ScrapedAt:      date,
	}
}

func cohortTeams(ids ...string) []team.Team {
	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, team.Team{ID: id, Name: "Team " + id, AgeGroup: "U12", Gender: "M"})
	}
	return out
}

func rowByTeam(t *testing.T, rows []ranking.Row, teamID string) ranking.Row {
	t.Helper()
	for _, row := range rows {
		if row.TeamID == teamID {
			return row
		}
	}
	t.Fatalf("no row for team %s in %+v", teamID, rows)
	return ranking.Row{}
}

func TestRunCohort_OrdersByStrength(t *testing.T) {
	fx := newRankingFixture(t, cohortTeams("alpha", "bravo", "charlie"), defaultRankingConfig())
	base := time.Now().UTC().AddDate(0, 0, -10)

	fx.seedGame(t, "g1", base, "alpha", "bravo", 3, 0)
	fx.seedGame(t, "g2", base.AddDate(0, 0, 1), "alpha", "charlie", 2, 0)
	fx.seedGame(t, "g3", base.AddDate(0, 0, 2), "bravo", "charlie", 1, 0)

	rows, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("run cohort: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	for idx, want := range []string{"alpha", "bravo", "charlie"} {
		if rows[idx].TeamID != want {
			t.Fatalf("position %d = %s, want %s", idx+1, rows[idx].TeamID, want)
		}
		if rows[idx].Rank != idx+1 {
			t.Fatalf("team %s rank = %d, want %d", want, rows[idx].Rank, idx+1)
		}
		if rows[idx].Status != ranking.StatusActive {
			t.Fatalf("team %s status = %s, want active", want, rows[idx].Status)
		}
	}

	alpha := rowByTeam(t, rows, "alpha")
	if alpha.WinPct != 1 || alpha.GamesPlayed != 2 {
		t.Fatalf("alpha row %+v", alpha)
	}
	if alpha.PowerScore <= rowByTeam(t, rows, "charlie").PowerScore {
		t.Fatal("undefeated team should outscore winless team")
	}
	if alpha.SnapshotAt.IsZero() {
		t.Fatal("snapshot time not stamped")
	}
}

func TestRunCohort_WindowExcludesOldGames(t *testing.T) {
	cfg := defaultRankingConfig()
	cfg.WindowDays = 30
	fx := newRankingFixture(t, cohortTeams("alpha", "bravo"), cfg)

	fx.seedGame(t, "old", time.Now().UTC().AddDate(0, 0, -90), "alpha", "bravo", 9, 0)

	rows, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("run cohort: %v", err)
	}
	for _, row := range rows {
		if row.GamesPlayed != 0 {
			t.Fatalf("team %s counted %d out-of-window games", row.TeamID, row.GamesPlayed)
		}
		if row.Status != ranking.StatusInactive || row.Rank != 0 {
			t.Fatalf("windowless team ranked: %+v", row)
		}
	}
}

func TestRunCohort_MinGamesGate(t *testing.T) {
	cfg := defaultRankingConfig()
	cfg.MinGames = 2
	fx := newRankingFixture(t, cohortTeams("alpha", "bravo", "charlie"), cfg)
	base := time.Now().UTC().AddDate(0, 0, -5)

	// alpha and bravo play each other twice; charlie only once.
	fx.seedGame(t, "g1", base, "alpha", "bravo", 2, 1)
	fx.seedGame(t, "g2", base.AddDate(0, 0, 1), "bravo", "alpha", 0, 1)
	fx.seedGame(t, "g3", base.AddDate(0, 0, 2), "charlie", "alpha", 4, 0)

	rows, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("run cohort: %v", err)
	}

	charlie := rowByTeam(t, rows, "charlie")
	if charlie.Status != ranking.StatusInactive || charlie.Rank != 0 {
		t.Fatalf("below-threshold team should be inactive and unranked: %+v", charlie)
	}
	if charlie.GamesPlayed != 1 {
		t.Fatalf("charlie games = %d, want 1", charlie.GamesPlayed)
	}
	// Inactive rows still carry raw components for display.
	if charlie.RawOffense == 0 {
		t.Fatal("inactive row lost raw offense signal")
	}

	// Ranked positions stay contiguous across the active teams.
	if rowByTeam(t, rows, "alpha").Rank != 1 || rowByTeam(t, rows, "bravo").Rank != 2 {
		t.Fatalf("active ranks not contiguous: %+v", rows)
	}
}

func TestRunCohort_MaxGamesCapsWindow(t *testing.T) {
	cfg := defaultRankingConfig()
	cfg.MaxGames = 2
	fx := newRankingFixture(t, cohortTeams("alpha", "bravo"), cfg)
	base := time.Now().UTC().AddDate(0, 0, -10)

	for i := 0; i < 4; i++ {
		fx.seedGame(t, "g"+string(rune('1'+i)), base.AddDate(0, 0, i), "alpha", "bravo", 1, 0)
	}

	rows, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("run cohort: %v", err)
	}
	if got := rowByTeam(t, rows, "alpha").GamesPlayed; got != 2 {
		t.Fatalf("games played = %d, want cap of 2", got)
	}
}

func TestRunCohort_DeterministicTieBreak(t *testing.T) {
	fx := newRankingFixture(t, cohortTeams("alpha", "bravo"), defaultRankingConfig())

	// One draw between two otherwise identical teams: every component ties,
	// so the team id decides the order.
	fx.seedGame(t, "g1", time.Now().UTC().AddDate(0, 0, -3), "alpha", "bravo", 1, 1)

	first, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("run cohort: %v", err)
	}
	if first[0].TeamID != "alpha" || first[0].Rank != 1 || first[1].Rank != 2 {
		t.Fatalf("tie-break order %+v", first)
	}

	second, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for idx := range first {
		if first[idx].TeamID != second[idx].TeamID || first[idx].Rank != second[idx].Rank {
			t.Fatalf("reruns disagree: %+v vs %+v", first[idx], second[idx])
		}
	}
}

func TestRunCohort_SOSUsesPartialOpponentSignal(t *testing.T) {
	// The opponents are canonical but sit outside the cohort team list, so
	// their strength comes from the partial-signal estimator, not one shared
	// default.
	fx := newRankingFixture(t, cohortTeams("alpha", "bravo"), defaultRankingConfig())
	base := time.Now().UTC().AddDate(0, 0, -7)

	fx.seedGame(t, "g1", base, "alpha", "strong-visitor", 0, 2)
	fx.seedGame(t, "g2", base, "bravo", "weak-visitor", 5, 0)

	rows, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("run cohort: %v", err)
	}

	alpha := rowByTeam(t, rows, "alpha")
	bravo := rowByTeam(t, rows, "bravo")
	if alpha.RawSOS <= bravo.RawSOS {
		t.Fatalf("losing to a winner should carry more SOS than beating a loser: %v vs %v",
			alpha.RawSOS, bravo.RawSOS)
	}
}

func TestRunCohort_SkipsDeprecatedTeams(t *testing.T) {
	seed := cohortTeams("alpha")
	seed = append(seed, team.Team{
		ID: "gone", Name: "Merged Away", AgeGroup: "U12", Gender: "M",
		Deprecated: true, MergedInto: "alpha",
	})
	fx := newRankingFixture(t, seed, defaultRankingConfig())

	rows, err := fx.service.RunCohort(t.Context(), cohortU12M)
	if err != nil {
		t.Fatalf("run cohort: %v", err)
	}
	for _, row := range rows {
		if row.TeamID == "gone" {
			t.Fatal("deprecated team received a ranking row")
		}
	}
}

func TestRunAll_NormalizesPerCohort(t *testing.T) {
	seed := cohortTeams("alpha", "bravo")
	seed = append(seed,
		team.Team{ID: "gamma", Name: "Team gamma", AgeGroup: "U14", Gender: "F"},
		team.Team{ID: "delta", Name: "Team delta", AgeGroup: "U14", Gender: "F"},
	)
	fx := newRankingFixture(t, seed, defaultRankingConfig())
	base := time.Now().UTC().AddDate(0, 0, -7)

	fx.seedGame(t, "g1", base, "alpha", "bravo", 2, 0)
	girls := mustGame("g2", base, "gamma", "delta", 1, 0)
	girls.AgeGroup = "U14"
	girls.Gender = "F"
	if err := fx.games.Insert(t.Context(), girls); err != nil {
		t.Fatalf("seed girls game: %v", err)
	}

	out, err := fx.service.RunAll(t.Context())
	if err != nil {
		t.Fatalf("run all: %v", err)
	}
	if out.Cohorts != 2 || len(out.Summaries) != 2 {
		t.Fatalf("run result %+v", out)
	}
	if out.SnapshotAt.IsZero() {
		t.Fatal("snapshot time missing")
	}

	// Each cohort normalizes over its own two teams; the winner tops its own
	// table and norm components stay within [0,1].
	for _, cohort := range []team.Cohort{cohortU12M, {AgeGroup: "U14", Gender: "F"}} {
		rows, err := fx.service.ListCohort(t.Context(), cohort)
		if err != nil {
			t.Fatalf("list cohort %s: %v", cohort, err)
		}
		if len(rows) != 2 || rows[0].Rank != 1 {
			t.Fatalf("cohort %s rows %+v", cohort, rows)
		}
		for _, row := range rows {
			if row.NormOffense < 0 || row.NormOffense > 1 ||
				row.NormDefense < 0 || row.NormDefense > 1 ||
				row.NormSOS < 0 || row.NormSOS > 1 {
				t.Fatalf("norm components out of range: %+v", row)
			}
		}
	}
}

func TestRunCohort_RetainsHistory(t *testing.T) {
	fx := newRankingFixture(t, cohortTeams("alpha", "bravo"), defaultRankingConfig())
	fx.seedGame(t, "g1", time.Now().UTC().AddDate(0, 0, -3), "alpha", "bravo", 2, 0)

	if _, err := fx.service.RunCohort(t.Context(), cohortU12M); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := fx.service.RunCohort(t.Context(), cohortU12M); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := fx.ranks.SnapshotCount(cohortU12M); got != 1 {
		t.Fatalf("superseded snapshots = %d, want 1", got)
	}
}

func TestListCohort_ValidatesInput(t *testing.T) {
	fx := newRankingFixture(t, nil, defaultRankingConfig())

	if _, err := fx.service.ListCohort(t.Context(), team.Cohort{}); err == nil {
		t.Fatal("empty cohort accepted")
	}
}

func TestNewRankingService_RejectsBadBands(t *testing.T) {
	cfg := defaultRankingConfig()
	cfg.Bands = ranking.BandWeights{Recent: 0.6, Middle: 0.3, Oldest: 0.3}
	if _, err := NewRankingService(nil, nil, nil, cfg, testLogger()); err == nil {
		t.Fatal("band weights not summing to 1 accepted")
	}

	// Weights that cancel out to 1 are still invalid per band.
	cfg.Bands = ranking.BandWeights{Recent: 1.2, Middle: -0.2, Oldest: 0}
	if _, err := NewRankingService(nil, nil, nil, cfg, testLogger()); err == nil {
		t.Fatal("non-positive band weight accepted")
	}
}
