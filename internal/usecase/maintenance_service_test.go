package usecase_test

import (
	. "github.com/dallasheidt14/PitchRank-sub004/internal/usecase"

	"context"
	"errors"
	"testing"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	"github.com/dallasheidt14/PitchRank-sub004/internal/infrastructure/repository/memory"
)

type maintenanceFixture struct {
	teams   *memory.TeamRepository
	aliases *memory.AliasRepository
	games   *memory.GameRepository
	store   *memory.MaintenanceStore
	service *MaintenanceService
}

func newMaintenanceFixture(t *testing.T, seed []team.Team) *maintenanceFixture {
	t.Helper()

	teams := memory.NewTeamRepository(seed)
	aliases := memory.NewAliasRepository()
	games := memory.NewGameRepository()
	store := memory.NewMaintenanceStore(teams, aliases, games)
	return &maintenanceFixture{
		teams:   teams,
		aliases: aliases,
		games:   games,
		store:   store,
		service: NewMaintenanceService(store, &seqIDGen{}, testLogger()),
	}
}

func (fx *maintenanceFixture) seedAlias(t *testing.T, providerTeamID, canonicalID string, createdAt time.Time) alias.Alias {
	t.Helper()

	recorded, err := fx.aliases.Record(t.Context(), alias.Alias{
		Provider:        "gotsport",
		ProviderTeamID:  providerTeamID,
		CanonicalTeamID: canonicalID,
		Method:          alias.MethodDirectID,
		Confidence:      1,
		Status:          alias.StatusApproved,
		CreatedAt:       createdAt,
	})
	if err != nil {
		t.Fatalf("seed alias %s: %v", providerTeamID, err)
	}
	return recorded
}

func twoTeams() []team.Team {
	return []team.Team{
		{ID: "keep", Name: "Lonestar Red", AgeGroup: "U12", Gender: "M", Region: "TX"},
		{ID: "fold", Name: "Lonestar Red II", AgeGroup: "U12", Gender: "M"},
	}
}

func TestMerge_MovesAliasesAndGames(t *testing.T) {
	fx := newMaintenanceFixture(t, twoTeams())
	when := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	fx.seedAlias(t, "gs-1", "fold", when)
	fx.seedAlias(t, "gs-2", "fold", when.Add(time.Hour))
	fx.seedAlias(t, "gs-3", "keep", when)

	seedMatch := func(id, homeTeam, awayTeam string) {
		if err := fx.games.Insert(t.Context(), game.Game{
			ID: id, Provider: "gotsport",
			HomeTeamID: homeTeam, AwayTeamID: awayTeam,
			HomeProviderID: "h-" + id, AwayProviderID: "a-" + id,
			Date: when, AgeGroup: "U12", Gender: "M",
		}); err != nil {
			t.Fatalf("seed game %s: %v", id, err)
		}
	}
	seedMatch("g1", "fold", "other")
	seedMatch("g2", "other", "fold")
	seedMatch("g3", "keep", "other")

	result, err := fx.service.Merge(t.Context(), "fold", "keep")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if result.AliasesMoved != 2 || result.GamesReassigned != 2 {
		t.Fatalf("result %+v, want 2 aliases and 2 games moved", result)
	}

	folded, _, _ := fx.teams.GetByID(t.Context(), "fold")
	if !folded.Deprecated || folded.MergedInto != "keep" {
		t.Fatalf("source team %+v, want deprecated with merged_into=keep", folded)
	}

	moved, err := fx.aliases.ListByTeam(t.Context(), "keep")
	if err != nil {
		t.Fatalf("list aliases: %v", err)
	}
	if len(moved) != 3 {
		t.Fatalf("keep now has %d aliases, want 3", len(moved))
	}

	for _, id := range []string{"g1", "g2"} {
		item, _, _ := fx.games.GetByID(t.Context(), id)
		if item.HomeTeamID == "fold" || item.AwayTeamID == "fold" {
			t.Fatalf("game %s still references the folded team: %+v", id, item)
		}
	}
}

func TestMerge_InputErrors(t *testing.T) {
	seed := twoTeams()
	seed = append(seed, team.Team{
		ID: "gone", Name: "Old", AgeGroup: "U12", Gender: "M",
		Deprecated: true, MergedInto: "keep",
	})
	fx := newMaintenanceFixture(t, seed)

	cases := []struct {
		name string
		from string
		into string
		want error
	}{
		{name: "self merge", from: "keep", into: "keep", want: ErrInvalidInput},
		{name: "blank ids", from: " ", into: "keep", want: ErrInvalidInput},
		{name: "missing source", from: "nope", into: "keep", want: ErrNotFound},
		{name: "missing target", from: "fold", into: "nope", want: ErrNotFound},
		{name: "deprecated source", from: "gone", into: "keep", want: ErrInvalidInput},
		{name: "deprecated target", from: "fold", into: "gone", want: ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := fx.service.Merge(t.Context(), tc.from, tc.into); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUnmerge_SplitsLaterAliases(t *testing.T) {
	fx := newMaintenanceFixture(t, twoTeams())
	when := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	// The earliest alias anchors the original identity.
	fx.seedAlias(t, "gs-first", "keep", when)
	fx.seedAlias(t, "gs-second", "keep", when.Add(time.Hour))

	seedMatch := func(id, homeProviderID string) {
		if err := fx.games.Insert(t.Context(), game.Game{
			ID: id, Provider: "gotsport",
			HomeTeamID: "keep", AwayTeamID: "other",
			HomeProviderID: homeProviderID, AwayProviderID: "a-" + id,
			Date: when, AgeGroup: "U12", Gender: "M",
		}); err != nil {
			t.Fatalf("seed game %s: %v", id, err)
		}
	}
	seedMatch("g1", "gs-first")
	seedMatch("g2", "gs-second")

	result, err := fx.service.Unmerge(t.Context(), "keep")
	if err != nil {
		t.Fatalf("unmerge: %v", err)
	}
	if result.AliasesMoved != 1 || result.GamesReassigned != 1 {
		t.Fatalf("result %+v, want 1 alias and 1 game moved", result)
	}
	if result.NewTeamID == "" || result.NewTeamID == "keep" {
		t.Fatalf("result %+v, want a fresh team id", result)
	}

	split, found, err := fx.teams.GetByID(t.Context(), result.NewTeamID)
	if err != nil || !found {
		t.Fatalf("split team missing (found=%v err=%v)", found, err)
	}
	if split.AgeGroup != "U12" || split.Gender != "M" || split.Region != "TX" {
		t.Fatalf("split team %+v, want same cohort as the source", split)
	}

	movedAliases, _ := fx.aliases.ListByTeam(t.Context(), result.NewTeamID)
	if len(movedAliases) != 1 || movedAliases[0].ProviderTeamID != "gs-second" {
		t.Fatalf("moved aliases %+v, want only gs-second", movedAliases)
	}
	keptAliases, _ := fx.aliases.ListByTeam(t.Context(), "keep")
	if len(keptAliases) != 1 || keptAliases[0].ProviderTeamID != "gs-first" {
		t.Fatalf("kept aliases %+v, want only gs-first", keptAliases)
	}

	g1, _, _ := fx.games.GetByID(t.Context(), "g1")
	if g1.HomeTeamID != "keep" {
		t.Fatalf("g1 moved unexpectedly: %+v", g1)
	}
	g2, _, _ := fx.games.GetByID(t.Context(), "g2")
	if g2.HomeTeamID != result.NewTeamID {
		t.Fatalf("g2 should follow its provider-side alias: %+v", g2)
	}
}

func TestUnmerge_InputErrors(t *testing.T) {
	seed := twoTeams()
	seed = append(seed, team.Team{
		ID: "gone", Name: "Old", AgeGroup: "U12", Gender: "M",
		Deprecated: true, MergedInto: "keep",
	})
	fx := newMaintenanceFixture(t, seed)
	fx.seedAlias(t, "gs-only", "keep", time.Now().UTC())

	if _, err := fx.service.Unmerge(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank id err = %v, want ErrInvalidInput", err)
	}
	if _, err := fx.service.Unmerge(t.Context(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing team err = %v, want ErrNotFound", err)
	}
	if _, err := fx.service.Unmerge(t.Context(), "gone"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("deprecated team err = %v, want ErrInvalidInput", err)
	}
	// A single alias means the identity was never conflated.
	if _, err := fx.service.Unmerge(t.Context(), "keep"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("single-alias err = %v, want ErrInvalidInput", err)
	}
}

func TestMaintenanceStore_RollsBackOnFailure(t *testing.T) {
	fx := newMaintenanceFixture(t, twoTeams())

	boom := errors.New("boom")
	err := fx.store.WithinTeamScope(t.Context(), []string{"fold"}, func(ctx context.Context, ops MaintenanceOps) error {
		if err := ops.DeprecateTeam(ctx, "fold", "keep"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the callback failure", err)
	}

	folded, _, _ := fx.teams.GetByID(t.Context(), "fold")
	if folded.Deprecated {
		t.Fatal("failed scope left the team deprecated")
	}
}
