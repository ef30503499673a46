package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	"github.com/dallasheidt14/PitchRank-sub004/internal/infrastructure/repository/memory"
	basecache "github.com/dallasheidt14/PitchRank-sub004/internal/platform/cache"
)

func testTeam(id, name string) team.Team {
	return team.Team{ID: id, Name: name, ClubName: "FC Dallas", AgeGroup: "U12", Gender: "M"}
}

func TestTeamRepository_GetByIDCachesResult(t *testing.T) {
	ctx := context.Background()
	next := memory.NewTeamRepository([]team.Team{testTeam("t1", "FC Dallas 2014B Red")})
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))

	first, exists, err := repo.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !exists || first.Name != "FC Dallas 2014B Red" {
		t.Fatalf("unexpected first read: %+v exists=%v", first, exists)
	}

	second, exists, err := repo.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get by id (cached): %v", err)
	}
	if !exists || second.Name != first.Name {
		t.Fatalf("unexpected cached read: %+v exists=%v", second, exists)
	}
}

func TestTeamRepository_CreateInvalidatesCohortListings(t *testing.T) {
	ctx := context.Background()
	next := memory.NewTeamRepository([]team.Team{testTeam("t1", "FC Dallas 2014B Red")})
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))

	cohort := team.Cohort{AgeGroup: "U12", Gender: "M"}
	items, err := repo.ListByCohort(ctx, cohort)
	if err != nil {
		t.Fatalf("list by cohort: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 team before create, got %d", len(items))
	}

	if err := repo.Create(ctx, testTeam("t2", "Solar SC 2014B")); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err = repo.ListByCohort(ctx, cohort)
	if err != nil {
		t.Fatalf("list by cohort after create: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected cohort listing to reload after create, got %d teams", len(items))
	}
}

func TestTeamRepository_DisabledStorePassesThrough(t *testing.T) {
	ctx := context.Background()
	next := memory.NewTeamRepository(nil)
	repo := NewTeamRepository(next, basecache.NewDisabled())

	if err := repo.Create(ctx, testTeam("t1", "FC Dallas 2014B Red")); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, exists, err := repo.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !exists {
		t.Fatalf("expected team to be visible through disabled cache")
	}
}
