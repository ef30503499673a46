package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

// MaintenanceStore runs merge/unmerge rewrites over the in-memory repos with
// snapshot-and-restore transactionality: a failing callback leaves the repos
// exactly as they were.
type MaintenanceStore struct {
	mu      sync.Mutex
	teams   *TeamRepository
	aliases *AliasRepository
	games   *GameRepository
}

func NewMaintenanceStore(teams *TeamRepository, aliases *AliasRepository, games *GameRepository) *MaintenanceStore {
	return &MaintenanceStore{teams: teams, aliases: aliases, games: games}
}

func (s *MaintenanceStore) WithinTeamScope(ctx context.Context, _ []string, fn func(ctx context.Context, ops usecase.MaintenanceOps) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, (*maintenanceOps)(s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	teams   map[string]team.Team
	cohorts map[team.Cohort][]string
	aliases []alias.Alias
	games   map[string]game.Game
}

func (s *MaintenanceStore) snapshot() storeSnapshot {
	s.teams.mu.Lock()
	s.aliases.mu.Lock()
	s.games.mu.Lock()
	defer s.teams.mu.Unlock()
	defer s.aliases.mu.Unlock()
	defer s.games.mu.Unlock()

	snap := storeSnapshot{
		teams:   make(map[string]team.Team, len(s.teams.teams)),
		cohorts: make(map[team.Cohort][]string, len(s.teams.cohorts)),
		aliases: make([]alias.Alias, len(s.aliases.aliases)),
		games:   make(map[string]game.Game, len(s.games.games)),
	}
	for id, item := range s.teams.teams {
		snap.teams[id] = item
	}
	for cohort, ids := range s.teams.cohorts {
		snap.cohorts[cohort] = append([]string(nil), ids...)
	}
	copy(snap.aliases, s.aliases.aliases)
	for id, item := range s.games.games {
		snap.games[id] = item
	}
	return snap
}

func (s *MaintenanceStore) restore(snap storeSnapshot) {
	s.teams.mu.Lock()
	s.aliases.mu.Lock()
	s.games.mu.Lock()
	defer s.teams.mu.Unlock()
	defer s.aliases.mu.Unlock()
	defer s.games.mu.Unlock()

	s.teams.teams = snap.teams
	s.teams.cohorts = snap.cohorts
	s.aliases.aliases = snap.aliases
	s.games.games = snap.games
}

type maintenanceOps MaintenanceStore

func (o *maintenanceOps) GetTeam(ctx context.Context, id string) (team.Team, bool, error) {
	return o.teams.GetByID(ctx, id)
}

func (o *maintenanceOps) CreateTeam(ctx context.Context, item team.Team) error {
	return o.teams.Create(ctx, item)
}

func (o *maintenanceOps) DeprecateTeam(_ context.Context, id, mergedInto string) error {
	o.teams.mu.Lock()
	defer o.teams.mu.Unlock()

	item, ok := o.teams.teams[id]
	if !ok {
		return fmt.Errorf("team %s not found", id)
	}
	item.Deprecated = true
	item.MergedInto = mergedInto
	o.teams.teams[id] = item
	return nil
}

func (o *maintenanceOps) ListAliasesByTeam(ctx context.Context, canonicalTeamID string) ([]alias.Alias, error) {
	return o.aliases.ListByTeam(ctx, canonicalTeamID)
}

func (o *maintenanceOps) ReassignAliases(_ context.Context, aliasIDs []int64, toTeamID string) error {
	o.aliases.mu.Lock()
	defer o.aliases.mu.Unlock()

	wanted := make(map[int64]bool, len(aliasIDs))
	for _, id := range aliasIDs {
		wanted[id] = true
	}
	for idx := range o.aliases.aliases {
		if wanted[o.aliases.aliases[idx].ID] {
			o.aliases.aliases[idx].CanonicalTeamID = toTeamID
		}
	}
	return nil
}

func (o *maintenanceOps) ReassignGamesByTeam(_ context.Context, fromTeamID, toTeamID string) (int, error) {
	o.games.mu.Lock()
	defer o.games.mu.Unlock()

	moved := 0
	for id, item := range o.games.games {
		changed := false
		if item.HomeTeamID == fromTeamID {
			item.HomeTeamID = toTeamID
			changed = true
		}
		if item.AwayTeamID == fromTeamID {
			item.AwayTeamID = toTeamID
			changed = true
		}
		if changed {
			o.games.games[id] = item
			moved++
		}
	}
	return moved, nil
}

func (o *maintenanceOps) ReassignGamesByProviderSide(_ context.Context, provider, providerTeamID, toTeamID string) (int, error) {
	o.games.mu.Lock()
	defer o.games.mu.Unlock()

	moved := 0
	for id, item := range o.games.games {
		if item.Provider != provider {
			continue
		}
		changed := false
		if item.HomeProviderID == providerTeamID {
			item.HomeTeamID = toTeamID
			changed = true
		}
		if item.AwayProviderID == providerTeamID {
			item.AwayTeamID = toTeamID
			changed = true
		}
		if changed {
			o.games.games[id] = item
			moved++
		}
	}
	return moved, nil
}
