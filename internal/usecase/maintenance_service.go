package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	idgen "github.com/dallasheidt14/PitchRank-sub004/internal/platform/id"
)

// MaintenanceOps is the transactional surface merge/unmerge rewrites run on.
// Every method sees the same transaction; the whole rewrite commits or rolls
// back as one unit.
type MaintenanceOps interface {
	GetTeam(ctx context.Context, id string) (team.Team, bool, error)
	CreateTeam(ctx context.Context, item team.Team) error
	DeprecateTeam(ctx context.Context, id, mergedInto string) error
	ListAliasesByTeam(ctx context.Context, canonicalTeamID string) ([]alias.Alias, error)
	ReassignAliases(ctx context.Context, aliasIDs []int64, toTeamID string) error
	// ReassignGamesByTeam rewrites both home and away canonical references.
	ReassignGamesByTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error)
	// ReassignGamesByProviderSide rewrites canonical references on games whose
	// provider-side identifier matches the given alias pair.
	ReassignGamesByProviderSide(ctx context.Context, provider, providerTeamID, toTeamID string) (int, error)
}

// MaintenanceStore opens an exclusive transactional scope over the given
// canonical team ids, serializing identity surgery against concurrent
// ingestion for those teams.
type MaintenanceStore interface {
	WithinTeamScope(ctx context.Context, teamIDs []string, fn func(ctx context.Context, ops MaintenanceOps) error) error
}

type MergeResult struct {
	FromTeamID      string `json:"from_team_id"`
	IntoTeamID      string `json:"into_team_id"`
	AliasesMoved    int    `json:"aliases_moved"`
	GamesReassigned int    `json:"games_reassigned"`
}

type UnmergeResult struct {
	TeamID          string `json:"team_id"`
	NewTeamID       string `json:"new_team_id"`
	AliasesMoved    int    `json:"aliases_moved"`
	GamesReassigned int    `json:"games_reassigned"`
}

// MaintenanceService performs merge/unmerge identity corrections as
// transactional graph rewrites over teams, aliases and games.
type MaintenanceService struct {
	store  MaintenanceStore
	idGen  idgen.Generator
	logger *slog.Logger
}

func NewMaintenanceService(store MaintenanceStore, idGen idgen.Generator, logger *slog.Logger) *MaintenanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MaintenanceService{store: store, idGen: idGen, logger: logger}
}

// Merge folds fromID into intoID: all aliases and games move to the surviving
// team and the source is soft-deprecated with a merged_into pointer. The
// rewrite is atomic; a failure leaves nothing split between the identities.
func (s *MaintenanceService) Merge(ctx context.Context, fromID, intoID string) (MergeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.Merge")
	defer span.End()

	fromID = strings.TrimSpace(fromID)
	intoID = strings.TrimSpace(intoID)
	if fromID == "" || intoID == "" {
		return MergeResult{}, fmt.Errorf("%w: both team ids are required", ErrInvalidInput)
	}
	if fromID == intoID {
		return MergeResult{}, fmt.Errorf("%w: cannot merge a team into itself", ErrInvalidInput)
	}

	result := MergeResult{FromTeamID: fromID, IntoTeamID: intoID}
	err := s.store.WithinTeamScope(ctx, []string{fromID, intoID}, func(ctx context.Context, ops MaintenanceOps) error {
		source, found, err := ops.GetTeam(ctx, fromID)
		if err != nil {
			return fmt.Errorf("get source team: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: team=%s", ErrNotFound, fromID)
		}
		if source.Deprecated {
			return fmt.Errorf("%w: team %s is already merged into %s", ErrInvalidInput, fromID, source.MergedInto)
		}

		target, found, err := ops.GetTeam(ctx, intoID)
		if err != nil {
			return fmt.Errorf("get target team: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: team=%s", ErrNotFound, intoID)
		}
		if target.Deprecated {
			return fmt.Errorf("%w: cannot merge into deprecated team %s", ErrInvalidInput, intoID)
		}

		aliases, err := ops.ListAliasesByTeam(ctx, fromID)
		if err != nil {
			return fmt.Errorf("list source aliases: %w", err)
		}
		aliasIDs := make([]int64, 0, len(aliases))
		for _, item := range aliases {
			aliasIDs = append(aliasIDs, item.ID)
		}
		if err := ops.ReassignAliases(ctx, aliasIDs, intoID); err != nil {
			return fmt.Errorf("reassign aliases: %w", err)
		}

		moved, err := ops.ReassignGamesByTeam(ctx, fromID, intoID)
		if err != nil {
			return fmt.Errorf("reassign games: %w", err)
		}

		if err := ops.DeprecateTeam(ctx, fromID, intoID); err != nil {
			return fmt.Errorf("deprecate source team: %w", err)
		}

		result.AliasesMoved = len(aliasIDs)
		result.GamesReassigned = moved
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}

	s.logger.InfoContext(ctx, "teams merged",
		"from_team_id", fromID,
		"into_team_id", intoID,
		"aliases_moved", result.AliasesMoved,
		"games_reassigned", result.GamesReassigned,
	)
	return result, nil
}

// Unmerge splits a team that incorrectly absorbed two distinct identities.
// The original team keeps the earliest-created alias; every later alias, and
// every game keyed by one of those aliases, moves atomically to a newly
// created team in the same cohort.
func (s *MaintenanceService) Unmerge(ctx context.Context, teamID string) (UnmergeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.Unmerge")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return UnmergeResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return UnmergeResult{}, fmt.Errorf("generate split team id: %w", err)
	}

	result := UnmergeResult{TeamID: teamID, NewTeamID: newID}
	err = s.store.WithinTeamScope(ctx, []string{teamID}, func(ctx context.Context, ops MaintenanceOps) error {
		source, found, err := ops.GetTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		if source.Deprecated {
			return fmt.Errorf("%w: cannot unmerge deprecated team %s", ErrInvalidInput, teamID)
		}

		aliases, err := ops.ListAliasesByTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("list aliases: %w", err)
		}
		if len(aliases) < 2 {
			return fmt.Errorf("%w: team %s has fewer than two aliases, nothing to split", ErrInvalidInput, teamID)
		}

		sort.Slice(aliases, func(i, j int) bool {
			if !aliases[i].CreatedAt.Equal(aliases[j].CreatedAt) {
				return aliases[i].CreatedAt.Before(aliases[j].CreatedAt)
			}
			return aliases[i].ID < aliases[j].ID
		})
		split := aliases[1:]

		if err := ops.CreateTeam(ctx, team.Team{
			ID:       newID,
			Name:     source.Name,
			ClubName: source.ClubName,
			AgeGroup: source.AgeGroup,
			Gender:   source.Gender,
			Region:   source.Region,
		}); err != nil {
			return fmt.Errorf("create split team: %w", err)
		}

		splitIDs := make([]int64, 0, len(split))
		for _, item := range split {
			splitIDs = append(splitIDs, item.ID)
		}
		if err := ops.ReassignAliases(ctx, splitIDs, newID); err != nil {
			return fmt.Errorf("reassign split aliases: %w", err)
		}

		movedTotal := 0
		for _, item := range split {
			moved, err := ops.ReassignGamesByProviderSide(ctx, item.Provider, item.ProviderTeamID, newID)
			if err != nil {
				return fmt.Errorf("reassign games for alias %s/%s: %w", item.Provider, item.ProviderTeamID, err)
			}
			movedTotal += moved
		}

		result.AliasesMoved = len(splitIDs)
		result.GamesReassigned = movedTotal
		return nil
	})
	if err != nil {
		return UnmergeResult{}, err
	}

	s.logger.InfoContext(ctx, "team unmerged",
		"team_id", teamID,
		"new_team_id", newID,
		"aliases_moved", result.AliasesMoved,
		"games_reassigned", result.GamesReassigned,
	)
	return result, nil
}
