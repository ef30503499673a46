package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

type GameRepository struct {
	mu             sync.RWMutex
	games          map[string]game.Game
	byNaturalKey   map[game.NaturalKey]string
	conflicts      []game.Conflict
	nextConflictID int64
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games:          make(map[string]game.Game),
		byNaturalKey:   make(map[game.NaturalKey]string),
		nextConflictID: 1,
	}
}

func (r *GameRepository) Insert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[item.ID]; exists {
		return fmt.Errorf("insert game %s: %w", item.ID, game.ErrDuplicateID)
	}
	key := item.NaturalKey()
	if _, exists := r.byNaturalKey[key]; exists {
		return fmt.Errorf("insert game %s: %w", item.ID, game.ErrDuplicateNaturalKey)
	}
	r.games[item.ID] = item
	r.byNaturalKey[key] = item.ID
	return nil
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[id]
	return item, ok, nil
}

func (r *GameRepository) FindByNaturalKey(_ context.Context, key game.NaturalKey) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNaturalKey[key]
	if !ok {
		return game.Game{}, false, nil
	}
	return r.games[id], true, nil
}

func (r *GameRepository) UpdateScores(_ context.Context, id string, homeScore, awayScore int, scrapedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.games[id]
	if !ok {
		return fmt.Errorf("game %s not found", id)
	}
	delete(r.byNaturalKey, item.NaturalKey())
	item.HomeScore = homeScore
	item.AwayScore = awayScore
	item.ScrapedAt = scrapedAt
	r.games[id] = item
	r.byNaturalKey[item.NaturalKey()] = id
	return nil
}

func (r *GameRepository) SetCanonicalRefs(_ context.Context, id, homeTeamID, awayTeamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.games[id]
	if !ok {
		return fmt.Errorf("game %s not found", id)
	}
	if homeTeamID != "" {
		item.HomeTeamID = homeTeamID
	}
	if awayTeamID != "" {
		item.AwayTeamID = awayTeamID
	}
	r.games[id] = item
	return nil
}

func (r *GameRepository) ListByCohort(_ context.Context, cohort team.Cohort, since time.Time) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.games {
		if item.AgeGroup != cohort.AgeGroup || item.Gender != cohort.Gender {
			continue
		}
		if item.Date.Before(since) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GameRepository) ListUnresolved(_ context.Context, limit int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.games {
		if item.Resolved() {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *GameRepository) RecordConflict(_ context.Context, item game.Conflict) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextConflictID
	r.nextConflictID++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.conflicts = append(r.conflicts, item)
	return nil
}

func (r *GameRepository) ListConflicts(_ context.Context, limit int) ([]game.Conflict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Conflict, 0, len(r.conflicts))
	out = append(out, r.conflicts...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
