// Package cache decorates repositories with read-through caching backed by
// the in-process store. Writes invalidate the keys they touch.
package cache

import (
	"context"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	basecache "github.com/dallasheidt14/PitchRank-sub004/internal/platform/cache"
)

const teamKeyPrefix = "team:"

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	key := teamKeyPrefix + "id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) ListByCohort(ctx context.Context, cohort team.Cohort) ([]team.Team, error) {
	key := teamKeyPrefix + "cohort:" + cohort.AgeGroup + ":" + cohort.Gender
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCohort(ctx, cohort)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) ListCohorts(ctx context.Context) ([]team.Cohort, error) {
	key := teamKeyPrefix + "cohorts"
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListCohorts(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Cohort(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Cohort)
	return append([]team.Cohort(nil), items...), nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}

	// A new team changes the cohort listings and possibly the cohort set.
	r.cache.Delete(ctx, teamKeyPrefix+"id:"+item.ID)
	r.cache.Delete(ctx, teamKeyPrefix+"cohorts")
	r.cache.DeletePrefix(ctx, teamKeyPrefix+"cohort:")
	return nil
}
