package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

type TeamRepository struct {
	mu      sync.RWMutex
	teams   map[string]team.Team
	cohorts map[team.Cohort][]string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{
		teams:   make(map[string]team.Team),
		cohorts: make(map[team.Cohort][]string),
	}
	for _, item := range teams {
		r.teams[item.ID] = item
		cohort := team.Cohort{AgeGroup: item.AgeGroup, Gender: item.Gender}
		r.cohorts[cohort] = append(r.cohorts[cohort], item.ID)
	}
	return r
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) ListByCohort(_ context.Context, cohort team.Cohort) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.cohorts[cohort]
	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.teams[id])
	}
	return out, nil
}

func (r *TeamRepository) ListCohorts(_ context.Context) ([]team.Cohort, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Cohort, 0, len(r.cohorts))
	for cohort := range r.cohorts {
		out = append(out, cohort)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AgeGroup != out[j].AgeGroup {
			return out[i].AgeGroup < out[j].AgeGroup
		}
		return out[i].Gender < out[j].Gender
	})
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[item.ID]; exists {
		return fmt.Errorf("team %s already exists", item.ID)
	}
	r.teams[item.ID] = item
	cohort := team.Cohort{AgeGroup: item.AgeGroup, Gender: item.Gender}
	r.cohorts[cohort] = append(r.cohorts[cohort], item.ID)
	return nil
}
