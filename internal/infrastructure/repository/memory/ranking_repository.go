package memory

import (
	"context"
	"sync"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

type RankingRepository struct {
	mu      sync.RWMutex
	current map[team.Cohort][]ranking.Row
	history map[team.Cohort][][]ranking.Row
}

func NewRankingRepository() *RankingRepository {
	return &RankingRepository{
		current: make(map[team.Cohort][]ranking.Row),
		history: make(map[team.Cohort][][]ranking.Row),
	}
}

func (r *RankingRepository) ReplaceCohort(_ context.Context, cohort team.Cohort, rows []ranking.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.current[cohort]; ok {
		r.history[cohort] = append(r.history[cohort], previous)
	}
	snapshot := make([]ranking.Row, len(rows))
	copy(snapshot, rows)
	r.current[cohort] = snapshot
	return nil
}

func (r *RankingRepository) ListByCohort(_ context.Context, cohort team.Cohort) ([]ranking.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.current[cohort]
	out := make([]ranking.Row, len(rows))
	copy(out, rows)
	return out, nil
}

// SnapshotCount reports how many superseded snapshots the cohort has, used by
// tests asserting history retention.
func (r *RankingRepository) SnapshotCount(cohort team.Cohort) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.history[cohort])
}
