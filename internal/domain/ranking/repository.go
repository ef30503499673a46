package ranking

import (
	"context"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

type Repository interface {
	// ReplaceCohort supersedes the cohort's current rows with a new snapshot.
	// Earlier snapshots stay in the history table.
	ReplaceCohort(ctx context.Context, cohort team.Cohort, rows []Row) error
	ListByCohort(ctx context.Context, cohort team.Cohort) ([]Row, error)
}
