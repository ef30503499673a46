package game

import (
	"context"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

// Repository persists canonical games. Insert relies on the store's
// uniqueness constraints as the correctness backstop for racing writers.
type Repository interface {
	// Insert writes the game once. It returns ErrDuplicateID or
	// ErrDuplicateNaturalKey when the corresponding constraint fires.
	Insert(ctx context.Context, item Game) error
	GetByID(ctx context.Context, id string) (Game, bool, error)
	FindByNaturalKey(ctx context.Context, key NaturalKey) (Game, bool, error)
	// UpdateScores is the explicit update-if-newer conflict path; it is the
	// only sanctioned mutation of a stored game's scores.
	UpdateScores(ctx context.Context, id string, homeScore, awayScore int, scrapedAt time.Time) error
	// SetCanonicalRefs backfills canonical team references on a game that was
	// ingested before its provider ids resolved.
	SetCanonicalRefs(ctx context.Context, id, homeTeamID, awayTeamID string) error
	ListByCohort(ctx context.Context, cohort team.Cohort, since time.Time) ([]Game, error)
	ListUnresolved(ctx context.Context, limit int) ([]Game, error)
	RecordConflict(ctx context.Context, item Conflict) error
	ListConflicts(ctx context.Context, limit int) ([]Conflict, error)
}
