package review

import (
	"context"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
)

type Repository interface {
	Enqueue(ctx context.Context, item Entry) (Entry, error)
	GetByID(ctx context.Context, id int64) (Entry, bool, error)
	ListPending(ctx context.Context, limit int) ([]Entry, error)
	Decide(ctx context.Context, id int64, status alias.ReviewStatus) error
}
