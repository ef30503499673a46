package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
)

type ReviewRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64]review.Entry
	order   []int64
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{nextID: 1, entries: make(map[int64]review.Entry)}
}

func (r *ReviewRepository) Enqueue(_ context.Context, item review.Entry) (review.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.entries[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, nil
}

func (r *ReviewRepository) GetByID(_ context.Context, id int64) (review.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.entries[id]
	return item, ok, nil
}

func (r *ReviewRepository) ListPending(_ context.Context, limit int) ([]review.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]review.Entry, 0)
	for _, id := range r.order {
		item := r.entries[id]
		if item.Status != alias.StatusPending {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *ReviewRepository) Decide(_ context.Context, id int64, status alias.ReviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("review entry %d not found", id)
	}
	now := time.Now().UTC()
	item.Status = status
	item.DecidedAt = &now
	r.entries[id] = item
	return nil
}
