package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
)

type AliasRepository struct {
	mu      sync.RWMutex
	nextID  int64
	aliases []alias.Alias
}

func NewAliasRepository() *AliasRepository {
	return &AliasRepository{nextID: 1}
}

func (r *AliasRepository) FindApproved(_ context.Context, provider, providerTeamID string) (alias.Alias, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.aliases {
		if item.Provider == provider && item.ProviderTeamID == providerTeamID &&
			item.Status == alias.StatusApproved {
			return item, true, nil
		}
	}
	return alias.Alias{}, false, nil
}

func (r *AliasRepository) Record(_ context.Context, item alias.Alias) (alias.Alias, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.Status == alias.StatusApproved {
		for _, existing := range r.aliases {
			if existing.Provider == item.Provider &&
				existing.ProviderTeamID == item.ProviderTeamID &&
				existing.Status == alias.StatusApproved {
				return alias.Alias{}, alias.ErrApprovedExists
			}
		}
	}

	item.ID = r.nextID
	r.nextID++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.aliases = append(r.aliases, item)
	return item, nil
}

func (r *AliasRepository) ListByTeam(_ context.Context, canonicalTeamID string) ([]alias.Alias, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alias.Alias, 0)
	for _, item := range r.aliases {
		if item.CanonicalTeamID == canonicalTeamID {
			out = append(out, item)
		}
	}
	return out, nil
}
