package alias

import "context"

// Repository is the persisted alias table the resolver works against.
type Repository interface {
	// FindApproved returns the single approved alias for the pair, if any.
	FindApproved(ctx context.Context, provider, providerTeamID string) (Alias, bool, error)
	// Record inserts a new alias. Inserting a second approved alias for the
	// same (provider, provider_team_id) pair returns ErrApprovedExists.
	Record(ctx context.Context, item Alias) (Alias, error)
	ListByTeam(ctx context.Context, canonicalTeamID string) ([]Alias, error)
}
