package team

import "context"

// Repository describes canonical team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Team, bool, error)
	ListByCohort(ctx context.Context, cohort Cohort) ([]Team, error)
	ListCohorts(ctx context.Context) ([]Cohort, error)
	Create(ctx context.Context, item Team) error
}
