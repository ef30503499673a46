package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	qb "github.com/dallasheidt14/PitchRank-sub004/internal/platform/querybuilder"
)

const approvedAliasConstraint = "uq_team_aliases_approved"

type AliasRepository struct {
	db *sqlx.DB
}

func NewAliasRepository(db *sqlx.DB) *AliasRepository {
	return &AliasRepository{db: db}
}

func (r *AliasRepository) FindApproved(ctx context.Context, provider, providerTeamID string) (alias.Alias, bool, error) {
	query, args, err := qb.Select("*").From("team_aliases").
		Where(
			qb.Eq("provider", provider),
			qb.Eq("provider_team_id", providerTeamID),
			qb.Eq("status", string(alias.StatusApproved)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return alias.Alias{}, false, fmt.Errorf("build find approved alias query: %w", err)
	}
	var row aliasTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return alias.Alias{}, false, nil
		}
		return alias.Alias{}, false, fmt.Errorf("find approved alias: %w", err)
	}

	return aliasFromRow(row), true, nil
}

func (r *AliasRepository) Record(ctx context.Context, item alias.Alias) (alias.Alias, error) {
	insertModel := aliasInsertModel{
		Provider:        item.Provider,
		ProviderTeamID:  item.ProviderTeamID,
		CanonicalTeamID: item.CanonicalTeamID,
		Method:          string(item.Method),
		Confidence:      item.Confidence,
		Status:          string(item.Status),
	}
	query, args, err := qb.InsertModel("team_aliases", insertModel, "RETURNING id, created_at")
	if err != nil {
		return alias.Alias{}, fmt.Errorf("build record alias query: %w", err)
	}

	var returned struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := r.db.GetContext(ctx, &returned, query, args...); err != nil {
		if violatedConstraint(err) == approvedAliasConstraint {
			return alias.Alias{}, alias.ErrApprovedExists
		}
		return alias.Alias{}, fmt.Errorf("record alias: %w", err)
	}

	item.ID = returned.ID
	item.CreatedAt = returned.CreatedAt
	return item, nil
}

func (r *AliasRepository) ListByTeam(ctx context.Context, canonicalTeamID string) ([]alias.Alias, error) {
	query, args, err := qb.Select("*").From("team_aliases").
		Where(qb.Eq("canonical_team_id", canonicalTeamID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list aliases by team query: %w", err)
	}

	var rows []aliasTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list aliases by team: %w", err)
	}

	out := make([]alias.Alias, 0, len(rows))
	for _, row := range rows {
		out = append(out, aliasFromRow(row))
	}
	return out, nil
}
