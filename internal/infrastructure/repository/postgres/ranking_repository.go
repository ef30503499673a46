package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	qb "github.com/dallasheidt14/PitchRank-sub004/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

// ReplaceCohort retires the cohort's current rows and inserts the new
// snapshot in one transaction. Retired rows stay in the table as history.
func (r *RankingRepository) ReplaceCohort(ctx context.Context, cohort team.Cohort, rows []ranking.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace cohort rankings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	retireQuery, retireArgs, err := qb.Update("rankings").
		Set("is_current", false).
		Where(
			qb.Eq("age_group", cohort.AgeGroup),
			qb.Eq("gender", cohort.Gender),
			qb.Eq("is_current", true),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build retire cohort rankings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, retireQuery, retireArgs...); err != nil {
		return fmt.Errorf("retire cohort rankings: %w", err)
	}

	for _, row := range rows {
		query, args, err := qb.InsertModel("rankings", rankingToInsert(row), "")
		if err != nil {
			return fmt.Errorf("build insert ranking row query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert ranking row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace cohort rankings tx: %w", err)
	}

	return nil
}

func (r *RankingRepository) ListByCohort(ctx context.Context, cohort team.Cohort) ([]ranking.Row, error) {
	query, args, err := qb.Select("*").From("rankings").
		Where(
			qb.Eq("age_group", cohort.AgeGroup),
			qb.Eq("gender", cohort.Gender),
			qb.Eq("is_current", true),
		).
		OrderBy("CASE WHEN rank > 0 THEN 0 ELSE 1 END", "rank", "team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cohort rankings query: %w", err)
	}

	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cohort rankings: %w", err)
	}

	out := make([]ranking.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, rankingFromRow(row))
	}
	return out, nil
}
