package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	qb "github.com/dallasheidt14/PitchRank-sub004/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}
	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListByCohort(ctx context.Context, cohort team.Cohort) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("age_group", cohort.AgeGroup),
			qb.Eq("gender", cohort.Gender),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams by cohort query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by cohort: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) ListCohorts(ctx context.Context) ([]team.Cohort, error) {
	query, args, err := qb.Select("age_group", "gender").From("teams").
		GroupBy("age_group", "gender").
		OrderBy("age_group", "gender").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cohorts query: %w", err)
	}

	var rows []struct {
		AgeGroup string `db:"age_group"`
		Gender   string `db:"gender"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cohorts: %w", err)
	}

	out := make([]team.Cohort, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Cohort{AgeGroup: row.AgeGroup, Gender: row.Gender})
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	insertModel := teamInsertModel{
		PublicID: item.ID,
		Name:     item.Name,
		ClubName: nullableString(item.ClubName),
		AgeGroup: item.AgeGroup,
		Gender:   item.Gender,
		Region:   nullableString(item.Region),
	}
	query, args, err := qb.InsertModel("teams", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create team: %w", err)
	}

	return nil
}
