package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	qb "github.com/dallasheidt14/PitchRank-sub004/internal/platform/querybuilder"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

// MaintenanceStore runs merge/unmerge rewrites inside a single transaction,
// row-locking the affected teams so concurrent ingestion cannot interleave
// with the identity surgery.
type MaintenanceStore struct {
	db *sqlx.DB
}

func NewMaintenanceStore(db *sqlx.DB) *MaintenanceStore {
	return &MaintenanceStore{db: db}
}

func (s *MaintenanceStore) WithinTeamScope(ctx context.Context, teamIDs []string, fn func(ctx context.Context, ops usecase.MaintenanceOps) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin maintenance tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Locking in sorted order keeps concurrent merges deadlock-free.
	locked := append([]string(nil), teamIDs...)
	sort.Strings(locked)
	for _, id := range locked {
		if _, err := tx.ExecContext(ctx, "SELECT id FROM teams WHERE public_id = $1 FOR UPDATE", id); err != nil {
			return fmt.Errorf("lock team %s: %w", id, err)
		}
	}

	if err := fn(ctx, &maintenanceOps{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit maintenance tx: %w", err)
	}
	return nil
}

type maintenanceOps struct {
	tx *sqlx.Tx
}

func (o *maintenanceOps) GetTeam(ctx context.Context, id string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}
	var row teamTableModel
	if err := o.tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (o *maintenanceOps) CreateTeam(ctx context.Context, item team.Team) error {
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
	if _, err := o.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (o *maintenanceOps) DeprecateTeam(ctx context.Context, id, mergedInto string) error {
	query, args, err := qb.Update("teams").
		Set("deprecated", true).
		Set("merged_into", mergedInto).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build deprecate team query: %w", err)
	}
	result, err := o.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deprecate team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected deprecate team: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deprecate team: not found")
	}
	return nil
}

func (o *maintenanceOps) ListAliasesByTeam(ctx context.Context, canonicalTeamID string) ([]alias.Alias, error) {
	query, args, err := qb.Select("*").From("team_aliases").
		Where(qb.Eq("canonical_team_id", canonicalTeamID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list aliases query: %w", err)
	}
	var rows []aliasTableModel
	if err := o.tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	out := make([]alias.Alias, 0, len(rows))
	for _, row := range rows {
		out = append(out, aliasFromRow(row))
	}
	return out, nil
}

func (o *maintenanceOps) ReassignAliases(ctx context.Context, aliasIDs []int64, toTeamID string) error {
	if len(aliasIDs) == 0 {
		return nil
	}
	ids := make([]any, 0, len(aliasIDs))
	for _, id := range aliasIDs {
		ids = append(ids, id)
	}
	query, args, err := qb.Update("team_aliases").
		Set("canonical_team_id", toTeamID).
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build reassign aliases query: %w", err)
	}
	if _, err := o.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reassign aliases: %w", err)
	}
	return nil
}

func (o *maintenanceOps) ReassignGamesByTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error) {
	moved := 0

	homeQuery, homeArgs, err := qb.Update("games").
		Set("home_team_id", toTeamID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("home_team_id", fromTeamID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reassign home games query: %w", err)
	}
	homeResult, err := o.tx.ExecContext(ctx, homeQuery, homeArgs...)
	if err != nil {
		return 0, fmt.Errorf("reassign home games: %w", err)
	}
	homeAffected, err := homeResult.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected reassign home games: %w", err)
	}
	moved += int(homeAffected)

	awayQuery, awayArgs, err := qb.Update("games").
		Set("away_team_id", toTeamID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("away_team_id", fromTeamID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reassign away games query: %w", err)
	}
	awayResult, err := o.tx.ExecContext(ctx, awayQuery, awayArgs...)
	if err != nil {
		return 0, fmt.Errorf("reassign away games: %w", err)
	}
	awayAffected, err := awayResult.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected reassign away games: %w", err)
	}
	moved += int(awayAffected)

	return moved, nil
}

func (o *maintenanceOps) ReassignGamesByProviderSide(ctx context.Context, provider, providerTeamID, toTeamID string) (int, error) {
	moved := 0

	homeQuery, homeArgs, err := qb.Update("games").
		Set("home_team_id", toTeamID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("provider", provider),
			qb.Eq("home_provider_id", providerTeamID),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reassign home games by provider side query: %w", err)
	}
	homeResult, err := o.tx.ExecContext(ctx, homeQuery, homeArgs...)
	if err != nil {
		return 0, fmt.Errorf("reassign home games by provider side: %w", err)
	}
	homeAffected, err := homeResult.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected reassign home games by provider side: %w", err)
	}
	moved += int(homeAffected)

	awayQuery, awayArgs, err := qb.Update("games").
		Set("away_team_id", toTeamID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("provider", provider),
			qb.Eq("away_provider_id", providerTeamID),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reassign away games by provider side query: %w", err)
	}
	awayResult, err := o.tx.ExecContext(ctx, awayQuery, awayArgs...)
	if err != nil {
		return 0, fmt.Errorf("reassign away games by provider side: %w", err)
	}
	awayAffected, err := awayResult.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected reassign away games by provider side: %w", err)
	}
	moved += int(awayAffected)

	return moved, nil
}
