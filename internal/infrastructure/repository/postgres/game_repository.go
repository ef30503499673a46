package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	qb "github.com/dallasheidt14/PitchRank-sub004/internal/platform/querybuilder"
)

const (
	gameIDConstraint         = "uq_games_public_id"
	gameNaturalKeyConstraint = "uq_games_natural_key"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Insert(ctx context.Context, item game.Game) error {
	insertModel := gameInsertModel{
		PublicID:       item.ID,
		Provider:       item.Provider,
		HomeTeamID:     nullableString(item.HomeTeamID),
		AwayTeamID:     nullableString(item.AwayTeamID),
		HomeProviderID: item.HomeProviderID,
		AwayProviderID: item.AwayProviderID,
		GameDate:       item.Date,
		HomeScore:      item.HomeScore,
		AwayScore:      item.AwayScore,
		AgeGroup:       item.AgeGroup,
		Gender:         item.Gender,
		Division:       nullableString(item.Division),
		SourceURL:      nullableString(item.SourceURL),
		ScrapedAt:      item.ScrapedAt,
	}
	query, args, err := qb.InsertModel("games", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		switch violatedConstraint(err) {
		case gameNaturalKeyConstraint:
			return fmt.Errorf("insert game %s: %w", item.ID, game.ErrDuplicateNaturalKey)
		case gameIDConstraint:
			return fmt.Errorf("insert game %s: %w", item.ID, game.ErrDuplicateID)
		}
		return fmt.Errorf("insert game: %w", err)
	}

	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}
	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) FindByNaturalKey(ctx context.Context, key game.NaturalKey) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("provider", key.Provider),
			qb.Eq("home_provider_id", key.HomeProviderID),
			qb.Eq("away_provider_id", key.AwayProviderID),
			qb.Eq("game_date", key.Date),
			qb.Eq("home_score", key.HomeScore),
			qb.Eq("away_score", key.AwayScore),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build find game by natural key query: %w", err)
	}
	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("find game by natural key: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) UpdateScores(ctx context.Context, id string, homeScore, awayScore int, scrapedAt time.Time) error {
	query, args, err := qb.Update("games").
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		Set("scraped_at", scrapedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game scores query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update game scores: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update game scores: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update game scores: not found")
	}

	return nil
}

func (r *GameRepository) SetCanonicalRefs(ctx context.Context, id, homeTeamID, awayTeamID string) error {
	builder := qb.Update("games").SetExpr("updated_at", "NOW()")
	if homeTeamID != "" {
		builder = builder.Set("home_team_id", homeTeamID)
	}
	if awayTeamID != "" {
		builder = builder.Set("away_team_id", awayTeamID)
	}
	query, args, err := builder.
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set game canonical refs query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set game canonical refs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected set game canonical refs: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set game canonical refs: not found")
	}

	return nil
}

func (r *GameRepository) ListByCohort(ctx context.Context, cohort team.Cohort, since time.Time) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("age_group", cohort.AgeGroup),
			qb.Eq("gender", cohort.Gender),
			qb.Expr("game_date >= ?", since),
		).
		OrderBy("game_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by cohort query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games by cohort: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) ListUnresolved(ctx context.Context, limit int) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Expr("(home_team_id IS NULL OR away_team_id IS NULL)")).
		OrderBy("game_date", "public_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unresolved games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list unresolved games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) RecordConflict(ctx context.Context, item game.Conflict) error {
	insertModel := conflictInsertModel{
		GamePublicID:      item.GameID,
		Provider:          item.Provider,
		ExistingHome:      item.ExistingHome,
		ExistingAway:      item.ExistingAway,
		IncomingHome:      item.IncomingHome,
		IncomingAway:      item.IncomingAway,
		IncomingScrapedAt: item.IncomingScrap,
	}
	query, args, err := qb.InsertModel("game_conflicts", insertModel, "")
	if err != nil {
		return fmt.Errorf("build record game conflict query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record game conflict: %w", err)
	}

	return nil
}

func (r *GameRepository) ListConflicts(ctx context.Context, limit int) ([]game.Conflict, error) {
	query, args, err := qb.Select("*").From("game_conflicts").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game conflicts query: %w", err)
	}

	var rows []conflictTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list game conflicts: %w", err)
	}

	out := make([]game.Conflict, 0, len(rows))
	for _, row := range rows {
		out = append(out, conflictFromRow(row))
	}
	return out, nil
}
