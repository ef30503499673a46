package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
	qb "github.com/dallasheidt14/PitchRank-sub004/internal/platform/querybuilder"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Enqueue(ctx context.Context, item review.Entry) (review.Entry, error) {
	insertModel := reviewInsertModel{
		Provider:         item.Provider,
		ProviderTeamID:   item.ProviderTeamID,
		ProviderTeamName: item.ProviderTeamName,
		ClubName:         nullableString(item.ClubName),
		AgeGroup:         item.AgeGroup,
		Gender:           item.Gender,
		CandidateTeamID:  nullableString(item.CandidateTeamID),
		Confidence:       item.Confidence,
		Status:           string(item.Status),
	}
	query, args, err := qb.InsertModel("review_queue", insertModel, "RETURNING id, created_at")
	if err != nil {
		return review.Entry{}, fmt.Errorf("build enqueue review query: %w", err)
	}

	var returned struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := r.db.GetContext(ctx, &returned, query, args...); err != nil {
		return review.Entry{}, fmt.Errorf("enqueue review: %w", err)
	}

	item.ID = returned.ID
	item.CreatedAt = returned.CreatedAt
	return item, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (review.Entry, bool, error) {
	query, args, err := qb.Select("*").From("review_queue").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return review.Entry{}, false, fmt.Errorf("build get review by id query: %w", err)
	}
	var row reviewTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return review.Entry{}, false, nil
		}
		return review.Entry{}, false, fmt.Errorf("get review by id: %w", err)
	}

	return reviewFromRow(row), true, nil
}

func (r *ReviewRepository) ListPending(ctx context.Context, limit int) ([]review.Entry, error) {
	query, args, err := qb.Select("*").From("review_queue").
		Where(qb.Eq("status", string(alias.StatusPending))).
		OrderBy("created_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending reviews query: %w", err)
	}

	var rows []reviewTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}

	out := make([]review.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, reviewFromRow(row))
	}
	return out, nil
}

func (r *ReviewRepository) Decide(ctx context.Context, id int64, status alias.ReviewStatus) error {
	query, args, err := qb.Update("review_queue").
		Set("status", string(status)).
		SetExpr("decided_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build decide review query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("decide review: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected decide review: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("decide review: not found")
	}

	return nil
}
