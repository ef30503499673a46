package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

// ReviewService works the manual review queue: low-confidence fuzzy matches
// wait here until an operator approves the candidate mapping or rejects it.
type ReviewService struct {
	reviewRepo review.Repository
	aliasRepo  alias.Repository
	teamRepo   team.Repository
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo review.Repository,
	aliasRepo alias.Repository,
	teamRepo team.Repository,
	logger *slog.Logger,
) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{
		reviewRepo: reviewRepo,
		aliasRepo:  aliasRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

func (s *ReviewService) ListPending(ctx context.Context, limit int) ([]review.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReviewService.ListPending")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	entries, err := s.reviewRepo.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	return entries, nil
}

// Approve confirms the candidate mapping on a pending entry. The resulting
// alias is recorded as fuzzy_reviewed and approved, so subsequent imports of
// the same provider id resolve directly.
func (s *ReviewService) Approve(ctx context.Context, id int64) (review.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReviewService.Approve")
	defer span.End()

	entry, err := s.pendingEntry(ctx, id)
	if err != nil {
		return review.Entry{}, err
	}
	if entry.CandidateTeamID == "" {
		return review.Entry{}, fmt.Errorf("%w: review entry %d has no candidate team", ErrInvalidInput, id)
	}

	target, found, err := s.teamRepo.GetByID(ctx, entry.CandidateTeamID)
	if err != nil {
		return review.Entry{}, fmt.Errorf("get candidate team: %w", err)
	}
	if !found {
		return review.Entry{}, fmt.Errorf("%w: candidate team=%s", ErrNotFound, entry.CandidateTeamID)
	}
	if target.Deprecated {
		if target.MergedInto == "" {
			return review.Entry{}, fmt.Errorf("%w: candidate team %s is deprecated", ErrInvalidInput, target.ID)
		}
		// Candidate was merged away while the entry sat in the queue; the
		// approval lands on the surviving team.
		target.ID = target.MergedInto
	}

	_, err = s.aliasRepo.Record(ctx, alias.Alias{
		Provider:        entry.Provider,
		ProviderTeamID:  entry.ProviderTeamID,
		CanonicalTeamID: target.ID,
		Method:          alias.MethodFuzzyReviewed,
		Confidence:      entry.Confidence,
		Status:          alias.StatusApproved,
	})
	if err != nil && !errors.Is(err, alias.ErrApprovedExists) {
		return review.Entry{}, fmt.Errorf("record reviewed alias: %w", err)
	}

	if err := s.reviewRepo.Decide(ctx, entry.ID, alias.StatusApproved); err != nil {
		return review.Entry{}, fmt.Errorf("mark review approved: %w", err)
	}
	entry.Status = alias.StatusApproved

	s.logger.InfoContext(ctx, "review entry approved",
		"review_id", entry.ID,
		"provider", entry.Provider,
		"provider_team_id", entry.ProviderTeamID,
		"team_id", target.ID,
	)
	return entry, nil
}

// Reject discards the candidate mapping. The provider reference stays
// unmapped; the next ingest run re-scores it against the current cohort.
func (s *ReviewService) Reject(ctx context.Context, id int64) (review.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReviewService.Reject")
	defer span.End()

	entry, err := s.pendingEntry(ctx, id)
	if err != nil {
		return review.Entry{}, err
	}

	if err := s.reviewRepo.Decide(ctx, entry.ID, alias.StatusRejected); err != nil {
		return review.Entry{}, fmt.Errorf("mark review rejected: %w", err)
	}
	entry.Status = alias.StatusRejected

	s.logger.InfoContext(ctx, "review entry rejected",
		"review_id", entry.ID,
		"provider", entry.Provider,
		"provider_team_id", entry.ProviderTeamID,
	)
	return entry, nil
}

func (s *ReviewService) pendingEntry(ctx context.Context, id int64) (review.Entry, error) {
	entry, found, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return review.Entry{}, fmt.Errorf("get review entry: %w", err)
	}
	if !found {
		return review.Entry{}, fmt.Errorf("%w: review entry=%d", ErrNotFound, id)
	}
	if entry.Status != alias.StatusPending {
		return review.Entry{}, fmt.Errorf("%w: review entry %d already decided (%s)", ErrInvalidInput, id, entry.Status)
	}
	return entry, nil
}
