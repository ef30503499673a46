package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/identity"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	idgen "github.com/dallasheidt14/PitchRank-sub004/internal/platform/id"
)

// ResolverConfig carries the fuzzy-match thresholds. Scores at or above
// AutoApproveThreshold create an approved alias without review; scores in
// [ReviewThreshold, AutoApproveThreshold) enqueue a review entry; anything
// below creates a new canonical team.
type ResolverConfig struct {
	AutoApproveThreshold float64
	ReviewThreshold      float64
}

func (c ResolverConfig) validate() error {
	if c.AutoApproveThreshold <= 0 || c.AutoApproveThreshold > 1 {
		return fmt.Errorf("auto-approve threshold %v out of (0,1]", c.AutoApproveThreshold)
	}
	if c.ReviewThreshold < 0 || c.ReviewThreshold >= c.AutoApproveThreshold {
		return fmt.Errorf("review threshold %v must be in [0, auto-approve)", c.ReviewThreshold)
	}
	return nil
}

// TeamRef is a provider-scoped team reference to resolve.
type TeamRef struct {
	Provider       string
	ProviderTeamID string
	Name           string
	ClubName       string
	AgeGroup       string
	Gender         string
	Region         string
}

func (r TeamRef) cohort() team.Cohort {
	return team.Cohort{AgeGroup: r.AgeGroup, Gender: r.Gender}
}

// Resolution is the resolver's outcome. Pending resolutions carry no team id;
// the referencing game is ingested unresolved and corrected after review.
type Resolution struct {
	TeamID     string
	Method     alias.MatchMethod
	Confidence float64
	Created    bool
	Pending    bool
	ReviewID   int64
}

type ResolverService struct {
	teamRepo   team.Repository
	aliasRepo  alias.Repository
	reviewRepo review.Repository
	idGen      idgen.Generator
	cfg        ResolverConfig
	logger     *slog.Logger
}

func NewResolverService(
	teamRepo team.Repository,
	aliasRepo alias.Repository,
	reviewRepo review.Repository,
	idGen idgen.Generator,
	cfg ResolverConfig,
	logger *slog.Logger,
) (*ResolverService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolverService{
		teamRepo:   teamRepo,
		aliasRepo:  aliasRepo,
		reviewRepo: reviewRepo,
		idGen:      idGen,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Resolve maps a provider team reference onto a canonical team through the
// strict tier cascade: approved direct-ID alias, cohort-restricted fuzzy
// match, then creation. Low confidence never fails the call; only malformed
// input does, and that routes to quarantine.
func (s *ResolverService) Resolve(ctx context.Context, ref TeamRef) (Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.Resolve")
	defer span.End()

	ref = trimRef(ref)
	if ref.Provider == "" || ref.ProviderTeamID == "" || ref.Name == "" ||
		ref.AgeGroup == "" || ref.Gender == "" {
		return Resolution{}, quarantinef(QuarantineMissingIdentity,
			"provider=%s team_id=%s name=%s age=%s gender=%s",
			ref.Provider, ref.ProviderTeamID, ref.Name, ref.AgeGroup, ref.Gender)
	}

	// Tier 1: a previously confirmed mapping is authoritative and overrides
	// any fuzzy signal.
	existing, found, err := s.aliasRepo.FindApproved(ctx, ref.Provider, ref.ProviderTeamID)
	if err != nil {
		return Resolution{}, fmt.Errorf("find approved alias: %w", err)
	}
	if found {
		return Resolution{
			TeamID:     existing.CanonicalTeamID,
			Method:     alias.MethodDirectID,
			Confidence: 1.0,
		}, nil
	}

	// Tier 2: fuzzy candidates come from the same cohort only. Cross-cohort
	// matches are always wrong.
	candidate, score, err := s.bestCandidate(ctx, ref)
	if err != nil {
		return Resolution{}, err
	}

	if candidate != nil && score >= s.cfg.AutoApproveThreshold {
		return s.recordMatch(ctx, ref, candidate.ID, alias.MethodFuzzyAuto, score)
	}

	if candidate != nil && score >= s.cfg.ReviewThreshold {
		entry, err := s.reviewRepo.Enqueue(ctx, review.Entry{
			Provider:         ref.Provider,
			ProviderTeamID:   ref.ProviderTeamID,
			ProviderTeamName: ref.Name,
			ClubName:         ref.ClubName,
			AgeGroup:         ref.AgeGroup,
			Gender:           ref.Gender,
			CandidateTeamID:  candidate.ID,
			Confidence:       score,
			Status:           alias.StatusPending,
		})
		if err != nil {
			return Resolution{}, fmt.Errorf("enqueue review entry: %w", err)
		}
		s.logger.InfoContext(ctx, "team reference enqueued for review",
			"provider", ref.Provider,
			"provider_team_id", ref.ProviderTeamID,
			"candidate_team_id", candidate.ID,
			"confidence", score,
		)
		return Resolution{Pending: true, Confidence: score, ReviewID: entry.ID}, nil
	}

	// Tier 3: no match. Create the team and pin the provider id with a
	// direct-ID alias so the identity is stable for future imports.
	return s.createTeam(ctx, ref)
}

func (s *ResolverService) bestCandidate(ctx context.Context, ref TeamRef) (*team.Team, float64, error) {
	candidates, err := s.teamRepo.ListByCohort(ctx, ref.cohort())
	if err != nil {
		return nil, 0, fmt.Errorf("list cohort candidates: %w", err)
	}

	var best *team.Team
	bestScore := 0.0
	for idx := range candidates {
		if candidates[idx].Deprecated {
			continue
		}
		score := identity.Score(ref.Name, ref.ClubName, candidates[idx].Name, candidates[idx].ClubName)
		if score > bestScore {
			best = &candidates[idx]
			bestScore = score
		}
	}
	return best, bestScore, nil
}

func (s *ResolverService) recordMatch(
	ctx context.Context,
	ref TeamRef,
	teamID string,
	method alias.MatchMethod,
	confidence float64,
) (Resolution, error) {
	_, err := s.aliasRepo.Record(ctx, alias.Alias{
		Provider:        ref.Provider,
		ProviderTeamID:  ref.ProviderTeamID,
		CanonicalTeamID: teamID,
		Method:          method,
		Confidence:      confidence,
		Status:          alias.StatusApproved,
	})
	if err == nil {
		return Resolution{TeamID: teamID, Method: method, Confidence: confidence}, nil
	}

	// A racing ingestion run won the insert; its mapping is now the
	// confirmed one.
	if errors.Is(err, alias.ErrApprovedExists) {
		winner, found, lookupErr := s.aliasRepo.FindApproved(ctx, ref.Provider, ref.ProviderTeamID)
		if lookupErr != nil {
			return Resolution{}, fmt.Errorf("re-find approved alias after race: %w", lookupErr)
		}
		if found {
			return Resolution{
				TeamID:     winner.CanonicalTeamID,
				Method:     alias.MethodDirectID,
				Confidence: 1.0,
			}, nil
		}
	}
	return Resolution{}, fmt.Errorf("record alias: %w", err)
}

func (s *ResolverService) createTeam(ctx context.Context, ref TeamRef) (Resolution, error) {
	teamID, err := s.idGen.NewID()
	if err != nil {
		return Resolution{}, fmt.Errorf("generate team id: %w", err)
	}

	created := team.Team{
		ID:       teamID,
		Name:     ref.Name,
		ClubName: ref.ClubName,
		AgeGroup: ref.AgeGroup,
		Gender:   ref.Gender,
		Region:   ref.Region,
	}
	if err := s.teamRepo.Create(ctx, created); err != nil {
		return Resolution{}, fmt.Errorf("create canonical team: %w", err)
	}

	resolution, err := s.recordMatch(ctx, ref, teamID, alias.MethodDirectID, 1.0)
	if err != nil {
		return Resolution{}, err
	}
	resolution.Created = true

	s.logger.InfoContext(ctx, "canonical team created from provider reference",
		"team_id", teamID,
		"provider", ref.Provider,
		"provider_team_id", ref.ProviderTeamID,
		"cohort", ref.cohort().String(),
	)
	return resolution, nil
}

func trimRef(ref TeamRef) TeamRef {
	ref.Provider = strings.TrimSpace(ref.Provider)
	ref.ProviderTeamID = strings.TrimSpace(ref.ProviderTeamID)
	ref.Name = strings.TrimSpace(ref.Name)
	ref.ClubName = strings.TrimSpace(ref.ClubName)
	ref.AgeGroup = strings.TrimSpace(ref.AgeGroup)
	ref.Gender = strings.TrimSpace(ref.Gender)
	ref.Region = strings.TrimSpace(ref.Region)
	return ref
}
