package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

type ConflictPolicy string

const (
	// ConflictPolicyFlag keeps the stored game and records the collision for
	// manual reconciliation. This is the default.
	ConflictPolicyFlag ConflictPolicy = "flag"
	// ConflictPolicyUpdateIfNewer overwrites stored scores when the incoming
	// row was scraped after the stored one.
	ConflictPolicyUpdateIfNewer ConflictPolicy = "update_if_newer"
)

type IngestConfig struct {
	AgeMismatchTolerance int
	ConflictPolicy       ConflictPolicy
	MaxWorkers           int
}

func (c IngestConfig) validate() error {
	if c.AgeMismatchTolerance < 0 {
		return fmt.Errorf("age mismatch tolerance cannot be negative")
	}
	switch c.ConflictPolicy {
	case ConflictPolicyFlag, ConflictPolicyUpdateIfNewer:
	default:
		return fmt.Errorf("invalid conflict policy %q", c.ConflictPolicy)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max workers must be >= 1")
	}
	return nil
}

// teamResolver is the slice of the identity resolver ingestion needs.
type teamResolver interface {
	Resolve(ctx context.Context, ref TeamRef) (Resolution, error)
}

// approvedAliasFinder is the read-only alias lookup used by the retroactive
// re-resolution pass; it must never create identities.
type approvedAliasFinder interface {
	FindApproved(ctx context.Context, provider, providerTeamID string) (alias.Alias, bool, error)
}

// IngestReport summarizes one provider run. Quarantine and duplicate paths
// are handled here and never propagate as run-level failures.
type IngestReport struct {
	Provider            string                   `json:"provider"`
	Processed           int                      `json:"processed"`
	Accepted            int                      `json:"accepted"`
	Duplicates          int                      `json:"duplicates"`
	Conflicts           int                      `json:"conflicts"`
	Unresolved          int                      `json:"unresolved"`
	Quarantined         int                      `json:"quarantined"`
	QuarantinedByReason map[QuarantineReason]int `json:"quarantined_by_reason,omitempty"`
}

func (r *IngestReport) quarantine(reason QuarantineReason, n int) {
	if r.QuarantinedByReason == nil {
		r.QuarantinedByReason = make(map[QuarantineReason]int)
	}
	r.Quarantined += n
	r.QuarantinedByReason[reason] += n
}

// BatchReport aggregates per-provider ingest runs.
type BatchReport struct {
	Providers int               `json:"providers"`
	Reports   []IngestReport    `json:"reports"`
	Failed    map[string]string `json:"failed,omitempty"`
}

type IngestionService struct {
	resolver  teamResolver
	aliasRepo approvedAliasFinder
	gameRepo  game.Repository
	cfg       IngestConfig
	logger    *slog.Logger
}

func NewIngestionService(
	resolver teamResolver,
	aliasRepo approvedAliasFinder,
	gameRepo game.Repository,
	cfg IngestConfig,
	logger *slog.Logger,
) (*IngestionService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		resolver:  resolver,
		aliasRepo: aliasRepo,
		gameRepo:  gameRepo,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// IngestProviderBatch runs one provider's perspective rows through the
// pipeline: perspective collapse, identity resolution, deterministic
// identifier construction, composite natural-key dedup, idempotent insert.
// Re-running the same batch produces zero new games.
func (s *IngestionService) IngestProviderBatch(
	ctx context.Context,
	provider string,
	records []game.ProviderRecord,
) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestProviderBatch")
	defer span.End()

	provider = strings.TrimSpace(provider)
	if provider == "" {
		return IngestReport{}, fmt.Errorf("%w: provider is required", ErrInvalidInput)
	}

	report := IngestReport{Provider: provider}
	report.Processed = len(records)

	groups := s.collapsePerspectives(provider, records, &report)
	for _, group := range groups {
		if err := s.ingestGroup(ctx, provider, group, &report); err != nil {
			return report, err
		}
	}

	s.logger.InfoContext(ctx, "provider batch ingested",
		"provider", provider,
		"processed", report.Processed,
		"accepted", report.Accepted,
		"duplicates", report.Duplicates,
		"conflicts", report.Conflicts,
		"unresolved", report.Unresolved,
		"quarantined", report.Quarantined,
	)
	return report, nil
}

// perspectiveGroup is one physical game's worth of perspective rows, keyed by
// the orientation-neutral 6-tuple.
type perspectiveGroup struct {
	key  game.NaturalKey
	rows []game.ProviderRecord
}

func (s *IngestionService) collapsePerspectives(
	provider string,
	records []game.ProviderRecord,
	report *IngestReport,
) []perspectiveGroup {
	index := make(map[game.NaturalKey]int)
	groups := make([]perspectiveGroup, 0, len(records)/2+1)

	for _, rec := range records {
		rec.Provider = provider
		if rec.Date.IsZero() {
			report.quarantine(QuarantineMissingDate, 1)
			continue
		}

		homeID, awayID, homeScore, awayScore, ok := rec.Orient()
		if !ok {
			report.quarantine(QuarantineMissingScore, 1)
			continue
		}
		if strings.TrimSpace(homeID) == "" || strings.TrimSpace(awayID) == "" {
			report.quarantine(QuarantineMissingIdentity, 1)
			continue
		}

		key := game.NaturalKey{
			Provider:       provider,
			HomeProviderID: homeID,
			AwayProviderID: awayID,
			Date:           rec.Date.Format("2006-01-02"),
			HomeScore:      homeScore,
			AwayScore:      awayScore,
		}
		if at, exists := index[key]; exists {
			groups[at].rows = append(groups[at].rows, rec)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, perspectiveGroup{key: key, rows: []game.ProviderRecord{rec}})
	}

	return groups
}

func (s *IngestionService) ingestGroup(
	ctx context.Context,
	provider string,
	group perspectiveGroup,
	report *IngestReport,
) error {
	if mismatch := s.ageGroupMismatch(group.rows); mismatch {
		report.quarantine(QuarantineAgeGroupMismatch, len(group.rows))
		return nil
	}

	// The extra perspective rows collapse into the representative; they are
	// the primary deduplication signal, not separate games.
	if len(group.rows) > 1 {
		report.Duplicates += len(group.rows) - 1
	}

	rep := group.rows[0]
	homeRef, awayRef := sideRefs(group.rows)

	homeRes, err := s.resolveSide(ctx, homeRef, report)
	if err != nil {
		return err
	}
	awayRes, err := s.resolveSide(ctx, awayRef, report)
	if err != nil {
		return err
	}
	if homeRes == nil || awayRes == nil {
		// Quarantined side; the row is not inserted and not a duplicate.
		return nil
	}

	item := game.Game{
		ID: game.DeterministicID(provider, rep.Date,
			group.key.HomeProviderID, group.key.AwayProviderID, rep.AgeGroup, rep.Division),
		Provider:       provider,
		HomeTeamID:     homeRes.TeamID,
		AwayTeamID:     awayRes.TeamID,
		HomeProviderID: group.key.HomeProviderID,
		AwayProviderID: group.key.AwayProviderID,
		Date:           rep.Date,
		HomeScore:      group.key.HomeScore,
		AwayScore:      group.key.AwayScore,
		AgeGroup:       rep.AgeGroup,
		Gender:         rep.Gender,
		Division:       rep.Division,
		SourceURL:      rep.SourceURL,
		ScrapedAt:      rep.ScrapedAt,
	}

	if _, exists, err := s.gameRepo.FindByNaturalKey(ctx, group.key); err != nil {
		return fmt.Errorf("find game by natural key: %w", err)
	} else if exists {
		report.Duplicates++
		return nil
	}

	switch err := s.gameRepo.Insert(ctx, item); {
	case err == nil:
		report.Accepted++
		if !item.Resolved() {
			report.Unresolved++
		}
		return nil
	case errors.Is(err, game.ErrDuplicateNaturalKey):
		// A racing writer beat us to the identical row.
		report.Duplicates++
		return nil
	case errors.Is(err, game.ErrDuplicateID):
		return s.handleConflict(ctx, item, report)
	default:
		return fmt.Errorf("insert game: %w", err)
	}
}

// handleConflict deals with a deterministic-ID collision whose composite key
// differs: same teams and date, different scores. The stored game is never
// silently overwritten.
func (s *IngestionService) handleConflict(ctx context.Context, incoming game.Game, report *IngestReport) error {
	existing, found, err := s.gameRepo.GetByID(ctx, incoming.ID)
	if err != nil {
		return fmt.Errorf("load conflicting game: %w", err)
	}
	if !found {
		return fmt.Errorf("load conflicting game %s: %w", incoming.ID, ErrNotFound)
	}

	report.Conflicts++
	if err := s.gameRepo.RecordConflict(ctx, game.Conflict{
		GameID:        incoming.ID,
		Provider:      incoming.Provider,
		ExistingHome:  existing.HomeScore,
		ExistingAway:  existing.AwayScore,
		IncomingHome:  incoming.HomeScore,
		IncomingAway:  incoming.AwayScore,
		IncomingScrap: incoming.ScrapedAt,
	}); err != nil {
		return fmt.Errorf("record identity conflict: %w", err)
	}

	if s.cfg.ConflictPolicy == ConflictPolicyUpdateIfNewer && incoming.ScrapedAt.After(existing.ScrapedAt) {
		if err := s.gameRepo.UpdateScores(ctx, incoming.ID, incoming.HomeScore, incoming.AwayScore, incoming.ScrapedAt); err != nil {
			return fmt.Errorf("update conflicting game scores: %w", err)
		}
		s.logger.WarnContext(ctx, "identity conflict resolved by newer scrape",
			"game_id", incoming.ID, "error", ErrIdentityConflict)
		return nil
	}

	s.logger.WarnContext(ctx, "identity conflict flagged, keeping stored scores",
		"game_id", incoming.ID,
		"stored", fmt.Sprintf("%d-%d", existing.HomeScore, existing.AwayScore),
		"incoming", fmt.Sprintf("%d-%d", incoming.HomeScore, incoming.AwayScore),
		"error", ErrIdentityConflict,
	)
	return nil
}

func (s *IngestionService) resolveSide(ctx context.Context, ref TeamRef, report *IngestReport) (*Resolution, error) {
	res, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		if qe, ok := AsQuarantine(err); ok {
			report.quarantine(qe.Reason, 1)
			return nil, nil
		}
		return nil, fmt.Errorf("resolve team reference: %w", err)
	}
	return &res, nil
}

// ageGroupMismatch checks the two perspectives of one game against each
// other. Providers occasionally label the same fixture with different age
// groups; beyond the tolerance that is a data-quality problem, not a merge.
func (s *IngestionService) ageGroupMismatch(rows []game.ProviderRecord) bool {
	if len(rows) < 2 {
		return false
	}

	base, ok := ageOf(rows[0])
	if !ok {
		return false
	}
	for _, rec := range rows[1:] {
		age, ok := ageOf(rec)
		if !ok {
			continue
		}
		diff := age - base
		if diff < 0 {
			diff = -diff
		}
		if diff > s.cfg.AgeMismatchTolerance {
			return true
		}
	}
	return false
}

// sideRefs builds home and away resolver references, preferring the row
// scraped from that side's own perspective since it carries the richer
// team/club naming.
func sideRefs(rows []game.ProviderRecord) (home, away TeamRef) {
	var homeRow, awayRow *game.ProviderRecord
	for idx := range rows {
		if rows[idx].Home && homeRow == nil {
			homeRow = &rows[idx]
		}
		if !rows[idx].Home && awayRow == nil {
			awayRow = &rows[idx]
		}
	}

	switch {
	case homeRow != nil && awayRow != nil:
		return ownRef(*homeRow), ownRef(*awayRow)
	case homeRow != nil:
		return ownRef(*homeRow), opponentRef(*homeRow)
	default:
		return opponentRef(*awayRow), ownRef(*awayRow)
	}
}

func ownRef(rec game.ProviderRecord) TeamRef {
	return TeamRef{
		Provider:       rec.Provider,
		ProviderTeamID: rec.TeamID,
		Name:           rec.TeamName,
		ClubName:       rec.ClubName,
		AgeGroup:       rec.AgeGroup,
		Gender:         rec.Gender,
	}
}

func opponentRef(rec game.ProviderRecord) TeamRef {
	return TeamRef{
		Provider:       rec.Provider,
		ProviderTeamID: rec.OpponentID,
		Name:           rec.OpponentName,
		ClubName:       rec.OpponentClub,
		AgeGroup:       rec.AgeGroup,
		Gender:         rec.Gender,
	}
}

func ageOf(rec game.ProviderRecord) (int, bool) {
	return team.AgeNumber(rec.AgeGroup)
}

// IngestBatch fans per-provider batches out over a bounded worker pool.
// Providers only ever create teams/aliases and insert games, so concurrent
// runs lean on the store's uniqueness constraints for correctness.
func (s *IngestionService) IngestBatch(
	ctx context.Context,
	batches map[string][]game.ProviderRecord,
) (BatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestBatch")
	defer span.End()

	if len(batches) == 0 {
		return BatchReport{}, fmt.Errorf("%w: at least one provider batch is required", ErrInvalidInput)
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(batches) {
		workerCount = len(batches)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	type outcome struct {
		report IngestReport
		err    error
	}

	var workers sync.WaitGroup
	results := make(chan outcome, len(batches))

	for provider, records := range batches {
		provider, records := provider, records
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			report, runErr := s.IngestProviderBatch(ctx, provider, records)
			report.Provider = provider
			results <- outcome{report: report, err: runErr}
		}); err != nil {
			workers.Done()
			return BatchReport{}, fmt.Errorf("submit provider batch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := BatchReport{Providers: len(batches)}
	for res := range results {
		if res.err != nil {
			if out.Failed == nil {
				out.Failed = make(map[string]string)
			}
			out.Failed[res.report.Provider] = res.err.Error()
			continue
		}
		out.Reports = append(out.Reports, res.report)
	}

	sort.Slice(out.Reports, func(i, j int) bool {
		return out.Reports[i].Provider < out.Reports[j].Provider
	})
	return out, nil
}

// ReresolveUnassigned retries canonical resolution for games stored with
// unset team references, typically after a review approval created the
// missing alias. Games never require redundant re-import for this.
func (s *IngestionService) ReresolveUnassigned(ctx context.Context, limit int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ReresolveUnassigned")
	defer span.End()

	if limit <= 0 {
		limit = 500
	}

	pending, err := s.gameRepo.ListUnresolved(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list unresolved games: %w", err)
	}

	fixed := 0
	for _, item := range pending {
		homeID := item.HomeTeamID
		awayID := item.AwayTeamID

		if homeID == "" {
			homeID = s.lookupApproved(ctx, item.Provider, item.HomeProviderID)
		}
		if awayID == "" {
			awayID = s.lookupApproved(ctx, item.Provider, item.AwayProviderID)
		}
		if homeID == "" || awayID == "" {
			continue
		}

		if err := s.gameRepo.SetCanonicalRefs(ctx, item.ID, homeID, awayID); err != nil {
			return fixed, fmt.Errorf("set canonical refs on game %s: %w", item.ID, err)
		}
		fixed++
	}

	if fixed > 0 {
		s.logger.InfoContext(ctx, "unresolved games reassigned", "count", fixed)
	}
	return fixed, nil
}

func (s *IngestionService) lookupApproved(ctx context.Context, provider, providerTeamID string) string {
	found, ok, err := s.aliasRepo.FindApproved(ctx, provider, providerTeamID)
	if err != nil || !ok {
		return ""
	}
	return found.CanonicalTeamID
}
