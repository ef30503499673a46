package alias

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MatchMethod records how a provider identifier got linked to a canonical
// team. The set is closed; Validate rejects anything else.
type MatchMethod string

const (
	MethodDirectID      MatchMethod = "direct_id"
	MethodFuzzyAuto     MatchMethod = "fuzzy_auto"
	MethodFuzzyReviewed MatchMethod = "fuzzy_reviewed"
	MethodManual        MatchMethod = "manual"
)

func (m MatchMethod) Valid() bool {
	switch m {
	case MethodDirectID, MethodFuzzyAuto, MethodFuzzyReviewed, MethodManual:
		return true
	default:
		return false
	}
}

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// ErrApprovedExists is returned when recording an approved alias for a
// (provider, provider_team_id) pair that already has one. Racing ingestion
// runs rely on this instead of a fatal failure.
var ErrApprovedExists = errors.New("approved alias already exists for provider team id")

// Alias maps one provider's team identifier to exactly one canonical team.
type Alias struct {
	ID              int64
	Provider        string
	ProviderTeamID  string
	CanonicalTeamID string
	Method          MatchMethod
	Confidence      float64
	Status          ReviewStatus
	CreatedAt       time.Time
}

func (a Alias) Validate() error {
	if strings.TrimSpace(a.Provider) == "" {
		return fmt.Errorf("alias provider is required")
	}
	if strings.TrimSpace(a.ProviderTeamID) == "" {
		return fmt.Errorf("alias provider team id is required")
	}
	if strings.TrimSpace(a.CanonicalTeamID) == "" {
		return fmt.Errorf("alias canonical team id is required")
	}
	if !a.Method.Valid() {
		return fmt.Errorf("invalid alias match method %q", a.Method)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("invalid alias review status %q", a.Status)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("alias confidence %v out of [0,1]", a.Confidence)
	}
	return nil
}
