package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
)

// Entry is a low-confidence alias candidate waiting for a human decision.
// The game that referenced it is ingested anyway and corrected once the
// entry is approved.
type Entry struct {
	ID               int64
	Provider         string
	ProviderTeamID   string
	ProviderTeamName string
	ClubName         string
	AgeGroup         string
	Gender           string
	// CandidateTeamID is the best-guess canonical target, empty when none.
	CandidateTeamID string
	Confidence      float64
	Status          alias.ReviewStatus
	CreatedAt       time.Time
	DecidedAt       *time.Time
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Provider) == "" {
		return fmt.Errorf("review entry provider is required")
	}
	if strings.TrimSpace(e.ProviderTeamID) == "" {
		return fmt.Errorf("review entry provider team id is required")
	}
	if strings.TrimSpace(e.ProviderTeamName) == "" {
		return fmt.Errorf("review entry provider team name is required")
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid review status %q", e.Status)
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("review confidence %v out of [0,1]", e.Confidence)
	}
	return nil
}
