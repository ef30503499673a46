package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDuplicateID means a game with the same deterministic identifier is
	// already stored. Whether that is a plain duplicate or a score conflict
	// is decided by the composite natural key.
	ErrDuplicateID = errors.New("game identifier already exists")
	// ErrDuplicateNaturalKey means the exact same result row (teams, date and
	// both scores) is already stored.
	ErrDuplicateNaturalKey = errors.New("game natural key already exists")
)

// ProviderRecord is one team's perspective of one scraped result row, as
// delivered by a provider adapter. Two records describe one physical game.
type ProviderRecord struct {
	Provider     string
	TeamID       string
	TeamName     string
	ClubName     string
	OpponentID   string
	OpponentName string
	OpponentClub string
	AgeGroup     string
	Gender       string
	Date         time.Time
	Home         bool
	GoalsFor     *int
	GoalsAgainst *int
	Division     string
	SourceURL    string
	ScrapedAt    time.Time
}

// Orient collapses the perspective row into home/away order. It requires both
// scores; incomplete rows are quarantined upstream.
func (r ProviderRecord) Orient() (homeID, awayID string, homeScore, awayScore int, ok bool) {
	if r.GoalsFor == nil || r.GoalsAgainst == nil {
		return "", "", 0, 0, false
	}
	if r.Home {
		return r.TeamID, r.OpponentID, *r.GoalsFor, *r.GoalsAgainst, true
	}
	return r.OpponentID, r.TeamID, *r.GoalsAgainst, *r.GoalsFor, true
}

// Game is one physical match, oriented into home/away and immutable once
// persisted. Provider-side identifiers are retained for audit and for
// retroactive identity resolution.
type Game struct {
	ID             string
	Provider       string
	HomeTeamID     string // canonical, empty while unresolved
	AwayTeamID     string // canonical, empty while unresolved
	HomeProviderID string
	AwayProviderID string
	Date           time.Time
	HomeScore      int
	AwayScore      int
	AgeGroup       string
	Gender         string
	Division       string
	SourceURL      string
	ScrapedAt      time.Time
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(g.Provider) == "" {
		return fmt.Errorf("game provider is required")
	}
	if strings.TrimSpace(g.HomeProviderID) == "" || strings.TrimSpace(g.AwayProviderID) == "" {
		return fmt.Errorf("game provider-side team ids are required")
	}
	if g.Date.IsZero() {
		return fmt.Errorf("game date is required")
	}
	if g.HomeScore < 0 || g.AwayScore < 0 {
		return fmt.Errorf("game scores cannot be negative")
	}
	return nil
}

// Resolved reports whether both sides reference a canonical team.
func (g Game) Resolved() bool {
	return g.HomeTeamID != "" && g.AwayTeamID != ""
}

// NaturalKey is the composite duplicate-detection key. It includes both
// scores, unlike the deterministic identifier, so the same fixture rescraped
// with corrected scores differs here while colliding on ID.
type NaturalKey struct {
	Provider       string
	HomeProviderID string
	AwayProviderID string
	Date           string // ISO date
	HomeScore      int
	AwayScore      int
}

func (g Game) NaturalKey() NaturalKey {
	return NaturalKey{
		Provider:       g.Provider,
		HomeProviderID: g.HomeProviderID,
		AwayProviderID: g.AwayProviderID,
		Date:           g.Date.Format("2006-01-02"),
		HomeScore:      g.HomeScore,
		AwayScore:      g.AwayScore,
	}
}

// DeterministicID builds the canonical game identifier
// "<provider>:<date>:<min(id1,id2)>:<max(id1,id2)>[:<age-group>[:<division>]]".
// Scores are intentionally excluded; colliding imports with differing scores
// surface as identity conflicts instead of silent duplicates.
func DeterministicID(provider string, date time.Time, idA, idB, ageGroup, division string) string {
	lo, hi := idA, idB
	if lo > hi {
		lo, hi = hi, lo
	}

	var b strings.Builder
	b.WriteString(provider)
	b.WriteString(":")
	b.WriteString(date.Format("2006-01-02"))
	b.WriteString(":")
	b.WriteString(lo)
	b.WriteString(":")
	b.WriteString(hi)
	if age := strings.TrimSpace(ageGroup); age != "" {
		b.WriteString(":")
		b.WriteString(age)
		if div := strings.TrimSpace(division); div != "" {
			b.WriteString(":")
			b.WriteString(div)
		}
	}
	return b.String()
}

// Conflict is a recorded identity conflict: a deterministic-ID collision with
// a differing natural key, kept for manual reconciliation.
type Conflict struct {
	ID            int64
	GameID        string
	Provider      string
	ExistingHome  int
	ExistingAway  int
	IncomingHome  int
	IncomingAway  int
	IncomingScrap time.Time
	CreatedAt     time.Time
}
