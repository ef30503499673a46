package ranking

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Row is one team's computed strength within one cohort at a snapshot time.
// Rows are superseded wholesale on every run; history is retained.
type Row struct {
	TeamID      string
	AgeGroup    string
	Gender      string
	GamesPlayed int
	WinPct      float64
	RawOffense  float64
	RawDefense  float64
	RawSOS      float64
	NormOffense float64
	NormDefense float64
	NormSOS     float64
	PowerScore  float64
	Rank        int
	Status      string
	SnapshotAt  time.Time
}

func (r Row) Validate() error {
	if strings.TrimSpace(r.TeamID) == "" {
		return fmt.Errorf("ranking row team id is required")
	}
	if r.Status != StatusActive && r.Status != StatusInactive {
		return fmt.Errorf("invalid ranking row status %q", r.Status)
	}
	if r.Status == StatusActive && r.Rank <= 0 {
		return fmt.Errorf("active ranking row must carry a rank position")
	}
	if r.SnapshotAt.IsZero() {
		return fmt.Errorf("ranking row snapshot time is required")
	}
	return nil
}
