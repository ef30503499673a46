package postgres

import (
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
)

type aliasTableModel struct {
	ID              int64     `db:"id"`
	Provider        string    `db:"provider"`
	ProviderTeamID  string    `db:"provider_team_id"`
	CanonicalTeamID string    `db:"canonical_team_id"`
	Method          string    `db:"method"`
	Confidence      float64   `db:"confidence"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

type aliasInsertModel struct {
	Provider        string  `db:"provider"`
	ProviderTeamID  string  `db:"provider_team_id"`
	CanonicalTeamID string  `db:"canonical_team_id"`
	Method          string  `db:"method"`
	Confidence      float64 `db:"confidence"`
	Status          string  `db:"status"`
}

func aliasFromRow(row aliasTableModel) alias.Alias {
	return alias.Alias{
		ID:              row.ID,
		Provider:        row.Provider,
		ProviderTeamID:  row.ProviderTeamID,
		CanonicalTeamID: row.CanonicalTeamID,
		Method:          alias.MatchMethod(row.Method),
		Confidence:      row.Confidence,
		Status:          alias.ReviewStatus(row.Status),
		CreatedAt:       row.CreatedAt,
	}
}
