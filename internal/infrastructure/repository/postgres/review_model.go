package postgres

import (
	"database/sql"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
)

type reviewTableModel struct {
	ID               int64          `db:"id"`
	Provider         string         `db:"provider"`
	ProviderTeamID   string         `db:"provider_team_id"`
	ProviderTeamName string         `db:"provider_team_name"`
	ClubName         sql.NullString `db:"club_name"`
	AgeGroup         string         `db:"age_group"`
	Gender           string         `db:"gender"`
	CandidateTeamID  sql.NullString `db:"candidate_team_id"`
	Confidence       float64        `db:"confidence"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
	DecidedAt        *time.Time     `db:"decided_at"`
}

type reviewInsertModel struct {
	Provider         string  `db:"provider"`
	ProviderTeamID   string  `db:"provider_team_id"`
	ProviderTeamName string  `db:"provider_team_name"`
	ClubName         *string `db:"club_name"`
	AgeGroup         string  `db:"age_group"`
	Gender           string  `db:"gender"`
	CandidateTeamID  *string `db:"candidate_team_id"`
	Confidence       float64 `db:"confidence"`
	Status           string  `db:"status"`
}

func reviewFromRow(row reviewTableModel) review.Entry {
	return review.Entry{
		ID:               row.ID,
		Provider:         row.Provider,
		ProviderTeamID:   row.ProviderTeamID,
		ProviderTeamName: row.ProviderTeamName,
		ClubName:         row.ClubName.String,
		AgeGroup:         row.AgeGroup,
		Gender:           row.Gender,
		CandidateTeamID:  row.CandidateTeamID.String,
		Confidence:       row.Confidence,
		Status:           alias.ReviewStatus(row.Status),
		CreatedAt:        row.CreatedAt,
		DecidedAt:        row.DecidedAt,
	}
}
