package postgres

import (
	"database/sql"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
)

type gameTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	Provider       string         `db:"provider"`
	HomeTeamID     sql.NullString `db:"home_team_id"`
	AwayTeamID     sql.NullString `db:"away_team_id"`
	HomeProviderID string         `db:"home_provider_id"`
	AwayProviderID string         `db:"away_provider_id"`
	GameDate       time.Time      `db:"game_date"`
	HomeScore      int            `db:"home_score"`
	AwayScore      int            `db:"away_score"`
	AgeGroup       string         `db:"age_group"`
	Gender         string         `db:"gender"`
	Division       sql.NullString `db:"division"`
	SourceURL      sql.NullString `db:"source_url"`
	ScrapedAt      time.Time      `db:"scraped_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type gameInsertModel struct {
	PublicID       string    `db:"public_id"`
	Provider       string    `db:"provider"`
	HomeTeamID     *string   `db:"home_team_id"`
	AwayTeamID     *string   `db:"away_team_id"`
	HomeProviderID string    `db:"home_provider_id"`
	AwayProviderID string    `db:"away_provider_id"`
	GameDate       time.Time `db:"game_date"`
	HomeScore      int       `db:"home_score"`
	AwayScore      int       `db:"away_score"`
	AgeGroup       string    `db:"age_group"`
	Gender         string    `db:"gender"`
	Division       *string   `db:"division"`
	SourceURL      *string   `db:"source_url"`
	ScrapedAt      time.Time `db:"scraped_at"`
}

type conflictInsertModel struct {
	GamePublicID      string    `db:"game_public_id"`
	Provider          string    `db:"provider"`
	ExistingHome      int       `db:"existing_home_score"`
	ExistingAway      int       `db:"existing_away_score"`
	IncomingHome      int       `db:"incoming_home_score"`
	IncomingAway      int       `db:"incoming_away_score"`
	IncomingScrapedAt time.Time `db:"incoming_scraped_at"`
}

type conflictTableModel struct {
	ID                int64     `db:"id"`
	GamePublicID      string    `db:"game_public_id"`
	Provider          string    `db:"provider"`
	ExistingHome      int       `db:"existing_home_score"`
	ExistingAway      int       `db:"existing_away_score"`
	IncomingHome      int       `db:"incoming_home_score"`
	IncomingAway      int       `db:"incoming_away_score"`
	IncomingScrapedAt time.Time `db:"incoming_scraped_at"`
	CreatedAt         time.Time `db:"created_at"`
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:             row.PublicID,
		Provider:       row.Provider,
		HomeTeamID:     row.HomeTeamID.String,
		AwayTeamID:     row.AwayTeamID.String,
		HomeProviderID: row.HomeProviderID,
		AwayProviderID: row.AwayProviderID,
		Date:           row.GameDate,
		HomeScore:      row.HomeScore,
		AwayScore:      row.AwayScore,
		AgeGroup:       row.AgeGroup,
		Gender:         row.Gender,
		Division:       row.Division.String,
		SourceURL:      row.SourceURL.String,
		ScrapedAt:      row.ScrapedAt,
	}
}

func conflictFromRow(row conflictTableModel) game.Conflict {
	return game.Conflict{
		ID:            row.ID,
		GameID:        row.GamePublicID,
		Provider:      row.Provider,
		ExistingHome:  row.ExistingHome,
		ExistingAway:  row.ExistingAway,
		IncomingHome:  row.IncomingHome,
		IncomingAway:  row.IncomingAway,
		IncomingScrap: row.IncomingScrapedAt,
		CreatedAt:     row.CreatedAt,
	}
}
