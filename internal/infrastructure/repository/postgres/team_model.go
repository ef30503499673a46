package postgres

import (
	"database/sql"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

type teamTableModel struct {
	ID         int64          `db:"id"`
	PublicID   string         `db:"public_id"`
	Name       string         `db:"name"`
	ClubName   sql.NullString `db:"club_name"`
	AgeGroup   string         `db:"age_group"`
	Gender     string         `db:"gender"`
	Region     sql.NullString `db:"region"`
	Deprecated bool           `db:"deprecated"`
	MergedInto sql.NullString `db:"merged_into"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID string  `db:"public_id"`
	Name     string  `db:"name"`
	ClubName *string `db:"club_name"`
	AgeGroup string  `db:"age_group"`
	Gender   string  `db:"gender"`
	Region   *string `db:"region"`
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:         row.PublicID,
		Name:       row.Name,
		ClubName:   row.ClubName.String,
		AgeGroup:   row.AgeGroup,
		Gender:     row.Gender,
		Region:     row.Region.String,
		Deprecated: row.Deprecated,
		MergedInto: row.MergedInto.String,
	}
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
