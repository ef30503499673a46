package postgres

import (
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
)

type rankingTableModel struct {
	ID          int64     `db:"id"`
	TeamID      string    `db:"team_public_id"`
	AgeGroup    string    `db:"age_group"`
	Gender      string    `db:"gender"`
	GamesPlayed int       `db:"games_played"`
	WinPct      float64   `db:"win_pct"`
	RawOffense  float64   `db:"raw_offense"`
	RawDefense  float64   `db:"raw_defense"`
	RawSOS      float64   `db:"raw_sos"`
	NormOffense float64   `db:"norm_offense"`
	NormDefense float64   `db:"norm_defense"`
	NormSOS     float64   `db:"norm_sos"`
	PowerScore  float64   `db:"power_score"`
	Rank        int       `db:"rank"`
	Status      string    `db:"status"`
	IsCurrent   bool      `db:"is_current"`
	SnapshotAt  time.Time `db:"snapshot_at"`
	CreatedAt   time.Time `db:"created_at"`
}

type rankingInsertModel struct {
	TeamID      string    `db:"team_public_id"`
	AgeGroup    string    `db:"age_group"`
	Gender      string    `db:"gender"`
	GamesPlayed int       `db:"games_played"`
	WinPct      float64   `db:"win_pct"`
	RawOffense  float64   `db:"raw_offense"`
	RawDefense  float64   `db:"raw_defense"`
	RawSOS      float64   `db:"raw_sos"`
	NormOffense float64   `db:"norm_offense"`
	NormDefense float64   `db:"norm_defense"`
	NormSOS     float64   `db:"norm_sos"`
	PowerScore  float64   `db:"power_score"`
	Rank        int       `db:"rank"`
	Status      string    `db:"status"`
	IsCurrent   bool      `db:"is_current"`
	SnapshotAt  time.Time `db:"snapshot_at"`
}

func rankingFromRow(row rankingTableModel) ranking.Row {
	return ranking.Row{
		TeamID:      row.TeamID,
		AgeGroup:    row.AgeGroup,
		Gender:      row.Gender,
		GamesPlayed: row.GamesPlayed,
		WinPct:      row.WinPct,
		RawOffense:  row.RawOffense,
		RawDefense:  row.RawDefense,
		RawSOS:      row.RawSOS,
		NormOffense: row.NormOffense,
		NormDefense: row.NormDefense,
		NormSOS:     row.NormSOS,
		PowerScore:  row.PowerScore,
		Rank:        row.Rank,
		Status:      row.Status,
		SnapshotAt:  row.SnapshotAt,
	}
}

func rankingToInsert(row ranking.Row) rankingInsertModel {
	return rankingInsertModel{
		TeamID:      row.TeamID,
		AgeGroup:    row.AgeGroup,
		Gender:      row.Gender,
		GamesPlayed: row.GamesPlayed,
		WinPct:      row.WinPct,
		RawOffense:  row.RawOffense,
		RawDefense:  row.RawDefense,
		RawSOS:      row.RawSOS,
		NormOffense: row.NormOffense,
		NormDefense: row.NormDefense,
		NormSOS:     row.NormSOS,
		PowerScore:  row.PowerScore,
		Rank:        row.Rank,
		Status:      row.Status,
		IsCurrent:   true,
		SnapshotAt:  row.SnapshotAt,
	}
}
