package postgres

import (
	"database/sql"
	"time"
)

type lineupTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	ScheduleName string     `db:"schedule_name"`
	Venue        string     `db:"venue"`
	MatchDate    time.Time  `db:"match_date"`
	MatchTime    string     `db:"match_time"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type lineupPlayerTableModel struct {
	ID        int64          `db:"id"`
	LineupID  string         `db:"lineup_public_id"`
	PlayerID  string         `db:"player_public_id"`
	Name      string         `db:"name"`
	Phone     sql.NullString `db:"phone"`
	Position  string         `db:"position"`
	Team      string         `db:"team"`
	SortOrder int            `db:"sort_order"`
	Notes     sql.NullString `db:"notes"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type lineupInsertModel struct {
	PublicID     string    `db:"public_id"`
	ScheduleName string    `db:"schedule_name"`
	Venue        string    `db:"venue"`
	MatchDate    time.Time `db:"match_date"`
	MatchTime    string    `db:"match_time"`
	Status       string    `db:"status"`
}

type lineupPlayerInsertModel struct {
	LineupID  string         `db:"lineup_public_id"`
	PlayerID  string         `db:"player_public_id"`
	Name      string         `db:"name"`
	Phone     sql.NullString `db:"phone"`
	Position  string         `db:"position"`
	Team      string         `db:"team"`
	SortOrder int            `db:"sort_order"`
	Notes     sql.NullString `db:"notes"`
}
