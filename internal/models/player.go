package models

import (
	"database/sql"
	"time"
)

// Player represents an NHL player
type Player struct {
	ID                 int            `db:"id"`
	PlayerIDAPI        int            `db:"player_id_api"`
	FirstName          string         `db:"first_name"`
	LastName           string         `db:"last_name"`
	FullName           string         `db:"full_name"`
	PrimaryNumber      sql.NullInt32  `db:"primary_number"`
	Link               string         `db:"link"`
	SiteLink           string         `db:"site_link"`
	BirthDate          sql.NullTime   `db:"birth_date"`
	BirthCity          sql.NullString `db:"birth_city"`
	BirthStateProvince sql.NullString `db:"birth_state_province"`
	BirthCountry       sql.NullString `db:"birth_country"`
	Nationality        sql.NullString `db:"nationality"`
	HeightCm           sql.NullInt32  `db:"height_cm"`
	WeightKg           sql.NullInt32  `db:"weight_kg"`
	AlternateCaptain   bool           `db:"alternate_captain"`
	Captain            bool           `db:"captain"`
	Rookie             bool           `db:"rookie"`
	ShootsCatches      sql.NullString `db:"shoots_catches"`
	RosterStatus       sql.NullString `db:"roster_status"`
	PrimaryPosition    string         `db:"primary_position"`
	Active             bool           `db:"active"`
	CreatedAt          time.Time      `db:"created_at"`

	// Team history, loaded on demand
	Teams []PlayerTeam `db:"-"`
}

// PlayerTeam is one edge of a player's team history. An edge with no end
// date is the player's current team.
type PlayerTeam struct {
	ID        int          `db:"id"`
	PlayerID  int          `db:"player_id"`
	TeamID    int          `db:"team_id"`
	StartDate time.Time    `db:"start_date"`
	EndDate   sql.NullTime `db:"end_date"`
}

// IsOpen returns true if the edge has no end date
func (pt *PlayerTeam) IsOpen() bool {
	return !pt.EndDate.Valid
}

// TeamMove closes a player's current edge (when there is one) and opens a
// new one to ToTeamID, both on Date
type TeamMove struct {
	PlayerID    int
	CloseEdgeID int // 0 when the player has no open edge
	FromTeamID  int
	ToTeamID    int
	Date        time.Time
}

// PeopleResponse is the /people/{id} document
type PeopleResponse struct {
	People []Person `json:"people" validate:"min=1,dive"`
}

// Person is a player profile as returned by the API
type Person struct {
	ID                 int      `json:"id" validate:"required"`
	FullName           string   `json:"fullName" validate:"required"`
	Link               string   `json:"link"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	PrimaryNumber      string   `json:"primaryNumber"`
	BirthDate          string   `json:"birthDate"`
	BirthCity          string   `json:"birthCity"`
	BirthStateProvince string   `json:"birthStateProvince"`
	BirthCountry       string   `json:"birthCountry"`
	Nationality        string   `json:"nationality"`
	Height             string   `json:"height"`
	Weight             int      `json:"weight"`
	Active             bool     `json:"active"`
	AlternateCaptain   bool     `json:"alternateCaptain"`
	Captain            bool     `json:"captain"`
	Rookie             bool     `json:"rookie"`
	ShootsCatches      string   `json:"shootsCatches"`
	RosterStatus       string   `json:"rosterStatus"`
	CurrentTeam        *TeamRef `json:"currentTeam"`
	PrimaryPosition    Position `json:"primaryPosition"`
}

// Position is a player's primary position
type Position struct {
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Abbreviation string `json:"abbreviation"`
}

// PersonRef is the short player reference embedded in other documents
type PersonRef struct {
	ID       int    `json:"id" validate:"required"`
	FullName string `json:"fullName"`
	Link     string `json:"link"`
}
