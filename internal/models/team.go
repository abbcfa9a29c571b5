package models

import (
	"database/sql"
	"time"
)

// Conference represents a league conference for one season
type Conference struct {
	ID              int            `db:"id"`
	Season          string         `db:"season"`
	ConferenceIDAPI int            `db:"conference_id_api"`
	Name            string         `db:"name"`
	Link            sql.NullString `db:"link"`
	Abbreviation    sql.NullString `db:"abbreviation"`
	ShortName       sql.NullString `db:"short_name"`
	Active          bool           `db:"active"`
	CreatedAt       time.Time      `db:"created_at"`
}

// Division represents a league division for one season
type Division struct {
	ID            int            `db:"id"`
	Season        string         `db:"season"`
	DivisionIDAPI int            `db:"division_id_api"`
	ConferenceID  sql.NullInt32  `db:"conference_id"`
	Name          string         `db:"name"`
	Link          sql.NullString `db:"link"`
	Abbreviation  sql.NullString `db:"abbreviation"`
	ShortName     sql.NullString `db:"short_name"`
	Active        bool           `db:"active"`
	CreatedAt     time.Time      `db:"created_at"`
}

// Team represents an NHL team for one season
type Team struct {
	ID              int            `db:"id"`
	Season          string         `db:"season"`
	TeamIDAPI       int            `db:"team_id_api"`
	ConferenceID    sql.NullInt32  `db:"conference_id"`
	DivisionID      sql.NullInt32  `db:"division_id"`
	Name            string         `db:"name"`
	TeamName        string         `db:"team_name"`
	ShortName       string         `db:"short_name"`
	Abbreviation    string         `db:"abbreviation"`
	LocationName    string         `db:"location_name"`
	Link            string         `db:"link"`
	SiteLink        string         `db:"site_link"`
	FirstYearOfPlay sql.NullInt32  `db:"first_year_of_play"`
	OfficialSiteURL sql.NullString `db:"official_site_url"`
	Active          bool           `db:"active"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// ConferencesResponse is the /conferences document
type ConferencesResponse struct {
	Conferences []ConferenceInput `json:"conferences" validate:"dive"`
}

// ConferenceInput is a conference as returned by the API
type ConferenceInput struct {
	ID           int    `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Link         string `json:"link"`
	Abbreviation string `json:"abbreviation"`
	ShortName    string `json:"shortName"`
	Active       bool   `json:"active"`
}

// DivisionsResponse is the /divisions document
type DivisionsResponse struct {
	Divisions []DivisionInput `json:"divisions" validate:"dive"`
}

// DivisionInput is a division as returned by the API
type DivisionInput struct {
	ID           int      `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	NameShort    string   `json:"nameShort"`
	Link         string   `json:"link"`
	Abbreviation string   `json:"abbreviation"`
	Conference   *TeamRef `json:"conference"`
	Active       bool     `json:"active"`
}

// TeamsResponse is the /teams?season= document
type TeamsResponse struct {
	Teams []TeamInput `json:"teams" validate:"dive"`
}

// TeamInput is a team as returned by the API
type TeamInput struct {
	ID              int      `json:"id" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	Link            string   `json:"link"`
	Abbreviation    string   `json:"abbreviation" validate:"required"`
	TeamName        string   `json:"teamName"`
	LocationName    string   `json:"locationName"`
	FirstYearOfPlay string   `json:"firstYearOfPlay"`
	ShortName       string   `json:"shortName"`
	OfficialSiteURL string   `json:"officialSiteUrl"`
	Division        *TeamRef `json:"division"`
	Conference      *TeamRef `json:"conference"`
	Active          bool     `json:"active"`
}
