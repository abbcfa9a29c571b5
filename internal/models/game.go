package models

import (
	"time"
)

// StatusFinal is the schedule status code of a finished game. Downstream
// stages only pick up games with this status.
const StatusFinal = 7

// Game represents an NHL game as stored in the database
type Game struct {
	ID          int       `db:"id"`
	GamePk      int       `db:"game_pk"`
	Season      string    `db:"season"`
	GameType    string    `db:"game_type"`
	StatusCode  int       `db:"status_code"`
	APIDate     time.Time `db:"api_date"`
	GameDate    time.Time `db:"game_date"`
	LiveLink    string    `db:"live_link"`
	ContentLink string    `db:"content_link"`
	HomeTeamID  int       `db:"home_team_id"`
	AwayTeamID  int       `db:"away_team_id"`
	HomeScore   int       `db:"home_score"`
	AwayScore   int       `db:"away_score"`

	// Stage completion flags
	BoxscoresFetched     bool `db:"boxscores_fetched"`
	LinescoresFetched    bool `db:"linescores_fetched"`
	HighlightsFetched    bool `db:"highlights_fetched"`
	HighlightMetaFetched bool `db:"highlight_meta_fetched"`
	PlaybacksFetched     bool `db:"playbacks_fetched"`

	// Joined from teams, not columns of games
	HomeTeamIDAPI int `db:"home_team_id_api"`
	AwayTeamIDAPI int `db:"away_team_id_api"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsFinal returns true if the game is completed
func (g Game) IsFinal() bool {
	return g.StatusCode == StatusFinal
}

// HasFlag reports whether the given stage flag is set on the game.
func (g Game) HasFlag(f Flag) bool {
	switch f {
	case FlagBoxscores:
		return g.BoxscoresFetched
	case FlagLinescores:
		return g.LinescoresFetched
	case FlagHighlights:
		return g.HighlightsFetched
	case FlagHighlightMeta:
		return g.HighlightMetaFetched
	case FlagPlaybacks:
		return g.PlaybacksFetched
	}
	return false
}

// SetFlag sets or clears a stage flag on the in-memory game.
func (g *Game) SetFlag(f Flag, v bool) {
	switch f {
	case FlagBoxscores:
		g.BoxscoresFetched = v
	case FlagLinescores:
		g.LinescoresFetched = v
	case FlagHighlights:
		g.HighlightsFetched = v
	case FlagHighlightMeta:
		g.HighlightMetaFetched = v
	case FlagPlaybacks:
		g.PlaybacksFetched = v
	}
}

// Flag names a per-game stage completion column.
type Flag string

const (
	FlagBoxscores     Flag = "boxscores_fetched"
	FlagLinescores    Flag = "linescores_fetched"
	FlagHighlights    Flag = "highlights_fetched"
	FlagHighlightMeta Flag = "highlight_meta_fetched"
	FlagPlaybacks     Flag = "playbacks_fetched"
)

// Valid reports whether f is one of the known flag columns. Flag values
// are interpolated into SQL, so callers check this first.
func (f Flag) Valid() bool {
	switch f {
	case FlagBoxscores, FlagLinescores, FlagHighlights, FlagHighlightMeta, FlagPlaybacks:
		return true
	}
	return false
}

// ScheduleResponse is the /schedule?date= document
type ScheduleResponse struct {
	Dates []ScheduleDate `json:"dates" validate:"dive"`
}

// ScheduleDate holds the games of one calendar date
type ScheduleDate struct {
	Date  string         `json:"date"`
	Games []ScheduleGame `json:"games" validate:"dive"`
}

// ScheduleGame is a game entry of the schedule
type ScheduleGame struct {
	GamePk   int           `json:"gamePk" validate:"required"`
	Link     string        `json:"link"`
	GameType string        `json:"gameType" validate:"required"`
	Season   string        `json:"season" validate:"required,len=8"`
	GameDate string        `json:"gameDate" validate:"required"`
	Status   GameStatus    `json:"status"`
	Teams    ScheduleTeams `json:"teams"`
	Content  LinkRef       `json:"content"`
}

// GameStatus is the status block of a schedule game
type GameStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
	StatusCode        string `json:"statusCode" validate:"required,numeric"`
}

// ScheduleTeams holds both sides of a schedule game
type ScheduleTeams struct {
	Away ScheduleSide `json:"away"`
	Home ScheduleSide `json:"home"`
}

// ScheduleSide is one team of a schedule game with its score
type ScheduleSide struct {
	Score int     `json:"score"`
	Team  TeamRef `json:"team"`
}

// LinkRef is an object holding only an API link
type LinkRef struct {
	Link string `json:"link"`
}

// TeamRef is the short team reference embedded in most documents
type TeamRef struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name"`
	Link string `json:"link"`
}

// Games returns the games of the first listed date, or nil when the
// schedule is empty.
func (s *ScheduleResponse) Games() []ScheduleGame {
	if len(s.Dates) == 0 {
		return nil
	}
	return s.Dates[0].Games
}
