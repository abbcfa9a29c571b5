package models

import (
	"database/sql"
	"time"
)

// HighlightType classifies a stored video
type HighlightType string

const (
	HighlightCondensed HighlightType = "CONDENSED"
	HighlightRecap     HighlightType = "RECAP"
	HighlightMilestone HighlightType = "MILESTONE"
)

// EPG category titles of the content document
const (
	EpgExtendedHighlights = "Extended Highlights"
	EpgRecap              = "Recap"
)

// Highlight is a video attached to a game. Milestone highlights also carry
// the play event and the team that made it.
type Highlight struct {
	ID                 int           `db:"id"`
	GameID             int           `db:"game_id"`
	GamePk             int           `db:"game_pk"`
	Type               HighlightType `db:"type"`
	VideoIDAPI         int64         `db:"video_id_api"`
	Title              string        `db:"title"`
	Blurb              string        `db:"blurb"`
	Description        string        `db:"description"`
	Duration           int           `db:"duration"`
	MediaPlaybackIDAPI sql.NullInt64 `db:"media_playback_id_api"`
	EventIDAPI         sql.NullInt32 `db:"event_id_api"`
	TeamID             sql.NullInt32 `db:"team_id"`
	OpponentID         sql.NullInt32 `db:"opponent_id"`
	CreatedAt          time.Time     `db:"created_at"`
}

// HighlightMeta is the play data of a goal, linked to its video when one
// exists.
type HighlightMeta struct {
	ID              int             `db:"id"`
	GameID          int             `db:"game_id"`
	GamePk          int             `db:"game_pk"`
	EventIdxAPI     int             `db:"event_idx_api"`
	EventIDAPI      int             `db:"event_id_api"`
	TeamID          int             `db:"team_id"`
	ScorerID        sql.NullInt32   `db:"scorer_id"`
	Assist1ID       sql.NullInt32   `db:"assist1_id"`
	Assist2ID       sql.NullInt32   `db:"assist2_id"`
	GoalieID        sql.NullInt32   `db:"goalie_id"`
	HighlightID     sql.NullInt32   `db:"highlight_id"`
	GameWinningGoal bool            `db:"game_winning_goal"`
	EmptyNet        bool            `db:"empty_net"`
	Type            string          `db:"type"`
	ShotType        string          `db:"shot_type"`
	PeriodType      string          `db:"period_type"`
	PeriodNumber    int             `db:"period_number"`
	PeriodTime      int             `db:"period_time"`
	DateTime        time.Time       `db:"date_time"`
	CoordX          sql.NullFloat64 `db:"coord_x"`
	CoordY          sql.NullFloat64 `db:"coord_y"`
	HasVideo        bool            `db:"has_video"`
}

// GoalRefs are the internal ids a goal event points at
type GoalRefs struct {
	TeamID      int
	ScorerID    sql.NullInt32
	Assist1ID   sql.NullInt32
	Assist2ID   sql.NullInt32
	GoalieID    sql.NullInt32
	HighlightID sql.NullInt32
}

// PlaybackType is a named video rendition, shared by all playbacks
type PlaybackType struct {
	ID     int           `db:"id"`
	Name   string        `db:"name"`
	Width  sql.NullInt32 `db:"width"`
	Height sql.NullInt32 `db:"height"`
}

// Playback is one rendition URL of a highlight
type Playback struct {
	ID             int    `db:"id"`
	HighlightID    int    `db:"highlight_id"`
	PlaybackTypeID int    `db:"playback_type_id"`
	URL            string `db:"url"`

	// Type is resolved or created by name on insert
	Type PlaybackType `db:"-"`
}

// GameContent is the /game/{pk}/content document
type GameContent struct {
	Media ContentMedia `json:"media"`
}

// ContentMedia holds the EPG categories and the milestones of a game
type ContentMedia struct {
	Epg        []EpgCategory `json:"epg" validate:"dive"`
	Milestones Milestones    `json:"milestones"`
}

// Category returns the EPG category with the given title
func (m *ContentMedia) Category(title string) *EpgCategory {
	for i := range m.Epg {
		if m.Epg[i].Title == title {
			return &m.Epg[i]
		}
	}
	return nil
}

// EpgCategory is a titled list of videos
type EpgCategory struct {
	Title string  `json:"title" validate:"required"`
	Items []Video `json:"items"`
}

// First returns the first video of the category, if any
func (c *EpgCategory) First() *Video {
	if c == nil || len(c.Items) == 0 {
		return nil
	}
	return &c.Items[0]
}

// Milestones wraps the milestone list
type Milestones struct {
	Items []Milestone `json:"items"`
}

// Milestone is a game event that may carry a video. Ids are strings in
// this document.
type Milestone struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	StatsEventID string `json:"statsEventId"`
	TeamID       string `json:"teamId"`
	PlayerID     string `json:"playerId"`
	Period       string `json:"period"`
	PeriodTime   string `json:"periodTime"`
	Highlight    *Video `json:"highlight"`
}

// HasVideo is false for milestones whose highlight is missing or empty
func (m *Milestone) HasVideo() bool {
	return m.Highlight != nil && m.Highlight.ID != ""
}

// Video is a highlight video of the content document
type Video struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Blurb           string          `json:"blurb"`
	Description     string          `json:"description"`
	Duration        string          `json:"duration"`
	MediaPlaybackID string          `json:"mediaPlaybackId"`
	Playbacks       []VideoPlayback `json:"playbacks"`
}

// VideoPlayback is one rendition of a video. Width and height may be the
// literal string "null".
type VideoPlayback struct {
	Name   string `json:"name"`
	Width  string `json:"width"`
	Height string `json:"height"`
	URL    string `json:"url"`
}

// Plays wraps all play events of a game
type Plays struct {
	AllPlays []Play `json:"allPlays"`
}

// Play is one event of the play-by-play
type Play struct {
	Players     []PlayParticipant `json:"players"`
	Result      PlayResult        `json:"result"`
	About       PlayAbout         `json:"about"`
	Coordinates Coordinates       `json:"coordinates"`
	Team        *TeamRef          `json:"team"`
}

// IsGoal returns true for goal events
func (p *Play) IsGoal() bool {
	return p.Result.EventTypeID == "GOAL"
}

// PlayParticipant is a player involved in a play
type PlayParticipant struct {
	Player     PersonRef `json:"player"`
	PlayerType string    `json:"playerType"`
}

// PlayResult describes what happened
type PlayResult struct {
	Event           string `json:"event"`
	EventCode       string `json:"eventCode"`
	EventTypeID     string `json:"eventTypeId"`
	Description     string `json:"description"`
	SecondaryType   string `json:"secondaryType"`
	GameWinningGoal bool   `json:"gameWinningGoal"`
	EmptyNet        bool   `json:"emptyNet"`
}

// PlayAbout locates a play in the game
type PlayAbout struct {
	EventIdx   int    `json:"eventIdx"`
	EventID    int    `json:"eventId"`
	Period     int    `json:"period"`
	PeriodType string `json:"periodType"`
	PeriodTime string `json:"periodTime"`
	DateTime   string `json:"dateTime"`
}

// Coordinates of a play on the rink; absent for some events
type Coordinates struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}
