package models

import (
	"database/sql"
)

// SkaterBoxscore is a skater's stat line for one game
type SkaterBoxscore struct {
	ID                   int `db:"id"`
	GameID               int `db:"game_id"`
	GamePk               int `db:"game_pk"`
	PlayerID             int `db:"player_id"`
	TeamID               int `db:"team_id"`
	TimeOnIce            int `db:"time_on_ice"`
	Assists              int `db:"assists"`
	Goals                int `db:"goals"`
	Points               int `db:"points"`
	Shots                int `db:"shots"`
	Hits                 int `db:"hits"`
	PowerPlayGoals       int `db:"power_play_goals"`
	PowerPlayAssists     int `db:"power_play_assists"`
	PenaltyMinutes       int `db:"penalty_minutes"`
	FaceOffsTaken        int `db:"face_offs_taken"`
	FaceOffWins          int `db:"face_off_wins"`
	Takeaways            int `db:"takeaways"`
	Giveaways            int `db:"giveaways"`
	ShortHandedGoals     int `db:"short_handed_goals"`
	ShortHandedAssists   int `db:"short_handed_assists"`
	Blocked              int `db:"blocked"`
	PlusMinus            int `db:"plus_minus"`
	EvenTimeOnIce        int `db:"even_time_on_ice"`
	PowerPlayTimeOnIce   int `db:"power_play_time_on_ice"`
	ShortHandedTimeOnIce int `db:"short_handed_time_on_ice"`
}

// GoalieBoxscore is a goalie's stat line for one game
type GoalieBoxscore struct {
	ID                      int             `db:"id"`
	GameID                  int             `db:"game_id"`
	GamePk                  int             `db:"game_pk"`
	PlayerID                int             `db:"player_id"`
	TeamID                  int             `db:"team_id"`
	TimeOnIce               int             `db:"time_on_ice"`
	Assists                 int             `db:"assists"`
	Goals                   int             `db:"goals"`
	PenaltyMinutes          int             `db:"penalty_minutes"`
	Saves                   int             `db:"saves"`
	PowerPlaySaves          int             `db:"power_play_saves"`
	ShortHandedSaves        int             `db:"short_handed_saves"`
	EvenSaves               int             `db:"even_saves"`
	ShortHandedShotsAgainst int             `db:"short_handed_shots_against"`
	PowerPlayShotsAgainst   int             `db:"power_play_shots_against"`
	ShotsAgainst            int             `db:"shots_against"`
	Decision                sql.NullString  `db:"decision"`
	SavePct                 sql.NullFloat64 `db:"save_pct"`
	EvenSavePct             sql.NullFloat64 `db:"even_save_pct"`
	PowerPlaySavePct        sql.NullFloat64 `db:"power_play_save_pct"`
	ShortHandedSavePct      sql.NullFloat64 `db:"short_handed_save_pct"`
}

// LiveFeed is the /game/{pk}/feed/live document
type LiveFeed struct {
	GamePk   int      `json:"gamePk" validate:"required"`
	LiveData LiveData `json:"liveData"`
}

// LiveData is the liveData block of the live feed
type LiveData struct {
	Plays     Plays         `json:"plays"`
	Linescore LiveLinescore `json:"linescore"`
	Boxscore  LiveBoxscore  `json:"boxscore"`
}

// LiveBoxscore is the boxscore block of the live feed
type LiveBoxscore struct {
	Teams BoxscoreTeams `json:"teams"`
}

// BoxscoreTeams holds both sides of a boxscore
type BoxscoreTeams struct {
	Away BoxscoreTeam `json:"away"`
	Home BoxscoreTeam `json:"home"`
}

// Side returns the home or away side
func (bt *BoxscoreTeams) Side(home bool) *BoxscoreTeam {
	if home {
		return &bt.Home
	}
	return &bt.Away
}

// BoxscoreTeam is one side of a boxscore. Players is keyed "ID<playerId>".
type BoxscoreTeam struct {
	Team      TeamRef                   `json:"team"`
	TeamStats TeamStats                 `json:"teamStats"`
	Players   map[string]BoxscorePlayer `json:"players" validate:"dive,keys,startswith=ID,endkeys"`
	Goalies   []int                     `json:"goalies" validate:"dive,gt=0"`
	Skaters   []int                     `json:"skaters" validate:"dive,gt=0"`
	Scratches []int                     `json:"scratches" validate:"dive,gt=0"`
}

// TeamStats wraps the team totals of a boxscore side
type TeamStats struct {
	TeamSkaterStats TeamSkaterStats `json:"teamSkaterStats"`
}

// TeamSkaterStats are team totals. Power play counts come as floats.
type TeamSkaterStats struct {
	Goals                  int     `json:"goals" validate:"gte=0"`
	Pim                    int     `json:"pim"`
	Shots                  int     `json:"shots" validate:"gte=0"`
	PowerPlayGoals         float64 `json:"powerPlayGoals"`
	PowerPlayOpportunities float64 `json:"powerPlayOpportunities"`
	Blocked                int     `json:"blocked"`
	Takeaways              int     `json:"takeaways"`
	Giveaways              int     `json:"giveaways"`
	Hits                   int     `json:"hits"`
}

// BoxscorePlayer is one player entry of a boxscore side
type BoxscorePlayer struct {
	Person PersonRef       `json:"person"`
	Stats  PlayerGameStats `json:"stats"`
}

// PlayerGameStats carries either skater or goalie stats
type PlayerGameStats struct {
	SkaterStats *SkaterStats `json:"skaterStats"`
	GoalieStats *GoalieStats `json:"goalieStats"`
}

// SkaterStats is the per-game stat block of a skater
type SkaterStats struct {
	TimeOnIce            string `json:"timeOnIce"`
	Assists              int    `json:"assists"`
	Goals                int    `json:"goals"`
	Shots                int    `json:"shots"`
	Hits                 int    `json:"hits"`
	PowerPlayGoals       int    `json:"powerPlayGoals"`
	PowerPlayAssists     int    `json:"powerPlayAssists"`
	PenaltyMinutes       int    `json:"penaltyMinutes"`
	FaceOffWins          int    `json:"faceOffWins"`
	FaceoffTaken         int    `json:"faceoffTaken"`
	Takeaways            int    `json:"takeaways"`
	Giveaways            int    `json:"giveaways"`
	ShortHandedGoals     int    `json:"shortHandedGoals"`
	ShortHandedAssists   int    `json:"shortHandedAssists"`
	Blocked              int    `json:"blocked"`
	PlusMinus            int    `json:"plusMinus"`
	EvenTimeOnIce        string `json:"evenTimeOnIce"`
	PowerPlayTimeOnIce   string `json:"powerPlayTimeOnIce"`
	ShortHandedTimeOnIce string `json:"shortHandedTimeOnIce"`
}

// GoalieStats is the per-game stat block of a goalie
type GoalieStats struct {
	TimeOnIce                  string   `json:"timeOnIce"`
	Assists                    int      `json:"assists"`
	Goals                      int      `json:"goals"`
	Pim                        int      `json:"pim"`
	Shots                      int      `json:"shots"`
	Saves                      int      `json:"saves"`
	PowerPlaySaves             int      `json:"powerPlaySaves"`
	ShortHandedSaves           int      `json:"shortHandedSaves"`
	EvenSaves                  int      `json:"evenSaves"`
	ShortHandedShotsAgainst    int      `json:"shortHandedShotsAgainst"`
	EvenShotsAgainst           int      `json:"evenShotsAgainst"`
	PowerPlayShotsAgainst      int      `json:"powerPlayShotsAgainst"`
	Decision                   string   `json:"decision"`
	SavePercentage             *float64 `json:"savePercentage"`
	PowerPlaySavePercentage    *float64 `json:"powerPlaySavePercentage"`
	ShortHandedSavePercentage  *float64 `json:"shortHandedSavePercentage"`
	EvenStrengthSavePercentage *float64 `json:"evenStrengthSavePercentage"`
}
