package models

// Linescore is one team's result line for a game. Every game has two.
type Linescore struct {
	ID                            int  `db:"id"`
	GameID                        int  `db:"game_id"`
	GamePk                        int  `db:"game_pk"`
	TeamID                        int  `db:"team_id"`
	OpponentID                    int  `db:"opponent_id"`
	IsHomeGame                    bool `db:"is_home_game"`
	Points                        int  `db:"points"`
	Win                           bool `db:"win"`
	OTWin                         bool `db:"ot_win"`
	ShootOutWin                   bool `db:"shoot_out_win"`
	Loss                          bool `db:"loss"`
	OT                            bool `db:"ot"`
	GoalsFor                      int  `db:"goals_for"`
	GoalsAgainst                  int  `db:"goals_against"`
	PenaltyMinutes                int  `db:"penalty_minutes"`
	ShotsFor                      int  `db:"shots_for"`
	ShotsAgainst                  int  `db:"shots_against"`
	PowerPlayGoals                int  `db:"power_play_goals"`
	PowerPlayGoalsAllowed         int  `db:"power_play_goals_allowed"`
	PowerPlayOpportunities        int  `db:"power_play_opportunities"`
	PowerPlayOpportunitiesAllowed int  `db:"power_play_opportunities_allowed"`
	FaceOffsTaken                 int  `db:"face_offs_taken"`
	FaceOffWins                   int  `db:"face_off_wins"`
	Blocked                       int  `db:"blocked"`
	Takeaways                     int  `db:"takeaways"`
	Giveaways                     int  `db:"giveaways"`
	HitsFor                       int  `db:"hits_for"`
	HitsAgainst                   int  `db:"hits_against"`
}

// LiveLinescore is the linescore block of the live feed
type LiveLinescore struct {
	CurrentPeriod int            `json:"currentPeriod" validate:"gte=0"`
	Teams         LinescoreTeams `json:"teams"`
}

// LinescoreTeams holds both sides of a linescore
type LinescoreTeams struct {
	Home LinescoreSide `json:"home"`
	Away LinescoreSide `json:"away"`
}

// LinescoreSide is one team's goal and shot count
type LinescoreSide struct {
	Team        TeamRef `json:"team"`
	Goals       int     `json:"goals" validate:"gte=0"`
	ShotsOnGoal int     `json:"shotsOnGoal" validate:"gte=0"`
}
