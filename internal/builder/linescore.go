package builder

import (
	"fmt"
	"math"

	"nhlstats/ingestion/internal/models"
)

// Period numbers of a finished game
const (
	RegulationPeriods = 3
	OvertimePeriod    = 4
	ShootoutPeriod    = 5
)

// Result is a team's standing outcome of one game
type Result struct {
	Points      int
	Win         bool
	OTWin       bool
	ShootOutWin bool
	Loss        bool
	OT          bool
}

// Outcome derives the result for the team that scored goalsFor. The
// winner gets two points; the loser gets one only after regulation. A
// final game cannot be tied.
func Outcome(goalsFor, goalsAgainst, finalPeriod int) (Result, error) {
	if goalsFor == goalsAgainst {
		return Result{}, fmt.Errorf("%w: final score is tied %d-%d", models.ErrUnexpectedShape, goalsFor, goalsAgainst)
	}
	if finalPeriod < 1 {
		return Result{}, fmt.Errorf("%w: final period %d", models.ErrUnexpectedShape, finalPeriod)
	}

	won := goalsFor > goalsAgainst
	pastRegulation := finalPeriod > RegulationPeriods

	r := Result{
		Win:         won,
		OTWin:       won && finalPeriod == OvertimePeriod,
		ShootOutWin: won && finalPeriod == ShootoutPeriod,
		Loss:        !won && !pastRegulation,
		OT:          !won && pastRegulation,
	}
	switch {
	case won:
		r.Points = 2
	case pastRegulation:
		r.Points = 1
	}
	return r, nil
}

// LinescoreRef identifies the game and the two teams of a linescore
type LinescoreRef struct {
	GameID     int
	GamePk     int
	TeamID     int
	OpponentID int
}

// Linescore builds one team's line from the live feed. Face-off totals
// are summed over the team's dressed skaters.
func Linescore(ref LinescoreRef, isHome bool, ls models.LiveLinescore, box models.LiveBoxscore) (models.Linescore, error) {
	us, them := ls.Teams.Away, ls.Teams.Home
	if isHome {
		us, them = ls.Teams.Home, ls.Teams.Away
	}
	own := box.Teams.Side(isHome)
	opp := box.Teams.Side(!isHome)

	result, err := Outcome(us.Goals, them.Goals, ls.CurrentPeriod)
	if err != nil {
		return models.Linescore{}, err
	}

	taken, wins, err := faceOffs(own)
	if err != nil {
		return models.Linescore{}, err
	}

	ownStats := own.TeamStats.TeamSkaterStats
	oppStats := opp.TeamStats.TeamSkaterStats

	return models.Linescore{
		GameID:                        ref.GameID,
		GamePk:                        ref.GamePk,
		TeamID:                        ref.TeamID,
		OpponentID:                    ref.OpponentID,
		IsHomeGame:                    isHome,
		Points:                        result.Points,
		Win:                           result.Win,
		OTWin:                         result.OTWin,
		ShootOutWin:                   result.ShootOutWin,
		Loss:                          result.Loss,
		OT:                            result.OT,
		GoalsFor:                      us.Goals,
		GoalsAgainst:                  them.Goals,
		PenaltyMinutes:                ownStats.Pim,
		ShotsFor:                      ownStats.Shots,
		ShotsAgainst:                  oppStats.Shots,
		PowerPlayGoals:                roundCount(ownStats.PowerPlayGoals),
		PowerPlayGoalsAllowed:         roundCount(oppStats.PowerPlayGoals),
		PowerPlayOpportunities:        roundCount(ownStats.PowerPlayOpportunities),
		PowerPlayOpportunitiesAllowed: roundCount(oppStats.PowerPlayOpportunities),
		FaceOffsTaken:                 taken,
		FaceOffWins:                   wins,
		Blocked:                       ownStats.Blocked,
		Takeaways:                     ownStats.Takeaways,
		Giveaways:                     ownStats.Giveaways,
		HitsFor:                       ownStats.Hits,
		HitsAgainst:                   oppStats.Hits,
	}, nil
}

func faceOffs(side *models.BoxscoreTeam) (taken, wins int, err error) {
	scratched := make(map[int]bool, len(side.Scratches))
	for _, id := range side.Scratches {
		scratched[id] = true
	}

	for _, id := range side.Skaters {
		if scratched[id] {
			continue
		}
		p, ok := side.Players[PlayerKey(id)]
		if !ok || p.Stats.SkaterStats == nil {
			return 0, 0, fmt.Errorf("%w: no skater stats for player %d", models.ErrUnexpectedShape, id)
		}
		taken += p.Stats.SkaterStats.FaceoffTaken
		wins += p.Stats.SkaterStats.FaceOffWins
	}
	return taken, wins, nil
}

// PlayerKey is the key of a player in a boxscore side's player map
func PlayerKey(playerIDAPI int) string {
	return fmt.Sprintf("ID%d", playerIDAPI)
}

func roundCount(v float64) int {
	return int(math.Round(v))
}
