// Package builder turns upstream documents into database rows. Builders
// are pure: every id they need is resolved by the caller.
package builder

import (
	"database/sql"
	"fmt"

	"nhlstats/ingestion/internal/convert"
	"nhlstats/ingestion/internal/models"
)

// PositionGoalie is the primary position code of goalies
const PositionGoalie = "G"

// BoxscoreRef identifies the game, player and team a stat line belongs to
type BoxscoreRef struct {
	GameID   int
	GamePk   int
	PlayerID int
	TeamID   int
}

// GoalieDefaults are stored when a goalie's stat block omits the decision
// or the save percentage
type GoalieDefaults struct {
	Decision sql.NullString
	SavePct  sql.NullFloat64
}

// PlayerBoxscore holds exactly one of Skater or Goalie
type PlayerBoxscore struct {
	Skater *models.SkaterBoxscore
	Goalie *models.GoalieBoxscore
}

// IsGoalie reports whether a primary position code is a goalie
func IsGoalie(primaryPosition string) bool {
	return primaryPosition == PositionGoalie
}

// Boxscore builds the skater or goalie line of a player depending on their
// stored primary position
func Boxscore(ref BoxscoreRef, primaryPosition string, stats models.PlayerGameStats, defaults GoalieDefaults) (PlayerBoxscore, error) {
	if IsGoalie(primaryPosition) {
		if stats.GoalieStats == nil {
			return PlayerBoxscore{}, fmt.Errorf("%w: goalie %d has no goalieStats", models.ErrUnexpectedShape, ref.PlayerID)
		}
		g, err := Goalie(ref, *stats.GoalieStats, defaults)
		if err != nil {
			return PlayerBoxscore{}, err
		}
		return PlayerBoxscore{Goalie: &g}, nil
	}

	if stats.SkaterStats == nil {
		return PlayerBoxscore{}, fmt.Errorf("%w: skater %d has no skaterStats", models.ErrUnexpectedShape, ref.PlayerID)
	}
	s, err := Skater(ref, *stats.SkaterStats)
	if err != nil {
		return PlayerBoxscore{}, err
	}
	return PlayerBoxscore{Skater: &s}, nil
}

// Skater builds a skater line. A skater who scored is credited with at
// least one shot; upstream sometimes reports zero.
func Skater(ref BoxscoreRef, st models.SkaterStats) (models.SkaterBoxscore, error) {
	toi, err := clock("timeOnIce", st.TimeOnIce)
	if err != nil {
		return models.SkaterBoxscore{}, err
	}
	even, err := clock("evenTimeOnIce", st.EvenTimeOnIce)
	if err != nil {
		return models.SkaterBoxscore{}, err
	}
	pp, err := clock("powerPlayTimeOnIce", st.PowerPlayTimeOnIce)
	if err != nil {
		return models.SkaterBoxscore{}, err
	}
	sh, err := clock("shortHandedTimeOnIce", st.ShortHandedTimeOnIce)
	if err != nil {
		return models.SkaterBoxscore{}, err
	}

	shots := st.Shots
	if st.Goals > 0 && shots == 0 {
		shots = 1
	}

	return models.SkaterBoxscore{
		GameID:               ref.GameID,
		GamePk:               ref.GamePk,
		PlayerID:             ref.PlayerID,
		TeamID:               ref.TeamID,
		TimeOnIce:            toi,
		Assists:              st.Assists,
		Goals:                st.Goals,
		Points:               st.Assists + st.Goals,
		Shots:                shots,
		Hits:                 st.Hits,
		PowerPlayGoals:       st.PowerPlayGoals,
		PowerPlayAssists:     st.PowerPlayAssists,
		PenaltyMinutes:       st.PenaltyMinutes,
		FaceOffsTaken:        st.FaceoffTaken,
		FaceOffWins:          st.FaceOffWins,
		Takeaways:            st.Takeaways,
		Giveaways:            st.Giveaways,
		ShortHandedGoals:     st.ShortHandedGoals,
		ShortHandedAssists:   st.ShortHandedAssists,
		Blocked:              st.Blocked,
		PlusMinus:            st.PlusMinus,
		EvenTimeOnIce:        even,
		PowerPlayTimeOnIce:   pp,
		ShortHandedTimeOnIce: sh,
	}, nil
}

// Goalie builds a goalie line
func Goalie(ref BoxscoreRef, st models.GoalieStats, defaults GoalieDefaults) (models.GoalieBoxscore, error) {
	toi, err := clock("timeOnIce", st.TimeOnIce)
	if err != nil {
		return models.GoalieBoxscore{}, err
	}

	g := models.GoalieBoxscore{
		GameID:                  ref.GameID,
		GamePk:                  ref.GamePk,
		PlayerID:                ref.PlayerID,
		TeamID:                  ref.TeamID,
		TimeOnIce:               toi,
		Assists:                 st.Assists,
		Goals:                   st.Goals,
		PenaltyMinutes:          st.Pim,
		Saves:                   st.Saves,
		PowerPlaySaves:          st.PowerPlaySaves,
		ShortHandedSaves:        st.ShortHandedSaves,
		EvenSaves:               st.EvenSaves,
		ShortHandedShotsAgainst: st.ShortHandedShotsAgainst,
		PowerPlayShotsAgainst:   st.PowerPlayShotsAgainst,
		ShotsAgainst:            st.Shots,
		Decision:                defaults.Decision,
		SavePct:                 defaults.SavePct,
		EvenSavePct:             nullFloat(st.EvenStrengthSavePercentage),
		PowerPlaySavePct:        nullFloat(st.PowerPlaySavePercentage),
		ShortHandedSavePct:      nullFloat(st.ShortHandedSavePercentage),
	}

	if st.Decision != "" {
		g.Decision = sql.NullString{String: st.Decision, Valid: true}
	}
	if st.SavePercentage != nil {
		g.SavePct = sql.NullFloat64{Float64: *st.SavePercentage, Valid: true}
	}

	return g, nil
}

func clock(field, value string) (int, error) {
	sec, err := convert.ParseClock(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", models.ErrUnexpectedShape, field, err)
	}
	return sec, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
