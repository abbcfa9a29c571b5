package builder

import (
	"database/sql"
	"testing"

	"nhlstats/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRef = BoxscoreRef{GameID: 1, GamePk: 2020020001, PlayerID: 10, TeamID: 4}

func TestSkater(t *testing.T) {
	st := models.SkaterStats{
		TimeOnIce:            "18:25",
		Assists:              1,
		Goals:                1,
		Shots:                4,
		FaceoffTaken:         12,
		FaceOffWins:          7,
		PenaltyMinutes:       2,
		PlusMinus:            -1,
		EvenTimeOnIce:        "15:01",
		PowerPlayTimeOnIce:   "3:00",
		ShortHandedTimeOnIce: "0:24",
	}

	s, err := Skater(testRef, st)
	require.NoError(t, err)

	assert.Equal(t, 1105, s.TimeOnIce)
	assert.Equal(t, 2, s.Points)
	assert.Equal(t, 4, s.Shots)
	assert.Equal(t, 12, s.FaceOffsTaken)
	assert.Equal(t, 7, s.FaceOffWins)
	assert.Equal(t, -1, s.PlusMinus)
	assert.Equal(t, 901, s.EvenTimeOnIce)
	assert.Equal(t, 180, s.PowerPlayTimeOnIce)
	assert.Equal(t, 24, s.ShortHandedTimeOnIce)
	assert.Equal(t, testRef.PlayerID, s.PlayerID)
}

func TestSkater_ShotCorrection(t *testing.T) {
	tests := []struct {
		name  string
		goals int
		shots int
		want  int
	}{
		{"goal without shot", 1, 0, 1},
		{"two goals without shot", 2, 0, 1},
		{"no goal no shot", 0, 0, 0},
		{"goal with shots", 1, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Skater(testRef, models.SkaterStats{TimeOnIce: "10:00", Goals: tt.goals, Shots: tt.shots})
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Shots)
			if tt.goals > 0 {
				assert.GreaterOrEqual(t, s.Shots, 1)
			}
		})
	}
}

func TestSkater_BadClock(t *testing.T) {
	_, err := Skater(testRef, models.SkaterStats{TimeOnIce: "abc"})
	assert.ErrorIs(t, err, models.ErrUnexpectedShape)
}

func TestGoalie(t *testing.T) {
	pct := 92.5
	st := models.GoalieStats{
		TimeOnIce:      "60:00",
		Shots:          40,
		Saves:          37,
		Pim:            2,
		Decision:       "W",
		SavePercentage: &pct,
	}

	g, err := Goalie(testRef, st, GoalieDefaults{})
	require.NoError(t, err)

	assert.Equal(t, 3600, g.TimeOnIce)
	assert.Equal(t, 40, g.ShotsAgainst)
	assert.Equal(t, 2, g.PenaltyMinutes)
	assert.Equal(t, sql.NullString{String: "W", Valid: true}, g.Decision)
	assert.Equal(t, sql.NullFloat64{Float64: 92.5, Valid: true}, g.SavePct)
	assert.False(t, g.EvenSavePct.Valid)
}

func TestGoalie_Defaults(t *testing.T) {
	defaults := GoalieDefaults{SavePct: sql.NullFloat64{Float64: 0, Valid: true}}

	g, err := Goalie(testRef, models.GoalieStats{TimeOnIce: "0:45"}, defaults)
	require.NoError(t, err)
	assert.Equal(t, sql.NullFloat64{Float64: 0, Valid: true}, g.SavePct)
	assert.False(t, g.Decision.Valid)

	g, err = Goalie(testRef, models.GoalieStats{TimeOnIce: "0:45"}, GoalieDefaults{})
	require.NoError(t, err)
	assert.False(t, g.SavePct.Valid)
}

func TestBoxscore_PicksByPosition(t *testing.T) {
	stats := models.PlayerGameStats{
		SkaterStats: &models.SkaterStats{TimeOnIce: "12:00"},
		GoalieStats: &models.GoalieStats{TimeOnIce: "60:00"},
	}

	b, err := Boxscore(testRef, "G", stats, GoalieDefaults{})
	require.NoError(t, err)
	require.NotNil(t, b.Goalie)
	assert.Nil(t, b.Skater)

	b, err = Boxscore(testRef, "C", stats, GoalieDefaults{})
	require.NoError(t, err)
	require.NotNil(t, b.Skater)
	assert.Nil(t, b.Goalie)

	_, err = Boxscore(testRef, "G", models.PlayerGameStats{SkaterStats: stats.SkaterStats}, GoalieDefaults{})
	assert.ErrorIs(t, err, models.ErrUnexpectedShape)
}
