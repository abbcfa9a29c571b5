package builder

import (
	"database/sql"
	"testing"
	"time"

	"nhlstats/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame(t *testing.T) {
	sg := models.ScheduleGame{
		GamePk:   2020020001,
		Link:     "/api/v1/game/2020020001/feed/live",
		GameType: "R",
		Season:   "20202021",
		GameDate: "2021-01-14T00:00:00Z",
		Status:   models.GameStatus{StatusCode: "7"},
		Teams: models.ScheduleTeams{
			Away: models.ScheduleSide{Score: 3, Team: models.TeamRef{ID: 5}},
			Home: models.ScheduleSide{Score: 6, Team: models.TeamRef{ID: 4}},
		},
		Content: models.LinkRef{Link: "/api/v1/game/2020020001/content"},
	}
	apiDate := time.Date(2021, 1, 13, 0, 0, 0, 0, time.UTC)

	g, err := Game(sg, 40, 50, apiDate)
	require.NoError(t, err)

	assert.Equal(t, 7, g.StatusCode)
	assert.True(t, g.IsFinal())
	assert.Equal(t, apiDate, g.APIDate)
	assert.Equal(t, time.Date(2021, 1, 14, 0, 0, 0, 0, time.UTC), g.GameDate)
	assert.Equal(t, 6, g.HomeScore)
	assert.Equal(t, 3, g.AwayScore)
	assert.Equal(t, 40, g.HomeTeamID)
	assert.Equal(t, 4, g.HomeTeamIDAPI)
	assert.Equal(t, "/api/v1/game/2020020001/content", g.ContentLink)

	sg.Status.StatusCode = "x"
	_, err = Game(sg, 40, 50, apiDate)
	assert.ErrorIs(t, err, models.ErrUnexpectedShape)
}

func TestPlayer(t *testing.T) {
	p := models.Person{
		ID:              8480002,
		FullName:        "Nico Hischier",
		FirstName:       "Nico",
		LastName:        "Hischier",
		PrimaryNumber:   "13",
		BirthDate:       "1999-01-04",
		BirthCountry:    "CHE",
		Height:          `6' 1"`,
		Weight:          179,
		Captain:         true,
		Active:          true,
		ShootsCatches:   "L",
		PrimaryPosition: models.Position{Code: "C"},
	}
	start := time.Date(2021, 1, 13, 0, 0, 0, 0, time.UTC)

	player, err := Player(p, 1, start)
	require.NoError(t, err)

	assert.Equal(t, "nico-hischier", player.SiteLink)
	assert.Equal(t, sql.NullInt32{Int32: 13, Valid: true}, player.PrimaryNumber)
	assert.Equal(t, sql.NullInt32{Int32: 185, Valid: true}, player.HeightCm)
	assert.Equal(t, sql.NullInt32{Int32: 81, Valid: true}, player.WeightKg)
	assert.Equal(t, "C", player.PrimaryPosition)
	assert.False(t, player.BirthCity.Valid)
	require.Len(t, player.Teams, 1)
	assert.Equal(t, 1, player.Teams[0].TeamID)
	assert.Equal(t, start, player.Teams[0].StartDate)
	assert.True(t, player.Teams[0].IsOpen())

	p.PrimaryPosition.Code = "N/A"
	p.PrimaryNumber = ""
	player, err = Player(p, 1, start)
	require.NoError(t, err)
	assert.Equal(t, "NA", player.PrimaryPosition)
	assert.False(t, player.PrimaryNumber.Valid)

	p.Height = "tall"
	_, err = Player(p, 1, start)
	assert.ErrorIs(t, err, models.ErrUnexpectedShape)
}

func TestLeagueEntities(t *testing.T) {
	c := Conference(models.ConferenceInput{ID: 6, Name: "Eastern", Abbreviation: "E", ShortName: "East", Active: true}, "20202021")
	assert.Equal(t, 6, c.ConferenceIDAPI)
	assert.Equal(t, "20202021", c.Season)
	assert.False(t, c.Link.Valid)

	confID := sql.NullInt32{Int32: 1, Valid: true}
	d := Division(models.DivisionInput{ID: 25, Name: "MassMutual East", NameShort: "East"}, "20202021", confID)
	assert.Equal(t, 25, d.DivisionIDAPI)
	assert.Equal(t, confID, d.ConferenceID)
	assert.Equal(t, sql.NullString{String: "East", Valid: true}, d.ShortName)

	team := Team(models.TeamInput{
		ID: 8, Name: "Montréal Canadiens", Abbreviation: "MTL", TeamName: "Canadiens",
		LocationName: "Montréal", FirstYearOfPlay: "1909", Active: true,
	}, "20202021", confID, sql.NullInt32{Int32: 3, Valid: true})
	assert.Equal(t, "montreal-canadiens", team.SiteLink)
	assert.Equal(t, sql.NullInt32{Int32: 1909, Valid: true}, team.FirstYearOfPlay)
	assert.Equal(t, int32(3), team.DivisionID.Int32)
}
