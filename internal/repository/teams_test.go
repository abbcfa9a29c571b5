package repository

import (
	"database/sql"
	"testing"

	"nhlstats/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeague_CreateSkipsExisting(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	conf := &models.Conference{Season: testSeason, ConferenceIDAPI: 6, Name: "Eastern", Active: true}
	created, err := db.League.CreateConference(ctx, conf)
	require.NoError(t, err)
	assert.True(t, created)

	again := &models.Conference{Season: testSeason, ConferenceIDAPI: 6, Name: "Eastern"}
	created, err = db.League.CreateConference(ctx, again)
	require.NoError(t, err)
	assert.False(t, created, "Existing conference is skipped")

	confID, err := db.League.ConferenceIDByAPIID(ctx, testSeason, 6)
	require.NoError(t, err)
	assert.Equal(t, conf.ID, confID)

	div := &models.Division{
		Season: testSeason, DivisionIDAPI: 25, Name: "MassMutual East",
		ConferenceID: sql.NullInt32{Int32: int32(confID), Valid: true},
	}
	created, err = db.League.CreateDivision(ctx, div)
	require.NoError(t, err)
	assert.True(t, created)

	divID, err := db.League.DivisionIDByAPIID(ctx, testSeason, 25)
	require.NoError(t, err)
	assert.Equal(t, div.ID, divID)

	_, err = db.League.DivisionIDByAPIID(ctx, "20212022", 25)
	assert.ErrorIs(t, err, ErrNotFound, "Divisions are per season")
}

func TestTeamRepository_Create(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		Season:          testSeason,
		TeamIDAPI:       8,
		Name:            "Montréal Canadiens",
		Abbreviation:    "MTL",
		SiteLink:        "montreal-canadiens",
		FirstYearOfPlay: sql.NullInt32{Int32: 1909, Valid: true},
		Active:          true,
	}

	created, err := db.Teams.Create(ctx, team)
	require.NoError(t, err, "Should insert team")
	assert.True(t, created)

	created, err = db.Teams.Create(ctx, &models.Team{Season: testSeason, TeamIDAPI: 8, Name: "dup", Abbreviation: "DUP", SiteLink: "dup"})
	require.NoError(t, err)
	assert.False(t, created)

	id, err := db.Teams.IDByAPIID(ctx, testSeason, 8)
	require.NoError(t, err)
	assert.Equal(t, team.ID, id)

	_, err = db.Teams.IDByAPIID(ctx, testSeason, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	teams, err := db.Teams.ListBySeason(ctx, testSeason)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Montréal Canadiens", teams[0].Name, "Original row is kept")
}
