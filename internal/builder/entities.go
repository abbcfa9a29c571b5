package builder

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nhlstats/ingestion/internal/convert"
	"nhlstats/ingestion/internal/models"
)

// Game builds a game row from a schedule entry. apiDate is the schedule
// date the game was listed under.
func Game(sg models.ScheduleGame, homeTeamID, awayTeamID int, apiDate time.Time) (models.Game, error) {
	status, err := strconv.Atoi(sg.Status.StatusCode)
	if err != nil {
		return models.Game{}, fmt.Errorf("%w: game %d status code %q", models.ErrUnexpectedShape, sg.GamePk, sg.Status.StatusCode)
	}
	gameDate, err := time.Parse(time.RFC3339, sg.GameDate)
	if err != nil {
		return models.Game{}, fmt.Errorf("%w: game %d date %q", models.ErrUnexpectedShape, sg.GamePk, sg.GameDate)
	}

	return models.Game{
		GamePk:        sg.GamePk,
		Season:        sg.Season,
		GameType:      sg.GameType,
		StatusCode:    status,
		APIDate:       apiDate,
		GameDate:      gameDate.UTC(),
		LiveLink:      sg.Link,
		ContentLink:   sg.Content.Link,
		HomeTeamID:    homeTeamID,
		AwayTeamID:    awayTeamID,
		HomeScore:     sg.Teams.Home.Score,
		AwayScore:     sg.Teams.Away.Score,
		HomeTeamIDAPI: sg.Teams.Home.Team.ID,
		AwayTeamIDAPI: sg.Teams.Away.Team.ID,
	}, nil
}

// Player builds a player row with an open edge to teamID starting on
// startDate
func Player(p models.Person, teamID int, startDate time.Time) (models.Player, error) {
	player := models.Player{
		PlayerIDAPI:        p.ID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		FullName:           p.FullName,
		Link:               p.Link,
		SiteLink:           convert.SiteLink(p.FullName),
		BirthCity:          nullString(p.BirthCity),
		BirthStateProvince: nullString(p.BirthStateProvince),
		BirthCountry:       nullString(p.BirthCountry),
		Nationality:        nullString(p.Nationality),
		AlternateCaptain:   p.AlternateCaptain,
		Captain:            p.Captain,
		Rookie:             p.Rookie,
		ShootsCatches:      nullString(p.ShootsCatches),
		RosterStatus:       nullString(p.RosterStatus),
		PrimaryPosition:    position(p.PrimaryPosition.Code),
		Active:             p.Active,
		Teams: []models.PlayerTeam{
			{TeamID: teamID, StartDate: startDate},
		},
	}

	if n, err := strconv.Atoi(strings.TrimSpace(p.PrimaryNumber)); err == nil {
		player.PrimaryNumber = sql.NullInt32{Int32: int32(n), Valid: true}
	}
	if p.BirthDate != "" {
		bd, err := time.Parse(time.DateOnly, p.BirthDate)
		if err != nil {
			return models.Player{}, fmt.Errorf("%w: player %d birth date %q", models.ErrUnexpectedShape, p.ID, p.BirthDate)
		}
		player.BirthDate = sql.NullTime{Time: bd, Valid: true}
	}
	if p.Height != "" {
		cm, err := convert.HeightToCm(p.Height)
		if err != nil {
			return models.Player{}, fmt.Errorf("%w: player %d: %v", models.ErrUnexpectedShape, p.ID, err)
		}
		player.HeightCm = sql.NullInt32{Int32: int32(cm), Valid: true}
	}
	if p.Weight > 0 {
		player.WeightKg = sql.NullInt32{Int32: int32(convert.PoundsToKg(p.Weight)), Valid: true}
	}

	return player, nil
}

// Conference builds a conference row for a season
func Conference(c models.ConferenceInput, season string) models.Conference {
	return models.Conference{
		Season:          season,
		ConferenceIDAPI: c.ID,
		Name:            c.Name,
		Link:            nullString(c.Link),
		Abbreviation:    nullString(c.Abbreviation),
		ShortName:       nullString(c.ShortName),
		Active:          c.Active,
	}
}

// Division builds a division row for a season
func Division(d models.DivisionInput, season string, conferenceID sql.NullInt32) models.Division {
	return models.Division{
		Season:        season,
		DivisionIDAPI: d.ID,
		ConferenceID:  conferenceID,
		Name:          d.Name,
		Link:          nullString(d.Link),
		Abbreviation:  nullString(d.Abbreviation),
		ShortName:     nullString(d.NameShort),
		Active:        d.Active,
	}
}

// Team builds a team row for a season
func Team(t models.TeamInput, season string, conferenceID, divisionID sql.NullInt32) models.Team {
	team := models.Team{
		Season:          season,
		TeamIDAPI:       t.ID,
		ConferenceID:    conferenceID,
		DivisionID:      divisionID,
		Name:            t.Name,
		TeamName:        t.TeamName,
		ShortName:       t.ShortName,
		Abbreviation:    t.Abbreviation,
		LocationName:    t.LocationName,
		Link:            t.Link,
		SiteLink:        convert.SiteLink(t.Name),
		OfficialSiteURL: nullString(t.OfficialSiteURL),
		Active:          t.Active,
	}
	if y, err := strconv.Atoi(t.FirstYearOfPlay); err == nil {
		team.FirstYearOfPlay = sql.NullInt32{Int32: int32(y), Valid: true}
	}
	return team
}

func position(code string) string {
	if code == "N/A" || code == "" {
		return "NA"
	}
	return code
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
