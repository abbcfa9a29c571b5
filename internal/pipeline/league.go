package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

// LeagueCounts counts created and skipped rows of one entity
type LeagueCounts struct {
	Created int
	Skipped int
}

// LeagueResult is the outcome of the league bootstrap
type LeagueResult struct {
	Conferences LeagueCounts
	Divisions   LeagueCounts
	Teams       LeagueCounts
}

// LeagueInit stores the conferences, divisions and teams of the configured
// season. Rows already stored for the season are left alone. Teams whose
// conference or division is not stored are skipped.
func (r *Runner) LeagueInit(ctx context.Context) (*LeagueResult, error) {
	src := r.newSource()
	season := r.opts.Season
	res := &LeagueResult{}

	confs, err := src.Conferences(ctx)
	if err != nil {
		return res, err
	}
	for _, c := range confs {
		conf := builder.Conference(c, season)
		created, err := r.stores.League.CreateConference(ctx, &conf)
		if err != nil {
			return res, fmt.Errorf("failed to save conference %d: %w", c.ID, err)
		}
		res.Conferences.count(created)
	}

	divs, err := src.Divisions(ctx)
	if err != nil {
		return res, err
	}
	for _, d := range divs {
		var confID sql.NullInt32
		if d.Conference != nil {
			if confID, err = r.optionalLeagueID(ctx, r.stores.League.ConferenceIDByAPIID, d.Conference.ID); err != nil {
				return res, err
			}
		}
		div := builder.Division(d, season, confID)
		created, err := r.stores.League.CreateDivision(ctx, &div)
		if err != nil {
			return res, fmt.Errorf("failed to save division %d: %w", d.ID, err)
		}
		res.Divisions.count(created)
	}

	teams, err := src.Teams(ctx, season)
	if err != nil {
		return res, err
	}
	for _, t := range teams {
		if t.Conference == nil || t.Division == nil {
			log.Warn().Int("team_id", t.ID).Str("name", t.Name).Msg("Team has no conference or division, skipping")
			res.Teams.Skipped++
			continue
		}
		confID, err := r.optionalLeagueID(ctx, r.stores.League.ConferenceIDByAPIID, t.Conference.ID)
		if err != nil {
			return res, err
		}
		divID, err := r.optionalLeagueID(ctx, r.stores.League.DivisionIDByAPIID, t.Division.ID)
		if err != nil {
			return res, err
		}
		if !confID.Valid || !divID.Valid {
			log.Warn().
				Int("team_id", t.ID).
				Int("conference_id", t.Conference.ID).
				Int("division_id", t.Division.ID).
				Msg("Team conference or division not stored, skipping")
			res.Teams.Skipped++
			continue
		}

		team := builder.Team(t, season, confID, divID)
		created, err := r.stores.Teams.Create(ctx, &team)
		if err != nil {
			return res, fmt.Errorf("failed to save team %d: %w", t.ID, err)
		}
		res.Teams.count(created)
	}

	log.Info().
		Str("season", season).
		Int("conferences", res.Conferences.Created).
		Int("divisions", res.Divisions.Created).
		Int("teams", res.Teams.Created).
		Int("teams_skipped", res.Teams.Skipped).
		Msg("League initialized")

	return res, nil
}

func (c *LeagueCounts) count(created bool) {
	if created {
		c.Created++
	} else {
		c.Skipped++
	}
}

func (r *Runner) optionalLeagueID(ctx context.Context, lookup func(context.Context, string, int) (int, error), apiID int) (sql.NullInt32, error) {
	id, err := lookup(ctx, r.opts.Season, apiID)
	if errors.Is(err, repository.ErrNotFound) {
		return sql.NullInt32{}, nil
	}
	if err != nil {
		return sql.NullInt32{}, err
	}
	return sql.NullInt32{Int32: int32(id), Valid: true}, nil
}
