package repository

import (
	"context"
	"errors"
	"fmt"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Create inserts a team unless one with the same season and API id
// exists. created is false when the row was already there.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) (created bool, err error) {
	query := `
		INSERT INTO teams (
			season, team_id_api, conference_id, division_id, name, team_name,
			short_name, abbreviation, location_name, link, site_link,
			first_year_of_play, official_site_url, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (season, team_id_api) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err = r.db.Pool.QueryRow(
		ctx, query,
		team.Season, team.TeamIDAPI, team.ConferenceID, team.DivisionID, team.Name, team.TeamName,
		team.ShortName, team.Abbreviation, team.LocationName, team.Link, team.SiteLink,
		team.FirstYearOfPlay, team.OfficialSiteURL, team.Active,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Int("team_id_api", team.TeamIDAPI).
		Str("abbreviation", team.Abbreviation).
		Str("season", team.Season).
		Msg("Team created")

	return true, nil
}

// IDByAPIID returns the internal id of a season's team
func (r *TeamRepository) IDByAPIID(ctx context.Context, season string, apiID int) (int, error) {
	var id int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id FROM teams WHERE season = $1 AND team_id_api = $2`,
		season, apiID,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("team %d in season %s: %w", apiID, season, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get team: %w", err)
	}

	return id, nil
}

// ListBySeason retrieves all teams of a season
func (r *TeamRepository) ListBySeason(ctx context.Context, season string) ([]*models.Team, error) {
	query := `
		SELECT id, season, team_id_api, conference_id, division_id, name, team_name,
		       short_name, abbreviation, location_name, link, site_link,
		       first_year_of_play, official_site_url, active, created_at, updated_at
		FROM teams
		WHERE season = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.Season, &team.TeamIDAPI, &team.ConferenceID, &team.DivisionID, &team.Name, &team.TeamName,
			&team.ShortName, &team.Abbreviation, &team.LocationName, &team.Link, &team.SiteLink,
			&team.FirstYearOfPlay, &team.OfficialSiteURL, &team.Active, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}
