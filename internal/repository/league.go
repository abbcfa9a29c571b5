package repository

import (
	"context"
	"errors"
	"fmt"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// LeagueRepository handles conferences and divisions
type LeagueRepository struct {
	db *Database
}

// CreateConference inserts a conference unless the season already has it
func (r *LeagueRepository) CreateConference(ctx context.Context, c *models.Conference) (created bool, err error) {
	query := `
		INSERT INTO conferences (season, conference_id_api, name, link, abbreviation, short_name, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (season, conference_id_api) DO NOTHING
		RETURNING id, created_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		c.Season, c.ConferenceIDAPI, c.Name, c.Link, c.Abbreviation, c.ShortName, c.Active,
	).Scan(&c.ID, &c.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create conference: %w", err)
	}

	log.Debug().Int("id", c.ID).Str("name", c.Name).Msg("Conference created")
	return true, nil
}

// ConferenceIDByAPIID returns the internal id of a season's conference
func (r *LeagueRepository) ConferenceIDByAPIID(ctx context.Context, season string, apiID int) (int, error) {
	var id int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id FROM conferences WHERE season = $1 AND conference_id_api = $2`,
		season, apiID,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("conference %d in season %s: %w", apiID, season, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get conference: %w", err)
	}
	return id, nil
}

// CreateDivision inserts a division unless the season already has it
func (r *LeagueRepository) CreateDivision(ctx context.Context, d *models.Division) (created bool, err error) {
	query := `
		INSERT INTO divisions (season, division_id_api, conference_id, name, link, abbreviation, short_name, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (season, division_id_api) DO NOTHING
		RETURNING id, created_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		d.Season, d.DivisionIDAPI, d.ConferenceID, d.Name, d.Link, d.Abbreviation, d.ShortName, d.Active,
	).Scan(&d.ID, &d.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create division: %w", err)
	}

	log.Debug().Int("id", d.ID).Str("name", d.Name).Msg("Division created")
	return true, nil
}

// DivisionIDByAPIID returns the internal id of a season's division
func (r *LeagueRepository) DivisionIDByAPIID(ctx context.Context, season string, apiID int) (int, error) {
	var id int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id FROM divisions WHERE season = $1 AND division_id_api = $2`,
		season, apiID,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("division %d in season %s: %w", apiID, season, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get division: %w", err)
	}
	return id, nil
}
