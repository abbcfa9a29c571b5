package repository

import (
	"context"
	"errors"
	"fmt"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PlayerRepository handles players and their team history
type PlayerRepository struct {
	db *Database
}

// Create inserts a player with the edges of p.Teams. A player that is
// already stored is left untouched and created is false.
func (r *PlayerRepository) Create(ctx context.Context, p *models.Player) (created bool, err error) {
	query := `
		INSERT INTO players (
			player_id_api, first_name, last_name, full_name, primary_number, link, site_link,
			birth_date, birth_city, birth_state_province, birth_country, nationality,
			height_cm, weight_kg, alternate_captain, captain, rookie,
			shoots_catches, roster_status, primary_position, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (player_id_api) DO NOTHING
		RETURNING id, created_at
	`

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			p.PlayerIDAPI, p.FirstName, p.LastName, p.FullName, p.PrimaryNumber, p.Link, p.SiteLink,
			p.BirthDate, p.BirthCity, p.BirthStateProvince, p.BirthCountry, p.Nationality,
			p.HeightCm, p.WeightKg, p.AlternateCaptain, p.Captain, p.Rookie,
			p.ShootsCatches, p.RosterStatus, p.PrimaryPosition, p.Active,
		).Scan(&p.ID, &p.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create player %d: %w", p.PlayerIDAPI, err)
		}
		created = true

		for i := range p.Teams {
			edge := &p.Teams[i]
			edge.PlayerID = p.ID
			err := tx.QueryRow(ctx,
				`INSERT INTO player_teams (player_id, team_id, start_date, end_date) VALUES ($1, $2, $3, $4) RETURNING id`,
				edge.PlayerID, edge.TeamID, edge.StartDate, edge.EndDate,
			).Scan(&edge.ID)
			if err != nil {
				return fmt.Errorf("failed to create team edge of player %d: %w", p.PlayerIDAPI, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		log.Debug().
			Int("id", p.ID).
			Int("player_id_api", p.PlayerIDAPI).
			Str("name", p.FullName).
			Msg("Player created")
	}

	return created, nil
}

// IDByAPIID returns the internal id of a player
func (r *PlayerRepository) IDByAPIID(ctx context.Context, apiID int) (int, error) {
	var id int
	err := r.db.Pool.QueryRow(ctx, `SELECT id FROM players WHERE player_id_api = $1`, apiID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("player %d: %w", apiID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get player: %w", err)
	}
	return id, nil
}

// ByAPIIDs retrieves the stored players among apiIDs with their full team
// history. Unknown ids are not an error.
func (r *PlayerRepository) ByAPIIDs(ctx context.Context, apiIDs []int) ([]models.Player, error) {
	if len(apiIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, player_id_api, first_name, last_name, full_name, primary_number, link, site_link,
		       birth_date, birth_city, birth_state_province, birth_country, nationality,
		       height_cm, weight_kg, alternate_captain, captain, rookie,
		       shoots_catches, roster_status, primary_position, active, created_at
		FROM players
		WHERE player_id_api = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, apiIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	var (
		players []models.Player
		ids     []int
	)
	for rows.Next() {
		var p models.Player
		err := rows.Scan(
			&p.ID, &p.PlayerIDAPI, &p.FirstName, &p.LastName, &p.FullName, &p.PrimaryNumber, &p.Link, &p.SiteLink,
			&p.BirthDate, &p.BirthCity, &p.BirthStateProvince, &p.BirthCountry, &p.Nationality,
			&p.HeightCm, &p.WeightKg, &p.AlternateCaptain, &p.Captain, &p.Rookie,
			&p.ShootsCatches, &p.RosterStatus, &p.PrimaryPosition, &p.Active, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	if len(players) == 0 {
		return nil, nil
	}

	edges, err := r.teamEdges(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range players {
		players[i].Teams = edges[players[i].ID]
	}

	return players, nil
}

func (r *PlayerRepository) teamEdges(ctx context.Context, playerIDs []int) (map[int][]models.PlayerTeam, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, player_id, team_id, start_date, end_date
		FROM player_teams
		WHERE player_id = ANY($1)
		ORDER BY player_id, start_date, id
	`, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get team history: %w", err)
	}
	defer rows.Close()

	edges := make(map[int][]models.PlayerTeam)
	for rows.Next() {
		var e models.PlayerTeam
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.TeamID, &e.StartDate, &e.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan team edge: %w", err)
		}
		edges[e.PlayerID] = append(edges[e.PlayerID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team history: %w", err)
	}

	return edges, nil
}

// applyTeamMoves closes and opens team edges inside tx. A close that
// matches no open edge means the history changed underneath the caller.
func applyTeamMoves(ctx context.Context, tx pgx.Tx, moves []models.TeamMove) error {
	for _, m := range moves {
		if m.CloseEdgeID != 0 {
			tag, err := tx.Exec(ctx,
				`UPDATE player_teams SET end_date = $2 WHERE id = $1 AND end_date IS NULL`,
				m.CloseEdgeID, m.Date,
			)
			if err != nil {
				return fmt.Errorf("failed to close team edge %d: %w", m.CloseEdgeID, err)
			}
			if tag.RowsAffected() != 1 {
				return fmt.Errorf("team edge %d of player %d is not open", m.CloseEdgeID, m.PlayerID)
			}
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO player_teams (player_id, team_id, start_date) VALUES ($1, $2, $3)`,
			m.PlayerID, m.ToTeamID, m.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to open team edge of player %d: %w", m.PlayerID, err)
		}

		log.Debug().
			Int("player_id", m.PlayerID).
			Int("from_team_id", m.FromTeamID).
			Int("to_team_id", m.ToTeamID).
			Msg("Player moved")
	}
	return nil
}
