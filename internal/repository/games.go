package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameSelect = `
	SELECT g.id, g.game_pk, g.season, g.game_type, g.status_code, g.api_date, g.game_date,
	       g.live_link, g.content_link, g.home_team_id, g.away_team_id, g.home_score, g.away_score,
	       g.boxscores_fetched, g.linescores_fetched, g.highlights_fetched,
	       g.highlight_meta_fetched, g.playbacks_fetched,
	       home.team_id_api, away.team_id_api, g.created_at, g.updated_at
	FROM games g
	JOIN teams home ON home.id = g.home_team_id
	JOIN teams away ON away.id = g.away_team_id
`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.GamePk, &game.Season, &game.GameType, &game.StatusCode, &game.APIDate, &game.GameDate,
		&game.LiveLink, &game.ContentLink, &game.HomeTeamID, &game.AwayTeamID, &game.HomeScore, &game.AwayScore,
		&game.BoxscoresFetched, &game.LinescoresFetched, &game.HighlightsFetched,
		&game.HighlightMetaFetched, &game.PlaybacksFetched,
		&game.HomeTeamIDAPI, &game.AwayTeamIDAPI, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Upsert inserts a game or, when the gamePk is already stored, updates its
// status, scores and dates. created reports whether a row was inserted.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) (created bool, err error) {
	query := `
		INSERT INTO games (
			game_pk, season, game_type, status_code, api_date, game_date,
			live_link, content_link, home_team_id, away_team_id, home_score, away_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (game_pk) DO UPDATE SET
			status_code = EXCLUDED.status_code,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			api_date = EXCLUDED.api_date,
			game_date = EXCLUDED.game_date,
			updated_at = NOW()
		RETURNING id, (xmax = 0), created_at, updated_at
	`

	err = r.db.Pool.QueryRow(
		ctx, query,
		game.GamePk, game.Season, game.GameType, game.StatusCode, game.APIDate, game.GameDate,
		game.LiveLink, game.ContentLink, game.HomeTeamID, game.AwayTeamID, game.HomeScore, game.AwayScore,
	).Scan(&game.ID, &created, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return false, fmt.Errorf("failed to upsert game %d: %w", game.GamePk, err)
	}

	log.Debug().
		Int("id", game.ID).
		Int("game_pk", game.GamePk).
		Int("status", game.StatusCode).
		Bool("created", created).
		Msg("Game upserted")

	return created, nil
}

// GetByGamePk retrieves a game by its API gamePk
func (r *GameRepository) GetByGamePk(ctx context.Context, gamePk int) (*models.Game, error) {
	game, err := scanGame(r.db.Pool.QueryRow(ctx, gameSelect+` WHERE g.game_pk = $1`, gamePk))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game %d: %w", gamePk, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GameFilter narrows a game selection. Zero fields do not filter.
type GameFilter struct {
	APIDate   *time.Time
	GamePk    int
	FinalOnly bool
	// Requires lists flags that must already be set
	Requires []models.Flag
	// Pending, when set, keeps only games where that flag is still false
	Pending models.Flag
}

// Select retrieves the games matching f, ordered by game date
func (r *GameRepository) Select(ctx context.Context, f GameFilter) ([]*models.Game, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.APIDate != nil {
		where = append(where, "g.api_date = "+arg(*f.APIDate))
	}
	if f.GamePk != 0 {
		where = append(where, "g.game_pk = "+arg(f.GamePk))
	}
	if f.FinalOnly {
		where = append(where, "g.status_code = "+arg(models.StatusFinal))
	}
	for _, flag := range f.Requires {
		if !flag.Valid() {
			return nil, fmt.Errorf("unknown stage flag %q", flag)
		}
		where = append(where, "g."+string(flag))
	}
	if f.Pending != "" {
		if !f.Pending.Valid() {
			return nil, fmt.Errorf("unknown stage flag %q", f.Pending)
		}
		where = append(where, "NOT g."+string(f.Pending))
	}

	query := gameSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY g.game_date, g.game_pk"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	log.Debug().Int("count", len(games)).Msg("Selected games")
	return games, nil
}

// DeleteByAPIDate deletes every game listed on date together with all rows
// that depend on it. It returns the number of games deleted.
func (r *GameRepository) DeleteByAPIDate(ctx context.Context, date time.Time) (int, error) {
	var deleted int
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var ids []int
		rows, err := tx.Query(ctx, `SELECT id FROM games WHERE api_date = $1`, date)
		if err != nil {
			return fmt.Errorf("failed to list games: %w", err)
		}
		ids, err = pgx.CollectRows(rows, pgx.RowTo[int])
		if err != nil {
			return fmt.Errorf("failed to list games: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		statements := []struct{ table, query string }{
			{"playbacks", `DELETE FROM playbacks WHERE highlight_id IN (SELECT id FROM highlights WHERE game_id = ANY($1))`},
			{"highlight_metas", `DELETE FROM highlight_metas WHERE game_id = ANY($1)`},
			{"highlights", `DELETE FROM highlights WHERE game_id = ANY($1)`},
			{"skater_boxscores", `DELETE FROM skater_boxscores WHERE game_id = ANY($1)`},
			{"goalie_boxscores", `DELETE FROM goalie_boxscores WHERE game_id = ANY($1)`},
			{"linescores", `DELETE FROM linescores WHERE game_id = ANY($1)`},
			{"games", `DELETE FROM games WHERE id = ANY($1)`},
		}
		for _, s := range statements {
			tag, err := tx.Exec(ctx, s.query, ids)
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", s.table, err)
			}
			log.Debug().Str("table", s.table).Int64("rows", tag.RowsAffected()).Msg("Deleted rows")
		}

		deleted = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
