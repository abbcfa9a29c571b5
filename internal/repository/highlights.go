package repository

import (
	"context"
	"errors"
	"fmt"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// HighlightRepository stores game videos and goal metadata
type HighlightRepository struct {
	db *Database
}

// Save replaces the highlights of a game. The game's playbacks go with
// them, goal metadata loses its video link, and the dependent stages are
// marked pending again.
func (r *HighlightRepository) Save(ctx context.Context, gameID int, highlights []models.Highlight) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`DELETE FROM playbacks WHERE highlight_id IN (SELECT id FROM highlights WHERE game_id = $1)`,
			gameID,
		)
		if err != nil {
			return fmt.Errorf("failed to clear playbacks: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE highlight_metas SET highlight_id = NULL, has_video = false WHERE game_id = $1`,
			gameID,
		)
		if err != nil {
			return fmt.Errorf("failed to detach highlight metas: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM highlights WHERE game_id = $1`, gameID); err != nil {
			return fmt.Errorf("failed to clear highlights: %w", err)
		}

		for i := range highlights {
			h := &highlights[i]
			err := tx.QueryRow(ctx, `
				INSERT INTO highlights (
					game_id, game_pk, type, video_id_api, title, blurb, description, duration,
					media_playback_id_api, event_id_api, team_id, opponent_id
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				RETURNING id, created_at`,
				gameID, h.GamePk, string(h.Type), h.VideoIDAPI, h.Title, h.Blurb, h.Description, h.Duration,
				h.MediaPlaybackIDAPI, h.EventIDAPI, h.TeamID, h.OpponentID,
			).Scan(&h.ID, &h.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert highlight %d: %w", h.VideoIDAPI, err)
			}
			h.GameID = gameID
		}

		if err := setFlag(ctx, tx, gameID, models.FlagHighlightMeta, false); err != nil {
			return err
		}
		if err := setFlag(ctx, tx, gameID, models.FlagPlaybacks, false); err != nil {
			return err
		}
		return setFlag(ctx, tx, gameID, models.FlagHighlights, true)
	})
	if err != nil {
		return err
	}

	log.Debug().Int("game_id", gameID).Int("count", len(highlights)).Msg("Highlights saved")
	return nil
}

// ByGame retrieves the stored highlights of a game
func (r *HighlightRepository) ByGame(ctx context.Context, gameID int) ([]models.Highlight, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, game_id, game_pk, type, video_id_api, title, blurb, description, duration,
		       media_playback_id_api, event_id_api, team_id, opponent_id, created_at
		FROM highlights
		WHERE game_id = $1
		ORDER BY id
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get highlights: %w", err)
	}
	defer rows.Close()

	var highlights []models.Highlight
	for rows.Next() {
		var (
			h   models.Highlight
			typ string
		)
		err := rows.Scan(
			&h.ID, &h.GameID, &h.GamePk, &typ, &h.VideoIDAPI, &h.Title, &h.Blurb, &h.Description, &h.Duration,
			&h.MediaPlaybackIDAPI, &h.EventIDAPI, &h.TeamID, &h.OpponentID, &h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan highlight: %w", err)
		}
		h.Type = models.HighlightType(typ)
		highlights = append(highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating highlights: %w", err)
	}

	return highlights, nil
}

// IDByEvent returns the milestone highlight of a play event
func (r *HighlightRepository) IDByEvent(ctx context.Context, gameID, eventID int) (int, error) {
	var id int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id FROM highlights WHERE game_id = $1 AND event_id_api = $2 ORDER BY id LIMIT 1`,
		gameID, eventID,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("highlight of event %d: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get highlight: %w", err)
	}
	return id, nil
}

// SaveMetas replaces the goal metadata of a game and sets its flag
func (r *HighlightRepository) SaveMetas(ctx context.Context, gameID int, metas []models.HighlightMeta) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM highlight_metas WHERE game_id = $1`, gameID); err != nil {
			return fmt.Errorf("failed to clear highlight metas: %w", err)
		}

		batch := &pgx.Batch{}
		for _, m := range metas {
			batch.Queue(`
				INSERT INTO highlight_metas (
					game_id, game_pk, event_idx_api, event_id_api, team_id,
					scorer_id, assist1_id, assist2_id, goalie_id, highlight_id,
					game_winning_goal, empty_net, type, shot_type, period_type,
					period_number, period_time, date_time, coord_x, coord_y, has_video
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
				gameID, m.GamePk, m.EventIdxAPI, m.EventIDAPI, m.TeamID,
				m.ScorerID, m.Assist1ID, m.Assist2ID, m.GoalieID, m.HighlightID,
				m.GameWinningGoal, m.EmptyNet, m.Type, m.ShotType, m.PeriodType,
				m.PeriodNumber, m.PeriodTime, m.DateTime, m.CoordX, m.CoordY, m.HasVideo,
			)
		}
		if err := sendBatch(ctx, tx, batch, "highlight metas"); err != nil {
			return err
		}

		return setFlag(ctx, tx, gameID, models.FlagHighlightMeta, true)
	})
}
