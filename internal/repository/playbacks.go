package repository

import (
	"context"
	"fmt"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
)

// PlaybackRepository stores highlight renditions
type PlaybackRepository struct {
	db *Database
}

// Save replaces the playbacks of a game's highlights and sets its flag.
// Playback types are shared across games and created by name on first use.
func (r *PlaybackRepository) Save(ctx context.Context, gameID int, playbacks []models.Playback) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`DELETE FROM playbacks WHERE highlight_id IN (SELECT id FROM highlights WHERE game_id = $1)`,
			gameID,
		)
		if err != nil {
			return fmt.Errorf("failed to clear playbacks: %w", err)
		}

		types := make(map[string]int)
		for i := range playbacks {
			p := &playbacks[i]

			typeID, ok := types[p.Type.Name]
			if !ok {
				typeID, err = playbackType(ctx, tx, p.Type)
				if err != nil {
					return err
				}
				types[p.Type.Name] = typeID
			}
			p.PlaybackTypeID = typeID
			p.Type.ID = typeID

			err := tx.QueryRow(ctx,
				`INSERT INTO playbacks (highlight_id, playback_type_id, url) VALUES ($1, $2, $3) RETURNING id`,
				p.HighlightID, p.PlaybackTypeID, p.URL,
			).Scan(&p.ID)
			if err != nil {
				return fmt.Errorf("failed to insert playback of highlight %d: %w", p.HighlightID, err)
			}
		}

		return setFlag(ctx, tx, gameID, models.FlagPlaybacks, true)
	})
}

func playbackType(ctx context.Context, tx pgx.Tx, t models.PlaybackType) (int, error) {
	var id int
	err := tx.QueryRow(ctx, `
		INSERT INTO playback_types (name, width, height) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		t.Name, t.Width, t.Height,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve playback type %q: %w", t.Name, err)
	}
	return id, nil
}
