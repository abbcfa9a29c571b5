package repository

import (
	"context"
	"fmt"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
)

// LinescoreRepository stores per-team game lines
type LinescoreRepository struct {
	db *Database
}

// Save replaces both lines of a game and sets its linescores flag
func (r *LinescoreRepository) Save(ctx context.Context, gameID int, lines []models.Linescore) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM linescores WHERE game_id = $1`, gameID); err != nil {
			return fmt.Errorf("failed to clear linescores: %w", err)
		}

		batch := &pgx.Batch{}
		for _, l := range lines {
			batch.Queue(`
				INSERT INTO linescores (
					game_id, game_pk, team_id, opponent_id, is_home_game, points,
					win, ot_win, shoot_out_win, loss, ot, goals_for, goals_against,
					penalty_minutes, shots_for, shots_against,
					power_play_goals, power_play_goals_allowed,
					power_play_opportunities, power_play_opportunities_allowed,
					face_offs_taken, face_off_wins, blocked, takeaways, giveaways,
					hits_for, hits_against
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
				gameID, l.GamePk, l.TeamID, l.OpponentID, l.IsHomeGame, l.Points,
				l.Win, l.OTWin, l.ShootOutWin, l.Loss, l.OT, l.GoalsFor, l.GoalsAgainst,
				l.PenaltyMinutes, l.ShotsFor, l.ShotsAgainst,
				l.PowerPlayGoals, l.PowerPlayGoalsAllowed,
				l.PowerPlayOpportunities, l.PowerPlayOpportunitiesAllowed,
				l.FaceOffsTaken, l.FaceOffWins, l.Blocked, l.Takeaways, l.Giveaways,
				l.HitsFor, l.HitsAgainst,
			)
		}
		if err := sendBatch(ctx, tx, batch, "linescores"); err != nil {
			return err
		}

		return setFlag(ctx, tx, gameID, models.FlagLinescores, true)
	})
}
