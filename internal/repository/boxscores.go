package repository

import (
	"context"
	"fmt"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// BoxscoreRepository stores skater and goalie stat lines
type BoxscoreRepository struct {
	db *Database
}

// Save replaces the stat lines of a game, applies the team moves they
// imply and marks the game's boxscores as fetched, all in one transaction.
func (r *BoxscoreRepository) Save(ctx context.Context, gameID int, moves []models.TeamMove, skaters []models.SkaterBoxscore, goalies []models.GoalieBoxscore) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		if err := applyTeamMoves(ctx, tx, moves); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM skater_boxscores WHERE game_id = $1`, gameID); err != nil {
			return fmt.Errorf("failed to clear skater boxscores: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM goalie_boxscores WHERE game_id = $1`, gameID); err != nil {
			return fmt.Errorf("failed to clear goalie boxscores: %w", err)
		}

		batch := &pgx.Batch{}
		for _, s := range skaters {
			batch.Queue(`
				INSERT INTO skater_boxscores (
					game_id, game_pk, player_id, team_id, time_on_ice, assists, goals, points, shots, hits,
					power_play_goals, power_play_assists, penalty_minutes, face_offs_taken, face_off_wins,
					takeaways, giveaways, short_handed_goals, short_handed_assists, blocked, plus_minus,
					even_time_on_ice, power_play_time_on_ice, short_handed_time_on_ice
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
				gameID, s.GamePk, s.PlayerID, s.TeamID, s.TimeOnIce, s.Assists, s.Goals, s.Points, s.Shots, s.Hits,
				s.PowerPlayGoals, s.PowerPlayAssists, s.PenaltyMinutes, s.FaceOffsTaken, s.FaceOffWins,
				s.Takeaways, s.Giveaways, s.ShortHandedGoals, s.ShortHandedAssists, s.Blocked, s.PlusMinus,
				s.EvenTimeOnIce, s.PowerPlayTimeOnIce, s.ShortHandedTimeOnIce,
			)
		}
		for _, g := range goalies {
			batch.Queue(`
				INSERT INTO goalie_boxscores (
					game_id, game_pk, player_id, team_id, time_on_ice, assists, goals, penalty_minutes,
					saves, power_play_saves, short_handed_saves, even_saves,
					short_handed_shots_against, power_play_shots_against, shots_against,
					decision, save_pct, even_save_pct, power_play_save_pct, short_handed_save_pct
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
				gameID, g.GamePk, g.PlayerID, g.TeamID, g.TimeOnIce, g.Assists, g.Goals, g.PenaltyMinutes,
				g.Saves, g.PowerPlaySaves, g.ShortHandedSaves, g.EvenSaves,
				g.ShortHandedShotsAgainst, g.PowerPlayShotsAgainst, g.ShotsAgainst,
				g.Decision, g.SavePct, g.EvenSavePct, g.PowerPlaySavePct, g.ShortHandedSavePct,
			)
		}
		if err := sendBatch(ctx, tx, batch, "boxscores"); err != nil {
			return err
		}

		return setFlag(ctx, tx, gameID, models.FlagBoxscores, true)
	})
	if err != nil {
		return err
	}

	log.Debug().
		Int("game_id", gameID).
		Int("skaters", len(skaters)).
		Int("goalies", len(goalies)).
		Int("moves", len(moves)).
		Msg("Boxscores saved")

	return nil
}
