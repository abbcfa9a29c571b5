package pipeline

import (
	"context"
	"fmt"
	"time"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/metrics"
	"nhlstats/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// Games stores the schedule of one date. Existing games are updated in
// place so a postponed game that is later played keeps its row.
func (r *Runner) Games(ctx context.Context, date time.Time) (*BatchResult, error) {
	result, _, err := r.games(ctx, r.newSource(), date)
	return result, err
}

// games returns the batch and the gamePks of the schedule
func (r *Runner) games(ctx context.Context, src Source, date time.Time) (*BatchResult, []int, error) {
	start := time.Now()
	result := &BatchResult{Stage: StageGames}
	defer func() {
		result.Duration = time.Since(start)
		metrics.RecordStage(StageGames, result.Duration.Seconds())
	}()

	sched, err := src.Schedule(ctx, date)
	if err != nil {
		return result, nil, fmt.Errorf("failed to fetch schedule for %s: %w", date.Format(time.DateOnly), err)
	}

	scheduled := sched.Games()
	log.Info().Str("date", date.Format(time.DateOnly)).Int("games", len(scheduled)).Msg("Schedule fetched")

	pks := make([]int, 0, len(scheduled))
	for _, sg := range scheduled {
		if err := ctx.Err(); err != nil {
			return result, pks, err
		}
		pks = append(pks, sg.GamePk)

		item := itemFor(r.saveGame(ctx, sg, date))
		item.GamePk = sg.GamePk
		r.record(StageGames, item)
		result.add(item)
	}

	return result, pks, nil
}

func (r *Runner) saveGame(ctx context.Context, sg models.ScheduleGame, date time.Time) error {
	homeID, err := r.stores.Teams.IDByAPIID(ctx, sg.Season, sg.Teams.Home.Team.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve home team %d: %w", sg.Teams.Home.Team.ID, err)
	}
	awayID, err := r.stores.Teams.IDByAPIID(ctx, sg.Season, sg.Teams.Away.Team.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve away team %d: %w", sg.Teams.Away.Team.ID, err)
	}

	game, err := builder.Game(sg, homeID, awayID, date)
	if err != nil {
		return err
	}

	created, err := r.stores.Games.Upsert(ctx, &game)
	if err != nil {
		return err
	}

	log.Debug().
		Int("game_pk", game.GamePk).
		Int("status_code", game.StatusCode).
		Bool("created", created).
		Msg("Game saved")
	return nil
}
