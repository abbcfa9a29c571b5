package pipeline

import (
	"context"
	"fmt"
	"time"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/metrics"
)

// Players creates players by API id. Each player's team comes from the
// profile's current team in the configured season, starting today (UTC).
// Players already stored are skipped.
func (r *Runner) Players(ctx context.Context, apiIDs []int) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{Stage: StagePlayers}
	defer func() {
		result.Duration = time.Since(start)
		metrics.RecordStage(StagePlayers, result.Duration.Seconds())
	}()

	src := r.newSource()
	for _, id := range apiIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item := itemFor(r.addPlayer(ctx, src, id))
		item.PlayerID = id
		r.record(StagePlayers, item)
		result.add(item)
	}
	return result, nil
}

func (r *Runner) addPlayer(ctx context.Context, src Source, apiID int) error {
	person, err := src.Person(ctx, apiID)
	if err != nil {
		return err
	}
	if person.CurrentTeam == nil || person.CurrentTeam.ID == 0 {
		return skip("player %d has no current team", apiID)
	}

	teamID, err := r.stores.Teams.IDByAPIID(ctx, r.opts.Season, person.CurrentTeam.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve team %d in season %s: %w", person.CurrentTeam.ID, r.opts.Season, err)
	}

	p, err := builder.Player(*person, teamID, r.today())
	if err != nil {
		return err
	}
	created, err := r.stores.Players.Create(ctx, &p)
	if err != nil {
		return err
	}
	if !created {
		return skip("player %d already stored", apiID)
	}
	return nil
}
