package pipeline

import (
	"context"
	"fmt"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/models"
)

type linescoreStage struct{ r *Runner }

func (s *linescoreStage) Name() string            { return StageLinescores }
func (s *linescoreStage) Flag() models.Flag       { return models.FlagLinescores }
func (s *linescoreStage) Requires() []models.Flag { return nil }

func (s *linescoreStage) Process(ctx context.Context, src Source, game *models.Game) error {
	feed, err := src.LiveFeed(ctx, game.GamePk)
	if err != nil {
		return err
	}
	if err := checkSides(game, feed.LiveData.Boxscore.Teams); err != nil {
		return err
	}

	lines := make([]models.Linescore, 0, 2)
	for _, home := range []bool{true, false} {
		ref := builder.LinescoreRef{GameID: game.ID, GamePk: game.GamePk, TeamID: game.AwayTeamID, OpponentID: game.HomeTeamID}
		if home {
			ref.TeamID, ref.OpponentID = game.HomeTeamID, game.AwayTeamID
		}
		line, err := builder.Linescore(ref, home, feed.LiveData.Linescore, feed.LiveData.Boxscore)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	return s.r.stores.Linescores.Save(ctx, game.ID, lines)
}

// checkSides makes sure the live feed lists the game's teams on the same
// sides as the schedule did
func checkSides(game *models.Game, teams models.BoxscoreTeams) error {
	if teams.Home.Team.ID != game.HomeTeamIDAPI || teams.Away.Team.ID != game.AwayTeamIDAPI {
		return fmt.Errorf("%w: live feed teams %d@%d, stored %d@%d", models.ErrUnexpectedShape,
			teams.Away.Team.ID, teams.Home.Team.ID, game.AwayTeamIDAPI, game.HomeTeamIDAPI)
	}
	return nil
}
