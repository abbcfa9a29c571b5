package pipeline

import (
	"context"
	"fmt"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/models"
	"nhlstats/ingestion/internal/resolver"

	"github.com/rs/zerolog/log"
)

type boxscoreStage struct{ r *Runner }

func (s *boxscoreStage) Name() string            { return StageBoxscores }
func (s *boxscoreStage) Flag() models.Flag       { return models.FlagBoxscores }
func (s *boxscoreStage) Requires() []models.Flag { return nil }

// Process stores the stat lines of every dressed player. Unknown players
// are created first; a player that cannot be created fails the game.
// Known players whose current team differs are moved in the same
// transaction as the stat lines.
func (s *boxscoreStage) Process(ctx context.Context, src Source, game *models.Game) error {
	feed, err := src.LiveFeed(ctx, game.GamePk)
	if err != nil {
		return err
	}
	teams := feed.LiveData.Boxscore.Teams
	if err := checkSides(game, teams); err != nil {
		return err
	}

	lk := s.r.lookups()
	rosters := resolver.RostersFromBoxscore(teams)
	part, err := resolver.ResolvePlayers(ctx, lk, rosters)
	if err != nil {
		return err
	}

	for _, side := range []struct {
		ids    []int
		teamID int
	}{
		{part.Unknown.Home, game.HomeTeamID},
		{part.Unknown.Away, game.AwayTeamID},
	} {
		for _, id := range side.ids {
			// a missing profile fails the game and leaves the flag unset
			if err := s.r.createPlayer(ctx, src, id, side.teamID, game); err != nil {
				return fmt.Errorf("failed to create player %d: %w", id, err)
			}
		}
	}

	home := rosters.Home.Dressed()
	away := rosters.Away.Dressed()
	stored, err := lk.PlayersByAPIIDs(ctx, append(append([]int{}, home...), away...))
	if err != nil {
		return fmt.Errorf("failed to reload players: %w", err)
	}
	byAPI := make(map[int]models.Player, len(stored))
	for _, p := range stored {
		byAPI[p.PlayerIDAPI] = p
	}

	var (
		moves   []models.TeamMove
		skaters []models.SkaterBoxscore
		goalies []models.GoalieBoxscore
	)
	for _, side := range []struct {
		home   bool
		ids    []int
		teamID int
	}{
		{true, home, game.HomeTeamID},
		{false, away, game.AwayTeamID},
	} {
		box := teams.Side(side.home)

		players := make([]models.Player, 0, len(side.ids))
		for _, id := range side.ids {
			p, ok := byAPI[id]
			if !ok {
				return fmt.Errorf("player %d is not stored", id)
			}
			players = append(players, p)
		}

		planned, err := resolver.PlanTeamMoves(players, side.teamID, game.APIDate)
		if err != nil {
			return err
		}
		moves = append(moves, planned...)

		for _, p := range players {
			entry, ok := box.Players[builder.PlayerKey(p.PlayerIDAPI)]
			if !ok {
				return fmt.Errorf("%w: player %d missing from boxscore", models.ErrUnexpectedShape, p.PlayerIDAPI)
			}
			ref := builder.BoxscoreRef{GameID: game.ID, GamePk: game.GamePk, PlayerID: p.ID, TeamID: side.teamID}
			line, err := builder.Boxscore(ref, p.PrimaryPosition, entry.Stats, s.r.opts.Goalie)
			if err != nil {
				return err
			}
			if line.Goalie != nil {
				goalies = append(goalies, *line.Goalie)
			} else {
				skaters = append(skaters, *line.Skater)
			}
		}
	}

	if len(moves) > 0 {
		log.Info().Int("game_pk", game.GamePk).Int("moves", len(moves)).Msg("Moving players to new teams")
	}

	return s.r.stores.Boxscores.Save(ctx, game.ID, moves, skaters, goalies)
}

// createPlayer fetches a profile and stores the player with an open edge
// to teamID starting on the game's api date
func (r *Runner) createPlayer(ctx context.Context, src Source, apiID, teamID int, game *models.Game) error {
	person, err := src.Person(ctx, apiID)
	if err != nil {
		return err
	}
	p, err := builder.Player(*person, teamID, game.APIDate)
	if err != nil {
		return err
	}
	if _, err := r.stores.Players.Create(ctx, &p); err != nil {
		return err
	}
	log.Debug().Int("player_id", apiID).Str("name", p.FullName).Int("team_id", teamID).Msg("Player created")
	return nil
}
