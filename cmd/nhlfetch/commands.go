package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nhlstats/ingestion/internal/app"
	"nhlstats/ingestion/internal/pipeline"
	"nhlstats/ingestion/internal/validate"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var stageNames = []string{
	pipeline.StageLinescores,
	pipeline.StageBoxscores,
	pipeline.StageHighlights,
	pipeline.StageHighlightMeta,
	pipeline.StagePlaybacks,
}

func gamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games DATE",
		Short: "Store the schedule of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := validate.Date(args[0])
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, deps *app.Deps) error {
				res, err := deps.Runner.Games(ctx, date)
				report(res)
				return err
			})
		},
	}
}

func stageCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " MODE [ARG]",
		Short: fmt.Sprintf("Fetch %s for a DATE, a GAMEPK or every pending game (FLAG)", name),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelector(args)
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, deps *app.Deps) error {
				st, ok := deps.Runner.Stage(name)
				if !ok {
					return fmt.Errorf("unknown stage %q", name)
				}
				res, err := deps.Runner.RunStage(ctx, st, sel)
				report(res)
				return err
			})
		},
	}
}

// parseSelector turns MODE [ARG] into a work-set selector
func parseSelector(args []string) (pipeline.Selector, error) {
	mode, err := validate.ParseMode(args[0])
	if err != nil {
		return pipeline.Selector{}, err
	}

	switch mode {
	case validate.ModeDate:
		if len(args) != 2 {
			return pipeline.Selector{}, fmt.Errorf("%w: DATE mode needs a date", validate.ErrInvalidDate)
		}
		date, err := validate.Date(args[1])
		if err != nil {
			return pipeline.Selector{}, err
		}
		return pipeline.ByDate(date), nil

	case validate.ModeGamePk:
		if len(args) != 2 {
			return pipeline.Selector{}, fmt.Errorf("%w: GAMEPK mode needs a gamePk", validate.ErrInvalidGamePk)
		}
		pk, err := validate.GamePk(args[1])
		if err != nil {
			return pipeline.Selector{}, err
		}
		return pipeline.ByGamePk(pk), nil

	default:
		if len(args) != 1 {
			return pipeline.Selector{}, fmt.Errorf("%w: FLAG mode takes no argument", validate.ErrInvalidMode)
		}
		return pipeline.Pending(), nil
	}
}

func playersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players ID...",
		Short: "Create players by API id with their current team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePlayerIDs(args)
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, deps *app.Deps) error {
				res, err := deps.Runner.Players(ctx, ids)
				report(res)
				return err
			})
		},
	}
}

func parsePlayerIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid player id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func dateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Run the daily fetch for one date or a range",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "single [DATE]",
		Short: "Fetch one date (default: yesterday, UTC)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := yesterday()
			if len(args) == 1 {
				d, err := validate.Date(args[0])
				if err != nil {
					return err
				}
				date = d
			}
			return run(func(ctx context.Context, deps *app.Deps) error {
				_, err := deps.Runner.FetchDate(ctx, date)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "multi START END",
		Short: "Fetch every date from START to END inclusive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := validate.DateRange(args[0], args[1])
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, deps *app.Deps) error {
				results, err := deps.Runner.FetchRange(ctx, start, end)
				log.Info().Int("dates", len(results)).Msg("Range fetch finished")
				return err
			})
		},
	})

	return cmd
}

func leagueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "league",
		Short: "League reference data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Store the conferences, divisions and teams of the configured season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, deps *app.Deps) error {
				_, err := deps.Runner.LeagueInit(ctx)
				return err
			})
		},
	})
	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset DATE",
		Short: "Delete the games of a date and everything fetched for them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := validate.Date(args[0])
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, deps *app.Deps) error {
				n, err := deps.Runner.Reset(ctx, date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d games of %s\n", n, date.Format(time.DateOnly))
				return nil
			})
		},
	}
}
