// Command nhlfetch runs the ingestion stages by hand.
//
// Usage:
//
//	nhlfetch games 2021-01-13
//	nhlfetch boxscores DATE 2021-01-13
//	nhlfetch highlights GAMEPK 2020020001
//	nhlfetch playbacks FLAG
//	nhlfetch players 8478402 8471214
//	nhlfetch date single [2021-01-13]
//	nhlfetch date multi 2021-01-13 2021-01-20
//	nhlfetch league init
//	nhlfetch reset 2021-01-13
//	nhlfetch migrate up
//
// Arguments are validated before any network or database activity.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nhlstats/ingestion/internal/app"
	"nhlstats/ingestion/internal/config"
	"nhlstats/ingestion/internal/pipeline"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("nhlfetch failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nhlfetch",
		Short:         "NHL stats ingestion CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(gamesCmd())
	for _, name := range stageNames {
		root.AddCommand(stageCmd(name))
	}
	root.AddCommand(playersCmd())
	root.AddCommand(dateCmd())
	root.AddCommand(leagueCmd())
	root.AddCommand(resetCmd())
	root.AddCommand(migrateCmd())
	return root
}

// loadConfig loads the configuration and sets up logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	app.SetupLogger(cfg.AppEnv, cfg.LogLevel)
	return cfg, nil
}

// run handles config loading, connections and signal cancellation
func run(fn func(ctx context.Context, deps *app.Deps) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer deps.Close()

	return fn(ctx, deps)
}

// report logs a batch summary and its failed items
func report(res *pipeline.BatchResult) {
	if res == nil {
		return
	}
	for _, it := range res.Failed() {
		ev := log.Warn().Str("stage", res.Stage).Str("error", it.Reason)
		if it.PlayerID != 0 {
			ev = ev.Int("player_id", it.PlayerID)
		} else {
			ev = ev.Int("game_pk", it.GamePk)
		}
		ev.Msg("Failed")
	}
	log.Info().Msg(res.Summary())
}

func yesterday() time.Time {
	y, m, d := time.Now().UTC().AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
