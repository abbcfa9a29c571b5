// Package app wires configuration into the logger, the database, the run
// lock and the pipeline runner shared by the commands.
package app

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"time"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/cache"
	"nhlstats/ingestion/internal/client"
	"nhlstats/ingestion/internal/config"
	"nhlstats/ingestion/internal/pipeline"
	"nhlstats/ingestion/internal/repository"
	"nhlstats/ingestion/internal/runlock"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger
func SetupLogger(appEnv, logLevel string) {
	// Pretty console logging in development
	if appEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if logLevel != "" {
		if parsed, err := zerolog.ParseLevel(logLevel); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}

// DatabaseConfig maps the configuration onto the repository settings
func DatabaseConfig(cfg *config.Config) repository.Config {
	return repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}
}

// GoalieDefaults returns the configured goalie stat fallbacks
func GoalieDefaults(cfg *config.Config) builder.GoalieDefaults {
	var d builder.GoalieDefaults
	if cfg.GoalieDefaultDecision != "" {
		d.Decision = sql.NullString{String: cfg.GoalieDefaultDecision, Valid: true}
	}
	if v, ok := cfg.SavePctDefault(); ok {
		d.SavePct = sql.NullFloat64{Float64: v, Valid: true}
	}
	return d
}

// Sources returns a source factory over a shared API client
func Sources(c *client.Client) pipeline.SourceFactory {
	return func(docs *cache.Documents) pipeline.Source {
		return c.WithCache(docs)
	}
}

// Deps holds the open connections of a command
type Deps struct {
	DB     *repository.Database
	Redis  *redis.Client
	Client *client.Client
	Runner *pipeline.Runner
}

// Open connects to the database and, when enabled, to Redis, and builds
// the runner. Redis failures are logged and the run lock is disabled.
func Open(ctx context.Context, cfg *config.Config) (*Deps, error) {
	db, err := repository.NewDatabase(ctx, DatabaseConfig(cfg))
	if err != nil {
		return nil, err
	}

	deps := &Deps{
		DB:     db,
		Client: client.NewClient(cfg.NHLAPIBaseURL, cfg.NHLAPITimeout, cfg.NHLAPIMaxRetries),
	}

	opts := pipeline.Options{
		Season:        cfg.Season,
		Goalie:        GoalieDefaults(cfg),
		PrefetchLimit: cfg.NHLAPIPrefetchConcurrency,
	}

	if cfg.RedisEnabled {
		rdb, err := runlock.Connect(ctx, runlock.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without run lock")
		} else {
			deps.Redis = rdb
			opts.Locker = runlock.NewLocker(rdb, cfg.RunLockTTL)
		}
	}

	deps.Runner = pipeline.NewRunner(pipeline.StoresFrom(db), Sources(deps.Client), opts)
	return deps, nil
}

// Close closes the connections
func (d *Deps) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	d.DB.Close()
}
