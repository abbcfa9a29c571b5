package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nhlstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by lookups when no row matches
var ErrNotFound = errors.New("not found")

// Database holds the database connection pool and provides access to repositories
type Database struct {
	Pool *pgxpool.Pool

	// Repositories
	League     *LeagueRepository
	Teams      *TeamRepository
	Games      *GameRepository
	Players    *PlayerRepository
	Boxscores  *BoxscoreRepository
	Linescores *LinescoreRepository
	Highlights *HighlightRepository
	Playbacks  *PlaybackRepository
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the postgres connection URL for the configuration
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// NewDatabase creates a new database connection pool and initializes repositories
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set pool configuration
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Successfully connected to database")

	db := &Database{
		Pool: pool,
	}

	db.League = &LeagueRepository{db: db}
	db.Teams = &TeamRepository{db: db}
	db.Games = &GameRepository{db: db}
	db.Players = &PlayerRepository{db: db}
	db.Boxscores = &BoxscoreRepository{db: db}
	db.Linescores = &LinescoreRepository{db: db}
	db.Highlights = &HighlightRepository{db: db}
	db.Playbacks = &PlaybackRepository{db: db}

	return db, nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics
func (db *Database) PoolStats() map[string]interface{} {
	stat := db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

// inTx runs fn in a transaction, committing when it returns nil
func (db *Database) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// setFlag marks a stage as done for a game inside tx
func setFlag(ctx context.Context, tx pgx.Tx, gameID int, flag models.Flag, value bool) error {
	if !flag.Valid() {
		return fmt.Errorf("unknown stage flag %q", flag)
	}
	query := fmt.Sprintf(`UPDATE games SET %s = $2, updated_at = NOW() WHERE id = $1`, flag)
	tag, err := tx.Exec(ctx, query, gameID, value)
	if err != nil {
		return fmt.Errorf("failed to set %s on game %d: %w", flag, gameID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	return nil
}

// sendBatch executes every queued statement of b and reports the first
// failure
func sendBatch(ctx context.Context, tx pgx.Tx, b *pgx.Batch, what string) error {
	if b.Len() == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert %s: %w", what, err)
		}
	}
	return results.Close()
}
