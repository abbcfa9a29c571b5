package app

import (
	"context"
	"testing"

	"nhlstats/ingestion/internal/cache"
	"nhlstats/ingestion/internal/client"
	"nhlstats/ingestion/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig(t *testing.T) {
	cfg := &config.Config{
		DatabaseHost:     "db",
		DatabasePort:     5433,
		DatabaseUser:     "nhl",
		DatabasePassword: "secret",
		DatabaseName:     "stats",
		DatabaseSSLMode:  "require",
	}

	assert.Equal(t, "postgres://nhl:secret@db:5433/stats?sslmode=require", DatabaseConfig(cfg).DSN())
}

func TestGoalieDefaults(t *testing.T) {
	d := GoalieDefaults(&config.Config{GoalieDefaultSavePct: "0", GoalieDefaultDecision: ""})
	assert.True(t, d.SavePct.Valid)
	assert.Zero(t, d.SavePct.Float64)
	assert.False(t, d.Decision.Valid)

	d = GoalieDefaults(&config.Config{GoalieDefaultSavePct: "", GoalieDefaultDecision: "N"})
	assert.False(t, d.SavePct.Valid, "Empty fallback stores NULL")
	assert.Equal(t, "N", d.Decision.String)
}

func TestSources_BindsFreshCache(t *testing.T) {
	c := client.NewClient("http://localhost:1", 0, 0)
	sources := Sources(c)

	docs := cache.NewDocuments()
	src := sources(docs)
	assert.NotSame(t, c, src, "The shared client stays unbound")
	assert.Zero(t, c.Prewarm(context.Background(), []int{2020020001}, 1))
}
