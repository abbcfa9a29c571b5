// Package pipeline runs the ingestion stages: it selects the games a stage
// still has to process, fetches their documents, builds rows and hands them
// to the stores one game at a time.
package pipeline

import (
	"context"
	"time"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/cache"
	"nhlstats/ingestion/internal/models"
	"nhlstats/ingestion/internal/repository"
)

// Source is the upstream stats API. *client.Client satisfies it.
type Source interface {
	Schedule(ctx context.Context, date time.Time) (*models.ScheduleResponse, error)
	LiveFeed(ctx context.Context, gamePk int) (*models.LiveFeed, error)
	Content(ctx context.Context, gamePk int) (*models.GameContent, error)
	Person(ctx context.Context, playerID int) (*models.Person, error)
	Conferences(ctx context.Context) ([]models.ConferenceInput, error)
	Divisions(ctx context.Context) ([]models.DivisionInput, error)
	Teams(ctx context.Context, season string) ([]models.TeamInput, error)
	Prewarm(ctx context.Context, gamePks []int, limit int) int
}

// SourceFactory binds a source to a run's document cache
type SourceFactory func(docs *cache.Documents) Source

// GameStore persists games and selects stage work-sets
type GameStore interface {
	Upsert(ctx context.Context, game *models.Game) (bool, error)
	GetByGamePk(ctx context.Context, gamePk int) (*models.Game, error)
	Select(ctx context.Context, f repository.GameFilter) ([]*models.Game, error)
	DeleteByAPIDate(ctx context.Context, date time.Time) (int, error)
}

// LeagueStore persists conferences and divisions
type LeagueStore interface {
	CreateConference(ctx context.Context, c *models.Conference) (bool, error)
	ConferenceIDByAPIID(ctx context.Context, season string, apiID int) (int, error)
	CreateDivision(ctx context.Context, d *models.Division) (bool, error)
	DivisionIDByAPIID(ctx context.Context, season string, apiID int) (int, error)
}

// TeamStore persists teams
type TeamStore interface {
	Create(ctx context.Context, team *models.Team) (bool, error)
	IDByAPIID(ctx context.Context, season string, apiID int) (int, error)
}

// PlayerStore persists players and their team history
type PlayerStore interface {
	Create(ctx context.Context, p *models.Player) (bool, error)
	IDByAPIID(ctx context.Context, apiID int) (int, error)
	ByAPIIDs(ctx context.Context, apiIDs []int) ([]models.Player, error)
}

// BoxscoreStore replaces the stat lines of a game
type BoxscoreStore interface {
	Save(ctx context.Context, gameID int, moves []models.TeamMove, skaters []models.SkaterBoxscore, goalies []models.GoalieBoxscore) error
}

// LinescoreStore replaces the team lines of a game
type LinescoreStore interface {
	Save(ctx context.Context, gameID int, lines []models.Linescore) error
}

// HighlightStore replaces the highlights and goal metadata of a game
type HighlightStore interface {
	Save(ctx context.Context, gameID int, highlights []models.Highlight) error
	ByGame(ctx context.Context, gameID int) ([]models.Highlight, error)
	IDByEvent(ctx context.Context, gameID, eventID int) (int, error)
	SaveMetas(ctx context.Context, gameID int, metas []models.HighlightMeta) error
}

// PlaybackStore replaces the playbacks of a game
type PlaybackStore interface {
	Save(ctx context.Context, gameID int, playbacks []models.Playback) error
}

// Stores groups everything the stages write to
type Stores struct {
	League     LeagueStore
	Teams      TeamStore
	Games      GameStore
	Players    PlayerStore
	Boxscores  BoxscoreStore
	Linescores LinescoreStore
	Highlights HighlightStore
	Playbacks  PlaybackStore
}

// StoresFrom returns the stores of an open database
func StoresFrom(db *repository.Database) Stores {
	return Stores{
		League:     db.League,
		Teams:      db.Teams,
		Games:      db.Games,
		Players:    db.Players,
		Boxscores:  db.Boxscores,
		Linescores: db.Linescores,
		Highlights: db.Highlights,
		Playbacks:  db.Playbacks,
	}
}

// Locker serializes runs by name. *runlock.Locker satisfies it.
type Locker interface {
	WithLock(ctx context.Context, name string, fn func() error) error
}

// Options configure a Runner
type Options struct {
	// Season used by the league bootstrap and the players command
	Season string
	// Goalie stat defaults for missing decision or save percentage
	Goalie builder.GoalieDefaults
	// PrefetchLimit caps concurrent document prefetches in the daily driver
	PrefetchLimit int
	// Locker is optional; when set the daily driver holds a lock per date
	Locker Locker
}

// Runner runs stages against a source and a set of stores
type Runner struct {
	stores  Stores
	sources SourceFactory
	opts    Options
	now     func() time.Time
}

// NewRunner creates a Runner
func NewRunner(stores Stores, sources SourceFactory, opts Options) *Runner {
	if opts.PrefetchLimit <= 0 {
		opts.PrefetchLimit = 8
	}
	return &Runner{
		stores:  stores,
		sources: sources,
		opts:    opts,
		now:     time.Now,
	}
}

// newSource returns a source bound to a fresh cache. Each top level
// operation gets its own cache.
func (r *Runner) newSource() Source {
	return r.sources(cache.NewDocuments())
}

func (r *Runner) today() time.Time {
	y, m, d := r.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// lookups adapts the stores to the resolver lookup interfaces
type lookups struct {
	players    PlayerStore
	teams      TeamStore
	highlights HighlightStore
}

func (r *Runner) lookups() lookups {
	return lookups{players: r.stores.Players, teams: r.stores.Teams, highlights: r.stores.Highlights}
}

func (l lookups) PlayersByAPIIDs(ctx context.Context, apiIDs []int) ([]models.Player, error) {
	return l.players.ByAPIIDs(ctx, apiIDs)
}

func (l lookups) PlayerIDByAPIID(ctx context.Context, apiID int) (int, error) {
	return l.players.IDByAPIID(ctx, apiID)
}

func (l lookups) TeamIDByAPIID(ctx context.Context, season string, apiID int) (int, error) {
	return l.teams.IDByAPIID(ctx, season, apiID)
}

func (l lookups) HighlightIDByEvent(ctx context.Context, gameID, eventID int) (int, error) {
	return l.highlights.IDByEvent(ctx, gameID, eventID)
}
