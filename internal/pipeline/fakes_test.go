package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"nhlstats/ingestion/internal/cache"
	"nhlstats/ingestion/internal/models"
	"nhlstats/ingestion/internal/repository"
)

// memDB is an in-memory stand-in for the Postgres stores. Each Save
// replaces a game's rows and sets its flag like the real transactions do.
type memDB struct {
	mu         sync.Mutex
	nextID     int
	confs      map[string]int
	divs       map[string]int
	teams      map[string]*models.Team
	games      map[int]*models.Game
	players    map[int]*models.Player
	skaters    map[int][]models.SkaterBoxscore
	goalies    map[int][]models.GoalieBoxscore
	lines      map[int][]models.Linescore
	highlights map[int][]models.Highlight
	metas      map[int][]models.HighlightMeta
	playbacks  map[int][]models.Playback
}

func newMemDB() *memDB {
	return &memDB{
		confs:      make(map[string]int),
		divs:       make(map[string]int),
		teams:      make(map[string]*models.Team),
		games:      make(map[int]*models.Game),
		players:    make(map[int]*models.Player),
		skaters:    make(map[int][]models.SkaterBoxscore),
		goalies:    make(map[int][]models.GoalieBoxscore),
		lines:      make(map[int][]models.Linescore),
		highlights: make(map[int][]models.Highlight),
		metas:      make(map[int][]models.HighlightMeta),
		playbacks:  make(map[int][]models.Playback),
	}
}

func (m *memDB) stores() Stores {
	return Stores{
		League:     fakeLeague{m},
		Teams:      fakeTeams{m},
		Games:      fakeGames{m},
		Players:    fakePlayers{m},
		Boxscores:  fakeBoxscores{m},
		Linescores: fakeLinescores{m},
		Highlights: fakeHighlights{m},
		Playbacks:  fakePlaybacks{m},
	}
}

func (m *memDB) id() int {
	m.nextID++
	return m.nextID
}

func seasonKey(season string, apiID int) string {
	return fmt.Sprintf("%s/%d", season, apiID)
}

func (m *memDB) gameByID(id int) *models.Game {
	for _, g := range m.games {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (m *memDB) setFlag(gameID int, f models.Flag, v bool) error {
	g := m.gameByID(gameID)
	if g == nil {
		return repository.ErrNotFound
	}
	g.SetFlag(f, v)
	return nil
}

// game returns a copy of the stored game
func (m *memDB) game(pk int) models.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.games[pk]
}

// player returns a copy of the stored player
func (m *memDB) player(apiID int) models.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clonePlayer(m.players[apiID])
}

func clonePlayer(p *models.Player) models.Player {
	c := *p
	c.Teams = append([]models.PlayerTeam(nil), p.Teams...)
	return c
}

type fakeLeague struct{ m *memDB }

func (f fakeLeague) CreateConference(_ context.Context, c *models.Conference) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	key := seasonKey(c.Season, c.ConferenceIDAPI)
	if id, ok := f.m.confs[key]; ok {
		c.ID = id
		return false, nil
	}
	c.ID = f.m.id()
	f.m.confs[key] = c.ID
	return true, nil
}

func (f fakeLeague) ConferenceIDByAPIID(_ context.Context, season string, apiID int) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if id, ok := f.m.confs[seasonKey(season, apiID)]; ok {
		return id, nil
	}
	return 0, repository.ErrNotFound
}

func (f fakeLeague) CreateDivision(_ context.Context, d *models.Division) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	key := seasonKey(d.Season, d.DivisionIDAPI)
	if id, ok := f.m.divs[key]; ok {
		d.ID = id
		return false, nil
	}
	d.ID = f.m.id()
	f.m.divs[key] = d.ID
	return true, nil
}

func (f fakeLeague) DivisionIDByAPIID(_ context.Context, season string, apiID int) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if id, ok := f.m.divs[seasonKey(season, apiID)]; ok {
		return id, nil
	}
	return 0, repository.ErrNotFound
}

type fakeTeams struct{ m *memDB }

func (f fakeTeams) Create(_ context.Context, t *models.Team) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	key := seasonKey(t.Season, t.TeamIDAPI)
	if existing, ok := f.m.teams[key]; ok {
		t.ID = existing.ID
		return false, nil
	}
	t.ID = f.m.id()
	c := *t
	f.m.teams[key] = &c
	return true, nil
}

func (f fakeTeams) IDByAPIID(_ context.Context, season string, apiID int) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if t, ok := f.m.teams[seasonKey(season, apiID)]; ok {
		return t.ID, nil
	}
	return 0, fmt.Errorf("team %d: %w", apiID, repository.ErrNotFound)
}

type fakeGames struct{ m *memDB }

func (f fakeGames) Upsert(_ context.Context, g *models.Game) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if existing, ok := f.m.games[g.GamePk]; ok {
		existing.StatusCode = g.StatusCode
		existing.HomeScore = g.HomeScore
		existing.AwayScore = g.AwayScore
		existing.APIDate = g.APIDate
		existing.GameDate = g.GameDate
		g.ID = existing.ID
		return false, nil
	}
	g.ID = f.m.id()
	c := *g
	f.m.games[g.GamePk] = &c
	return true, nil
}

func (f fakeGames) GetByGamePk(_ context.Context, pk int) (*models.Game, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	g, ok := f.m.games[pk]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *g
	return &c, nil
}

func (f fakeGames) Select(_ context.Context, filter repository.GameFilter) ([]*models.Game, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	var out []*models.Game
	for _, g := range f.m.games {
		if filter.APIDate != nil && !g.APIDate.Equal(*filter.APIDate) {
			continue
		}
		if filter.GamePk != 0 && g.GamePk != filter.GamePk {
			continue
		}
		if filter.FinalOnly && !g.IsFinal() {
			continue
		}
		if filter.Pending != "" && g.HasFlag(filter.Pending) {
			continue
		}
		ready := true
		for _, req := range filter.Requires {
			ready = ready && g.HasFlag(req)
		}
		if !ready {
			continue
		}
		c := *g
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GamePk < out[j].GamePk })
	return out, nil
}

func (f fakeGames) DeleteByAPIDate(_ context.Context, date time.Time) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	n := 0
	for pk, g := range f.m.games {
		if !g.APIDate.Equal(date) {
			continue
		}
		delete(f.m.skaters, g.ID)
		delete(f.m.goalies, g.ID)
		delete(f.m.lines, g.ID)
		delete(f.m.highlights, g.ID)
		delete(f.m.metas, g.ID)
		delete(f.m.playbacks, g.ID)
		delete(f.m.games, pk)
		n++
	}
	return n, nil
}

type fakePlayers struct{ m *memDB }

func (f fakePlayers) Create(_ context.Context, p *models.Player) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if existing, ok := f.m.players[p.PlayerIDAPI]; ok {
		p.ID = existing.ID
		return false, nil
	}
	p.ID = f.m.id()
	for i := range p.Teams {
		p.Teams[i].ID = f.m.id()
		p.Teams[i].PlayerID = p.ID
	}
	c := clonePlayer(p)
	f.m.players[p.PlayerIDAPI] = &c
	return true, nil
}

func (f fakePlayers) IDByAPIID(_ context.Context, apiID int) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if p, ok := f.m.players[apiID]; ok {
		return p.ID, nil
	}
	return 0, repository.ErrNotFound
}

func (f fakePlayers) ByAPIIDs(_ context.Context, apiIDs []int) ([]models.Player, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []models.Player
	for _, id := range apiIDs {
		if p, ok := f.m.players[id]; ok {
			out = append(out, clonePlayer(p))
		}
	}
	return out, nil
}

type fakeBoxscores struct{ m *memDB }

func (f fakeBoxscores) Save(_ context.Context, gameID int, moves []models.TeamMove, skaters []models.SkaterBoxscore, goalies []models.GoalieBoxscore) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	byID := make(map[int]*models.Player)
	for _, p := range f.m.players {
		byID[p.ID] = p
	}

	// validate before touching anything, the real store rolls back
	for _, mv := range moves {
		p, ok := byID[mv.PlayerID]
		if !ok {
			return fmt.Errorf("player %d: %w", mv.PlayerID, repository.ErrNotFound)
		}
		if mv.CloseEdgeID == 0 {
			continue
		}
		open := false
		for _, e := range p.Teams {
			if e.ID == mv.CloseEdgeID && e.IsOpen() {
				open = true
			}
		}
		if !open {
			return fmt.Errorf("edge %d of player %d is not open", mv.CloseEdgeID, mv.PlayerID)
		}
	}
	if f.m.gameByID(gameID) == nil {
		return repository.ErrNotFound
	}

	for _, mv := range moves {
		p := byID[mv.PlayerID]
		for i := range p.Teams {
			if p.Teams[i].ID == mv.CloseEdgeID {
				p.Teams[i].EndDate = sql.NullTime{Time: mv.Date, Valid: true}
			}
		}
		p.Teams = append(p.Teams, models.PlayerTeam{ID: f.m.id(), PlayerID: p.ID, TeamID: mv.ToTeamID, StartDate: mv.Date})
	}

	f.m.skaters[gameID] = append([]models.SkaterBoxscore(nil), skaters...)
	f.m.goalies[gameID] = append([]models.GoalieBoxscore(nil), goalies...)
	return f.m.setFlag(gameID, models.FlagBoxscores, true)
}

type fakeLinescores struct{ m *memDB }

func (f fakeLinescores) Save(_ context.Context, gameID int, lines []models.Linescore) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.lines[gameID] = append([]models.Linescore(nil), lines...)
	return f.m.setFlag(gameID, models.FlagLinescores, true)
}

type fakeHighlights struct{ m *memDB }

func (f fakeHighlights) Save(_ context.Context, gameID int, highlights []models.Highlight) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.gameByID(gameID) == nil {
		return repository.ErrNotFound
	}

	for i := range highlights {
		highlights[i].ID = f.m.id()
	}
	f.m.highlights[gameID] = append([]models.Highlight(nil), highlights...)
	delete(f.m.playbacks, gameID)
	for i := range f.m.metas[gameID] {
		f.m.metas[gameID][i].HighlightID = sql.NullInt32{}
		f.m.metas[gameID][i].HasVideo = false
	}

	_ = f.m.setFlag(gameID, models.FlagHighlightMeta, false)
	_ = f.m.setFlag(gameID, models.FlagPlaybacks, false)
	return f.m.setFlag(gameID, models.FlagHighlights, true)
}

func (f fakeHighlights) ByGame(_ context.Context, gameID int) ([]models.Highlight, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	return append([]models.Highlight(nil), f.m.highlights[gameID]...), nil
}

func (f fakeHighlights) IDByEvent(_ context.Context, gameID, eventID int) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, h := range f.m.highlights[gameID] {
		if h.EventIDAPI.Valid && int(h.EventIDAPI.Int32) == eventID {
			return h.ID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (f fakeHighlights) SaveMetas(_ context.Context, gameID int, metas []models.HighlightMeta) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.metas[gameID] = append([]models.HighlightMeta(nil), metas...)
	return f.m.setFlag(gameID, models.FlagHighlightMeta, true)
}

type fakePlaybacks struct{ m *memDB }

func (f fakePlaybacks) Save(_ context.Context, gameID int, playbacks []models.Playback) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.playbacks[gameID] = append([]models.Playback(nil), playbacks...)
	return f.m.setFlag(gameID, models.FlagPlaybacks, true)
}

var errNotFound = errors.New("upstream: not found")

// fakeSource serves canned documents and counts requests
type fakeSource struct {
	mu          sync.Mutex
	schedules   map[string]*models.ScheduleResponse
	feeds       map[int]*models.LiveFeed
	contents    map[int]*models.GameContent
	people      map[int]*models.Person
	conferences []models.ConferenceInput
	divisions   []models.DivisionInput
	teams       []models.TeamInput
	calls       map[string]int
	prewarmed   []int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		schedules: make(map[string]*models.ScheduleResponse),
		feeds:     make(map[int]*models.LiveFeed),
		contents:  make(map[int]*models.GameContent),
		people:    make(map[int]*models.Person),
		calls:     make(map[string]int),
	}
}

func (s *fakeSource) factory() SourceFactory {
	return func(*cache.Documents) Source { return s }
}

func (s *fakeSource) count(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[key]++
}

func (s *fakeSource) callCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *fakeSource) Schedule(_ context.Context, date time.Time) (*models.ScheduleResponse, error) {
	s.count("schedule")
	if sched, ok := s.schedules[date.Format(time.DateOnly)]; ok {
		return sched, nil
	}
	return nil, errNotFound
}

func (s *fakeSource) LiveFeed(_ context.Context, pk int) (*models.LiveFeed, error) {
	s.count("feed")
	if f, ok := s.feeds[pk]; ok {
		return f, nil
	}
	return nil, errNotFound
}

func (s *fakeSource) Content(_ context.Context, pk int) (*models.GameContent, error) {
	s.count("content")
	if c, ok := s.contents[pk]; ok {
		return c, nil
	}
	return nil, errNotFound
}

func (s *fakeSource) Person(_ context.Context, id int) (*models.Person, error) {
	s.count("person")
	if p, ok := s.people[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (s *fakeSource) Conferences(context.Context) ([]models.ConferenceInput, error) {
	return s.conferences, nil
}

func (s *fakeSource) Divisions(context.Context) ([]models.DivisionInput, error) {
	return s.divisions, nil
}

func (s *fakeSource) Teams(context.Context, string) ([]models.TeamInput, error) {
	return s.teams, nil
}

func (s *fakeSource) Prewarm(_ context.Context, pks []int, _ int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prewarmed = append(s.prewarmed, pks...)
	return len(pks) * 2
}

// fakeLocker refuses every lock when held is set
type fakeLocker struct {
	held  bool
	names []string
}

var errHeld = errors.New("lock held")

func (l *fakeLocker) WithLock(_ context.Context, name string, fn func() error) error {
	l.names = append(l.names, name)
	if l.held {
		return errHeld
	}
	return fn()
}
