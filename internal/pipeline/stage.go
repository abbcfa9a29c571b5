package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nhlstats/ingestion/internal/metrics"
	"nhlstats/ingestion/internal/models"
	"nhlstats/ingestion/internal/repository"
	"nhlstats/ingestion/internal/validate"

	"github.com/rs/zerolog/log"
)

// Stage names
const (
	StageGames         = "games"
	StageLinescores    = "linescores"
	StageBoxscores     = "boxscores"
	StageHighlights    = "highlights"
	StageHighlightMeta = "highlight-meta"
	StagePlaybacks     = "playbacks"
	StagePlayers       = "players"
)

// Stage processes one final game at a time. Process persists everything it
// builds for the game together with the stage flag, or nothing.
type Stage interface {
	Name() string
	Flag() models.Flag
	Requires() []models.Flag
	Process(ctx context.Context, src Source, game *models.Game) error
}

// Selector picks the work-set of a stage
type Selector struct {
	Mode   validate.Mode
	Date   time.Time // ModeDate
	GamePk int       // ModeGamePk
}

// ByDate selects the pending games of an api date
func ByDate(date time.Time) Selector { return Selector{Mode: validate.ModeDate, Date: date} }

// ByGamePk selects one game whatever its stage flag
func ByGamePk(pk int) Selector { return Selector{Mode: validate.ModeGamePk, GamePk: pk} }

// Pending selects every game whose stage flag is unset
func Pending() Selector { return Selector{Mode: validate.ModeFlag} }

func (s Selector) filter(st Stage) (repository.GameFilter, error) {
	f := repository.GameFilter{FinalOnly: true, Requires: st.Requires()}
	switch s.Mode {
	case validate.ModeDate:
		d := s.Date
		f.APIDate = &d
		f.Pending = st.Flag()
	case validate.ModeGamePk:
		f.GamePk = s.GamePk
	case validate.ModeFlag:
		f.Pending = st.Flag()
	default:
		return f, fmt.Errorf("%w: %q", validate.ErrInvalidMode, s.Mode)
	}
	return f, nil
}

// Stages returns the game stages in run order
func (r *Runner) Stages() []Stage {
	return []Stage{
		&linescoreStage{r},
		&boxscoreStage{r},
		&highlightStage{r},
		&highlightMetaStage{r},
		&playbackStage{r},
	}
}

// Stage returns the game stage with the given name
func (r *Runner) Stage(name string) (Stage, bool) {
	for _, st := range r.Stages() {
		if st.Name() == name {
			return st, true
		}
	}
	return nil, false
}

// RunStage runs one stage over its work-set with a fresh document cache
func (r *Runner) RunStage(ctx context.Context, st Stage, sel Selector) (*BatchResult, error) {
	return r.runStage(ctx, r.newSource(), st, sel)
}

func (r *Runner) runStage(ctx context.Context, src Source, st Stage, sel Selector) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{Stage: st.Name()}
	defer func() {
		result.Duration = time.Since(start)
		metrics.RecordStage(st.Name(), result.Duration.Seconds())
	}()

	filter, err := sel.filter(st)
	if err != nil {
		return result, err
	}

	games, err := r.stores.Games.Select(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("failed to select %s work-set: %w", st.Name(), err)
	}

	if len(games) == 0 && sel.Mode == validate.ModeGamePk {
		item := itemFor(r.ineligible(ctx, st, sel.GamePk))
		item.GamePk = sel.GamePk
		r.record(st.Name(), item)
		result.add(item)
		return result, nil
	}

	log.Info().Str("stage", st.Name()).Str("mode", string(sel.Mode)).Int("games", len(games)).Msg("Stage starting")

	for _, game := range games {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item := itemFor(st.Process(ctx, src, game))
		item.GamePk = game.GamePk
		r.record(st.Name(), item)
		result.add(item)
	}

	ok, skipped, failed := result.Counts()
	log.Info().
		Str("stage", st.Name()).
		Int("ok", ok).
		Int("skipped", skipped).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Stage complete")

	return result, nil
}

// ineligible explains why a single game is not in a stage's work-set
func (r *Runner) ineligible(ctx context.Context, st Stage, gamePk int) error {
	game, err := r.stores.Games.GetByGamePk(ctx, gamePk)
	if errors.Is(err, repository.ErrNotFound) {
		return skip("game %d is not stored", gamePk)
	}
	if err != nil {
		return fmt.Errorf("failed to load game %d: %w", gamePk, err)
	}
	if !game.IsFinal() {
		return skip("game is not final (status %d)", game.StatusCode)
	}
	for _, f := range st.Requires() {
		if !game.HasFlag(f) {
			return skip("requires %s", f)
		}
	}
	return skip("not selected")
}

func (r *Runner) record(stage string, item ItemResult) {
	metrics.RecordStageItem(stage, string(item.Status))

	switch item.Status {
	case StatusFailed:
		metrics.RecordError(stage, "item")
		ev := log.Error().Str("stage", stage).Str("error", item.Reason)
		if item.PlayerID != 0 {
			ev = ev.Int("player_id", item.PlayerID)
		} else {
			ev = ev.Int("game_pk", item.GamePk)
		}
		ev.Msg("Item failed")
	case StatusSkipped:
		log.Debug().Str("stage", stage).Int("game_pk", item.GamePk).Int("player_id", item.PlayerID).Str("reason", item.Reason).Msg("Item skipped")
	}
}
