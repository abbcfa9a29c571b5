package pipeline

import (
	"context"
	"strconv"
	"strings"

	"nhlstats/ingestion/internal/builder"
	"nhlstats/ingestion/internal/models"
	"nhlstats/ingestion/internal/resolver"

	"github.com/rs/zerolog/log"
)

type highlightStage struct{ r *Runner }

func (s *highlightStage) Name() string            { return StageHighlights }
func (s *highlightStage) Flag() models.Flag       { return models.FlagHighlights }
func (s *highlightStage) Requires() []models.Flag { return []models.Flag{models.FlagBoxscores} }

// Process stores the condensed game, the recap and the SHOT/GOAL milestone
// videos of a game. Replacing them resets the meta and playback stages.
func (s *highlightStage) Process(ctx context.Context, src Source, game *models.Game) error {
	content, err := src.Content(ctx, game.GamePk)
	if err != nil {
		return err
	}
	media := content.Media
	ref := builder.GameRef{GameID: game.ID, GamePk: game.GamePk}

	var rows []models.Highlight
	seen := make(map[int64]bool)
	add := func(h models.Highlight) {
		if seen[h.VideoIDAPI] {
			return
		}
		seen[h.VideoIDAPI] = true
		rows = append(rows, h)
	}

	sel := builder.SelectGameHighlights(media)
	for _, v := range []struct {
		typ   models.HighlightType
		video *models.Video
	}{
		{models.HighlightCondensed, sel.Condensed},
		{models.HighlightRecap, sel.Recap},
	} {
		if v.video == nil {
			continue
		}
		h, err := builder.Highlight(ref, v.typ, *v.video, nil)
		if err != nil {
			return err
		}
		add(h)
	}

	for _, m := range builder.DedupeMilestones(media.Milestones.Items) {
		eventID, err := strconv.Atoi(strings.TrimSpace(m.StatsEventID))
		if err != nil {
			log.Warn().
				Int("game_pk", game.GamePk).
				Str("video_id", m.Highlight.ID).
				Str("stats_event_id", m.StatsEventID).
				Msg("Milestone has no stats event, skipping")
			continue
		}
		team, opp := resolver.TeamForMilestone(game, m.TeamID)
		h, err := builder.Highlight(ref, models.HighlightMilestone, *m.Highlight, &builder.MilestoneRef{
			EventIDAPI: eventID,
			TeamID:     team,
			OpponentID: opp,
		})
		if err != nil {
			return err
		}
		add(h)
	}

	return s.r.stores.Highlights.Save(ctx, game.ID, rows)
}

type highlightMetaStage struct{ r *Runner }

func (s *highlightMetaStage) Name() string            { return StageHighlightMeta }
func (s *highlightMetaStage) Flag() models.Flag       { return models.FlagHighlightMeta }
func (s *highlightMetaStage) Requires() []models.Flag { return []models.Flag{models.FlagHighlights} }

// Process stores one meta row per goal, linked to the milestone video of
// the same event when there is one
func (s *highlightMetaStage) Process(ctx context.Context, src Source, game *models.Game) error {
	feed, err := src.LiveFeed(ctx, game.GamePk)
	if err != nil {
		return err
	}

	lk := s.r.lookups()
	ref := builder.GameRef{GameID: game.ID, GamePk: game.GamePk}

	var metas []models.HighlightMeta
	plays := feed.LiveData.Plays.AllPlays
	for i := range plays {
		if !plays[i].IsGoal() {
			continue
		}
		refs, err := resolver.ResolveGoal(ctx, lk, game, &plays[i])
		if err != nil {
			return err
		}
		meta, err := builder.HighlightMeta(ref, plays[i], *refs)
		if err != nil {
			return err
		}
		metas = append(metas, meta)
	}

	return s.r.stores.Highlights.SaveMetas(ctx, game.ID, metas)
}

type playbackStage struct{ r *Runner }

func (s *playbackStage) Name() string            { return StagePlaybacks }
func (s *playbackStage) Flag() models.Flag       { return models.FlagPlaybacks }
func (s *playbackStage) Requires() []models.Flag { return []models.Flag{models.FlagHighlights} }

// Process stores the renditions of every stored highlight of the game
func (s *playbackStage) Process(ctx context.Context, src Source, game *models.Game) error {
	highlights, err := s.r.stores.Highlights.ByGame(ctx, game.ID)
	if err != nil {
		return err
	}
	content, err := src.Content(ctx, game.GamePk)
	if err != nil {
		return err
	}

	var rows []models.Playback
	for _, h := range highlights {
		renditions, err := builder.PlaybacksFor(content.Media, h)
		if err != nil {
			return err
		}
		rows = append(rows, builder.Playbacks(h.ID, renditions)...)
	}

	return s.r.stores.Playbacks.Save(ctx, game.ID, rows)
}
