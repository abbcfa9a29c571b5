package builder

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nhlstats/ingestion/internal/convert"
	"nhlstats/ingestion/internal/models"
)

// GameRef identifies the game a highlight or meta row belongs to
type GameRef struct {
	GameID int
	GamePk int
}

// MilestoneRef carries the event and teams of a milestone highlight
type MilestoneRef struct {
	EventIDAPI int
	TeamID     int
	OpponentID int
}

// GameHighlights are the whole-game videos picked from the EPG
type GameHighlights struct {
	Condensed *models.Video
	Recap     *models.Video
}

// SelectGameHighlights picks the condensed game and the recap. When both
// categories point at the same video it is kept once: as the recap if its
// title starts with "Recap:", otherwise as the condensed game.
func SelectGameHighlights(media models.ContentMedia) GameHighlights {
	sel := GameHighlights{
		Condensed: media.Category(models.EpgExtendedHighlights).First(),
		Recap:     media.Category(models.EpgRecap).First(),
	}

	if sel.Condensed != nil && sel.Recap != nil && sel.Condensed.ID == sel.Recap.ID {
		if strings.HasPrefix(sel.Recap.Title, "Recap:") {
			sel.Condensed = nil
		} else {
			sel.Recap = nil
		}
	}
	return sel
}

// DedupeMilestones keeps SHOT and GOAL milestones that have a video and a
// player, dropping later milestones that repeat a video id.
func DedupeMilestones(items []models.Milestone) []models.Milestone {
	seen := make(map[string]bool)
	var out []models.Milestone
	for _, m := range items {
		if m.Type != "SHOT" && m.Type != "GOAL" {
			continue
		}
		if !m.HasVideo() || seen[m.Highlight.ID] {
			continue
		}
		seen[m.Highlight.ID] = true

		if m.PlayerID == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Highlight builds a highlight row. milestone is nil for whole-game videos.
func Highlight(game GameRef, typ models.HighlightType, v models.Video, milestone *MilestoneRef) (models.Highlight, error) {
	videoID, err := strconv.ParseInt(strings.TrimSpace(v.ID), 10, 64)
	if err != nil {
		return models.Highlight{}, fmt.Errorf("%w: video id %q", models.ErrUnexpectedShape, v.ID)
	}
	duration, err := convert.ParseClock(v.Duration)
	if err != nil {
		return models.Highlight{}, fmt.Errorf("%w: video %d duration: %v", models.ErrUnexpectedShape, videoID, err)
	}

	h := models.Highlight{
		GameID:      game.GameID,
		GamePk:      game.GamePk,
		Type:        typ,
		VideoIDAPI:  videoID,
		Title:       strings.TrimSpace(v.Title),
		Blurb:       strings.TrimSpace(v.Blurb),
		Description: strings.TrimSpace(v.Description),
		Duration:    duration,
	}

	if pb, err := strconv.ParseInt(strings.TrimSpace(v.MediaPlaybackID), 10, 64); err == nil {
		h.MediaPlaybackIDAPI = sql.NullInt64{Int64: pb, Valid: true}
	}

	if milestone != nil {
		h.EventIDAPI = sql.NullInt32{Int32: int32(milestone.EventIDAPI), Valid: true}
		h.TeamID = sql.NullInt32{Int32: int32(milestone.TeamID), Valid: true}
		h.OpponentID = sql.NullInt32{Int32: int32(milestone.OpponentID), Valid: true}
	}

	return h, nil
}

// HighlightMeta builds the meta row of a goal event
func HighlightMeta(game GameRef, play models.Play, refs models.GoalRefs) (models.HighlightMeta, error) {
	periodTime, err := convert.ParseClock(play.About.PeriodTime)
	if err != nil {
		return models.HighlightMeta{}, fmt.Errorf("%w: event %d periodTime: %v", models.ErrUnexpectedShape, play.About.EventID, err)
	}
	dateTime, err := time.Parse(time.RFC3339, play.About.DateTime)
	if err != nil {
		return models.HighlightMeta{}, fmt.Errorf("%w: event %d dateTime %q", models.ErrUnexpectedShape, play.About.EventID, play.About.DateTime)
	}

	shotType := play.Result.SecondaryType
	if shotType == "" {
		shotType = "NA"
	}

	return models.HighlightMeta{
		GameID:          game.GameID,
		GamePk:          game.GamePk,
		EventIdxAPI:     play.About.EventIdx,
		EventIDAPI:      play.About.EventID,
		TeamID:          refs.TeamID,
		ScorerID:        refs.ScorerID,
		Assist1ID:       refs.Assist1ID,
		Assist2ID:       refs.Assist2ID,
		GoalieID:        refs.GoalieID,
		HighlightID:     refs.HighlightID,
		GameWinningGoal: play.Result.GameWinningGoal,
		EmptyNet:        play.Result.EmptyNet,
		Type:            play.Result.EventTypeID,
		ShotType:        shotType,
		PeriodType:      play.About.PeriodType,
		PeriodNumber:    play.About.Period,
		PeriodTime:      periodTime,
		DateTime:        dateTime.UTC(),
		CoordX:          nullFloat(play.Coordinates.X),
		CoordY:          nullFloat(play.Coordinates.Y),
		HasVideo:        refs.HighlightID.Valid,
	}, nil
}

// PlaybacksFor finds the renditions of a stored highlight in the content
// document
func PlaybacksFor(media models.ContentMedia, h models.Highlight) ([]models.VideoPlayback, error) {
	var v *models.Video
	switch h.Type {
	case models.HighlightCondensed:
		v = media.Category(models.EpgExtendedHighlights).First()
	case models.HighlightRecap:
		v = media.Category(models.EpgRecap).First()
	case models.HighlightMilestone:
		id := strconv.FormatInt(h.VideoIDAPI, 10)
		for i := range media.Milestones.Items {
			m := &media.Milestones.Items[i]
			if m.HasVideo() && m.Highlight.ID == id {
				v = m.Highlight
				break
			}
		}
	default:
		return nil, fmt.Errorf("unhandled highlight type %q", h.Type)
	}

	if v == nil {
		return nil, fmt.Errorf("%w: video %d not found in content", models.ErrUnexpectedShape, h.VideoIDAPI)
	}
	return v.Playbacks, nil
}

// Playbacks builds the playback rows of a highlight. Renditions without a
// URL are skipped; a width or height of "null" is stored as NULL.
func Playbacks(highlightID int, renditions []models.VideoPlayback) []models.Playback {
	out := make([]models.Playback, 0, len(renditions))
	for _, r := range renditions {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		out = append(out, models.Playback{
			HighlightID: highlightID,
			URL:         r.URL,
			Type: models.PlaybackType{
				Name:   r.Name,
				Width:  dimension(r.Width),
				Height: dimension(r.Height),
			},
		})
	}
	return out
}

func dimension(v string) sql.NullInt32 {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return sql.NullInt32{}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(n), Valid: true}
}
