// Package resolver maps upstream ids onto stored rows and works out the
// team history changes a boxscore implies.
package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"nhlstats/ingestion/internal/models"
	"nhlstats/ingestion/internal/repository"
)

// ErrMultipleOpenTeams means a player has more than one team edge without
// an end date. It is a data-integrity violation and is never tie-broken.
var ErrMultipleOpenTeams = errors.New("player has more than one open team")

// PlayerLookup loads stored players (with team history) by API id
type PlayerLookup interface {
	PlayersByAPIIDs(ctx context.Context, apiIDs []int) ([]models.Player, error)
}

// GoalLookup resolves the references of a goal event. Lookups return
// repository.ErrNotFound for unknown ids.
type GoalLookup interface {
	PlayerIDByAPIID(ctx context.Context, apiID int) (int, error)
	TeamIDByAPIID(ctx context.Context, season string, apiID int) (int, error)
	HighlightIDByEvent(ctx context.Context, gameID, eventID int) (int, error)
}

// Roster is one side of a boxscore: who dressed and who was scratched
type Roster struct {
	Skaters   []int
	Goalies   []int
	Scratches []int
}

// Rosters holds both sides of a game
type Rosters struct {
	Home Roster
	Away Roster
}

// RostersFromBoxscore extracts the rosters of a live feed boxscore
func RostersFromBoxscore(teams models.BoxscoreTeams) Rosters {
	side := func(t models.BoxscoreTeam) Roster {
		return Roster{Skaters: t.Skaters, Goalies: t.Goalies, Scratches: t.Scratches}
	}
	return Rosters{Home: side(teams.Home), Away: side(teams.Away)}
}

// Dressed returns skaters then goalies minus scratches, in order and
// without duplicates.
func (r Roster) Dressed() []int {
	scratched := make(map[int]bool, len(r.Scratches))
	for _, id := range r.Scratches {
		scratched[id] = true
	}

	seen := make(map[int]bool)
	out := make([]int, 0, len(r.Skaters)+len(r.Goalies))
	for _, list := range [][]int{r.Skaters, r.Goalies} {
		for _, id := range list {
			if scratched[id] || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Sides is a pair of API id lists
type Sides struct {
	Home []int
	Away []int
}

// Partition splits the dressed players of a game into stored and unknown
type Partition struct {
	Known   Sides
	Unknown Sides
}

// ResolvePlayers partitions the dressed players of both sides by whether
// they are already stored. It does not write.
func ResolvePlayers(ctx context.Context, lookup PlayerLookup, rosters Rosters) (*Partition, error) {
	home := rosters.Home.Dressed()
	away := rosters.Away.Dressed()

	all := make([]int, 0, len(home)+len(away))
	all = append(all, home...)
	all = append(all, away...)

	stored, err := lookup.PlayersByAPIIDs(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to look up players: %w", err)
	}

	known := make(map[int]bool, len(stored))
	for _, p := range stored {
		known[p.PlayerIDAPI] = true
	}

	split := func(ids []int) (in, out []int) {
		for _, id := range ids {
			if known[id] {
				in = append(in, id)
			} else {
				out = append(out, id)
			}
		}
		return in, out
	}

	p := &Partition{}
	p.Known.Home, p.Unknown.Home = split(home)
	p.Known.Away, p.Unknown.Away = split(away)
	return p, nil
}

// CurrentTeam returns the open edge of a team history, or nil when the
// player has none
func CurrentTeam(edges []models.PlayerTeam) (*models.PlayerTeam, error) {
	var current *models.PlayerTeam
	for i := range edges {
		if !edges[i].IsOpen() {
			continue
		}
		if current != nil {
			return nil, fmt.Errorf("%w: player %d", ErrMultipleOpenTeams, edges[i].PlayerID)
		}
		current = &edges[i]
	}
	return current, nil
}

// TeamMove is a planned change of a player's current team
type TeamMove = models.TeamMove

// PlanTeamMoves returns the moves needed so that every player's current
// team is teamID as of date. Players already on teamID need no move.
func PlanTeamMoves(players []models.Player, teamID int, date time.Time) ([]TeamMove, error) {
	var moves []TeamMove
	for _, p := range players {
		current, err := CurrentTeam(p.Teams)
		if err != nil {
			return nil, err
		}
		if current != nil && current.TeamID == teamID {
			continue
		}

		move := TeamMove{PlayerID: p.ID, ToTeamID: teamID, Date: date}
		if current != nil {
			move.CloseEdgeID = current.ID
			move.FromTeamID = current.TeamID
		}
		moves = append(moves, move)
	}
	return moves, nil
}

// ApplyTeamMoves applies moves to the in-memory team histories, mirroring
// what the store does in its transaction
func ApplyTeamMoves(players []models.Player, moves []TeamMove) {
	byID := make(map[int]*models.Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}

	for _, m := range moves {
		p, ok := byID[m.PlayerID]
		if !ok {
			continue
		}
		for i := range p.Teams {
			if p.Teams[i].ID == m.CloseEdgeID && m.CloseEdgeID != 0 {
				p.Teams[i].EndDate = sql.NullTime{Time: m.Date, Valid: true}
			}
		}
		p.Teams = append(p.Teams, models.PlayerTeam{
			PlayerID:  p.ID,
			TeamID:    m.ToTeamID,
			StartDate: m.Date,
		})
	}
}

// ResolveGoal maps the participants, team and video of a goal event onto
// stored ids. Players and the highlight are optional; the team is not.
func ResolveGoal(ctx context.Context, lookup GoalLookup, game *models.Game, play *models.Play) (*models.GoalRefs, error) {
	if play.Team == nil || play.Team.ID == 0 {
		return nil, fmt.Errorf("%w: goal event %d has no team", models.ErrUnexpectedShape, play.About.EventID)
	}

	teamID, err := lookup.TeamIDByAPIID(ctx, game.Season, play.Team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team %d of goal event %d: %w", play.Team.ID, play.About.EventID, err)
	}

	refs := &models.GoalRefs{TeamID: teamID}

	var assists []int
	for _, p := range play.Players {
		switch p.PlayerType {
		case "Scorer":
			if !refs.ScorerID.Valid {
				if refs.ScorerID, err = optionalID(ctx, lookup.PlayerIDByAPIID, p.Player.ID); err != nil {
					return nil, err
				}
			}
		case "Assist":
			assists = append(assists, p.Player.ID)
		case "Goalie":
			if !refs.GoalieID.Valid {
				if refs.GoalieID, err = optionalID(ctx, lookup.PlayerIDByAPIID, p.Player.ID); err != nil {
					return nil, err
				}
			}
		}
	}

	if len(assists) > 0 {
		if refs.Assist1ID, err = optionalID(ctx, lookup.PlayerIDByAPIID, assists[0]); err != nil {
			return nil, err
		}
	}
	if len(assists) > 1 {
		if refs.Assist2ID, err = optionalID(ctx, lookup.PlayerIDByAPIID, assists[1]); err != nil {
			return nil, err
		}
	}

	hlID, err := lookup.HighlightIDByEvent(ctx, game.ID, play.About.EventID)
	switch {
	case err == nil:
		refs.HighlightID = sql.NullInt32{Int32: int32(hlID), Valid: true}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up highlight of event %d: %w", play.About.EventID, err)
	}

	return refs, nil
}

// TeamForMilestone returns the team and opponent of a milestone given the
// game's home and away ids. teamIDAPI is the milestone's string team id.
func TeamForMilestone(game *models.Game, teamIDAPI string) (team, opponent int) {
	if id, err := strconv.Atoi(teamIDAPI); err == nil && id == game.HomeTeamIDAPI {
		return game.HomeTeamID, game.AwayTeamID
	}
	return game.AwayTeamID, game.HomeTeamID
}

func optionalID(ctx context.Context, lookup func(context.Context, int) (int, error), apiID int) (sql.NullInt32, error) {
	id, err := lookup(ctx, apiID)
	if errors.Is(err, repository.ErrNotFound) {
		return sql.NullInt32{}, nil
	}
	if err != nil {
		return sql.NullInt32{}, fmt.Errorf("failed to look up player %d: %w", apiID, err)
	}
	return sql.NullInt32{Int32: int32(id), Valid: true}, nil
}
