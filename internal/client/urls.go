package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public NHL stats API
const DefaultBaseURL = "https://statsapi.web.nhl.com/api/v1"

// ScheduleURL returns the schedule URL for a date
func ScheduleURL(base string, date time.Time) string {
	return fmt.Sprintf("%s/schedule?date=%s", trimBase(base), date.Format(time.DateOnly))
}

// LiveFeedURL returns the live feed URL of a game
func LiveFeedURL(base string, gamePk int) string {
	return fmt.Sprintf("%s/game/%d/feed/live", trimBase(base), gamePk)
}

// ContentURL returns the content URL of a game
func ContentURL(base string, gamePk int) string {
	return fmt.Sprintf("%s/game/%d/content", trimBase(base), gamePk)
}

// PersonURL returns the profile URL of a player
func PersonURL(base string, playerID int) string {
	return fmt.Sprintf("%s/people/%d", trimBase(base), playerID)
}

// ConferencesURL returns the conference list URL
func ConferencesURL(base string) string {
	return trimBase(base) + "/conferences"
}

// DivisionsURL returns the division list URL
func DivisionsURL(base string) string {
	return trimBase(base) + "/divisions"
}

// TeamsURL returns the team list URL for a season
func TeamsURL(base, season string) string {
	return fmt.Sprintf("%s/teams?season=%s", trimBase(base), url.QueryEscape(season))
}

func trimBase(base string) string {
	if base == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}
