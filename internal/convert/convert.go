// Package convert holds the unit and string conversions applied to upstream
// values before they are stored.
package convert

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	cmPerFoot  = 30.48
	cmPerInch  = 2.54
	kgPerPound = 0.45359237
)

var heightPattern = regexp.MustCompile(`^\s*(\d+)\s*'\s*(\d+)\s*"?\s*$`)

// MinutesSeconds returns m minutes and s seconds as seconds.
func MinutesSeconds(m, s int) int {
	return m*60 + s
}

// ParseClock converts an "mm:ss" (or "hh:mm:ss") clock to seconds.
// An empty value is zero.
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock value %q", value)
		}
		// seconds (and minutes in hh:mm:ss) must stay below 60
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid clock value %q", value)
		}
		total = total*60 + n
	}
	return total, nil
}

// HeightToCm converts a `6' 1"` style height to whole centimetres.
func HeightToCm(height string) (int, error) {
	m := heightPattern.FindStringSubmatch(height)
	if m == nil {
		return 0, fmt.Errorf("invalid height %q", height)
	}
	feet, _ := strconv.Atoi(m[1])
	inches, _ := strconv.Atoi(m[2])
	if feet == 0 && inches == 0 {
		return 0, fmt.Errorf("invalid height %q", height)
	}
	return int(math.Round(float64(feet)*cmPerFoot + float64(inches)*cmPerInch)), nil
}

// PoundsToKg converts pounds to whole kilograms.
func PoundsToKg(pounds int) int {
	return int(math.Round(float64(pounds) * kgPerPound))
}

// SiteLink turns a team or player name into a lower-case, dash separated
// slug. Accents are folded ("Lafrenière" -> "lafreniere").
func SiteLink(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-':
			pendingDash = true
		}
	}
	return b.String()
}
