package convert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0:00", 0},
		{"12:34", 754},
		{"00:59", 59},
		{"60:00", 3600},
		{"1:02:03", 3723},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "12", "1:60", "1:-1", "1:2:3:4"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
	}
}

func TestParseClock_MatchesMinutesSeconds(t *testing.T) {
	for m := 0; m < 70; m += 7 {
		for s := 0; s < 60; s += 13 {
			got, err := ParseClock(fmt.Sprintf("%02d:%02d", m, s))
			require.NoError(t, err)
			assert.Equal(t, MinutesSeconds(m, s), got)
		}
	}
}

func TestHeightToCm(t *testing.T) {
	got, err := HeightToCm(`6' 1"`)
	require.NoError(t, err)
	assert.Equal(t, 185, got)

	got, err = HeightToCm(`5' 11"`)
	require.NoError(t, err)
	assert.Equal(t, 180, got)

	_, err = HeightToCm("tall")
	assert.Error(t, err)
}

func TestHeightToCm_MonotonicAndPositive(t *testing.T) {
	prev := 0
	for feet := 4; feet <= 7; feet++ {
		for inches := 0; inches < 12; inches++ {
			cm, err := HeightToCm(fmt.Sprintf("%d' %d\"", feet, inches))
			require.NoError(t, err)
			assert.Greater(t, cm, 0)
			assert.GreaterOrEqual(t, cm, prev)
			prev = cm
		}
	}
}

func TestPoundsToKg(t *testing.T) {
	assert.Equal(t, 91, PoundsToKg(200))
	assert.Equal(t, 0, PoundsToKg(0))
	assert.Equal(t, 86, PoundsToKg(190))
}

func TestSiteLink(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Toronto Maple Leafs", "toronto-maple-leafs"},
		{"Montréal Canadiens", "montreal-canadiens"},
		{"Alexis Lafrenière", "alexis-lafreniere"},
		{"St. Louis Blues", "st-louis-blues"},
		{"Ryan O'Reilly", "ryan-oreilly"},
		{"  Jean-Gabriel  Pageau ", "jean-gabriel-pageau"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SiteLink(tt.in))
		})
	}
}
