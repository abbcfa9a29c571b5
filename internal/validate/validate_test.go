package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	d, err := Date("2021-01-13")
	require.NoError(t, err)
	assert.Equal(t, "2021-01-13", d.Format("2006-01-02"))

	for _, in := range []string{"", "21-01-13", "2021-1-13", "1999-01-01", "2021-13-01", "2021-02-30", "2021/01/13"} {
		_, err := Date(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestGamePk(t *testing.T) {
	pk, err := GamePk("2020020001")
	require.NoError(t, err)
	assert.Equal(t, 2020020001, pk)

	for _, in := range []string{"", "2020", "2000020001", "2020120001", "20200200011", "abc"} {
		_, err := GamePk(in)
		assert.ErrorIs(t, err, ErrInvalidGamePk, in)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"DATE": ModeDate, "gamepk": ModeGamePk, " Flag ": ModeFlag} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("ALL")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestDateRange(t *testing.T) {
	s, e, err := DateRange("2021-01-13", "2021-01-15")
	require.NoError(t, err)
	assert.True(t, s.Before(e))

	_, _, err = DateRange("2021-01-15", "2021-01-13")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, _, err = DateRange("2021-01-15", "nope")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestValueTags(t *testing.T) {
	assert.NoError(t, validate.Var("2021-01-13", dateTag))
	assert.Error(t, validate.Var("2021-02-30", dateTag), "Matches the pattern but is not a calendar date")
	assert.Error(t, validate.Var("1999-01-01", dateTag))
	assert.Error(t, validate.Var("", dateTag))

	assert.NoError(t, validate.Var("2020020001", gamePkTag))
	assert.Error(t, validate.Var("2000020001", gamePkTag))

	assert.NoError(t, validate.Var("FLAG", modeTag))
	assert.Error(t, validate.Var("flag", modeTag), "Mode is upper-cased before the check")
}
