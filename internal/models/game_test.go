package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func storedGame(status int) Game {
	return Game{GamePk: 2020020001, StatusCode: status}
}

func TestGame_IsFinal(t *testing.T) {
	assert.True(t, storedGame(StatusFinal).IsFinal())
	assert.False(t, storedGame(9).IsFinal())
}

func TestGame_Flags(t *testing.T) {
	flags := []Flag{FlagBoxscores, FlagLinescores, FlagHighlights, FlagHighlightMeta, FlagPlaybacks}

	for _, f := range flags {
		assert.False(t, storedGame(StatusFinal).HasFlag(f), "flag %s", f)

		g := storedGame(StatusFinal)
		g.SetFlag(f, true)
		assert.True(t, g.HasFlag(f), "flag %s", f)
		for _, other := range flags {
			if other != f {
				assert.False(t, g.HasFlag(other), "%s set along with %s", other, f)
			}
		}

		g.SetFlag(f, false)
		assert.False(t, g.HasFlag(f), "flag %s", f)
	}

	assert.False(t, storedGame(StatusFinal).HasFlag(Flag("unknown")))
	assert.False(t, Flag("status_code").Valid())
}
