package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labworks/internal/storage"
)

func TestParsers(t *testing.T) {
	t.Run("positive int", func(t *testing.T) {
		n, err := parsePositiveInt("12")
		require.NoError(t, err)
		assert.Equal(t, int64(12), n)

		_, err = parsePositiveInt("0")
		assert.ErrorIs(t, err, errNotPositive)
		_, err = parsePositiveInt("1e3")
		assert.Error(t, err)
	})

	t.Run("positive float", func(t *testing.T) {
		f, err := parsePositiveFloat("0.25")
		require.NoError(t, err)
		assert.Equal(t, 0.25, f)

		_, err = parsePositiveFloat("-0.25")
		assert.ErrorIs(t, err, errNotPositive)
		_, err = parsePositiveFloat("+Inf")
		assert.Error(t, err)
	})

	t.Run("optional difficulty", func(t *testing.T) {
		d, err := parseOptionalDifficulty("")
		require.NoError(t, err)
		assert.Equal(t, storage.DifficultyNone, d)

		d, err = parseOptionalDifficulty("VERY_EASY")
		require.NoError(t, err)
		assert.Equal(t, storage.DifficultyVeryEasy, d)

		_, err = parseOptionalDifficulty("VERY EASY")
		assert.Error(t, err)
	})

	t.Run("text", func(t *testing.T) {
		parse := parseText("name")
		v, err := parse("Lab 1")
		require.NoError(t, err)
		assert.Equal(t, "Lab 1", v)

		_, err = parse("")
		assert.EqualError(t, err, "name must not be empty")
		_, err = parse("Lab,1")
		assert.Error(t, err)
		_, err = parse("Lab\r1")
		assert.Error(t, err)
		_, err = parse("Lab\n1")
		assert.Error(t, err)
	})

	t.Run("x bound", func(t *testing.T) {
		s := &Session{opts: Options{EnforceXBound: true}}
		_, err := s.parseX("338")
		assert.Error(t, err)
		x, err := s.parseX("337")
		require.NoError(t, err)
		assert.Equal(t, storage.MaxX, x)

		s.opts.EnforceXBound = false
		x, err = s.parseX("338")
		require.NoError(t, err)
		assert.Equal(t, int64(338), x)
	})
}
