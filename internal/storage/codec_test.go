package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLineFieldOrder(t *testing.T) {
	w := labWork(7, 3, 4.2, DifficultyNormal)
	w.Name = "Lab1"

	line, err := EncodeLine(w)
	require.NoError(t, err)
	assert.Equal(t, "7,Lab1,5,1.5,2026-03-14T09:26:53.589793Z,3,4.2,NORMAL,Math,10", line)
}

func TestEncodeDecodeOptionalFields(t *testing.T) {
	w := labWork(2, 1, 0.5, DifficultyNone)
	w.Discipline.PracticeHours = nil

	line, err := EncodeLine(w)
	require.NoError(t, err)
	assert.Equal(t, "2,Lab,5,1.5,2026-03-14T09:26:53.589793Z,1,0.5,,Math,", line)

	got, err := DecodeLine(line)
	require.NoError(t, err)
	assert.Equal(t, DifficultyNone, got.Difficulty)
	assert.Nil(t, got.Discipline.PracticeHours)
}

func TestDecodeLineRoundTrip(t *testing.T) {
	w := labWork(42, 12, 7.25, DifficultyHopeless)
	w.Coordinates = Coordinates{X: -1000, Y: -3.75}

	line, err := EncodeLine(w)
	require.NoError(t, err)
	got, err := DecodeLine(line)
	require.NoError(t, err)

	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, w.Coordinates, got.Coordinates)
	assert.True(t, w.CreationDate.Equal(got.CreationDate))
	assert.Equal(t, w.MinimalPoint, got.MinimalPoint)
	assert.Equal(t, w.AveragePoint, got.AveragePoint)
	assert.Equal(t, w.Difficulty, got.Difficulty)
	assert.Equal(t, w.Discipline, got.Discipline)
}

func TestEncodeLineRejectsDelimiter(t *testing.T) {
	w := labWork(1, 1, 1, DifficultyNone)
	w.Name = "a,b"
	_, err := EncodeLine(w)
	assert.ErrorIs(t, err, ErrDelimiter)

	w = labWork(1, 1, 1, DifficultyNone)
	w.Discipline.Name = "x\ny"
	_, err = EncodeLine(w)
	assert.ErrorIs(t, err, ErrDelimiter)
}

func TestDecodeLineErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"too few fields", "1,Lab,5", "line"},
		{"too many fields", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,10,extra", "line"},
		{"bad id", "x,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,10", "id"},
		{"max id", "9223372036854775807,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,10", "id"},
		{"zero id", "0,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,10", "id"},
		{"bad x", "1,Lab,five,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,10", "coordinates.x"},
		{"bad y", "1,Lab,5,y,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,10", "coordinates.y"},
		{"bad date", "1,Lab,5,1.5,yesterday,3,4.2,NORMAL,Math,10", "creationDate"},
		{"bad minimal", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3.5,4.2,NORMAL,Math,10", "minimalPoint"},
		{"non-positive minimal", "1,Lab,5,1.5,2026-03-14T09:26:53Z,0,4.2,NORMAL,Math,10", "minimalPoint"},
		{"non-positive average", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3,-1,NORMAL,Math,10", "averagePoint"},
		{"NaN average", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3,NaN,NORMAL,Math,10", "averagePoint"},
		{"infinite average", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3,+Inf,NORMAL,Math,10", "averagePoint"},
		{"bad difficulty", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,normal,Math,10", "difficulty"},
		{"empty name", "1,,5,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,10", "name"},
		{"empty discipline", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,,10", "discipline.name"},
		{"bad hours", "1,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,NORMAL,Math,ten", "discipline.practiceHours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLine(tt.line)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tt.field, perr.Field)
		})
	}
}

func TestDecodeLineAllowsXAboveBound(t *testing.T) {
	w, err := DecodeLine("1,Lab,1000,1.5,2026-03-14T09:26:53Z,3,4.2,,Math,10")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), w.Coordinates.X)
}

func TestDecodeLineToleratesCarriageReturn(t *testing.T) {
	w, err := DecodeLine("1,Lab,5,1.5,2026-03-14T09:26:53Z,3,4.2,INSANE,Math,10\r")
	require.NoError(t, err)
	assert.Equal(t, int64(10), *w.Discipline.PracticeHours)
	assert.Equal(t, DifficultyInsane, w.Difficulty)
}
