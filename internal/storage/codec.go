package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	Delimiter = ","
	// ForbiddenChars may not appear in any text field of a stored lab work.
	ForbiddenChars = Delimiter + "\r\n"
	fieldCount     = 10
)

var fieldNames = [fieldCount]string{
	"id", "name", "coordinates.x", "coordinates.y", "creationDate",
	"minimalPoint", "averagePoint", "difficulty", "discipline.name", "discipline.practiceHours",
}

// EncodeLine renders w as one delimited line without a trailing newline.
// Field order: id, name, x, y, creationDate, minimalPoint, averagePoint, difficulty,
// discipline name, practice hours.
func EncodeLine(w LabWork) (string, error) {
	if strings.ContainsAny(w.Name, ForbiddenChars) {
		return "", fmt.Errorf("encode lab work %d name: %w", w.ID, ErrDelimiter)
	}
	if strings.ContainsAny(w.Discipline.Name, ForbiddenChars) {
		return "", fmt.Errorf("encode lab work %d discipline: %w", w.ID, ErrDelimiter)
	}

	hours := ""
	if w.Discipline.PracticeHours != nil {
		hours = strconv.FormatInt(*w.Discipline.PracticeHours, 10)
	}
	fields := [fieldCount]string{
		strconv.FormatInt(w.ID, 10),
		w.Name,
		strconv.FormatInt(w.Coordinates.X, 10),
		strconv.FormatFloat(float64(w.Coordinates.Y), 'g', -1, 32),
		w.CreationDate.Format(time.RFC3339Nano),
		strconv.FormatInt(w.MinimalPoint, 10),
		strconv.FormatFloat(w.AveragePoint, 'g', -1, 64),
		string(w.Difficulty),
		w.Discipline.Name,
		hours,
	}
	return strings.Join(fields[:], Delimiter), nil
}

// DecodeLine parses one line produced by EncodeLine. The decoded record must satisfy
// the stored-record invariants; the x bound is not checked so that older files still load.
func DecodeLine(line string) (LabWork, error) {
	parts := strings.Split(strings.TrimRight(line, "\r"), Delimiter)
	if len(parts) != fieldCount {
		return LabWork{}, &ParseError{Field: "line", Err: fmt.Errorf("expected %d fields, got %d", fieldCount, len(parts))}
	}

	var (
		w   LabWork
		err error
	)
	if w.ID, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
		return LabWork{}, fieldErr(0, err)
	}
	if w.ID <= 0 {
		return LabWork{}, fieldErr(0, fmt.Errorf("must be positive"))
	}
	if w.ID == math.MaxInt64 {
		return LabWork{}, fieldErr(0, fmt.Errorf("must be less than %d", int64(math.MaxInt64)))
	}
	w.Name = parts[1]
	if w.Coordinates.X, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
		return LabWork{}, fieldErr(2, err)
	}
	y, err := strconv.ParseFloat(parts[3], 32)
	if err != nil {
		return LabWork{}, fieldErr(3, err)
	}
	w.Coordinates.Y = float32(y)
	if w.CreationDate, err = time.Parse(time.RFC3339Nano, parts[4]); err != nil {
		return LabWork{}, fieldErr(4, err)
	}
	if w.MinimalPoint, err = strconv.ParseInt(parts[5], 10, 64); err != nil {
		return LabWork{}, fieldErr(5, err)
	}
	if w.AveragePoint, err = strconv.ParseFloat(parts[6], 64); err != nil {
		return LabWork{}, fieldErr(6, err)
	}
	if parts[7] != "" {
		if w.Difficulty, err = ParseDifficulty(parts[7]); err != nil {
			return LabWork{}, fieldErr(7, err)
		}
	}
	w.Discipline.Name = parts[8]
	if parts[9] != "" {
		hours, err := strconv.ParseInt(parts[9], 10, 64)
		if err != nil {
			return LabWork{}, fieldErr(9, err)
		}
		w.Discipline.PracticeHours = &hours
	}

	var verr *ValidationError
	if err := w.Validate(false); errors.As(err, &verr) {
		return LabWork{}, &ParseError{Field: verr.Field, Err: verr}
	}
	return w, nil
}

func fieldErr(idx int, err error) error {
	return &ParseError{Field: fieldNames[idx], Err: err}
}
