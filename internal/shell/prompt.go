package shell

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"labworks/internal/storage"
)

var errNotPositive = errors.New("must be greater than 0")

// ask prompts until parse accepts the trimmed answer. It only gives up when the
// current source runs out of lines.
func ask[T any](s *Session, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		s.prompt(prompt)
		line, err := s.readLine()
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(strings.TrimSpace(line))
		if err == nil {
			return v, nil
		}
		s.printf("Invalid input: %v. Try again.\n", err)
	}
}

// collectLabWork reads every user-supplied field of a lab work. When existing is not
// nil its id and creation date are carried over.
func (s *Session) collectLabWork(existing *storage.LabWork) (storage.LabWork, error) {
	var (
		w   storage.LabWork
		err error
	)
	if w.Name, err = ask(s, "Name: ", parseText("name")); err != nil {
		return storage.LabWork{}, err
	}
	xPrompt := "Coordinate x: "
	if s.opts.EnforceXBound {
		xPrompt = fmt.Sprintf("Coordinate x (at most %d): ", storage.MaxX)
	}
	if w.Coordinates.X, err = ask(s, xPrompt, s.parseX); err != nil {
		return storage.LabWork{}, err
	}
	if w.Coordinates.Y, err = ask(s, "Coordinate y: ", parseY); err != nil {
		return storage.LabWork{}, err
	}
	if w.MinimalPoint, err = ask(s, "Minimal point (greater than 0): ", parsePositiveInt); err != nil {
		return storage.LabWork{}, err
	}
	if w.AveragePoint, err = ask(s, "Average point (greater than 0): ", parsePositiveFloat); err != nil {
		return storage.LabWork{}, err
	}
	if w.Difficulty, err = ask(s, difficultyPrompt(), parseOptionalDifficulty); err != nil {
		return storage.LabWork{}, err
	}
	if w.Discipline.Name, err = ask(s, "Discipline name: ", parseText("discipline name")); err != nil {
		return storage.LabWork{}, err
	}
	hours, err := ask(s, "Practice hours: ", parseInt)
	if err != nil {
		return storage.LabWork{}, err
	}
	w.Discipline.PracticeHours = &hours

	if existing != nil {
		w.ID = existing.ID
		w.CreationDate = existing.CreationDate
	} else {
		w.CreationDate = s.opts.Now()
	}
	return w, nil
}

func parseText(field string) func(string) (string, error) {
	return func(v string) (string, error) {
		if v == "" {
			return "", fmt.Errorf("%s must not be empty", field)
		}
		if strings.ContainsAny(v, storage.ForbiddenChars) {
			return "", fmt.Errorf("%s must not contain %q or line breaks", field, storage.Delimiter)
		}
		return v, nil
	}
}

func parseInt(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", v)
	}
	return n, nil
}

func (s *Session) parseX(v string) (int64, error) {
	x, err := parseInt(v)
	if err != nil {
		return 0, err
	}
	if s.opts.EnforceXBound && x > storage.MaxX {
		return 0, fmt.Errorf("x must be at most %d", storage.MaxX)
	}
	return x, nil
}

func parseFloat(v string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(v, bitSize)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	return f, nil
}

func parseY(v string) (float32, error) {
	f, err := parseFloat(v, 32)
	return float32(f), err
}

func parsePositiveInt(v string) (int64, error) {
	n, err := parseInt(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errNotPositive
	}
	return n, nil
}

func parsePositiveFloat(v string) (float64, error) {
	f, err := parseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, errNotPositive
	}
	return f, nil
}

func parseOptionalDifficulty(v string) (storage.Difficulty, error) {
	if v == "" {
		return storage.DifficultyNone, nil
	}
	return storage.ParseDifficulty(v)
}

func difficultyPrompt() string {
	names := make([]string, len(storage.Difficulties))
	for i, d := range storage.Difficulties {
		names[i] = string(d)
	}
	return fmt.Sprintf("Difficulty (%s, blank for none): ", strings.Join(names, ", "))
}
