package storage

import (
	"cmp"
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxX is the upper bound advertised for Coordinates.X.
const MaxX int64 = 337

type Coordinates struct {
	X int64   `json:"x"`
	Y float32 `json:"y"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d; %g)", c.X, c.Y)
}

type Discipline struct {
	Name          string `json:"name"`
	PracticeHours *int64 `json:"practice_hours,omitempty"`
}

func (d Discipline) String() string {
	if d.PracticeHours == nil {
		return d.Name
	}
	return fmt.Sprintf("%s (%d h)", d.Name, *d.PracticeHours)
}

// Difficulty is a closed enumeration. The zero value means the record has no difficulty.
type Difficulty string

const (
	DifficultyNone     Difficulty = ""
	DifficultyVeryEasy Difficulty = "VERY_EASY"
	DifficultyNormal   Difficulty = "NORMAL"
	DifficultyVeryHard Difficulty = "VERY_HARD"
	DifficultyInsane   Difficulty = "INSANE"
	DifficultyHopeless Difficulty = "HOPELESS"
)

var Difficulties = []Difficulty{
	DifficultyVeryEasy,
	DifficultyNormal,
	DifficultyVeryHard,
	DifficultyInsane,
	DifficultyHopeless,
}

// ParseDifficulty accepts only the exact enumeration tags.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	return DifficultyNone, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) String() string {
	if d == DifficultyNone {
		return "none"
	}
	return string(d)
}

type LabWork struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Coordinates  Coordinates `json:"coordinates"`
	CreationDate time.Time   `json:"creation_date"`
	MinimalPoint int64       `json:"minimal_point"`
	AveragePoint float64     `json:"average_point"`
	Difficulty   Difficulty  `json:"difficulty,omitempty"`
	Discipline   Discipline  `json:"discipline"`
}

// Compare orders lab works by (MinimalPoint, AveragePoint, ID).
func (w LabWork) Compare(other LabWork) int {
	if c := cmp.Compare(w.MinimalPoint, other.MinimalPoint); c != 0 {
		return c
	}
	if c := cmp.Compare(w.AveragePoint, other.AveragePoint); c != 0 {
		return c
	}
	return cmp.Compare(w.ID, other.ID)
}

// Validate checks the invariants every stored lab work must hold.
func (w LabWork) Validate(enforceXBound bool) error {
	switch {
	case strings.TrimSpace(w.Name) == "":
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	case strings.ContainsAny(w.Name, ForbiddenChars):
		return &ValidationError{Field: "name", Reason: "must not contain ',' or line breaks"}
	case enforceXBound && w.Coordinates.X > MaxX:
		return &ValidationError{Field: "coordinates.x", Reason: fmt.Sprintf("must be at most %d", MaxX)}
	case w.MinimalPoint <= 0:
		return &ValidationError{Field: "minimalPoint", Reason: "must be greater than 0"}
	case !(w.AveragePoint > 0) || math.IsInf(w.AveragePoint, 1):
		return &ValidationError{Field: "averagePoint", Reason: "must be a finite number greater than 0"}
	case strings.TrimSpace(w.Discipline.Name) == "":
		return &ValidationError{Field: "discipline.name", Reason: "must not be empty"}
	case strings.ContainsAny(w.Discipline.Name, ForbiddenChars):
		return &ValidationError{Field: "discipline.name", Reason: "must not contain ',' or line breaks"}
	}
	return nil
}

func (w LabWork) String() string {
	return fmt.Sprintf("LabWork{id=%d, name=%s, coordinates=%s, creationDate=%s, minimalPoint=%d, averagePoint=%g, difficulty=%s, discipline=%s}",
		w.ID, w.Name, w.Coordinates, w.CreationDate.Format(time.DateTime),
		w.MinimalPoint, w.AveragePoint, w.Difficulty, w.Discipline)
}
