package storage

import "time"

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

func hours(n int64) *int64 { return &n }

func labWork(id, minimal int64, average float64, d Difficulty) LabWork {
	return LabWork{
		ID:           id,
		Name:         "Lab",
		Coordinates:  Coordinates{X: 5, Y: 1.5},
		CreationDate: testTime,
		MinimalPoint: minimal,
		AveragePoint: average,
		Difficulty:   d,
		Discipline:   Discipline{Name: "Math", PracticeHours: hours(10)},
	}
}
