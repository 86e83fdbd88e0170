package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Mirror receives a copy of the collection after every successful save.
type Mirror interface {
	Name() string
	Save(ctx context.Context, works []LabWork) error
	Close() error
}

// Store binds a Repository to its backing file and optional snapshot mirrors.
//
// Saving truncates and rewrites the file in place; a crash in the middle of a save can
// leave it partially written.
type Store struct {
	*Repository
	path    string
	mirrors []Mirror
}

func NewStore(path string, mirrors ...Mirror) *Store {
	return &Store{
		Repository: NewRepository(),
		path:       path,
		mirrors:    mirrors,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load replaces the collection with the contents of the backing file. Malformed lines
// are logged and skipped. When the file cannot be read the collection is left empty and
// the error is returned.
func (s *Store) Load() error {
	repo := NewRepository()
	s.Repository = repo

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	loaded, skipped, err := repo.LoadFrom(f)
	for _, lineErr := range skipped {
		slog.Error("skipped malformed lab work", "file", s.path, "err", lineErr)
	}
	if err != nil {
		s.Repository = NewRepository()
		return fmt.Errorf("load %s: %w", s.path, err)
	}
	slog.Debug("lab works loaded", "file", s.path, "loaded", loaded, "skipped", len(skipped))
	return nil
}

// Save writes the collection to the backing file, then to every mirror. Mirror
// failures are logged and do not fail the save.
func (s *Store) Save(ctx context.Context) error {
	var buf bytes.Buffer
	if err := s.SaveTo(&buf); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}

	works := s.All()
	for _, m := range s.mirrors {
		if err := m.Save(ctx, works); err != nil {
			slog.Error("failed to mirror lab works", "mirror", m.Name(), "err", err)
			continue
		}
		slog.Debug("lab works mirrored", "mirror", m.Name(), "count", len(works))
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	for _, m := range s.mirrors {
		if err := m.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}
