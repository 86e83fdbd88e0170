package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"strings"
)

// Repository is the in-memory ordered collection of lab works. Iteration follows
// insertion order and ids are unique. It is not safe for concurrent use.
type Repository struct {
	works  []LabWork
	index  map[int64]int
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{
		index:  make(map[int64]int),
		nextID: 1,
	}
}

func (r *Repository) Len() int {
	return len(r.works)
}

// NextID returns the id the next Add of an id-less lab work will assign.
func (r *Repository) NextID() int64 {
	return r.nextID
}

// All returns a copy of the collection in iteration order.
func (r *Repository) All() []LabWork {
	return slices.Clone(r.works)
}

func (r *Repository) Get(id int64) (LabWork, bool) {
	pos, ok := r.index[id]
	if !ok {
		return LabWork{}, false
	}
	return r.works[pos], true
}

// Add appends w, assigning NextID when w.ID is zero. A lab work whose id is already
// stored, or whose id would leave no room for NextID to advance, is dropped and Add
// reports false.
func (r *Repository) Add(w LabWork) (LabWork, bool) {
	if w.ID == 0 {
		w.ID = r.nextID
	}
	if w.ID <= 0 || w.ID == math.MaxInt64 {
		return LabWork{}, false
	}
	if _, exists := r.index[w.ID]; exists {
		return LabWork{}, false
	}
	r.index[w.ID] = len(r.works)
	r.works = append(r.works, w)
	if w.ID >= r.nextID {
		r.nextID = w.ID + 1
	}
	return w, true
}

// Update replaces the lab work with the given id. The stored id and creation date are
// kept, and the replacement moves to the end of the iteration order.
func (r *Repository) Update(id int64, w LabWork) (LabWork, error) {
	old, ok := r.Get(id)
	if !ok {
		return LabWork{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	w.ID = old.ID
	w.CreationDate = old.CreationDate
	r.removeAt(r.index[id])
	r.index[w.ID] = len(r.works)
	r.works = append(r.works, w)
	return w, nil
}

// Remove deletes the lab work with the given id and reports whether one existed.
func (r *Repository) Remove(id int64) bool {
	pos, ok := r.index[id]
	if !ok {
		return false
	}
	r.removeAt(pos)
	return true
}

// Clear empties the collection. Ids are not reused.
func (r *Repository) Clear() {
	r.works = nil
	clear(r.index)
}

func (r *Repository) Max() (LabWork, bool) {
	if len(r.works) == 0 {
		return LabWork{}, false
	}
	return slices.MaxFunc(r.works, LabWork.Compare), true
}

// AddIfMax adds w only when it is strictly greater than the current maximum.
// An empty collection has no maximum, so nothing is added.
func (r *Repository) AddIfMax(w LabWork) (LabWork, bool) {
	top, ok := r.Max()
	if !ok || w.Compare(top) <= 0 {
		return LabWork{}, false
	}
	return r.Add(w)
}

// RemoveGreater deletes every lab work strictly greater than w and returns how many
// were removed.
func (r *Repository) RemoveGreater(w LabWork) int {
	kept := r.works[:0]
	removed := 0
	for _, cur := range r.works {
		if cur.Compare(w) > 0 {
			removed++
			continue
		}
		kept = append(kept, cur)
	}
	clear(r.works[len(kept):])
	r.works = kept
	r.reindex()
	return removed
}

// RemoveAnyByDifficulty deletes the first lab work, in iteration order, with difficulty d.
func (r *Repository) RemoveAnyByDifficulty(d Difficulty) (LabWork, bool) {
	pos := slices.IndexFunc(r.works, func(w LabWork) bool { return w.Difficulty == d })
	if pos < 0 {
		return LabWork{}, false
	}
	w := r.works[pos]
	r.removeAt(pos)
	return w, true
}

// UniqueDifficulties yields distinct difficulties in first-seen order, including
// DifficultyNone when some lab work has no difficulty. The collection must not be
// modified while iterating.
func (r *Repository) UniqueDifficulties() iter.Seq[Difficulty] {
	return func(yield func(Difficulty) bool) {
		seen := make(map[Difficulty]struct{}, len(Difficulties)+1)
		for _, w := range r.works {
			if _, ok := seen[w.Difficulty]; ok {
				continue
			}
			seen[w.Difficulty] = struct{}{}
			if !yield(w.Difficulty) {
				return
			}
		}
	}
}

// DisciplinesByName yields every discipline, duplicates included, ordered by name.
// Equal names keep iteration order.
func (r *Repository) DisciplinesByName() iter.Seq[Discipline] {
	return func(yield func(Discipline) bool) {
		disciplines := make([]Discipline, 0, len(r.works))
		for _, w := range r.works {
			disciplines = append(disciplines, w.Discipline)
		}
		slices.SortStableFunc(disciplines, func(a, b Discipline) int {
			return strings.Compare(a.Name, b.Name)
		})
		for _, d := range disciplines {
			if !yield(d) {
				return
			}
		}
	}
}

// LoadFrom decodes src line by line and adds every decodable lab work. Malformed lines are
// skipped and returned as skipped; err is set only when reading src fails.
func (r *Repository) LoadFrom(src io.Reader) (loaded int, skipped []error, err error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, err := DecodeLine(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNo
			}
			skipped = append(skipped, err)
			continue
		}
		if _, ok := r.Add(w); ok {
			loaded++
		}
	}
	if err := sc.Err(); err != nil {
		return loaded, skipped, fmt.Errorf("read lab works: %w", err)
	}
	return loaded, skipped, nil
}

// SaveTo writes every lab work to dst, one line each. Encoding happens before anything is
// written, so an unencodable record leaves dst untouched.
func (r *Repository) SaveTo(dst io.Writer) error {
	var buf bytes.Buffer
	for _, w := range r.works {
		line, err := EncodeLine(w)
		if err != nil {
			return err
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if _, err := buf.WriteTo(dst); err != nil {
		return fmt.Errorf("write lab works: %w", err)
	}
	return nil
}

func (r *Repository) removeAt(pos int) {
	r.works = slices.Delete(r.works, pos, pos+1)
	r.reindex()
}

func (r *Repository) reindex() {
	clear(r.index)
	for i, w := range r.works {
		r.index[w.ID] = i
	}
}
