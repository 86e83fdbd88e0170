package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"labworks/internal/storage"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, s *Session, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"help", "show the available commands", runHelp},
		{"info", "show collection type, initialization time and size", runInfo},
		{"show", "print every lab work", runShow},
		{"add", "add a new lab work", runAdd},
		{"update", "update id : replace the lab work with the given id", runUpdate},
		{"remove_by_id", "remove_by_id id : remove the lab work with the given id", runRemoveByID},
		{"clear", "remove every lab work", runClear},
		{"save", "save the collection to the backing file", runSave},
		{"execute_script", "execute_script file_name : run the commands in the given file", runExecuteScript},
		{"exit", "leave without saving", runExit},
		{"add_if_max", "add a new lab work if it is greater than the current maximum", runAddIfMax},
		{"remove_greater", "remove every lab work greater than the entered one", runRemoveGreater},
		{"history", "show the most recent commands", runHistory},
		{"remove_any_by_difficulty", "remove_any_by_difficulty difficulty : remove one lab work with the given difficulty", runRemoveAnyByDifficulty},
		{"print_unique_difficulty", "print the distinct difficulties", runPrintUniqueDifficulty},
		{"print_field_ascending_discipline", "print the disciplines ordered by name", runPrintDisciplines},
	}
}

func lookup(name string) (command, bool) {
	i := slices.IndexFunc(commands, func(c command) bool { return c.name == name })
	if i < 0 {
		return command{}, false
	}
	return commands[i], true
}

func runHelp(_ context.Context, s *Session, _ []string) error {
	s.printf("Available commands:\n")
	for _, c := range commands {
		s.printf("  %-34s %s\n", c.name, c.usage)
	}
	return nil
}

func runInfo(_ context.Context, s *Session, _ []string) error {
	s.printf("Type: ordered lab work collection (unique ids, insertion order)\n")
	s.printf("Initialized: %s\n", s.initTime.Format(time.DateTime))
	s.printf("Elements: %d\n", s.store.Len())
	s.printf("Next id: %d\n", s.store.NextID())
	return nil
}

func runShow(_ context.Context, s *Session, _ []string) error {
	if s.store.Len() == 0 {
		s.printf("The collection is empty.\n")
		return nil
	}
	for _, w := range s.store.All() {
		s.printf("%s\n", w)
	}
	return nil
}

func runAdd(_ context.Context, s *Session, _ []string) error {
	w, err := s.collectLabWork(nil)
	if err != nil {
		return err
	}
	added, ok := s.store.Add(w)
	if !ok {
		s.printf("No id is available for a new lab work, nothing added.\n")
		return nil
	}
	s.printf("Lab work %d added.\n", added.ID)
	return nil
}

func runUpdate(_ context.Context, s *Session, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	existing, ok := s.store.Get(id)
	if !ok {
		return fmt.Errorf("lab work %d: %w", id, storage.ErrNotFound)
	}
	s.printf("Current value:\n%s\n", existing)

	w, err := s.collectLabWork(&existing)
	if err != nil {
		return err
	}
	if _, err := s.store.Update(id, w); err != nil {
		return err
	}
	s.printf("Lab work %d updated.\n", id)
	return nil
}

func runRemoveByID(_ context.Context, s *Session, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if s.store.Remove(id) {
		s.printf("Lab work %d removed.\n", id)
	} else {
		s.printf("No lab work with id %d.\n", id)
	}
	return nil
}

func runClear(_ context.Context, s *Session, _ []string) error {
	s.store.Clear()
	s.printf("Collection cleared.\n")
	return nil
}

func runSave(ctx context.Context, s *Session, _ []string) error {
	if err := s.store.Save(ctx); err != nil {
		s.printf("Collection was not saved.\n")
		return err
	}
	s.printf("Collection saved to %s.\n", s.store.Path())
	return nil
}

func runExecuteScript(ctx context.Context, s *Session, args []string) error {
	if len(args) == 0 {
		return usagef("script file name is required")
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	if slices.Contains(s.scripts, path) {
		return usagef("%s: %v", args[0], ErrScriptCycle)
	}
	if len(s.scripts) >= s.opts.MaxScriptDepth {
		return usagef("%s: %v (%d)", args[0], ErrScriptDepth, s.opts.MaxScriptDepth)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	s.sources = append(s.sources, NewReaderSource(path, f, false))
	s.scripts = append(s.scripts, path)
	defer func() {
		s.sources = s.sources[:len(s.sources)-1]
		s.scripts = s.scripts[:len(s.scripts)-1]
	}()

	slog.Debug("script started", "script", path, "depth", len(s.scripts))
	for !s.stopped {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.readLine()
		if errors.Is(err, ErrInputClosed) {
			break
		}
		if err != nil {
			return err
		}
		s.Execute(ctx, line)
	}
	slog.Debug("script finished", "script", path)
	return nil
}

func runExit(_ context.Context, s *Session, _ []string) error {
	s.printf("Bye.\n")
	s.stopped = true
	return nil
}

func runAddIfMax(_ context.Context, s *Session, _ []string) error {
	w, err := s.collectLabWork(nil)
	if err != nil {
		return err
	}
	w.ID = s.store.NextID()
	if added, ok := s.store.AddIfMax(w); ok {
		s.printf("Lab work %d added.\n", added.ID)
	} else {
		s.printf("Lab work is not greater than the maximum, nothing added.\n")
	}
	return nil
}

func runRemoveGreater(_ context.Context, s *Session, _ []string) error {
	w, err := s.collectLabWork(nil)
	if err != nil {
		return err
	}
	w.ID = s.store.NextID()
	n := s.store.RemoveGreater(w)
	s.printf("Removed %d lab work(s).\n", n)
	return nil
}

func runHistory(_ context.Context, s *Session, _ []string) error {
	for _, line := range s.history.Entries() {
		s.printf("%s\n", line)
	}
	return nil
}

func runRemoveAnyByDifficulty(_ context.Context, s *Session, args []string) error {
	if len(args) == 0 {
		return usagef("difficulty is required")
	}
	d, err := storage.ParseDifficulty(args[0])
	if err != nil {
		return usagef("%v", err)
	}
	if w, ok := s.store.RemoveAnyByDifficulty(d); ok {
		s.printf("Lab work %d removed.\n", w.ID)
	} else {
		s.printf("No lab work with difficulty %s.\n", d)
	}
	return nil
}

func runPrintUniqueDifficulty(_ context.Context, s *Session, _ []string) error {
	s.printf("Unique difficulties:\n")
	for d := range s.store.UniqueDifficulties() {
		s.printf("%s\n", d)
	}
	return nil
}

func runPrintDisciplines(_ context.Context, s *Session, _ []string) error {
	s.printf("Disciplines in ascending order:\n")
	for d := range s.store.DisciplinesByName() {
		s.printf("%s\n", d)
	}
	return nil
}

func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, usagef("id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, usagef("invalid id format %q", args[0])
	}
	return id, nil
}
