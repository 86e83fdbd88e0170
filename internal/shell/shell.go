// Package shell interprets the line-oriented command language that manages the lab work
// collection, either interactively or from script files.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"labworks/internal/history"
	"labworks/internal/storage"
)

var (
	// ErrInputClosed means the current source ended while a command still needed input.
	ErrInputClosed = errors.New("input closed")
	ErrScriptDepth = errors.New("script nesting limit reached")
	ErrScriptCycle = errors.New("script is already running")
)

type Options struct {
	Prompt         string
	HistorySize    int
	MaxScriptDepth int
	EnforceXBound  bool
	Now            func() time.Time
}

func (o *Options) setDefaults() {
	if o.HistorySize <= 0 {
		o.HistorySize = history.DefaultCapacity
	}
	if o.MaxScriptDepth <= 0 {
		o.MaxScriptDepth = 16
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Session owns everything a running shell mutates: the store, the command history,
// the stack of line sources and the stop flag.
type Session struct {
	store    *storage.Store
	history  *history.Buffer
	out      io.Writer
	opts     Options
	initTime time.Time

	sources []LineSource
	scripts []string
	stopped bool
}

func New(store *storage.Store, in LineSource, out io.Writer, opts Options) *Session {
	opts.setDefaults()
	return &Session{
		store:    store,
		history:  history.New(opts.HistorySize),
		out:      out,
		opts:     opts,
		initTime: opts.Now(),
		sources:  []LineSource{in},
	}
}

func (s *Session) Stopped() bool { return s.stopped }

func (s *Session) History() []string { return s.history.Entries() }

// Run reads and executes commands until exit, end of input or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	for !s.stopped {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.prompt(s.opts.Prompt)
		line, err := s.readLine()
		if errors.Is(err, ErrInputClosed) {
			slog.Debug("input closed, leaving shell")
			return nil
		}
		if err != nil {
			return err
		}
		s.Execute(ctx, line)
	}
	return nil
}

// Execute records line in the history and runs it. Failures are reported and never
// stop the session.
func (s *Session) Execute(ctx context.Context, line string) {
	s.history.Add(line)

	fields := strings.Fields(line)
	name := ""
	if len(fields) > 0 {
		name = fields[0]
	}
	cmd, ok := lookup(name)
	if !ok {
		s.printf("Unknown command %q. Type 'help' for the list of commands.\n", name)
		return
	}

	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}
	if err := cmd.run(ctx, s, args); err != nil {
		s.report(name, err)
	}
}

func (s *Session) report(command string, err error) {
	var (
		usage *usageError
		verr  *storage.ValidationError
	)
	switch {
	case errors.As(err, &usage), errors.As(err, &verr):
		s.printf("%s: %v\n", command, err)
	case errors.Is(err, storage.ErrNotFound):
		s.printf("%s: %v\n", command, err)
	case errors.Is(err, ErrInputClosed):
		s.printf("%s: input ended before all fields were entered, nothing changed\n", command)
	default:
		slog.Error("command failed", "command", command, "err", err)
	}
}

func (s *Session) current() LineSource {
	return s.sources[len(s.sources)-1]
}

func (s *Session) readLine() (string, error) {
	line, err := s.current().ReadLine()
	if errors.Is(err, io.EOF) {
		return "", ErrInputClosed
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.current().Name(), err)
	}
	return line, nil
}

func (s *Session) prompt(text string) {
	if s.current().Interactive() {
		fmt.Fprint(s.out, text)
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
