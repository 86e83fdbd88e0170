package shell

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// LineSource supplies command lines and field answers to a session.
type LineSource interface {
	// ReadLine returns the next line without its terminator, or io.EOF.
	ReadLine() (string, error)
	// Interactive reports whether prompts should be shown for this source.
	Interactive() bool
	Name() string
}

type readerSource struct {
	r           *bufio.Reader
	name        string
	interactive bool
}

func NewReaderSource(name string, r io.Reader, interactive bool) LineSource {
	return &readerSource{
		r:           bufio.NewReader(r),
		name:        name,
		interactive: interactive,
	}
}

func (s *readerSource) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *readerSource) Interactive() bool { return s.interactive }

func (s *readerSource) Name() string { return s.name }
