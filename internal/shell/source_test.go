package shell

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderSource(t *testing.T) {
	src := NewReaderSource("script", strings.NewReader("first\r\n\nlast"), false)

	for _, want := range []string{"first", "", "last"} {
		line, err := src.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := src.ReadLine()
	assert.ErrorIs(t, err, io.EOF)

	assert.False(t, src.Interactive())
	assert.Equal(t, "script", src.Name())
}
