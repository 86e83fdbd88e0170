package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferKeepsMostRecent(t *testing.T) {
	for _, issued := range []int{0, 1, 9, 10, 11, 25} {
		t.Run(fmt.Sprintf("%d commands", issued), func(t *testing.T) {
			b := New(DefaultCapacity)
			for i := 0; i < issued; i++ {
				b.Add(fmt.Sprintf("cmd %d", i))
			}

			want := min(issued, DefaultCapacity)
			require.Equal(t, want, b.Len())

			entries := b.Entries()
			for i, e := range entries {
				assert.Equal(t, fmt.Sprintf("cmd %d", issued-want+i), e)
			}
		})
	}
}

func TestBufferStoresRawLines(t *testing.T) {
	b := New(3)
	b.Add("update 7")
	b.Add("remove_any_by_difficulty NORMAL")
	assert.Equal(t, []string{"update 7", "remove_any_by_difficulty NORMAL"}, b.Entries())
}

func TestEntriesIsACopy(t *testing.T) {
	b := New(2)
	b.Add("show")
	entries := b.Entries()
	entries[0] = "changed"
	assert.Equal(t, []string{"show"}, b.Entries())
}

func TestNewFallsBackToDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, DefaultCapacity, New(-3).Cap())
}
