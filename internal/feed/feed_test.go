package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendGrowsWindow(t *testing.T) {
	f := New(3, 0, nil)
	require.Equal(t, 3, f.Len())

	m := f.Append()
	assert.Equal(t, 4, f.Len())
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, m.ID, f.Messages()[3].ID)
}

func TestLoadOlderPrepends(t *testing.T) {
	f := New(2, 5, nil)
	first := f.Messages()[0].ID

	got := f.LoadOlder(3)
	assert.Equal(t, 3, got)
	assert.Equal(t, 5, f.Len())
	// The previous head is now at index 3.
	assert.Equal(t, first, f.Messages()[3].ID)
	assert.True(t, f.HasHistory())
}

func TestLoadOlderExhaustsBacklog(t *testing.T) {
	f := New(1, 4, nil)
	assert.Equal(t, 4, f.LoadOlder(10))
	assert.False(t, f.HasHistory())
	assert.Zero(t, f.LoadOlder(10))
}

func TestIDsAreUnique(t *testing.T) {
	f := New(50, 0, nil)
	seen := make(map[string]bool)
	for _, m := range f.Messages() {
		assert.False(t, seen[m.ID])
		seen[m.ID] = true
	}
}
