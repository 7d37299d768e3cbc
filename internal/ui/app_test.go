package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrollkit/virtual"
	"github.com/scrollkit/virtual/internal/config"
	"github.com/scrollkit/virtual/internal/feed"
)

func newTestModel(t *testing.T, initial, backlog int) *Model {
	t.Helper()
	cfg := config.Default()
	cfg.Feed.ArrivalIntervalMS = 0 // no live ticker in tests
	m := NewModel(cfg, feed.New(initial, backlog, nil), nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
	t.Cleanup(m.v.Close)
	return m
}

func TestStartsAtBottomOfTranscript(t *testing.T) {
	m := newTestModel(t, 100, 0)

	// Reverse direction: the initial offset shows the newest message.
	assert.InDelta(t, m.v.TotalExtent(), m.v.ScrollOffset()+m.vp.Height(), float64(m.cfg.UI.Overscan))

	view := m.View()
	assert.Contains(t, view, "100 messages")
}

func TestKeyScrollMovesViewport(t *testing.T) {
	m := newTestModel(t, 100, 0)
	before := m.v.ScrollOffset()

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, before-1, m.v.ScrollOffset())

	m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, before-1-m.vp.Height(), m.v.ScrollOffset())
}

func TestJumpToOldestAndNewest(t *testing.T) {
	m := newTestModel(t, 200, 0)

	m.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Zero(t, m.v.ScrollOffset())

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.InDelta(t, m.v.TotalExtent()-m.vp.Height(), m.v.ScrollOffset(), 3)
}

func TestScrollingToTopRequestsHistory(t *testing.T) {
	m := newTestModel(t, 100, 50)

	// ScrollEnd inside scrollBy runs the edge check synchronously, so
	// landing near the top must queue a history request.
	m.Update(tea.KeyMsg{Type: tea.KeyHome})
	m.scrollBy(0)

	select {
	case <-m.historyReq:
	default:
		t.Fatal("no history request after scrolling to the top")
	}
}

func TestHistoryLoadRefreshesAndKeepsAnchor(t *testing.T) {
	m := newTestModel(t, 100, 50)

	m.Update(tea.KeyMsg{Type: tea.KeyHome})
	offset := m.v.ScrollOffset()
	require.Zero(t, offset)

	_, cmd := m.Update(historyRequestMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.loadingHistory)

	n := m.feed.LoadOlder(m.cfg.Feed.PageSize)
	require.Equal(t, m.cfg.Feed.PageSize, n)
	m.Update(historyLoadedMsg{count: n})

	assert.False(t, m.loadingHistory)
	// The anchored message stays put: loaded history adds extent
	// above the viewport, so the offset grows by the same amount.
	assert.Greater(t, m.v.ScrollOffset(), offset)
	assert.Equal(t, 150, m.feed.Len())
}

func TestLiveMessageSticksToBottom(t *testing.T) {
	m := newTestModel(t, 100, 0)
	before := m.v.TotalExtent()

	m.Update(liveMsg{})
	assert.Equal(t, 101, m.feed.Len())
	assert.Greater(t, m.v.TotalExtent(), before)
	// Still pinned to the newest message.
	assert.InDelta(t, m.v.TotalExtent(), m.v.ScrollOffset()+m.vp.Height(), float64(m.cfg.UI.Overscan))
}

func TestEmptyFeedShowsPlaceholder(t *testing.T) {
	m := newTestModel(t, 0, 0)
	// Until the first refresh completes the feed counts as loading.
	assert.Equal(t, virtual.StateLoading, m.v.State())

	m.v.Refresh()
	assert.Equal(t, virtual.StateEmpty, m.v.State())
	assert.Contains(t, m.View(), "no messages")
}

func TestViewFitsTerminalHeight(t *testing.T) {
	m := newTestModel(t, 300, 0)
	view := m.View()
	assert.LessOrEqual(t, strings.Count(view, "\n")+1, 25)
}
