package virtual

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	ID   string
	Body string
}

func messageID(m message) string { return m.ID }

func makeMessages(prefix string, n int) []message {
	out := make([]message, n)
	for i := range out {
		out[i] = message{ID: fmt.Sprintf("%s-%d", prefix, i), Body: "hello"}
	}
	return out
}

func TestAnchorIdempotentOnNoOpRefresh(t *testing.T) {
	items := makeMessages("m", 100)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithItemID[message](messageID),
		WithViewport[message](vp),
	)
	defer v.Close()

	scrollTo(v, vp, 1234)
	v.Refresh() // nothing actually changed
	assert.Equal(t, float64(1234), v.ScrollOffset())
	assert.Equal(t, float64(1234), vp.top)
}

func TestAnchorStartAcrossPrepend(t *testing.T) {
	items := makeMessages("m", 40)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithAnchor[message](AnchorStart),
		WithItemID[message](messageID),
		WithViewport[message](vp),
	)
	defer v.Close()

	require.Equal(t, float64(0), v.ScrollOffset())

	items = append(makeMessages("old", 10), items...)
	v.Refresh()

	// Ten 50px items landed above the anchored item.
	assert.Equal(t, float64(500), v.ScrollOffset())
	assert.Equal(t, float64(500), vp.top)
}

func TestAnchorAutoPreservesVisualContent(t *testing.T) {
	items := makeMessages("m", 40)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithItemID[message](messageID),
		WithViewport[message](vp),
	)
	defer v.Close()

	scrollTo(v, vp, 730)
	items = append(makeMessages("old", 10), items...)
	v.Refresh()

	assert.Equal(t, float64(730+500), v.ScrollOffset())
}

func TestAnchorWithoutItemIDUsesRawIndex(t *testing.T) {
	items := makeMessages("m", 40)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithViewport[message](vp),
	)
	defer v.Close()

	scrollTo(v, vp, 730)
	items = append(makeMessages("old", 10), items...)
	v.Refresh()

	// Raw indices cannot see the prepend, so the pixel offset is
	// reproduced as-is.
	assert.Equal(t, float64(730), v.ScrollOffset())
}

func TestAnchorRemovedItemLeavesScrollAlone(t *testing.T) {
	items := makeMessages("m", 40)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithItemID[message](messageID),
		WithViewport[message](vp),
	)
	defer v.Close()

	scrollTo(v, vp, 600)
	first, _ := v.Range()
	anchored := items[first].ID

	// Drop the anchored item itself.
	var next []message
	for _, m := range items {
		if m.ID != anchored {
			next = append(next, m)
		}
	}
	items = next
	v.Refresh()

	assert.Equal(t, float64(600), v.ScrollOffset())
}

func TestAnchorFuncPinsChosenIndex(t *testing.T) {
	items := makeMessages("m", 40)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithAnchorFunc[message](func(items []message) int { return 20 }),
		WithViewport[message](vp),
	)
	defer v.Close()

	scrollTo(v, vp, 1010) // item 20 starts at 1000; 10px into it
	v.Refresh()
	assert.Equal(t, float64(1010), v.ScrollOffset())
}

func TestReverseStickToBottomOnAppend(t *testing.T) {
	items := makeMessages("m", 100)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithDirection[message](DirectionReverse),
		WithItemID[message](messageID),
		WithViewport[message](vp),
	)
	defer v.Close()

	require.Equal(t, float64(5000), vp.top)

	// Viewport parked at the bottom: appending re-snaps to the new
	// bottom.
	scrollTo(v, vp, 4500)
	items = append(items, message{ID: "new-1"}, message{ID: "new-2"})
	v.Refresh()
	assert.Equal(t, float64(5100), vp.top)
}

func TestReverseScrolledUpKeepsAnchor(t *testing.T) {
	items := makeMessages("m", 100)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithDirection[message](DirectionReverse),
		WithItemID[message](messageID),
		WithViewport[message](vp),
	)
	defer v.Close()

	// Reading history: well above the bottom.
	scrollTo(v, vp, 2000)
	items = append(items, message{ID: "new-1"})
	v.Refresh()

	// New content below must not move the view.
	assert.Equal(t, float64(2000), v.ScrollOffset())

	// Prepending older history must not move it either.
	items = append(makeMessages("old", 4), items...)
	v.Refresh()
	assert.Equal(t, float64(2200), v.ScrollOffset())
}

func TestAnchorIsSingleUse(t *testing.T) {
	items := makeMessages("m", 40)
	vp := &fakeViewport{height: 500}
	v := New(func() []message { return items },
		WithItemHeight[message](50),
		WithItemID[message](messageID),
		WithViewport[message](vp),
	)
	defer v.Close()

	scrollTo(v, vp, 730)
	items = append(makeMessages("old", 10), items...)
	v.Refresh()
	require.Equal(t, float64(1230), v.ScrollOffset())

	// A second refresh captures a fresh anchor rather than replaying
	// the consumed one.
	v.Refresh()
	assert.Equal(t, float64(1230), v.ScrollOffset())
}
