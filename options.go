package virtual

import "github.com/scrollkit/virtual/internal/schedule"

// AnchorMode selects which item the engine pins to when the
// collection mutates.
type AnchorMode int

const (
	// AnchorAuto pins the first visible item at its current offset
	// within the viewport.
	AnchorAuto AnchorMode = iota
	// AnchorStart pins the item currently at index 0.
	AnchorStart
	// AnchorEnd pins the item currently at the last index.
	AnchorEnd
)

// DefaultOverscan is the number of extra items rendered on each side
// of the strictly-visible range when no overscan is configured.
const DefaultOverscan = 2

type config[T any] struct {
	itemHeight     float64
	overscan       int
	direction      Direction
	anchorMode     AnchorMode
	anchorFunc     func(items []T) int
	startThreshold float64
	endThreshold   float64
	onStartReached func(distance float64)
	onEndReached   func(distance float64)
	scheduler      schedule.Scheduler
	viewport       Viewport
	viewportHeight float64
	itemID         func(T) string
	elastic        bool
}

// Option configures a Virtualizer at construction time.
type Option[T any] func(*config[T])

// WithItemHeight sets the default height, in pixels, assumed for
// items that have not been measured yet. Without it, the first real
// measurement is adopted as the provisional default.
func WithItemHeight[T any](px float64) Option[T] {
	return func(c *config[T]) {
		c.itemHeight = px
	}
}

// WithOverscan sets how many extra items to expose beyond the
// strictly-visible range on each side.
func WithOverscan[T any](n int) Option[T] {
	return func(c *config[T]) {
		c.overscan = n
	}
}

// WithDirection sets the layout direction.
func WithDirection[T any](d Direction) Option[T] {
	return func(c *config[T]) {
		c.direction = d
	}
}

// WithAnchor sets the anchor mode used across collection mutations.
func WithAnchor[T any](m AnchorMode) Option[T] {
	return func(c *config[T]) {
		c.anchorMode = m
	}
}

// WithAnchorFunc supplies a custom anchor: fn receives the current
// item array and returns the index to pin. It overrides the anchor
// mode.
func WithAnchorFunc[T any](fn func(items []T) int) Option[T] {
	return func(c *config[T]) {
		c.anchorFunc = fn
	}
}

// WithStartThreshold sets the pixel distance from the start within
// which the start-reached callback fires.
func WithStartThreshold[T any](px float64) Option[T] {
	return func(c *config[T]) {
		c.startThreshold = px
	}
}

// WithEndThreshold sets the pixel distance from the end within which
// the end-reached callback fires.
func WithEndThreshold[T any](px float64) Option[T] {
	return func(c *config[T]) {
		c.endThreshold = px
	}
}

// WithOnStartReached registers the callback fired when the scroll
// position nears the start. It receives the remaining distance and
// may fire on every coalesced scroll frame while inside the
// threshold; de-duplication is the host's business.
func WithOnStartReached[T any](fn func(distance float64)) Option[T] {
	return func(c *config[T]) {
		c.onStartReached = fn
	}
}

// WithOnEndReached registers the callback fired when the scroll
// position nears the end.
func WithOnEndReached[T any](fn func(distance float64)) Option[T] {
	return func(c *config[T]) {
		c.onEndReached = fn
	}
}

// WithScheduler replaces the frame scheduler. The default is
// schedule.Immediate, which runs deferred work synchronously;
// interactive hosts pass a schedule.Frame to coalesce event bursts.
func WithScheduler[T any](s schedule.Scheduler) Option[T] {
	return func(c *config[T]) {
		c.scheduler = s
	}
}

// WithViewport attaches the viewport at construction. It can also be
// attached later via Attach.
func WithViewport[T any](vp Viewport) Option[T] {
	return func(c *config[T]) {
		c.viewport = vp
	}
}

// WithViewportHeight sets a fallback viewport height used until the
// host reports a real one via ResizeViewport.
func WithViewportHeight[T any](px float64) Option[T] {
	return func(c *config[T]) {
		c.viewportHeight = px
	}
}

// WithItemID supplies a stable identity for items. With it, anchors
// survive prepends and removals: the engine re-resolves the anchored
// item's index after a rebuild instead of trusting the raw index.
func WithItemID[T any](fn func(T) string) Option[T] {
	return func(c *config[T]) {
		c.itemID = fn
	}
}

// WithElasticOverscroll tells the engine the platform reports
// out-of-bounds scroll positions during momentum bounce. Edge
// callbacks are then suppressed while the position is outside
// [0, extent]. The host resolves the platform capability once and
// passes it in; the engine never sniffs.
func WithElasticOverscroll[T any](enabled bool) Option[T] {
	return func(c *config[T]) {
		c.elastic = enabled
	}
}
