// Package virtual implements a virtual-scrolling engine: it maps a
// large ordered collection and a scrollable viewport to the small
// slice of items that actually needs rendering, plus two spacer sizes
// that reproduce the full scrollable extent.
//
// The engine renders nothing itself. The host supplies a collection
// accessor and forwards viewport events (Scroll, ScrollEnd,
// ResizeViewport, per-item ResizeItem); the engine answers with a
// visible range, a leading offset and a trailing size. Collection
// mutations go through Refresh, which preserves the perceived scroll
// position by anchoring an item rather than a pixel offset.
package virtual

import (
	"iter"
	"sync"
	"time"

	"github.com/scrollkit/virtual/internal/geometry"
	"github.com/scrollkit/virtual/internal/schedule"
)

// snapshot is the memoized output of the visible-range calculator.
// Any mutation marks it dirty; readers recompute it once per dirty
// mark.
type snapshot struct {
	first int
	last  int
	lead  float64
	trail float64
}

// Virtualizer owns all virtual-scrolling state for one mounted
// viewport. A mutex guards the state because frame-scheduled work
// fires from timer goroutines; scheduler calls always happen outside
// the lock so a firing frame can never deadlock against the engine.
type Virtualizer[T any] struct {
	cfg    config[T]
	source func() []T

	sched schedule.Scheduler

	mu             sync.Mutex
	geo            *geometry.Table
	viewport       Viewport
	viewportHeight float64

	scrollOffset float64
	lastScrollAt time.Time
	velocity     float64

	state  State
	anchor anchorPoint

	// Identity index from the last rebuild, maintained only when an
	// item ID function is configured.
	ids   []string
	index map[string]int

	snap       snapshot
	rangeDirty bool
	closed     bool
}

// New creates a Virtualizer over the given collection accessor. The
// accessor is called on demand and must return the collection in its
// current order; the engine never copies or mutates items.
func New[T any](source func() []T, opts ...Option[T]) *Virtualizer[T] {
	cfg := config[T]{
		overscan:  DefaultOverscan,
		scheduler: schedule.Immediate{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &Virtualizer[T]{
		cfg:        cfg,
		source:     source,
		geo:        geometry.NewTable(cfg.itemHeight),
		sched:      cfg.scheduler,
		state:      StateLoading,
		rangeDirty: true,
	}

	items := v.items()
	v.geo.SetCount(len(items))
	v.geo.Rebuild()
	v.reindex(items)
	if len(items) > 0 {
		v.state = StateOK
	}

	v.viewportHeight = cfg.viewportHeight
	if cfg.viewport != nil {
		v.attach(cfg.viewport)
	}
	return v
}

func (v *Virtualizer[T]) items() []T {
	if v.source == nil {
		return nil
	}
	return v.source()
}

// Attach mounts the viewport and applies the direction's initial
// scroll position. Until a viewport is attached, scroll operations
// are no-ops.
func (v *Virtualizer[T]) Attach(vp Viewport) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attach(vp)
}

func (v *Virtualizer[T]) attach(vp Viewport) {
	v.viewport = vp
	if vp != nil {
		if h := vp.Height(); h > 0 {
			v.viewportHeight = h
		}
	}
	v.applyInitialScroll()
}

func (v *Virtualizer[T]) applyInitialScroll() {
	if v.cfg.direction == DirectionReverse {
		v.setScroll(v.geo.TotalExtent(), BehaviorInstant)
	} else {
		v.setScroll(0, BehaviorInstant)
	}
}

// setScroll commits a scroll position: pushes it to the viewport when
// one is attached and invalidates the memoized range.
func (v *Virtualizer[T]) setScroll(px float64, behavior Behavior) {
	if px < 0 {
		px = 0
	}
	if v.viewport != nil {
		v.viewport.SetScrollTop(px, behavior)
	}
	v.scrollOffset = px
	v.rangeDirty = true
}

// rebuild synchronizes geometry with the current collection and
// updates the OK/Empty tag. An Error state sticks until Reset.
func (v *Virtualizer[T]) rebuild() {
	items := v.items()
	v.geo.SetCount(len(items))
	v.geo.Rebuild()
	v.reindex(items)
	v.rangeDirty = true
	if v.state != StateError {
		if len(items) == 0 {
			v.state = StateEmpty
		} else {
			v.state = StateOK
		}
	}
}

func (v *Virtualizer[T]) reindex(items []T) {
	if v.cfg.itemID == nil {
		return
	}
	v.ids = v.ids[:0]
	v.index = make(map[string]int, len(items))
	for i, it := range items {
		id := v.cfg.itemID(it)
		v.ids = append(v.ids, id)
		v.index[id] = i
	}
}

// Refresh tells the engine the backing collection changed (length or
// identity). It captures a scroll anchor against the old layout,
// rebuilds geometry, and restores the anchor against the new one, so
// the same content stays under the viewport even when items were
// inserted or removed above it. In reverse direction, a viewport
// sitting at the bottom re-snaps to the new bottom instead.
func (v *Virtualizer[T]) Refresh() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	stickToBottom := v.cfg.direction == DirectionReverse &&
		v.viewport != nil && v.atBottom()
	if !stickToBottom {
		v.captureAnchor()
	}

	v.rebuild()

	if stickToBottom {
		v.setScroll(v.geo.TotalExtent(), BehaviorInstant)
		return
	}
	v.restoreAnchor()
}

// atBottom reports whether the viewport shows the end of the current
// extent. Half a pixel of slack absorbs fractional scroll positions.
func (v *Virtualizer[T]) atBottom() bool {
	extent := v.geo.TotalExtent()
	if extent <= 0 || v.viewportHeight <= 0 {
		return true
	}
	return v.scrollOffset+v.viewportHeight >= extent-0.5
}

// Scroll must be called by the host on every native scroll event. The
// range recomputation and the edge check are each coalesced to the
// next frame on their own scheduler slot.
func (v *Virtualizer[T]) Scroll() {
	v.mu.Lock()
	if v.closed || v.viewport == nil {
		v.mu.Unlock()
		return
	}

	now := time.Now()
	offset := v.viewport.ScrollTop()
	if !v.lastScrollAt.IsZero() {
		if dt := now.Sub(v.lastScrollAt).Seconds(); dt > 0 {
			v.velocity = (offset - v.scrollOffset) / dt
		}
	}
	v.lastScrollAt = now
	v.scrollOffset = offset
	v.mu.Unlock()

	v.sched.Request(schedule.SlotScroll, v.scrollFrame)
	v.sched.Request(schedule.SlotEdge, v.edgeFrame)
}

func (v *Virtualizer[T]) scrollFrame() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.rangeDirty = true
}

// ScrollEnd must be called when scrolling settles. It cancels pending
// frames, zeroes the velocity, and runs one final recompute and edge
// check synchronously.
func (v *Virtualizer[T]) ScrollEnd() {
	v.sched.Cancel(schedule.SlotScroll)
	v.sched.Cancel(schedule.SlotEdge)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.velocity = 0
	v.lastScrollAt = time.Time{}
	if v.viewport != nil {
		v.scrollOffset = v.viewport.ScrollTop()
	}
	v.rangeDirty = true
	v.ensure()
	v.mu.Unlock()

	v.edgeFrame()
}

// ScrollVelocity returns the most recent scroll speed in pixels per
// second, signed by direction. Zero after ScrollEnd.
func (v *Virtualizer[T]) ScrollVelocity() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.velocity
}

// ResizeItem records a measured pixel height for one item. Identical
// re-measurements are dropped so layout thrash cannot trigger rebuild
// storms; real changes coalesce into one geometry rebuild on the
// resize frame slot.
func (v *Virtualizer[T]) ResizeItem(index int, px float64) {
	v.mu.Lock()
	if v.closed || !v.geo.Set(index, px) {
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	v.sched.Request(schedule.SlotResize, v.resizeFrame)
}

// ResizeViewport must be called by the host's resize observation with
// the viewport's new dimensions. Only the height participates in
// layout.
func (v *Virtualizer[T]) ResizeViewport(width, height float64) {
	_ = width
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.viewportHeight = height
	v.mu.Unlock()

	v.sched.Request(schedule.SlotResize, v.resizeFrame)
}

func (v *Virtualizer[T]) resizeFrame() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.geo.Rebuild()
	v.rangeDirty = true
}

// ensure recomputes the memoized snapshot if anything invalidated it.
// Callers must hold the lock.
func (v *Virtualizer[T]) ensure() {
	if !v.rangeDirty {
		return
	}
	v.snap = v.compute()
	v.rangeDirty = false
}

// compute derives the visible range from the current geometry,
// scroll offset, viewport height and overscan. It has no side
// effects; repeated calls with no new events return the same range.
func (v *Virtualizer[T]) compute() snapshot {
	n := v.geo.Len()
	if n == 0 {
		return snapshot{}
	}
	if v.viewportHeight <= 0 {
		// Not yet measurable: expose nothing but keep the extent on
		// the trailing spacer so the track length is preserved.
		return snapshot{trail: v.geo.TotalExtent()}
	}

	visibleStart := v.geo.IndexAt(v.scrollOffset)
	visibleEnd := v.geo.IndexAt(v.scrollOffset+v.viewportHeight) + 1

	first := clampInt(visibleStart-v.cfg.overscan, 0, n)
	last := clampInt(visibleEnd+v.cfg.overscan, first, n)

	return snapshot{
		first: first,
		last:  last,
		lead:  v.geo.OffsetOf(first),
		trail: v.geo.TotalExtent() - v.geo.OffsetOf(last),
	}
}

// Items returns a restartable sequence over the currently visible
// items, yielding (index, item) pairs. The sequence reflects the
// range at iteration time; it is recomputed, not cached across range
// changes.
func (v *Virtualizer[T]) Items() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		v.mu.Lock()
		v.ensure()
		items := v.items()
		first, last := v.snap.first, v.snap.last
		v.mu.Unlock()

		if last > len(items) {
			last = len(items)
		}
		for i := first; i < last; i++ {
			if !yield(i, items[i]) {
				return
			}
		}
	}
}

// Range returns the visible [first, last) index interval, overscan
// included.
func (v *Virtualizer[T]) Range() (first, last int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensure()
	return v.snap.first, v.snap.last
}

// LeadingOffset returns the pixel size of the spacer preceding the
// first rendered item.
func (v *Virtualizer[T]) LeadingOffset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensure()
	return v.snap.lead
}

// TrailingSize returns the pixel size of the spacer following the
// last rendered item, so the scrollbar reflects the true content
// length.
func (v *Virtualizer[T]) TrailingSize() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensure()
	return v.snap.trail
}

// TotalExtent returns the full scrollable height of the collection.
func (v *Virtualizer[T]) TotalExtent() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.geo.TotalExtent()
}

// ScrollOffset returns the engine's view of the current scroll
// position.
func (v *Virtualizer[T]) ScrollOffset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollOffset
}

// State returns the current lifecycle tag.
func (v *Virtualizer[T]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// SetError reports a host-side failure. The tag sticks until Reset.
func (v *Virtualizer[T]) SetError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = StateError
}

// Reset clears any pending anchor and error, rebuilds geometry, and
// re-applies the direction's initial scroll position.
func (v *Virtualizer[T]) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.anchor = anchorPoint{}
	if v.state == StateError {
		v.state = StateLoading
	}
	v.rebuild()
	v.applyInitialScroll()
	v.ensure()
}

// Close tears the engine down, cancelling all pending frame work.
// The Virtualizer must not be used afterwards.
func (v *Virtualizer[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.sched.Cancel(schedule.SlotScroll)
	v.sched.Cancel(schedule.SlotResize)
	v.sched.Cancel(schedule.SlotEdge)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
