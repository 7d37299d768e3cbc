package virtual

// ScrollToOptions control the alignment of a programmatic scroll.
type ScrollToOptions struct {
	// Behavior selects smooth versus instant positioning. Zero value
	// is BehaviorAuto.
	Behavior Behavior
	// Block selects where in the viewport the item lands. Zero value
	// is BlockStart.
	Block Block
	// Offset is an extra pixel adjustment applied after alignment.
	Offset float64
}

// ScrollTo moves the viewport so the item at index is visible with
// the requested alignment, then recomputes the visible range
// synchronously so callers observe the updated items as soon as the
// call returns. Out-of-range indices clamp to the nearest valid
// geometry; without an attached viewport the call is a no-op.
func (v *Virtualizer[T]) ScrollTo(index int, opts ScrollToOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.viewport == nil {
		return
	}

	n := v.geo.Len()
	if n == 0 {
		return
	}
	index = clampInt(index, 0, n-1)

	base := v.geo.OffsetOf(index)
	itemHeight := v.geo.HeightOf(index)
	vh := v.viewportHeight

	var target float64
	switch opts.Block {
	case BlockCenter:
		target = base - vh/2 + itemHeight/2 + opts.Offset
	case BlockEnd:
		target = base - vh + itemHeight + opts.Offset
	case BlockNearest:
		switch {
		case base < v.scrollOffset:
			target = base + opts.Offset
		case base+itemHeight > v.scrollOffset+vh:
			target = base - vh + itemHeight + opts.Offset
		default:
			// Already fully visible; the only alignment that may
			// legitimately skip scrolling.
			return
		}
	default: // BlockStart
		target = base + opts.Offset
	}

	v.setScroll(target, opts.Behavior)
	v.ensure()
}
