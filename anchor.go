package virtual

// anchorPoint pins one item across a collection mutation. Pixel-based
// scroll restoration is wrong the moment the item count above the
// viewport changes, so the anchor is index-relative: an item plus the
// scroll offset inside it. Anchors are single-use per mutation.
type anchorPoint struct {
	index  int
	id     string
	offset float64
	valid  bool
}

// captureAnchor records the anchor against the pre-mutation layout.
// It must run before rebuild: the geometry and identity index still
// describe the old collection at that point.
func (v *Virtualizer[T]) captureAnchor() {
	if v.geo.Len() == 0 {
		v.anchor = anchorPoint{}
		return
	}

	if v.cfg.anchorFunc != nil {
		// The custom function sees the collection as it stands now
		// (post-mutation); the offset is still measured against the
		// old layout, per the capture-time contract.
		idx := v.cfg.anchorFunc(v.items())
		v.anchor = anchorPoint{
			index:  idx,
			offset: v.scrollOffset - v.geo.OffsetOf(idx),
			valid:  true,
		}
		return
	}

	var idx int
	var offset float64
	switch v.cfg.anchorMode {
	case AnchorStart:
		idx = 0
	case AnchorEnd:
		idx = v.geo.Len() - 1
	default: // AnchorAuto
		v.ensure()
		idx = v.snap.first
		offset = v.scrollOffset - v.geo.OffsetOf(idx)
	}

	v.anchor = anchorPoint{index: idx, offset: offset, valid: true}
	if idx >= 0 && idx < len(v.ids) {
		v.anchor.id = v.ids[idx]
	}
}

// restoreAnchor moves the viewport so the anchored item reappears at
// its captured offset, then clears the anchor. With an item ID
// function configured, the anchored item's index is re-resolved
// against the rebuilt collection, which is what keeps prepends from
// causing visual jumps. An anchored item that no longer exists leaves
// the scroll position alone.
func (v *Virtualizer[T]) restoreAnchor() {
	if !v.anchor.valid {
		return
	}
	a := v.anchor
	v.anchor = anchorPoint{}

	idx := a.index
	if a.id != "" && v.index != nil {
		ni, ok := v.index[a.id]
		if !ok {
			return
		}
		idx = ni
	}

	v.setScroll(v.geo.OffsetOf(idx)+a.offset, BehaviorInstant)
}
