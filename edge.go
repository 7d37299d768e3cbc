package virtual

// edgeFrame evaluates the edge thresholds and fires the host's
// load-more callbacks. It runs on every coalesced scroll frame and on
// ScrollEnd; callbacks repeat while inside the threshold, and
// de-duplication is the host's business. Callbacks are invoked
// outside the engine lock so a handler may call back into the engine.
func (v *Virtualizer[T]) edgeFrame() {
	v.mu.Lock()
	if v.closed || v.viewport == nil || v.viewportHeight <= 0 {
		v.mu.Unlock()
		return
	}
	extent := v.geo.TotalExtent()
	if extent <= 0 {
		v.mu.Unlock()
		return
	}
	if v.cfg.elastic && (v.scrollOffset < 0 || v.scrollOffset+v.viewportHeight > extent) {
		// Momentum bounce reports out-of-bounds positions; firing
		// load-more callbacks there would double-trigger.
		v.mu.Unlock()
		return
	}

	distanceFromStart := v.scrollOffset
	distanceFromEnd := extent - (v.scrollOffset + v.viewportHeight)

	onStart := v.cfg.onStartReached
	onEnd := v.cfg.onEndReached
	fireStart := onStart != nil && distanceFromStart <= v.cfg.startThreshold
	fireEnd := onEnd != nil && distanceFromEnd <= v.cfg.endThreshold
	v.mu.Unlock()

	if fireStart {
		onStart(distanceFromStart)
	}
	if fireEnd {
		onEnd(distanceFromEnd)
	}
}
