package ui

import (
	"sync"

	"github.com/scrollkit/virtual"
)

// lineViewport adapts a fixed-size block of terminal rows to the
// engine's Viewport interface. Offsets and heights are measured in
// rows rather than pixels; the engine is unit-agnostic.
type lineViewport struct {
	mu     sync.Mutex
	top    float64
	height float64
}

func (l *lineViewport) ScrollTop() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.top
}

func (l *lineViewport) SetScrollTop(offset float64, _ virtual.Behavior) {
	// A terminal has no smooth scrolling; every behavior is instant.
	l.mu.Lock()
	defer l.mu.Unlock()
	l.top = offset
}

func (l *lineViewport) Height() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

func (l *lineViewport) setHeight(rows float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height = rows
}

// scrollBy moves the viewport by delta rows and returns the new
// offset, clamped to [0, max].
func (l *lineViewport) scrollBy(delta, max float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.top += delta
	if l.top > max {
		l.top = max
	}
	if l.top < 0 {
		l.top = 0
	}
	return l.top
}
