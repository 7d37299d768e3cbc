// Package schedule provides the deferred-task abstraction the engine
// uses to coalesce bursts of scroll and resize events: request work
// for the next frame, cancelling any work already pending on the same
// slot. Hosts without a frame facility substitute Immediate, which
// runs the work synchronously.
package schedule

import (
	"sync"
	"time"
)

// Slot identifies one independent pending-work slot. Cancelling a slot
// never affects work pending on another slot.
type Slot int

const (
	// SlotScroll coalesces scroll-driven visible-range recomputation.
	SlotScroll Slot = iota
	// SlotResize coalesces geometry rebuilds from item or viewport resizes.
	SlotResize
	// SlotEdge coalesces edge-threshold checks.
	SlotEdge
)

// Scheduler defers work to the next frame, keyed by slot. A second
// Request on the same slot before the frame fires replaces the first.
type Scheduler interface {
	// Request schedules fn to run on the next frame, replacing any
	// callback already pending on the slot.
	Request(slot Slot, fn func())
	// Cancel drops any callback pending on the slot.
	Cancel(slot Slot)
	// Stop cancels every pending callback. The scheduler must not be
	// used afterwards.
	Stop()
}

// DefaultFrameInterval approximates one animation frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

type frameEntry struct {
	timer   *time.Timer
	fn      func()
	pending bool
}

// Frame is a timer-backed Scheduler. Callbacks run under the
// scheduler's lock, so work scheduled on different slots never
// executes concurrently.
type Frame struct {
	interval time.Duration
	mu       sync.Mutex
	slots    map[Slot]*frameEntry
	stopped  bool
}

// NewFrame creates a Frame scheduler. A non-positive interval falls
// back to DefaultFrameInterval.
func NewFrame(interval time.Duration) *Frame {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Frame{
		interval: interval,
		slots:    make(map[Slot]*frameEntry),
	}
}

// Request implements Scheduler.
func (f *Frame) Request(slot Slot, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}

	entry, ok := f.slots[slot]
	if !ok {
		entry = &frameEntry{}
		f.slots[slot] = entry
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.fn = fn
	entry.pending = true
	entry.timer = time.AfterFunc(f.interval, func() {
		f.fire(slot)
	})
}

func (f *Frame) fire(slot Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.slots[slot]
	if !ok || !entry.pending || f.stopped {
		return
	}
	entry.pending = false
	entry.fn()
}

// Cancel implements Scheduler.
func (f *Frame) Cancel(slot Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.slots[slot]
	if !ok {
		return
	}
	entry.pending = false
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
}

// Stop implements Scheduler.
func (f *Frame) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	for _, entry := range f.slots {
		entry.pending = false
		if entry.timer != nil {
			entry.timer.Stop()
			entry.timer = nil
		}
	}
}

// Pending reports whether the slot has work waiting for its frame.
func (f *Frame) Pending(slot Slot) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.slots[slot]
	return ok && entry.pending
}

// Immediate is a Scheduler with no frame facility: Request runs the
// callback synchronously and there is never anything to cancel. Used
// in headless and server-side contexts.
type Immediate struct{}

// Request implements Scheduler.
func (Immediate) Request(_ Slot, fn func()) {
	fn()
}

// Cancel implements Scheduler.
func (Immediate) Cancel(Slot) {}

// Stop implements Scheduler.
func (Immediate) Stop() {}
