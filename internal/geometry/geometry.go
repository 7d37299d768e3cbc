// Package geometry maintains the pixel layout of a virtualized item
// collection: per-slot heights, prefix-sum offsets, and the binary
// search that maps a scroll offset back to an item index.
package geometry

import "sort"

// Height is the height of a single slot. A slot is either measured
// (the host reported real pixels for it) or unmeasured, in which case
// the table's default height stands in for layout purposes.
type Height struct {
	px    float64
	known bool
}

// Measured returns a Height carrying a real measurement.
func Measured(px float64) Height {
	return Height{px: px, known: true}
}

// Unmeasured returns a Height with no measurement attached.
func Unmeasured() Height {
	return Height{}
}

// IsMeasured reports whether this slot carries a real measurement.
func (h Height) IsMeasured() bool {
	return h.known
}

// Pixels returns the measured height, or fallback when unmeasured.
func (h Height) Pixels(fallback float64) float64 {
	if h.known {
		return h.px
	}
	return fallback
}

// Table tracks heights and cumulative offsets for every slot of the
// collection. Offsets are prefix sums: offsets[0] == 0 and
// offsets[i] == offsets[i-1] + height of slot i-1. The table is not
// safe for concurrent use; the engine owns it exclusively.
type Table struct {
	heights []Height
	offsets []float64
	total   float64

	configured  float64 // default height from configuration, 0 if none
	provisional float64 // adopted from the first real measurement
}

// NewTable creates a table using defaultHeight for unmeasured slots.
// Pass 0 to let the first real measurement set the default instead.
func NewTable(defaultHeight float64) *Table {
	return &Table{configured: defaultHeight}
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return len(t.heights)
}

// DefaultHeight returns the height used for unmeasured slots: the
// configured default, or the provisional one adopted from the first
// measurement, or 0 when neither exists yet.
func (t *Table) DefaultHeight() float64 {
	if t.configured > 0 {
		return t.configured
	}
	return t.provisional
}

// SetCount resizes the heights table to n slots. Measurements for
// indices that survive the resize are kept; new slots start
// unmeasured. The caller must Rebuild afterwards.
func (t *Table) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	switch {
	case n < len(t.heights):
		t.heights = t.heights[:n]
	case n > len(t.heights):
		for len(t.heights) < n {
			t.heights = append(t.heights, Unmeasured())
		}
	}
}

// Set records a measured height for one slot and reports whether
// anything changed. Re-reporting the same height is a no-op so layout
// thrash cannot trigger rebuild storms. The first measurement is
// adopted as the provisional default when no default was configured.
func (t *Table) Set(index int, px float64) bool {
	if index < 0 || index >= len(t.heights) || px < 0 {
		return false
	}
	prev := t.heights[index]
	if prev.IsMeasured() && prev.Pixels(0) == px {
		return false
	}
	if t.configured <= 0 && t.provisional <= 0 {
		t.provisional = px
	}
	t.heights[index] = Measured(px)
	return true
}

// HeightOf returns the effective height of one slot (measured or
// default), or 0 for out-of-range indices.
func (t *Table) HeightOf(index int) float64 {
	if index < 0 || index >= len(t.heights) {
		return 0
	}
	return t.heights[index].Pixels(t.DefaultHeight())
}

// Rebuild recomputes the full offsets array from current heights in
// O(n). Call after SetCount or any batch of Set calls.
func (t *Table) Rebuild() {
	def := t.DefaultHeight()
	if cap(t.offsets) < len(t.heights) {
		t.offsets = make([]float64, len(t.heights))
	} else {
		t.offsets = t.offsets[:len(t.heights)]
	}
	running := 0.0
	for i, h := range t.heights {
		t.offsets[i] = running
		running += h.Pixels(def)
	}
	t.total = running
}

// OffsetOf returns the cumulative offset of a slot. Out-of-range
// indices clamp: negative maps to 0, past-the-end maps to the total
// extent, so callers get the nearest valid geometry.
func (t *Table) OffsetOf(index int) float64 {
	if len(t.offsets) == 0 || index < 0 {
		return 0
	}
	if index >= len(t.offsets) {
		return t.total
	}
	return t.offsets[index]
}

// TotalExtent returns the full scrollable height of the collection.
func (t *Table) TotalExtent() float64 {
	return t.total
}

// IndexAt returns the greatest index whose offset is <= px. Negative
// offsets map to 0 and an empty table returns 0. Runs in O(log n).
func (t *Table) IndexAt(px float64) int {
	if len(t.offsets) == 0 || px <= 0 {
		return 0
	}
	// Smallest index whose offset exceeds px; the slot before it
	// contains px.
	i := sort.Search(len(t.offsets), func(i int) bool {
		return t.offsets[i] > px
	})
	if i == 0 {
		return 0
	}
	return i - 1
}
