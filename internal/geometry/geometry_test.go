package geometry

import (
	"math/rand"
	"testing"
)

func buildTable(t *testing.T, def float64, heights ...float64) *Table {
	t.Helper()
	tab := NewTable(def)
	tab.SetCount(len(heights))
	for i, h := range heights {
		if h > 0 {
			tab.Set(i, h)
		}
	}
	tab.Rebuild()
	return tab
}

func TestRebuildFixedHeights(t *testing.T) {
	tab := NewTable(80)
	tab.SetCount(10000)
	tab.Rebuild()

	if tab.Len() != 10000 {
		t.Fatalf("expected 10000 slots, got %d", tab.Len())
	}
	if got := tab.OffsetOf(1500); got != 120000 {
		t.Errorf("expected offset 120000 at index 1500, got %v", got)
	}
	if got := tab.TotalExtent(); got != 800000 {
		t.Errorf("expected total extent 800000, got %v", got)
	}
}

func TestOffsetMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tab := NewTable(50)
	tab.SetCount(500)
	for i := 0; i < 500; i++ {
		if rng.Intn(3) == 0 {
			continue // leave some slots unmeasured
		}
		tab.Set(i, float64(10+rng.Intn(200)))
	}
	tab.Rebuild()

	for i := 0; i < tab.Len()-1; i++ {
		if tab.OffsetOf(i) > tab.OffsetOf(i+1) {
			t.Fatalf("offsets not monotonic at %d: %v > %v", i, tab.OffsetOf(i), tab.OffsetOf(i+1))
		}
	}
}

func TestIndexAtRoundTrip(t *testing.T) {
	tab := buildTable(t, 0, 30, 120, 45, 45, 200, 10, 80)

	for i := 0; i < tab.Len(); i++ {
		if got := tab.IndexAt(tab.OffsetOf(i)); got != i {
			t.Errorf("IndexAt(OffsetOf(%d)) = %d, want %d", i, got, i)
		}
	}
}

func TestIndexAtBoundaries(t *testing.T) {
	tab := buildTable(t, 50)
	if got := tab.IndexAt(100); got != 0 {
		t.Errorf("empty table: expected index 0, got %d", got)
	}

	tab = buildTable(t, 50, 0, 0, 0, 0) // four default-height slots
	if got := tab.IndexAt(-25); got != 0 {
		t.Errorf("negative offset: expected index 0, got %d", got)
	}
	if got := tab.IndexAt(99); got != 1 {
		t.Errorf("expected index 1 at offset 99, got %d", got)
	}
	if got := tab.IndexAt(1e9); got != 3 {
		t.Errorf("beyond extent: expected last index 3, got %d", got)
	}
}

func TestSetNoOpOnUnchangedHeight(t *testing.T) {
	tab := buildTable(t, 0, 40, 40)

	if tab.Set(0, 40) {
		t.Error("re-reporting the same height should be a no-op")
	}
	if !tab.Set(0, 55) {
		t.Error("expected change to be reported for a new height")
	}
	if tab.Set(5, 40) {
		t.Error("out-of-range index should be a no-op")
	}
	if tab.Set(-1, 40) {
		t.Error("negative index should be a no-op")
	}
}

func TestProvisionalDefaultAdoption(t *testing.T) {
	tab := NewTable(0)
	tab.SetCount(4)
	tab.Rebuild()
	if got := tab.TotalExtent(); got != 0 {
		t.Fatalf("no measurements yet: expected extent 0, got %v", got)
	}

	// The first real measurement re-prices every unmeasured slot.
	tab.Set(1, 60)
	tab.Rebuild()
	if got := tab.DefaultHeight(); got != 60 {
		t.Errorf("expected provisional default 60, got %v", got)
	}
	if got := tab.TotalExtent(); got != 240 {
		t.Errorf("expected extent 240, got %v", got)
	}

	// A configured default always wins over a provisional one.
	tab2 := NewTable(100)
	tab2.SetCount(2)
	tab2.Set(0, 30)
	tab2.Rebuild()
	if got := tab2.DefaultHeight(); got != 100 {
		t.Errorf("expected configured default 100, got %v", got)
	}
	if got := tab2.TotalExtent(); got != 130 {
		t.Errorf("expected extent 130, got %v", got)
	}
}

func TestSetCountPreservesSurvivingMeasurements(t *testing.T) {
	tab := buildTable(t, 50, 10, 20, 30)

	tab.SetCount(5)
	tab.Rebuild()
	if got := tab.HeightOf(1); got != 20 {
		t.Errorf("expected surviving measurement 20, got %v", got)
	}
	if got := tab.HeightOf(4); got != 50 {
		t.Errorf("expected default height 50 for new slot, got %v", got)
	}
	if got := tab.TotalExtent(); got != 160 {
		t.Errorf("expected extent 160, got %v", got)
	}

	tab.SetCount(1)
	tab.Rebuild()
	if got := tab.TotalExtent(); got != 10 {
		t.Errorf("expected extent 10 after shrink, got %v", got)
	}
}

func TestOffsetOfClamps(t *testing.T) {
	tab := buildTable(t, 0, 25, 25)
	if got := tab.OffsetOf(-3); got != 0 {
		t.Errorf("expected 0 for negative index, got %v", got)
	}
	if got := tab.OffsetOf(99); got != 50 {
		t.Errorf("expected total extent for past-the-end index, got %v", got)
	}
}
