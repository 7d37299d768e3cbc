package virtual

// Behavior selects how a scroll position change is applied.
type Behavior int

const (
	// BehaviorAuto lets the viewport pick smooth or instant.
	BehaviorAuto Behavior = iota
	// BehaviorSmooth animates toward the target position.
	BehaviorSmooth
	// BehaviorInstant jumps to the target position.
	BehaviorInstant
)

// Block selects where the target item lands in the viewport for
// ScrollTo.
type Block int

const (
	// BlockStart aligns the item's top with the viewport's top.
	BlockStart Block = iota
	// BlockCenter centers the item in the viewport.
	BlockCenter
	// BlockEnd aligns the item's bottom with the viewport's bottom.
	BlockEnd
	// BlockNearest scrolls the minimum distance that makes the item
	// visible, and not at all if it already is.
	BlockNearest
)

// Direction is the layout direction of the collection.
type Direction int

const (
	// DirectionForward places index 0 at the top; initial scroll
	// position is 0.
	DirectionForward Direction = iota
	// DirectionReverse is chat-style layout: index 0 is oldest and
	// the initial scroll position is the full extent (bottom).
	DirectionReverse
)

// Viewport is the minimal surface the engine needs from the host's
// scrollable element. The engine never attaches event listeners; the
// host forwards scroll and resize events through the Virtualizer's
// methods. All engine operations that need a viewport degrade to
// no-ops while none is attached, since the element may not be mounted
// yet.
type Viewport interface {
	// ScrollTop returns the current scroll offset in pixels.
	ScrollTop() float64
	// SetScrollTop moves the scroll position. Implementations may
	// clamp the offset to their own scrollable bounds.
	SetScrollTop(offset float64, behavior Behavior)
	// Height returns the viewport height in pixels.
	Height() float64
}
