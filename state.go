package virtual

// State is the host-facing lifecycle tag of a Virtualizer. It is a
// flat tag: the engine flips between OK and Empty as the collection
// gains and loses items, while Loading and Error are host-reported and
// cleared by Reset.
type State int

const (
	// StateLoading is the initial state before the collection has
	// produced any items.
	StateLoading State = iota
	// StateOK means the collection has items and the engine is live.
	StateOK
	// StateEmpty means the collection refreshed to zero items.
	StateEmpty
	// StateError is host-reported via SetError; the engine never
	// infers it.
	StateError
)

// String returns the lowercase tag name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateOK:
		return "ok"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	}
	return "unknown"
}
