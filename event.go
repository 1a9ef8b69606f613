package glide

import "sync"

// ============================================================================
// Pointer Event Types
// ============================================================================

// Action identifies what happened to the pointer stream.
type Action uint8

const (
	// ActionPress - the first pointer touched down.
	ActionPress Action = iota + 1

	// ActionMove - one or more pointers in the batch moved.
	ActionMove

	// ActionRelease - the last pointer lifted.
	ActionRelease

	// ActionCancel - the platform aborted the gesture (e.g. a parent took it over).
	ActionCancel

	// ActionPointerDown - a secondary pointer touched down while others are held.
	ActionPointerDown

	// ActionPointerUp - one of several held pointers lifted.
	ActionPointerUp
)

// String returns the lowercase action name.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionMove:
		return "move"
	case ActionRelease:
		return "release"
	case ActionCancel:
		return "cancel"
	case ActionPointerDown:
		return "pointer_down"
	case ActionPointerUp:
		return "pointer_up"
	}
	return "unknown"
}

// PointerID identifies a single touch contact for its whole lifetime.
type PointerID int32

// Pointer is one contact inside an event batch.
type Pointer struct {
	ID PointerID

	// Position along the scrolling axis.
	Position float32
}

// ============================================================================
// Pointer Event
// ============================================================================

// PointerEvent is one delivery from the input collaborator. It carries every
// pointer currently in contact, so the active pointer is looked up by id
// rather than tracked in ambient state.
type PointerEvent struct {
	Action Action

	// Pointers holds all contacts known at the time of the event.
	Pointers []Pointer

	// ActionIndex is the index into Pointers of the contact that changed
	// (pressed, lifted). Ignored for ActionMove and ActionCancel.
	ActionIndex int

	// TimeMs is the event timestamp in milliseconds.
	TimeMs int64
}

// NewPointerEvent creates a single-pointer event. Uses an object pool because
// moves arrive at input rate.
func NewPointerEvent(action Action, id PointerID, position float32, timeMs int64) *PointerEvent {
	e := pointerEventPool.Get().(*PointerEvent)
	e.Action = action
	e.Pointers = append(e.Pointers[:0], Pointer{ID: id, Position: position})
	e.ActionIndex = 0
	e.TimeMs = timeMs
	return e
}

// NewPointerBatch creates an event carrying several pointers.
func NewPointerBatch(action Action, actionIndex int, timeMs int64, pointers ...Pointer) *PointerEvent {
	e := pointerEventPool.Get().(*PointerEvent)
	e.Action = action
	e.Pointers = append(e.Pointers[:0], pointers...)
	e.ActionIndex = actionIndex
	e.TimeMs = timeMs
	return e
}

// Release returns the event to the pool. Call when done processing.
func (e *PointerEvent) Release() {
	if cap(e.Pointers) > 16 {
		e.Pointers = nil
	}
	pointerEventPool.Put(e)
}

var pointerEventPool = sync.Pool{
	New: func() any {
		return &PointerEvent{Pointers: make([]Pointer, 0, 4)}
	},
}

// Find returns the contact with the given id, if the batch has one.
func (e *PointerEvent) Find(id PointerID) (Pointer, bool) {
	for _, p := range e.Pointers {
		if p.ID == id {
			return p, true
		}
	}
	return Pointer{}, false
}

// ActionPointer returns the contact that triggered a press or lift.
func (e *PointerEvent) ActionPointer() (Pointer, bool) {
	if e.ActionIndex < 0 || e.ActionIndex >= len(e.Pointers) {
		return Pointer{}, false
	}
	return e.Pointers[e.ActionIndex], true
}
