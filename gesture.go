package glide

import (
	"go.uber.org/zap"
)

// ============================================================================
// Gesture Tracking
// ============================================================================

// GestureState is the drag recognition state.
type GestureState uint8

const (
	// GestureIdle - no drag in progress. A press may be held below the slop.
	GestureIdle GestureState = iota

	// GestureDragging - the active pointer is moving the content.
	GestureDragging
)

func (s GestureState) String() string {
	if s == GestureDragging {
		return "dragging"
	}
	return "idle"
}

// GestureResult is what one pointer event produced.
type GestureResult struct {
	// Pressed is set when the event started tracking a new gesture.
	Pressed bool

	// Dragging reports the state after the event.
	Dragging bool

	// Delta is the content movement to apply. Positive scrolls forward
	// (finger moving toward smaller positions).
	Delta float32

	// Released is set when a drag ended by lifting the active pointer.
	// Velocity is only meaningful when Released is set.
	Released bool

	// Velocity is the content velocity at release in units per second,
	// capped at the configured maximum.
	Velocity float32
}

// GestureTracker owns the raw pointer stream. It decides when a press
// becomes a drag, follows a single active pointer and reports drag deltas
// and the release velocity.
type GestureTracker struct {
	touchSlop   float32
	maxVelocity float32
	velocity    *VelocityEstimator

	state GestureState

	// Active pointer. Only valid when hasActive is set.
	activeID  PointerID
	hasActive bool

	// pressPosition anchors the slop test; lastPosition is the last
	// position a delta was measured from.
	pressPosition float32
	lastPosition  float32
}

// NewGestureTracker creates a tracker using the slop and velocity settings of cfg.
func NewGestureTracker(cfg Config) *GestureTracker {
	cfg = cfg.Normalize()
	return &GestureTracker{
		touchSlop:   cfg.TouchSlop,
		maxVelocity: cfg.MaxFlingVelocity,
		velocity:    NewVelocityEstimator(cfg.VelocityWindowMs),
	}
}

// State returns the current recognition state.
func (g *GestureTracker) State() GestureState {
	return g.state
}

// ActivePointer returns the pointer driving the gesture, if any.
func (g *GestureTracker) ActivePointer() (PointerID, bool) {
	return g.activeID, g.hasActive
}

// Handle consumes one event. animating tells the tracker whether content is
// currently flinging, in which case a press catches it and drags at once.
func (g *GestureTracker) Handle(ev *PointerEvent, animating bool) GestureResult {
	for _, p := range ev.Pointers {
		// Cancel never reads positions, so it always gets through.
		if ev.Action != ActionCancel && !finite32(p.Position) {
			Logger().Debug("dropping pointer event with non-finite position",
				zap.Stringer("action", ev.Action),
				zap.Int32("pointer", int32(p.ID)))
			return g.current()
		}
	}
	switch ev.Action {
	case ActionPress:
		return g.press(ev, animating)
	case ActionMove:
		return g.move(ev)
	case ActionRelease:
		return g.release(ev, true)
	case ActionPointerUp:
		p, ok := ev.ActionPointer()
		if !ok || !g.hasActive || p.ID != g.activeID {
			// A secondary finger lifted; keep following the active one.
			return g.current()
		}
		return g.release(ev, true)
	case ActionCancel:
		return g.release(ev, false)
	case ActionPointerDown:
		// Secondary fingers never take over the gesture.
		return g.current()
	}
	Logger().Debug("ignoring pointer event with unknown action", zap.Uint8("action", uint8(ev.Action)))
	return g.current()
}

func (g *GestureTracker) current() GestureResult {
	return GestureResult{Dragging: g.state == GestureDragging}
}

func (g *GestureTracker) press(ev *PointerEvent, animating bool) GestureResult {
	p, ok := ev.ActionPointer()
	if !ok {
		Logger().Debug("press without pointer", zap.Int("action_index", ev.ActionIndex))
		return g.current()
	}
	if g.hasActive && p.ID != g.activeID {
		// The gesture already has a pointer; never hand it off.
		Logger().Debug("press while another pointer is active",
			zap.Int32("pointer", int32(p.ID)),
			zap.Int32("active", int32(g.activeID)))
		return g.current()
	}
	g.activeID = p.ID
	g.hasActive = true
	g.pressPosition = p.Position
	g.lastPosition = p.Position
	g.velocity.Reset()
	g.velocity.AddSample(p.Position, ev.TimeMs)

	g.state = GestureIdle
	if animating {
		g.state = GestureDragging
		Logger().Debug("caught moving content", zap.Int32("pointer", int32(p.ID)))
	}
	return GestureResult{Pressed: true, Dragging: g.state == GestureDragging}
}

func (g *GestureTracker) move(ev *PointerEvent) GestureResult {
	if !g.hasActive {
		Logger().Debug("move without active pointer")
		return g.current()
	}
	p, ok := ev.Find(g.activeID)
	if !ok {
		Logger().Debug("active pointer missing from move, ending gesture",
			zap.Int32("pointer", int32(g.activeID)))
		g.reset()
		return g.current()
	}
	g.velocity.AddSample(p.Position, ev.TimeMs)

	if g.state == GestureIdle {
		moved := p.Position - g.pressPosition
		if moved <= g.touchSlop && moved >= -g.touchSlop {
			// Still a potential tap. Remember where the finger was so the
			// first drag delta starts from the crossing, not the press.
			g.lastPosition = p.Position
			return g.current()
		}
		g.state = GestureDragging
		Logger().Debug("drag started",
			zap.Int32("pointer", int32(p.ID)),
			zap.Float32("moved", moved))
	}

	delta := g.lastPosition - p.Position
	g.lastPosition = p.Position
	return GestureResult{Dragging: true, Delta: delta}
}

func (g *GestureTracker) release(ev *PointerEvent, lifted bool) GestureResult {
	wasDragging := g.state == GestureDragging
	var res GestureResult

	if lifted && g.hasActive {
		if p, ok := ev.Find(g.activeID); ok {
			g.velocity.AddSample(p.Position, ev.TimeMs)
		}
		if wasDragging {
			// Finger velocity is opposite to content velocity.
			res.Released = true
			res.Velocity = -g.velocity.EstimateClamped(1000, g.maxVelocity)
		}
	}
	if !lifted && wasDragging {
		Logger().Debug("drag cancelled")
	}
	g.reset()
	return res
}

func (g *GestureTracker) reset() {
	g.state = GestureIdle
	g.hasActive = false
	g.activeID = 0
	g.velocity.Reset()
}
