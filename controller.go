package glide

import (
	"math"

	"go.uber.org/zap"
)

// Range is the closed interval of valid offsets.
type Range struct {
	Min, Max float32
}

// NewRange derives the scroll range from content and viewport extents.
// Content that fits the viewport collapses the range to [0, 0].
func NewRange(content, viewport float32) Range {
	max := content - viewport
	if max < 0 {
		max = 0
	}
	return Range{Min: 0, Max: max}
}

// Clamp returns v limited to the range. NaN maps to Min.
func (r Range) Clamp(v float32) float32 {
	if v != v || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float32) bool {
	return v >= r.Min && v <= r.Max
}

// ============================================================================
// Scroll Offset Controller
// ============================================================================

// Controller owns the scroll offset of one scrollable axis. It feeds pointer
// events to a GestureTracker, applies drag deltas, runs flings on frame ticks
// and keeps the offset inside the range after every call.
//
// A Controller is not safe for concurrent use. It expects the single
// goroutine that delivers input to also deliver frame ticks; Loop provides
// that when the caller has no event loop of its own.
type Controller struct {
	gesture  *GestureTracker
	animator *Animator

	content  float32
	viewport float32
	rng      Range
	offset   float32
	fling    *Fling

	onScroll func(offset float32)
}

// NewController creates a controller with an empty range.
func NewController(cfg Config) *Controller {
	cfg = cfg.Normalize()
	return &Controller{
		gesture:  NewGestureTracker(cfg),
		animator: NewAnimator(cfg),
	}
}

// OnScroll sets a callback invoked whenever the offset changes.
func (c *Controller) OnScroll(fn func(offset float32)) {
	c.onScroll = fn
}

// Offset returns the current scroll offset.
func (c *Controller) Offset() float32 {
	return c.offset
}

// Range returns the current valid offset range.
func (c *Controller) Range() Range {
	return c.rng
}

// Animating reports whether a fling is in flight.
func (c *Controller) Animating() bool {
	return c.fling != nil
}

// Dragging reports whether the content is following a pointer.
func (c *Controller) Dragging() bool {
	return c.gesture.State() == GestureDragging
}

// OnPointerEvent feeds one input event. Drag deltas are applied before it
// returns; a release fast enough starts a fling.
func (c *Controller) OnPointerEvent(ev *PointerEvent) {
	res := c.gesture.Handle(ev, c.fling != nil)
	if res.Pressed {
		// Touching the content stops it, whether or not a drag follows.
		c.AbortAnimation()
	}
	if res.Dragging && res.Delta != 0 {
		c.setOffset(c.offset + res.Delta)
	}
	if res.Released && abs(res.Velocity) > c.animator.MinVelocity() {
		c.FlingWith(res.Velocity)
	}
}

// FlingWith cancels any running fling and starts a new one from the current
// offset. Velocities at or below the minimum fling velocity, or not finite,
// are ignored and leave a running fling alone.
func (c *Controller) FlingWith(velocity float32) {
	if !finite32(velocity) || abs(velocity) <= c.animator.MinVelocity() {
		return
	}
	c.AbortAnimation()
	f := c.animator.Start(velocity, c.offset, c.rng)
	if f.Finished() {
		return
	}
	c.fling = f
}

// AbortAnimation stops a running fling where it is.
func (c *Controller) AbortAnimation() {
	if c.fling == nil {
		return
	}
	c.fling.Cancel()
	c.fling = nil
}

// OnFrameTick advances the running fling to nowMs. It does nothing when no
// fling is running, and a repeated nowMs leaves the offset unchanged.
func (c *Controller) OnFrameTick(nowMs int64) {
	f := c.fling
	if f == nil {
		return
	}
	offset, finished := f.Advance(nowMs)
	c.setOffset(offset)
	if finished && c.fling == f {
		c.fling = nil
	}
}

// SetContentExtent updates the measured content size. Negative sizes are
// treated as zero; NaN and infinite sizes are ignored.
func (c *Controller) SetContentExtent(extent float32) {
	if !finite32(extent) {
		Logger().Debug("ignoring non-finite content extent", zap.Float32("extent", extent))
		return
	}
	if extent < 0 {
		extent = 0
	}
	c.content = extent
	c.updateRange()
}

// SetViewportExtent updates the visible window size. Negative sizes are
// treated as zero; NaN and infinite sizes are ignored.
func (c *Controller) SetViewportExtent(extent float32) {
	if !finite32(extent) {
		Logger().Debug("ignoring non-finite viewport extent", zap.Float32("extent", extent))
		return
	}
	if extent < 0 {
		extent = 0
	}
	c.viewport = extent
	c.updateRange()
}

// ApplyLayout measures children along axis and updates both extents.
func (c *Controller) ApplyLayout(axis Axis, container Size, padding Insets, spacing float32, children []Size) {
	m := Measure(axis, container, padding, spacing, children)
	if !finite32(m.Content) || !finite32(m.Viewport) {
		Logger().Debug("ignoring non-finite layout",
			zap.Float32("content", m.Content),
			zap.Float32("viewport", m.Viewport))
		return
	}
	c.content = m.Content
	c.viewport = m.Viewport
	c.updateRange()
}

func (c *Controller) updateRange() {
	r := NewRange(c.content, c.viewport)
	if r == c.rng {
		return
	}
	c.rng = r
	c.setOffset(c.offset)
	if f := c.fling; f != nil {
		// The fling integrates against the range it started with. Continue
		// it from the current state so it stops at the new edge.
		next := c.animator.resume(f, c.offset, r)
		f.Cancel()
		c.fling = nil
		if !next.Finished() {
			c.fling = next
		}
	}
}

func (c *Controller) setOffset(v float32) {
	v = c.rng.Clamp(v)
	if v == c.offset {
		return
	}
	c.offset = v
	if c.onScroll != nil {
		c.onScroll(v)
	}
}

func finite32(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

// abs returns the absolute value of a float32.
func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
