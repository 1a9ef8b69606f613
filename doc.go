// Package glide is a one-dimensional touch scroll engine.
//
// It converts a stream of pointer events into a scroll offset that follows
// the finger while dragging, keeps moving with decelerating inertia after a
// fast release, and never leaves the range derived from the content and
// viewport extents.
//
// The pieces can be used on their own:
//
//   - VelocityEstimator fits recent pointer samples to estimate velocity.
//   - GestureTracker tells taps from drags using a touch slop and follows a
//     single active pointer.
//   - Animator produces Fling animations that are advanced with wall-clock
//     timestamps and stop dead at the range edges.
//   - Controller wires them together and owns the offset.
//
// Controller is single-threaded. Hosts that already have an input and render
// loop call OnPointerEvent and OnFrameTick from it. Hosts that do not can run
// a Loop, which owns the controller on its own goroutine and only ticks while
// a fling is in flight:
//
//	loop := glide.NewLoop(glide.DefaultLoopConfig())
//	loop.OnFrame(func(offset float32) { repaint(offset) })
//	loop.SetExtents(contentHeight, viewportHeight)
//	go loop.Run(ctx)
//	loop.Post(glide.NewPointerEvent(glide.ActionPress, 0, y, nowMs))
package glide
