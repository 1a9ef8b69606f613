package glide

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ============================================================================
// Frame Loop
// ============================================================================

// LoopConfig configures a Loop.
type LoopConfig struct {
	// Scroll tunes the controller the loop owns. TargetFPS sets the tick rate.
	Scroll Config

	// Now returns the current time in milliseconds. Defaults to the wall clock.
	Now func() int64

	// QueueSize bounds the number of pending posted operations (default: 256).
	QueueSize int
}

// DefaultLoopConfig returns sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Scroll:    DefaultConfig(),
		QueueSize: 256,
	}
}

// LoopStats contains frame counters.
type LoopStats struct {
	FrameCount uint64
	Flings     uint64 // times the loop went from idle to animating
	TargetFPS  int
}

// ErrLoopRunning is returned by Run when the loop is already running.
var ErrLoopRunning = errors.New("glide: loop already running")

// Loop owns a Controller on a single goroutine. Input and layout changes are
// posted to it, and while a fling is active it ticks the controller at the
// target frame rate. Once the fling finishes the loop stops ticking until
// the next one starts.
type Loop struct {
	ctrl    *Controller
	cfg     LoopConfig
	ops     chan func(*Controller)
	limiter *rate.Limiter
	onFrame func(offset float32)

	running    atomic.Bool
	frameCount atomic.Uint64
	flings     atomic.Uint64
}

// NewLoop creates a loop with the given configuration.
func NewLoop(cfg LoopConfig) *Loop {
	cfg.Scroll = cfg.Scroll.Normalize()
	if cfg.Now == nil {
		cfg.Now = func() int64 { return time.Now().UnixMilli() }
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 256
	}
	interval := time.Second / time.Duration(cfg.Scroll.TargetFPS)
	return &Loop{
		ctrl:    NewController(cfg.Scroll),
		cfg:     cfg,
		ops:     make(chan func(*Controller), cfg.QueueSize),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// OnFrame sets the render callback. It runs on the loop goroutine after each
// tick that moved the offset. Set it before calling Run.
func (l *Loop) OnFrame(fn func(offset float32)) {
	l.onFrame = fn
}

// Post queues a pointer event. The loop takes ownership and releases the
// event once handled.
func (l *Loop) Post(ev *PointerEvent) {
	l.ops <- func(c *Controller) {
		c.OnPointerEvent(ev)
		ev.Release()
	}
}

// SetExtents queues a content and viewport update.
func (l *Loop) SetExtents(content, viewport float32) {
	l.ops <- func(c *Controller) {
		c.SetContentExtent(content)
		c.SetViewportExtent(viewport)
	}
}

// Fling queues a programmatic fling.
func (l *Loop) Fling(velocity float32) {
	l.ops <- func(c *Controller) {
		c.FlingWith(velocity)
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func(*Controller)) error {
	done := make(chan struct{})
	op := func(c *Controller) {
		defer close(done)
		fn(c)
	}
	select {
	case l.ops <- op:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes posted operations and drives flings until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	log := Logger()
	log.Debug("loop started", zap.Int("target_fps", l.cfg.Scroll.TargetFPS))
	defer func() {
		log.Debug("loop stopped", zap.Uint64("frames", l.frameCount.Load()))
	}()

	for {
		if !l.ctrl.Animating() {
			// Idle: nothing to tick, block on input.
			select {
			case <-ctx.Done():
				return nil
			case op := <-l.ops:
				l.apply(op)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case op := <-l.ops:
			l.apply(op)
		default:
			if err := l.limiter.Wait(ctx); err != nil {
				// Only fails once ctx is done or its deadline is too close.
				return nil
			}
			l.tick()
		}
	}
}

// IsRunning returns whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Stats returns loop statistics.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		FrameCount: l.frameCount.Load(),
		Flings:     l.flings.Load(),
		TargetFPS:  l.cfg.Scroll.TargetFPS,
	}
}

func (l *Loop) apply(op func(*Controller)) {
	wasAnimating := l.ctrl.Animating()
	op(l.ctrl)
	if !wasAnimating && l.ctrl.Animating() {
		l.flings.Add(1)
	}
}

func (l *Loop) tick() {
	before := l.ctrl.Offset()
	l.ctrl.OnFrameTick(l.cfg.Now())
	l.frameCount.Add(1)
	if after := l.ctrl.Offset(); after != before && l.onFrame != nil {
		l.onFrame(after)
	}
}
