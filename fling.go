package glide

import (
	"math"
	"sync/atomic"

	"go.uber.org/zap"
)

// ============================================================================
// Inertial Animation
// ============================================================================

// FlingID uniquely identifies a fling for its lifetime.
type FlingID uint64

var nextFlingID atomic.Uint64

func newFlingID() FlingID {
	return FlingID(nextFlingID.Add(1))
}

// Animator starts flings with a fixed set of physics parameters.
//
// Speed follows dv/dt = -k·v - a: a proportional friction k plus a constant
// braking term a. The closed form is
//
//	v(t) = (v0 + a/k)·e^(-k·t) - a/k
//	d(t) = (v0 + a/k)·(1 - e^(-k·t))/k - (a/k)·t
//
// which decays monotonically and reaches zero at a finite time. With k = 0
// it degenerates to constant deceleration.
type Animator struct {
	minVelocity  float64
	friction     float64
	deceleration float64
	stopVelocity float64
}

// NewAnimator creates an animator from the fling settings of cfg.
func NewAnimator(cfg Config) *Animator {
	cfg = cfg.Normalize()
	return &Animator{
		minVelocity:  float64(cfg.MinFlingVelocity),
		friction:     float64(cfg.Friction),
		deceleration: float64(cfg.Deceleration),
		stopVelocity: float64(cfg.StopVelocity),
	}
}

// MinVelocity returns the speed a fling must exceed to start.
func (a *Animator) MinVelocity() float32 {
	return float32(a.minVelocity)
}

// Start begins a fling from offset with the given content velocity (units
// per second) inside r. The returned fling is already finished when the
// speed does not exceed the minimum, is not finite, or when offset sits at
// the edge the velocity points toward. The clock starts at the first
// Advance call.
func (a *Animator) Start(velocity, offset float32, r Range) *Fling {
	v := float64(velocity)
	if !finite(v) || math.Abs(v) <= a.minVelocity {
		f := a.newFling(offset, r)
		f.finished = true
		return f
	}
	return a.launch(a.newFling(offset, r), v)
}

// resume continues prev from offset inside a new range. It skips the
// minimum velocity gate, so a slow tail keeps coasting until the stop
// velocity, and it inherits prev's clock so no frame is lost.
func (a *Animator) resume(prev *Fling, offset float32, r Range) *Fling {
	f := a.newFling(offset, r)
	if prev.started {
		f.started = true
		f.startTime = prev.lastTime
		f.lastTime = prev.lastTime
	}
	return a.launch(f, prev.velocity)
}

func (a *Animator) newFling(offset float32, r Range) *Fling {
	f := &Fling{
		id:          newFlingID(),
		rng:         r,
		startOffset: float64(r.Clamp(offset)),
		animator:    a,
	}
	f.offset = f.startOffset
	return f
}

// launch sets f in motion at velocity v, or finishes it when v is too slow
// to move or points at the edge f starts on.
func (a *Animator) launch(f *Fling, v float64) *Fling {
	speed := math.Abs(v)
	switch {
	case !finite(v) || speed == 0 || speed <= a.stopVelocity:
		f.finished = true
		return f
	case v > 0 && f.startOffset >= float64(f.rng.Max):
		f.finished = true
		return f
	case v < 0 && f.startOffset <= float64(f.rng.Min):
		f.finished = true
		return f
	}

	f.dir = 1
	if v < 0 {
		f.dir = -1
	}
	f.startSpeed = speed
	f.velocity = v
	f.duration = a.stopTime(speed)

	Logger().Debug("fling started",
		zap.Uint64("id", uint64(f.id)),
		zap.Float64("velocity", v),
		zap.Float64("from", f.startOffset),
		zap.Float64("duration_s", f.duration))
	return f
}

// stopTime returns the seconds until speed falls to the stop velocity.
func (a *Animator) stopTime(speed float64) float64 {
	stop := math.Min(a.stopVelocity, speed)
	if a.friction == 0 {
		return (speed - stop) / a.deceleration
	}
	c := a.deceleration / a.friction
	return math.Log((speed+c)/(stop+c)) / a.friction
}

// speedAt returns the speed t seconds into a fling that started at speed.
func (a *Animator) speedAt(speed, t float64) float64 {
	if a.friction == 0 {
		return math.Max(0, speed-a.deceleration*t)
	}
	c := a.deceleration / a.friction
	return math.Max(0, (speed+c)*math.Exp(-a.friction*t)-c)
}

// distanceAt returns how far a fling that started at speed travelled in t seconds.
func (a *Animator) distanceAt(speed, t float64) float64 {
	if a.friction == 0 {
		return speed*t - a.deceleration*t*t/2
	}
	c := a.deceleration / a.friction
	return (speed+c)*(1-math.Exp(-a.friction*t))/a.friction - c*t
}

// Fling is one running inertial animation. It is driven by Advance and is
// not safe for concurrent use.
type Fling struct {
	id       FlingID
	animator *Animator
	rng      Range

	dir         float64
	startSpeed  float64
	startOffset float64
	duration    float64

	started   bool
	startTime int64
	lastTime  int64

	offset    float64
	velocity  float64
	finished  bool
	cancelled bool
}

// ID returns the fling's unique identifier.
func (f *Fling) ID() FlingID {
	return f.id
}

// Offset returns the offset produced by the latest Advance.
func (f *Fling) Offset() float32 {
	return float32(f.offset)
}

// Velocity returns the current content velocity, zero once finished.
func (f *Fling) Velocity() float32 {
	return float32(f.velocity)
}

// Finished reports whether the fling has stopped or was cancelled.
func (f *Fling) Finished() bool {
	return f.finished || f.cancelled
}

// Cancel stops the fling. Later Advance calls report no further motion.
func (f *Fling) Cancel() {
	if !f.cancelled && !f.finished {
		Logger().Debug("fling cancelled", zap.Uint64("id", uint64(f.id)), zap.Float64("at", f.offset))
	}
	f.cancelled = true
	f.velocity = 0
}

// Advance moves the fling to nowMs and returns the new offset. The offset
// is computed from elapsed time since the first Advance, so irregular tick
// intervals do not change the trajectory, and a nowMs that does not move
// forward returns the previous result unchanged.
func (f *Fling) Advance(nowMs int64) (offset float32, finished bool) {
	if f.Finished() {
		return float32(f.offset), true
	}
	if !f.started {
		f.started = true
		f.startTime = nowMs
		f.lastTime = nowMs
		return float32(f.offset), false
	}
	if nowMs <= f.lastTime {
		return float32(f.offset), false
	}
	f.lastTime = nowMs

	t := float64(nowMs-f.startTime) / 1000
	if t >= f.duration {
		t = f.duration
		f.finished = true
	}
	pos := f.startOffset + f.dir*f.animator.distanceAt(f.startSpeed, t)
	f.velocity = f.dir * f.animator.speedAt(f.startSpeed, t)

	// Inelastic edges: stop dead on the boundary.
	if lo, hi := float64(f.rng.Min), float64(f.rng.Max); pos >= hi && f.dir > 0 {
		pos = hi
		f.finished = true
	} else if pos <= lo && f.dir < 0 {
		pos = lo
		f.finished = true
	}
	if f.finished {
		f.velocity = 0
		Logger().Debug("fling finished", zap.Uint64("id", uint64(f.id)), zap.Float64("at", pos))
	}
	f.offset = pos
	return float32(pos), f.finished
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
