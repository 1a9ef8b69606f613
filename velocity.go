package glide

import "github.com/agiangrant/glide/internal/lsq"

// ============================================================================
// Velocity Estimation
// ============================================================================

const (
	// historySize bounds how many samples are kept regardless of the window.
	historySize = 20

	// maxSampleGapMs is the longest pause between two samples that still
	// counts as one continuous motion. A longer pause means the finger rested.
	maxSampleGapMs = 40
)

// PointerSample is one timestamped position of the active pointer.
type PointerSample struct {
	Position float32
	TimeMs   int64
}

// VelocityEstimator turns recent pointer samples into a velocity by fitting
// a quadratic to position over time. The zero value is not usable; create
// one with NewVelocityEstimator.
type VelocityEstimator struct {
	windowMs int64
	samples  []PointerSample

	// Scratch space reused by Estimate.
	xs, ys [historySize]float64
}

// NewVelocityEstimator creates an estimator that keeps windowMs of history.
func NewVelocityEstimator(windowMs int64) *VelocityEstimator {
	if windowMs <= 0 {
		windowMs = DefaultConfig().VelocityWindowMs
	}
	return &VelocityEstimator{
		windowMs: windowMs,
		samples:  make([]PointerSample, 0, historySize),
	}
}

// AddSample records a position. Samples whose timestamp does not strictly
// increase are dropped.
func (v *VelocityEstimator) AddSample(position float32, timeMs int64) {
	if n := len(v.samples); n > 0 {
		last := v.samples[n-1]
		if timeMs <= last.TimeMs {
			return
		}
		if timeMs-last.TimeMs > maxSampleGapMs {
			v.samples = v.samples[:0]
		}
	}
	if len(v.samples) == historySize {
		copy(v.samples, v.samples[1:])
		v.samples = v.samples[:historySize-1]
	}
	v.samples = append(v.samples, PointerSample{Position: position, TimeMs: timeMs})

	// Trim everything that fell out of the window.
	cutoff := timeMs - v.windowMs
	drop := 0
	for drop < len(v.samples) && v.samples[drop].TimeMs < cutoff {
		drop++
	}
	if drop > 0 {
		n := copy(v.samples, v.samples[drop:])
		v.samples = v.samples[:n]
	}
}

// Len returns the number of retained samples.
func (v *VelocityEstimator) Len() int {
	return len(v.samples)
}

// Reset clears all history. Called at the start of every gesture.
func (v *VelocityEstimator) Reset() {
	v.samples = v.samples[:0]
}

// Estimate returns the finger velocity in position units per periodMs
// (1000 gives units per second). It returns 0 with fewer than two samples
// or when the samples cannot be fitted.
func (v *VelocityEstimator) Estimate(periodMs int64) float32 {
	n := len(v.samples)
	if n < 2 || periodMs <= 0 {
		return 0
	}
	newest := v.samples[n-1]
	xs, ys := v.xs[:n], v.ys[:n]
	for i, s := range v.samples {
		// Relative to the newest sample so the fitted slope at x=0 is the
		// velocity at the moment of the last event.
		xs[i] = float64(s.TimeMs-newest.TimeMs) / 1000
		ys[i] = float64(s.Position - newest.Position)
	}

	degree := 2
	if n <= degree {
		degree = 1
	}
	coef, ok := lsq.Fit(xs, ys, degree)
	if !ok && degree > 1 {
		coef, ok = lsq.Fit(xs, ys, 1)
	}
	if !ok {
		return 0
	}
	return float32(coef[1] * float64(periodMs) / 1000)
}

// EstimateClamped is Estimate with the magnitude capped at maxVelocity.
func (v *VelocityEstimator) EstimateClamped(periodMs int64, maxVelocity float32) float32 {
	vel := v.Estimate(periodMs)
	if maxVelocity <= 0 {
		return vel
	}
	if vel > maxVelocity {
		return maxVelocity
	}
	if vel < -maxVelocity {
		return -maxVelocity
	}
	return vel
}
