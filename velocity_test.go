package glide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVelocityEstimatorLinear(t *testing.T) {
	v := NewVelocityEstimator(100)
	// 1px per ms toward smaller positions.
	for ms := int64(0); ms <= 32; ms += 8 {
		v.AddSample(100-float32(ms), ms)
	}

	assert.Equal(t, 5, v.Len())
	assert.InDelta(t, -1000, v.Estimate(1000), 0.01)
	assert.InDelta(t, -16, v.Estimate(16), 0.01)
}

func TestVelocityEstimatorQuadratic(t *testing.T) {
	v := NewVelocityEstimator(100)
	// x(s) = 1000s + 2000s², so x'(0.04) = 1160.
	for ms := int64(0); ms <= 40; ms += 10 {
		s := float32(ms) / 1000
		v.AddSample(1000*s+2000*s*s, ms)
	}

	assert.InDelta(t, 1160, v.Estimate(1000), 0.5)
}

func TestVelocityEstimatorNeedsTwoSamples(t *testing.T) {
	v := NewVelocityEstimator(100)
	assert.Zero(t, v.Estimate(1000))

	v.AddSample(10, 0)
	assert.Zero(t, v.Estimate(1000))

	v.AddSample(20, 10)
	assert.InDelta(t, 1000, v.Estimate(1000), 0.01)
	assert.Zero(t, v.Estimate(0), "non-positive period")
}

func TestVelocityEstimatorDropsNonIncreasingTimestamps(t *testing.T) {
	v := NewVelocityEstimator(100)
	v.AddSample(0, 0)
	v.AddSample(10, 10)
	v.AddSample(50, 10)
	v.AddSample(99, 5)

	assert.Equal(t, 2, v.Len())
	assert.InDelta(t, 1000, v.Estimate(1000), 0.01)
}

func TestVelocityEstimatorWindow(t *testing.T) {
	v := NewVelocityEstimator(100)
	for ms := int64(0); ms <= 200; ms += 10 {
		v.AddSample(float32(ms), ms)
	}
	// Only t=100..200 is inside the window.
	assert.Equal(t, 11, v.Len())
}

func TestVelocityEstimatorPauseResetsHistory(t *testing.T) {
	v := NewVelocityEstimator(100)
	v.AddSample(0, 0)
	v.AddSample(10, 10)
	v.AddSample(20, 100)

	assert.Equal(t, 1, v.Len())
	assert.Zero(t, v.Estimate(1000))
}

func TestVelocityEstimatorClamped(t *testing.T) {
	tests := []struct {
		name string
		step float32
		max  float32
		want float32
	}{
		{"under cap", 1, 5000, 1000},
		{"capped forward", 1, 500, 500},
		{"capped backward", -1, 500, -500},
		{"no cap", 1, 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVelocityEstimator(100)
			for ms := int64(0); ms <= 30; ms += 10 {
				v.AddSample(tt.step*float32(ms), ms)
			}
			assert.InDelta(t, tt.want, v.EstimateClamped(1000, tt.max), 0.01)
		})
	}
}

func TestVelocityEstimatorReset(t *testing.T) {
	v := NewVelocityEstimator(0)
	v.AddSample(0, 0)
	v.AddSample(10, 10)
	v.Reset()

	assert.Zero(t, v.Len())
	assert.Zero(t, v.Estimate(1000))

	// Timestamps may restart after a reset.
	v.AddSample(5, 0)
	assert.Equal(t, 1, v.Len())
}
