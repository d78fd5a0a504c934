package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"normal", 10, 2, 5},
		{"negative", -9, 3, -3},
		{"zero denominator", 1, 0, math.NaN()},
		{"nan denominator", 1, math.NaN(), math.NaN()},
		{"zero numerator", 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeDiv(tt.a, tt.b)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got), "expected NaN, got %f", got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSafeDiv_NeverInf(t *testing.T) {
	for _, b := range []float64{0, math.Copysign(0, -1), math.NaN()} {
		got := SafeDiv(1e300, b)
		assert.False(t, math.IsInf(got, 0), "SafeDiv produced Inf for denominator %v", b)
	}
}

func TestShift(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	got := Shift(x, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 1.0, got[2])
	assert.Equal(t, 2.0, got[3])
}

func TestPctChange_GuardsZeroBase(t *testing.T) {
	x := []float64{0, 10, 11}
	got := PctChange(x, 1)
	assert.True(t, math.IsNaN(got[1]), "change off a zero base must be NaN")
	assert.InDelta(t, 0.1, got[2], 1e-12)
}

func TestRollingMean(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	got := RollingMean(x, 3)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-12)
	assert.InDelta(t, 3.0, got[3], 1e-12)
	assert.InDelta(t, 4.0, got[4], 1e-12)
}

func TestRollingStd_SampleDenominator(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := RollingStd(x, len(x))
	// sample std of the full window
	assert.InDelta(t, 2.138, got[len(x)-1], 0.001)
}

func TestRollingMinMax(t *testing.T) {
	x := []float64{5, 3, 8, 1, 9}
	min := RollingMin(x, 3)
	max := RollingMax(x, 3)
	assert.Equal(t, 3.0, min[2])
	assert.Equal(t, 1.0, min[4])
	assert.Equal(t, 8.0, max[2])
	assert.Equal(t, 9.0, max[4])
}

func TestRollingWindowWithNaN(t *testing.T) {
	x := []float64{1, math.NaN(), 3, 4, 5}
	got := RollingMean(x, 2)
	assert.True(t, math.IsNaN(got[1]), "window containing NaN must be NaN")
	assert.True(t, math.IsNaN(got[2]))
	assert.InDelta(t, 3.5, got[3], 1e-12)
}

func TestClip(t *testing.T) {
	x := []float64{-2, -0.5, 0.5, 2, math.NaN()}
	got := Clip(x, -1, 1)
	assert.Equal(t, -1.0, got[0])
	assert.Equal(t, -0.5, got[1])
	assert.Equal(t, 0.5, got[2])
	assert.Equal(t, 1.0, got[3])
	assert.True(t, math.IsNaN(got[4]))
}

func TestRollingQuantile(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	got := RollingQuantile(x, 5, 0.5)
	assert.InDelta(t, 3.0, got[4], 1e-12)

	got = RollingQuantile(x, 5, 1.0)
	assert.InDelta(t, 5.0, got[4], 1e-12)
}

func TestRollingRankPct(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	got := RollingRankPct(x, 5)
	// current value is the max of its window
	assert.InDelta(t, 1.0, got[4], 1e-12)

	y := []float64{5, 4, 3, 2, 1}
	got = RollingRankPct(y, 5)
	// current value is the min: rank 1 of 5
	assert.InDelta(t, 0.2, got[4], 1e-12)
}
