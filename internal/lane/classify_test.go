package lane

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawSegment_Params(t *testing.T) {
	p, ok := RawSegment{X1: 50, Y1: 320, X2: 150, Y2: 192}.Params()
	require.True(t, ok)
	assert.InDelta(t, -1.28, p.Slope, 1e-9)
	assert.InDelta(t, 384, p.Intercept, 1e-9)
}

func TestClassify_FiltersDegenerate(t *testing.T) {
	tests := []struct {
		name string
		seg  RawSegment
	}{
		{"vertical", RawSegment{X1: 100, Y1: 200, X2: 100, Y2: 50}},
		{"horizontal", RawSegment{X1: 0, Y1: 100, X2: 200, Y2: 100}},
		{"near horizontal positive", RawSegment{X1: 0, Y1: 100, X2: 200, Y2: 101}},
		{"near horizontal negative", RawSegment{X1: 0, Y1: 101, X2: 200, Y2: 100}},
		{"single point", RawSegment{X1: 5, Y1: 5, X2: 5, Y2: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := Classify([]RawSegment{tt.seg})
			assert.Empty(t, left)
			assert.Empty(t, right)
		})
	}
}

func TestClassify_SlopeThresholdBoundary(t *testing.T) {
	// slope 0.01 exactly is retained, just below is not
	left, right := Classify([]RawSegment{
		{X1: 0, Y1: 0, X2: 100, Y2: 1},
		{X1: 0, Y1: 0, X2: 101, Y2: 1},
	})
	assert.Empty(t, left)
	require.Len(t, right, 1)
	assert.InDelta(t, 0.01, right[0].Slope, 1e-12)
}

func TestClassify_Partition(t *testing.T) {
	segments := []RawSegment{
		{X1: 50, Y1: 320, X2: 150, Y2: 192},  // left
		{X1: 430, Y1: 320, X2: 330, Y2: 192}, // right
		{X1: 100, Y1: 200, X2: 100, Y2: 50},  // vertical
		{X1: 60, Y1: 300, X2: 140, Y2: 200},  // left
		{X1: 0, Y1: 10, X2: 300, Y2: 10},     // horizontal
		{X1: 300, Y1: 200, X2: 400, Y2: 310}, // right
	}

	left, right := Classify(segments)
	require.Len(t, left, 2)
	require.Len(t, right, 2)

	for _, p := range left {
		assert.Less(t, p.Slope, 0.0)
	}
	for _, p := range right {
		assert.GreaterOrEqual(t, p.Slope, minAbsSlope)
	}

	retained := 0
	for _, s := range segments {
		if _, ok := s.Params(); ok {
			retained++
		}
	}
	assert.Equal(t, retained, len(left)+len(right))
}

func TestClassify_Empty(t *testing.T) {
	left, right := Classify(nil)
	assert.Empty(t, left)
	assert.Empty(t, right)

	left, right = Classify([]RawSegment{})
	assert.Empty(t, left)
	assert.Empty(t, right)
}

func TestClassify_InterceptMatchesFirstEndpoint(t *testing.T) {
	segs := []RawSegment{
		{X1: 12, Y1: 250, X2: 90, Y2: 170},
		{X1: 400, Y1: 300, X2: 310, Y2: 205},
	}
	left, right := Classify(segs)
	all := append(left, right...)
	require.Len(t, all, 2)
	for i, p := range all {
		s := segs[i]
		y := p.Slope*float64(s.X1) + p.Intercept
		assert.True(t, math.Abs(y-float64(s.Y1)) < 1e-9)
	}
}
