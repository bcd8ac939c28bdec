package lane

import "math"

const (
	// minHorizontalRun is the smallest |x2-x1| for which a slope is defined.
	minHorizontalRun = 1e-3

	// minAbsSlope drops near-horizontal candidates, which cannot be lane boundaries.
	minAbsSlope = 0.01
)

// Params converts a segment to slope/intercept form. ok is false when the segment is
// vertical (undefined slope) or near-horizontal.
func (s RawSegment) Params() (LineParams, bool) {
	run := float64(s.X2 - s.X1)
	if math.Abs(run) < minHorizontalRun {
		return LineParams{}, false
	}
	slope := float64(s.Y2-s.Y1) / run
	if math.Abs(slope) < minAbsSlope {
		return LineParams{}, false
	}
	return LineParams{
		Slope:     slope,
		Intercept: float64(s.Y1) - slope*float64(s.X1),
	}, true
}

// Classify partitions raw segments into left (negative slope) and right (positive
// slope) candidates. Degenerate segments are dropped silently. A nil or empty input
// yields two empty buckets.
func Classify(segments []RawSegment) (left, right []LineParams) {
	for _, seg := range segments {
		p, ok := seg.Params()
		if !ok {
			continue
		}
		if p.Slope < 0 {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	return left, right
}
