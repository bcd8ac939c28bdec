package lane

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Aggregate averages a bucket of candidates into one representative line and projects
// it onto the band between bottomY and topY. ok is false for an empty bucket.
//
// Candidates are expected to come from Classify, so the averaged slope is never zero.
func Aggregate(candidates []LineParams, bottomY, topY int) (LaneLine, bool) {
	p, ok := meanParams(candidates)
	if !ok {
		return LaneLine{}, false
	}
	return Project(p, bottomY, topY), true
}

func meanParams(candidates []LineParams) (LineParams, bool) {
	if len(candidates) == 0 {
		return LineParams{}, false
	}

	slopes := make([]float64, len(candidates))
	intercepts := make([]float64, len(candidates))
	for i, c := range candidates {
		slopes[i] = c.Slope
		intercepts[i] = c.Intercept
	}

	return LineParams{
		Slope:     stat.Mean(slopes, nil),
		Intercept: stat.Mean(intercepts, nil),
	}, true
}

// Project converts line parameters to endpoints on rows bottomY and topY.
func Project(p LineParams, bottomY, topY int) LaneLine {
	return LaneLine{
		X1: int(math.Round((float64(bottomY) - p.Intercept) / p.Slope)),
		Y1: bottomY,
		X2: int(math.Round((float64(topY) - p.Intercept) / p.Slope)),
		Y2: topY,
	}
}

// averagedLine is a projected bucket average and the parameters it was projected from.
type averagedLine struct {
	line   LaneLine
	params LineParams
}

// averageLines aggregates both buckets for a frame of the given height and returns the
// results as a flat list, left first when present.
func averageLines(left, right []LineParams, height int) []averagedLine {
	top := ROITopY(height)
	lines := make([]averagedLine, 0, 2)
	for _, bucket := range [][]LineParams{left, right} {
		if p, ok := meanParams(bucket); ok {
			lines = append(lines, averagedLine{line: Project(p, height, top), params: p})
		}
	}
	return lines
}

// assignSides maps a flat list of averaged lines back to lane sides. Two lines are
// taken in order; a lone line is re-derived from the sign of its averaged slope.
// The rounded endpoints are not used for this: a steep line can project to X1 == X2.
func assignSides(lines []averagedLine) (left, right *LaneLine) {
	switch len(lines) {
	case 2:
		l, r := lines[0].line, lines[1].line
		return &l, &r
	case 1:
		only := lines[0].line
		if lines[0].params.Side() == Left {
			return &only, nil
		}
		return nil, &only
	default:
		return nil, nil
	}
}
