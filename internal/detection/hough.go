package detection

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/lane-tracker-mcp/internal/lane"
)

// HoughParams are the voting parameters for segment detection. They must stay fixed
// for the lifetime of a stream so smoothing sees comparable detections.
type HoughParams struct {
	// Rho is the distance resolution of the accumulator in pixels.
	Rho float64 `json:"rho"`

	// ThetaDegrees is the angular resolution of the accumulator.
	ThetaDegrees float64 `json:"theta_degrees"`

	// Threshold is the minimum number of votes for a line.
	Threshold int `json:"threshold"`

	// MinLineLength drops segments shorter than this many pixels.
	MinLineLength int `json:"min_line_length"`

	// MaxLineGap is the largest gap between edge pixels joined into one segment.
	MaxLineGap int `json:"max_line_gap"`

	// MaxSegments caps the number of returned segments.
	MaxSegments int `json:"max_segments"`
}

// DefaultHoughParams are tuned for 480x320 road frames.
var DefaultHoughParams = HoughParams{
	Rho:           2,
	ThetaDegrees:  1,
	Threshold:     80,
	MinLineLength: 30,
	MaxLineGap:    10,
	MaxSegments:   50,
}

// Validate reports parameters that cannot produce a usable accumulator.
func (p HoughParams) Validate() error {
	if p.Rho <= 0 || p.ThetaDegrees <= 0 || p.ThetaDegrees > 90 {
		return fmt.Errorf("invalid hough resolution rho=%v theta=%v", p.Rho, p.ThetaDegrees)
	}
	if p.Threshold < 1 || p.MinLineLength < 0 || p.MaxLineGap < 0 {
		return fmt.Errorf("invalid hough limits threshold=%d min_length=%d max_gap=%d",
			p.Threshold, p.MinLineLength, p.MaxLineGap)
	}
	return nil
}

type edgePoint struct {
	x, y int
}

type peak struct {
	rhoIdx int
	theta  int
	votes  int
}

// DetectSegments finds line segments in a binary edge map using Hough voting.
//
// Every non-zero pixel votes for all (rho, theta) lines through it. Accumulator cells
// with at least Threshold votes that are local maxima become candidate lines, strongest
// first. For each candidate the supporting edge pixels are ordered along the line and
// split wherever two neighbors are more than MaxLineGap apart; runs of at least
// MinLineLength become segments. Pixels of accepted segments are consumed, so a
// weaker neighboring peak cannot report the same paint stripe twice.
//
// Segment coordinates are relative to the edge map's origin.
func DetectSegments(edges *image.Gray, params HoughParams) ([]lane.RawSegment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	bounds := edges.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	points := make([]edgePoint, 0)
	for y := 0; y < height; y++ {
		row := edges.Pix[edges.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			if row[x] != 0 {
				points = append(points, edgePoint{x, y})
			}
		}
	}
	if len(points) == 0 {
		return nil, nil
	}

	// Hough transform parameters
	numAngles := int(math.Round(180 / params.ThetaDegrees))
	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		angle := float64(t) * params.ThetaDegrees * math.Pi / 180.0
		cosT[t] = math.Cos(angle)
		sinT[t] = math.Sin(angle)
	}
	maxDist := math.Hypot(float64(width), float64(height))
	numRho := int(math.Ceil(2*maxDist/params.Rho)) + 1
	rhoIndex := func(rho float64) int {
		return int(math.Round((rho + maxDist) / params.Rho))
	}

	// Vote in Hough space
	accumulator := make([]int, numRho*numAngles)
	for _, p := range points {
		for t := 0; t < numAngles; t++ {
			r := rhoIndex(float64(p.x)*cosT[t] + float64(p.y)*sinT[t])
			accumulator[r*numAngles+t]++
		}
	}

	// Find peaks in accumulator
	peaks := make([]peak, 0)
	for r := 0; r < numRho; r++ {
		for t := 0; t < numAngles; t++ {
			votes := accumulator[r*numAngles+t]
			if votes < params.Threshold {
				continue
			}
			if isLocalMax(accumulator, r, t, numRho, numAngles) {
				peaks = append(peaks, peak{rhoIdx: r, theta: t, votes: votes})
			}
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	maxSegments := params.MaxSegments
	if maxSegments <= 0 {
		maxSegments = DefaultHoughParams.MaxSegments
	}
	tolerance := math.Max(params.Rho, 1)
	used := make([]bool, len(points))
	segments := make([]lane.RawSegment, 0)

	for _, pk := range peaks {
		if len(segments) >= maxSegments {
			break
		}
		rho := float64(pk.rhoIdx)*params.Rho - maxDist
		cosA, sinA := cosT[pk.theta], sinT[pk.theta]

		// Supporting pixels, ordered along the line direction
		type support struct {
			idx int
			t   float64
		}
		line := make([]support, 0)
		for i, p := range points {
			if used[i] {
				continue
			}
			if math.Abs(float64(p.x)*cosA+float64(p.y)*sinA-rho) <= tolerance {
				line = append(line, support{idx: i, t: -float64(p.x)*sinA + float64(p.y)*cosA})
			}
		}
		if len(line) < 2 {
			continue
		}
		sort.Slice(line, func(i, j int) bool { return line[i].t < line[j].t })

		start := 0
		for k := 1; k <= len(line); k++ {
			if k < len(line) && line[k].t-line[k-1].t <= float64(params.MaxLineGap) {
				continue
			}
			a, b := points[line[start].idx], points[line[k-1].idx]
			if math.Hypot(float64(b.x-a.x), float64(b.y-a.y)) >= float64(params.MinLineLength) && k-1 > start {
				for _, s := range line[start:k] {
					used[s.idx] = true
				}
				segments = append(segments, lane.RawSegment{X1: a.x, Y1: a.y, X2: b.x, Y2: b.y})
				if len(segments) >= maxSegments {
					break
				}
			}
			start = k
		}
	}

	return segments, nil
}

// isLocalMax reports whether cell (r, t) is not exceeded by any cell in its 5x5
// neighborhood.
func isLocalMax(acc []int, r, t, numRho, numAngles int) bool {
	v := acc[r*numAngles+t]
	for dr := -2; dr <= 2; dr++ {
		for dt := -2; dt <= 2; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			nr, nt := r+dr, t+dt
			if nr < 0 || nr >= numRho || nt < 0 || nt >= numAngles {
				continue
			}
			if acc[nr*numAngles+nt] > v {
				return false
			}
		}
	}
	return true
}
