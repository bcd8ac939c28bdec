package lane

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFrame is returned for frames with zero width or height.
	ErrEmptyFrame = errors.New("lane: zero-area frame")

	// ErrDimensionMismatch is returned when the color frame and edge map differ in size.
	ErrDimensionMismatch = errors.New("lane: frame and edge map dimensions differ")
)

// Side identifies a lane boundary.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// RawSegment is a candidate line segment reported by the line detector.
type RawSegment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// LineParams describes the line y = Slope*x + Intercept.
type LineParams struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// LaneLine is one lane boundary in integer pixel coordinates. (X1, Y1) lies on the
// bottom row of the frame and (X2, Y2) on the top of the region of interest.
type LaneLine struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Side reports the lane side implied by the sign of the slope.
func (p LineParams) Side() Side {
	if p.Slope < 0 {
		return Left
	}
	return Right
}

// SideOf derives a line's side from the sign of its endpoint slope. A line whose
// endpoints share an x coordinate reports Left.
func SideOf(l LaneLine) Side {
	slope := float64(l.Y2-l.Y1) / (float64(l.X2-l.X1) + 1e-6)
	if slope < 0 {
		return Left
	}
	return Right
}
