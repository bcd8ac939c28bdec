package lane

import "math"

// Metrics describes the lane formed by a left and right boundary.
type Metrics struct {
	WidthPixels        int     `json:"width_pixels"`
	CenterOffsetPixels float64 `json:"center_offset_pixels"`
	CenterOffsetRatio  float64 `json:"center_offset_ratio"`
	LeftAngleDegrees   float64 `json:"left_angle_degrees"`
	RightAngleDegrees  float64 `json:"right_angle_degrees"`
}

// Measure computes lane metrics on the bottom row of a frame of the given width.
// CenterOffsetPixels is positive when the lane center lies right of the frame center.
func Measure(left, right LaneLine, frameWidth int) Metrics {
	width := right.X1 - left.X1
	center := float64(left.X1+right.X1) / 2
	offset := center - float64(frameWidth)/2

	var ratio float64
	if frameWidth > 0 {
		ratio = offset / float64(frameWidth)
	}

	return Metrics{
		WidthPixels:        width,
		CenterOffsetPixels: math.Round(offset*10) / 10,
		CenterOffsetRatio:  math.Round(ratio*1000) / 1000,
		LeftAngleDegrees:   angle(left),
		RightAngleDegrees:  angle(right),
	}
}

// angle returns the direction from bottom endpoint to top endpoint
// (0 = rightward, -90 = straight up).
func angle(l LaneLine) float64 {
	deg := math.Atan2(float64(l.Y2-l.Y1), float64(l.X2-l.X1)) * 180 / math.Pi
	return math.Round(deg*10) / 10
}
