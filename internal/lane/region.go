package lane

import (
	"fmt"
	"image"
	"math"
)

// Fractional offsets of the region-of-interest trapezoid.
const (
	roiBottomLeftX  = 0.1
	roiBottomRightX = 0.9
	roiTopRightX    = 0.55
	roiTopLeftX     = 0.45
	roiTopY         = 0.6
)

// ROIPolygon is the trapezoidal region of interest in the order
// bottom-left, bottom-right, top-right, top-left.
type ROIPolygon [4]image.Point

// NewROIPolygon derives the region of interest for a width x height frame.
func NewROIPolygon(width, height int) ROIPolygon {
	top := ROITopY(height)
	return ROIPolygon{
		{X: frac(width, roiBottomLeftX), Y: height},
		{X: frac(width, roiBottomRightX), Y: height},
		{X: frac(width, roiTopRightX), Y: top},
		{X: frac(width, roiTopLeftX), Y: top},
	}
}

// ROITopY returns the row where the region of interest (and every LaneLine) ends.
func ROITopY(height int) int {
	return frac(height, roiTopY)
}

// ROIBounds returns the axis-aligned rectangle enclosing the region of interest,
// clipped to the frame.
func ROIBounds(width, height int) image.Rectangle {
	return image.Rect(frac(width, roiBottomLeftX), ROITopY(height), frac(width, roiBottomRightX), height)
}

// Contains reports whether pixel (x, y) lies inside the polygon, boundary included.
func (p ROIPolygon) Contains(x, y int) bool {
	bottom, top := p[0].Y, p[3].Y
	if y < top || y > bottom || bottom == top {
		return false
	}
	left, right := p.span(y)
	fx := float64(x)
	return fx >= left && fx <= right
}

// span returns the horizontal extent of the polygon on row y.
func (p ROIPolygon) span(y int) (float64, float64) {
	bottom, top := float64(p[0].Y), float64(p[3].Y)
	t := (bottom - float64(y)) / (bottom - top)
	left := float64(p[0].X) + t*float64(p[3].X-p[0].X)
	right := float64(p[1].X) + t*float64(p[2].X-p[1].X)
	return left, right
}

// MaskRegion returns a copy of edges with every pixel outside the region of interest
// set to zero. Pixels inside are preserved unchanged.
//
// The polygon is derived from the edge map's own dimensions on every call. A zero-area
// edge map is a precondition violation and returns ErrEmptyFrame.
func MaskRegion(edges *image.Gray) (*image.Gray, error) {
	if edges == nil {
		return nil, fmt.Errorf("mask region: %w", ErrEmptyFrame)
	}
	bounds := edges.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("mask region %dx%d: %w", width, height, ErrEmptyFrame)
	}

	poly := NewROIPolygon(width, height)
	masked := image.NewGray(bounds)

	for y := 0; y < height; y++ {
		src := edges.Pix[edges.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dst := masked.Pix[masked.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			if poly.Contains(x, y) {
				dst[x] = src[x]
			}
		}
	}

	return masked, nil
}

func frac(n int, f float64) int {
	return int(math.Round(float64(n) * f))
}
