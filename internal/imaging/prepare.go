package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
)

// PrepareFrame resizes a frame to width x height and applies a linear contrast boost
// v' = clamp(round(alpha*v + beta)) to each color channel. Frames already at the target
// size are not resampled. alpha=1, beta=0 leaves colors unchanged.
func PrepareFrame(img image.Image, width, height int, alpha, beta float64) (image.Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("prepare frame: invalid target size %dx%d", width, height)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("prepare frame: empty source image")
	}

	var out image.Image = img
	if b.Dx() != width || b.Dy() != height {
		out = imaging.Resize(img, width, height, imaging.Linear)
	}
	if alpha == 1 && beta == 0 {
		return out, nil
	}

	return adjust.Apply(out, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: scaleAbs(c.R, alpha, beta),
			G: scaleAbs(c.G, alpha, beta),
			B: scaleAbs(c.B, alpha, beta),
			A: c.A,
		}
	}), nil
}

func scaleAbs(v uint8, alpha, beta float64) uint8 {
	s := math.Abs(math.Round(float64(v)*alpha + beta))
	if s > 255 {
		return 255
	}
	return uint8(s)
}
