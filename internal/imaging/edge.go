package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// EdgeMap performs Canny-style edge detection and returns a single-channel edge map.
//
// The result has bounds (0,0)-(width,height) regardless of the source origin. Edge
// pixels are 255 and all other pixels 0.
//
// Parameters:
//   - img: Source frame (color or grayscale).
//   - thresholdLow: Gradients below this (0-255 scale) are discarded.
//   - thresholdHigh: Gradients above this are always kept. Pixels between the two
//     thresholds are kept only when touching a strong edge.
//   - blurRadius: Gaussian blur radius applied before gradients. Zero disables blur.
//
// # Algorithm
//
//  1. Grayscale conversion (bild effect.Grayscale)
//  2. Gaussian blur (bild blur.Gaussian) to reduce noise
//  3. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis thresholding against the strong-edge neighborhood
//
// # Threshold Selection
//
// Road footage from low-quality cameras is noisy; 80/150 is a good starting point.
// Lower thresholds pick up asphalt texture, higher ones lose faded paint.
func EdgeMap(img image.Image, thresholdLow, thresholdHigh int, blurRadius float64) (*image.Gray, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("edge map: empty image %dx%d", width, height)
	}
	if thresholdLow < 0 || thresholdHigh > 255 || thresholdLow > thresholdHigh {
		return nil, fmt.Errorf("edge map: invalid thresholds low=%d high=%d", thresholdLow, thresholdHigh)
	}

	var src image.Image = effect.Grayscale(img)
	if blurRadius > 0 {
		src = blur.Gaussian(src, blurRadius)
	}
	gray := luminance(src, width, height)

	// Sobel gradients
	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	at := func(x, y int) float64 {
		return gray[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			i := y*width + x
			magnitude[i] = math.Sqrt(gx*gx + gy*gy)
			direction[i] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			mag := magnitude[i]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	result := image.NewGray(image.Rect(0, 0, width, height))
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y*width+x]
			switch {
			case val >= highThresh && val > 0:
				result.Pix[y*result.Stride+x] = 255
			case val >= lowThresh && val > 0 && hasStrongNeighbor(suppressed, x, y, width, height, highThresh):
				result.Pix[y*result.Stride+x] = 255
			}
		}
	}

	return result, nil
}

func hasStrongNeighbor(suppressed []float64, x, y, width, height int, highThresh float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			py := clamp(y+ky, 0, height-1)
			px := clamp(x+kx, 0, width-1)
			if suppressed[py*width+px] >= highThresh {
				return true
			}
		}
	}
	return false
}

// luminance reads an image into a row-major slice of intensities in [0,1].
func luminance(img image.Image, width, height int) []float64 {
	b := img.Bounds()
	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out[y*width+x] = float64(r>>8) / 255.0
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
