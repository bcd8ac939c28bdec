package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/lane-tracker-mcp/internal/lane"
)

// CropROI extracts the rectangle enclosing the lane region of interest.
func CropROI(img image.Image) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("crop roi: %w", lane.ErrEmptyFrame)
	}
	roi := lane.ROIBounds(bounds.Dx(), bounds.Dy()).Add(bounds.Min)
	if roi.Empty() {
		return nil, fmt.Errorf("crop roi: region empty for %dx%d frame", bounds.Dx(), bounds.Dy())
	}
	return imaging.Crop(img, roi), nil
}

// Crop extracts a rectangular region from an image and optionally rescales it.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*EncodedImage, error) {
	bounds := img.Bounds()

	// Validate coordinates
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))
	return Encode(rescale(cropped, scale))
}

func rescale(img *image.NRGBA, scale float64) *image.NRGBA {
	if scale == 1.0 || scale <= 0 {
		return img
	}
	newWidth := int(float64(img.Bounds().Dx()) * scale)
	newHeight := int(float64(img.Bounds().Dy()) * scale)
	if newWidth < 1 || newHeight < 1 {
		return img
	}
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}
