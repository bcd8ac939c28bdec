package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func decodeEncoded(t *testing.T, e *EncodedImage) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(e.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func TestCropROI(t *testing.T) {
	img := createInMemoryImage(480, 320, color.RGBA{255, 0, 0, 255})
	// Mark the ROI's top-left corner pixel
	img.Set(48, 192, color.RGBA{0, 0, 255, 255})

	roi, err := CropROI(img)
	if err != nil {
		t.Fatalf("CropROI failed: %v", err)
	}
	if roi.Bounds().Dx() != 384 || roi.Bounds().Dy() != 128 {
		t.Errorf("dimensions: got %dx%d, want 384x128", roi.Bounds().Dx(), roi.Bounds().Dy())
	}
	if c := roi.NRGBAAt(0, 0); c.B != 255 || c.R != 0 {
		t.Errorf("top-left pixel: got %v, want blue", c)
	}
}

func TestCropROI_NonZeroOrigin(t *testing.T) {
	full := createInMemoryImage(200, 200, color.White)
	sub := full.SubImage(image.Rect(100, 100, 200, 200))

	roi, err := CropROI(sub)
	if err != nil {
		t.Fatalf("CropROI failed: %v", err)
	}
	if roi.Bounds().Dx() != 80 || roi.Bounds().Dy() != 40 {
		t.Errorf("dimensions: got %dx%d, want 80x40", roi.Bounds().Dx(), roi.Bounds().Dy())
	}
}

func TestCropROI_Empty(t *testing.T) {
	if _, err := CropROI(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("CropROI should fail for empty image")
	}
}

func TestCrop(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{0, 255, 0, 255})

	result, err := Crop(img, 10, 20, 60, 70, 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded := decodeEncoded(t, result)
	r, g, b, _ := decoded.At(25, 25).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("cropped color: got (%d,%d,%d), want (0,255,0)", r>>8, g>>8, b>>8)
	}
}

func TestCrop_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name         string
		scale        float64
		wantW, wantH int
	}{
		{"double", 2.0, 100, 100},
		{"half", 0.5, 25, 25},
		{"zero means unscaled", 0, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Crop(img, 0, 0, 50, 50, tt.scale)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"x1 negative", -1, 0, 50, 50},
		{"y2 too large", 0, 0, 50, 101},
		{"x1 >= x2", 50, 0, 50, 50},
		{"y1 > y2", 0, 60, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.x1, tt.y1, tt.x2, tt.y2, 1.0); err == nil {
				t.Error("Crop should fail for invalid region")
			}
		})
	}
}
