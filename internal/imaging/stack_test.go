package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestStackPanels(t *testing.T) {
	frame := createInMemoryImage(40, 30, color.RGBA{255, 0, 0, 255})
	edges := image.NewGray(image.Rect(0, 0, 20, 15))
	for i := range edges.Pix {
		edges.Pix[i] = 255
	}
	annotated := createInMemoryImage(40, 30, color.RGBA{0, 0, 255, 255})

	out, err := StackPanels(frame, edges, annotated)
	if err != nil {
		t.Fatalf("StackPanels failed: %v", err)
	}
	if out.Bounds().Dx() != 120 || out.Bounds().Dy() != 30 {
		t.Fatalf("dimensions: got %dx%d, want 120x30", out.Bounds().Dx(), out.Bounds().Dy())
	}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"frame panel", 10, 10, color.NRGBA{255, 0, 0, 255}},
		{"edge panel", 60, 15, color.NRGBA{255, 255, 255, 255}},
		{"annotated panel", 100, 20, color.NRGBA{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := out.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestStackPanels_Empty(t *testing.T) {
	if _, err := StackPanels(); err == nil {
		t.Error("StackPanels should fail without panels")
	}
}
