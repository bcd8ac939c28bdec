package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createBandImage creates a black image with a white vertical band [x0, x1)
func createBandImage(width, height, x0, x1 int) *image.RGBA {
	img := createInMemoryImage(width, height, color.RGBA{0, 0, 0, 255})
	for y := 0; y < height; y++ {
		for x := x0; x < x1; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

func countEdges(g *image.Gray, inset int) int {
	b := g.Bounds()
	n := 0
	for y := b.Min.Y + inset; y < b.Max.Y-inset; y++ {
		for x := b.Min.X + inset; x < b.Max.X-inset; x++ {
			if g.GrayAt(x, y).Y == 255 {
				n++
			}
		}
	}
	return n
}

func TestEdgeMap(t *testing.T) {
	img := createBandImage(100, 100, 40, 60)

	edges, err := EdgeMap(img, 80, 150, 2)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}
	if edges.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("bounds: got %v, want (0,0)-(100,100)", edges.Bounds())
	}

	found := false
	for x := 36; x <= 43; x++ {
		if edges.GrayAt(x, 50).Y == 255 {
			found = true
		}
	}
	if !found {
		t.Error("expected an edge near the band's left border")
	}

	if edges.GrayAt(50, 50).Y != 0 || edges.GrayAt(10, 50).Y != 0 {
		t.Error("flat areas should not be marked as edges")
	}

	for _, v := range edges.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("edge map must be binary, found %d", v)
		}
	}
}

// createDiagonalStripe creates a black image with a white stripe of half-width hw
// along the 45 degree diagonal (rising=false) or the -45 degree anti-diagonal.
func createDiagonalStripe(size, hw int, rising bool) *image.RGBA {
	img := createInMemoryImage(size, size, color.RGBA{0, 0, 0, 255})
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := x - y
			if rising {
				d = x + y - (size - 1)
			}
			if d > -hw && d < hw {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func TestEdgeMap_DiagonalStripe(t *testing.T) {
	const size, hw = 100, 6

	for _, rising := range []bool{false, true} {
		name := "falling"
		if rising {
			name = "rising"
		}
		t.Run(name, func(t *testing.T) {
			edges, err := EdgeMap(createDiagonalStripe(size, hw, rising), 80, 150, 2)
			if err != nil {
				t.Fatalf("EdgeMap failed: %v", err)
			}

			// Each stripe border must survive on (nearly) every row.
			rows := 0
			lowHits, highHits := 0, 0
			for y := 20; y < 80; y++ {
				center := y
				if rising {
					center = size - 1 - y
				}
				rows++
				if edgeInRange(edges, y, center-hw-3, center-hw+3) {
					lowHits++
				}
				if edgeInRange(edges, y, center+hw-3, center+hw+3) {
					highHits++
				}
			}
			if lowHits < rows*9/10 || highHits < rows*9/10 {
				t.Errorf("stripe borders broken: low %d/%d, high %d/%d rows", lowHits, rows, highHits, rows)
			}

			mid := 50
			if rising {
				mid = size - 1 - 50
			}
			if edges.GrayAt(mid, 50).Y != 0 {
				t.Error("stripe center should not be an edge")
			}
		})
	}
}

func edgeInRange(g *image.Gray, y, x0, x1 int) bool {
	for x := x0; x <= x1; x++ {
		if g.GrayAt(x, y).Y == 255 {
			return true
		}
	}
	return false
}

func TestEdgeMap_UniformImage(t *testing.T) {
	img := createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255})

	edges, err := EdgeMap(img, 80, 150, 2)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}
	if n := countEdges(edges, 5); n != 0 {
		t.Errorf("uniform image produced %d edge pixels", n)
	}
}

func TestEdgeMap_NoBlur(t *testing.T) {
	img := createBandImage(40, 40, 20, 40)

	edges, err := EdgeMap(img, 80, 150, 0)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}
	if countEdges(edges, 1) == 0 {
		t.Error("expected edges without blur")
	}
}

func TestEdgeMap_NonZeroOrigin(t *testing.T) {
	full := createBandImage(100, 100, 40, 60)
	sub := full.SubImage(image.Rect(20, 20, 80, 80))

	edges, err := EdgeMap(sub, 80, 150, 2)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}
	if edges.Bounds() != image.Rect(0, 0, 60, 60) {
		t.Errorf("bounds: got %v, want (0,0)-(60,60)", edges.Bounds())
	}
}

func TestEdgeMap_InvalidInput(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	tests := []struct {
		name      string
		img       image.Image
		low, high int
	}{
		{"empty image", image.NewRGBA(image.Rect(0, 0, 0, 0)), 80, 150},
		{"low above high", img, 150, 80},
		{"negative low", img, -1, 80},
		{"high above 255", img, 80, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EdgeMap(tt.img, tt.low, tt.high, 2); err == nil {
				t.Error("EdgeMap should fail")
			}
		})
	}
}
