package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// StackPanels places images side by side, left to right. Every panel is resized to
// the first panel's dimensions; grayscale panels are rendered in color space.
func StackPanels(panels ...image.Image) (*image.NRGBA, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("stack panels: no panels")
	}
	first := panels[0].Bounds()
	width, height := first.Dx(), first.Dy()
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("stack panels: empty first panel")
	}

	out := imaging.New(width*len(panels), height, color.NRGBA{A: 255})
	for i, p := range panels {
		var panel image.Image = p
		if b := p.Bounds(); b.Dx() != width || b.Dy() != height {
			panel = imaging.Resize(p, width, height, imaging.Linear)
		}
		out = imaging.Paste(out, panel, image.Pt(i*width, 0))
	}
	return out, nil
}
