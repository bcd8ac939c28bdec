package lane

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// DrawLine rasterizes l onto dst as a solid band of style.Thickness pixels.
// Portions outside dst are clipped.
func DrawLine(dst *image.NRGBA, l LaneLine, style LineStyle) {
	b := dst.Bounds()
	dx := float64(l.X2 - l.X1)
	dy := float64(l.Y2 - l.Y1)
	length := math.Hypot(dx, dy)
	if length == 0 || style.Thickness < 1 {
		return
	}

	half := float64(style.Thickness) / 2
	nx, ny := -dy/length*half, dx/length*half
	x1, y1 := float64(l.X1-b.Min.X), float64(l.Y1-b.Min.Y)
	x2, y2 := float64(l.X2-b.Min.X), float64(l.Y2-b.Min.Y)

	quad := clipPolygon([]point{
		{x1 + nx, y1 + ny},
		{x2 + nx, y2 + ny},
		{x2 - nx, y2 - ny},
		{x1 - nx, y1 - ny},
	}, float64(b.Dx()), float64(b.Dy()))
	if len(quad) < 3 {
		return
	}

	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(float32(quad[0].x), float32(quad[0].y))
	for _, p := range quad[1:] {
		r.LineTo(float32(p.x), float32(p.y))
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(style.Color), image.Point{})
}

type point struct{ x, y float64 }

// clipPolygon clips a convex polygon to [0,w]x[0,h] (Sutherland-Hodgman).
func clipPolygon(poly []point, w, h float64) []point {
	edges := []struct {
		inside func(point) bool
		cross  func(a, b point) point
	}{
		{func(p point) bool { return p.x >= 0 }, func(a, b point) point { return atX(a, b, 0) }},
		{func(p point) bool { return p.x <= w }, func(a, b point) point { return atX(a, b, w) }},
		{func(p point) bool { return p.y >= 0 }, func(a, b point) point { return atY(a, b, 0) }},
		{func(p point) bool { return p.y <= h }, func(a, b point) point { return atY(a, b, h) }},
	}

	out := poly
	for _, e := range edges {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]point, 0, len(in)+2)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur) && !e.inside(prev):
				out = append(out, e.cross(prev, cur), cur)
			case e.inside(cur):
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func atX(a, b point, x float64) point {
	t := (x - a.x) / (b.x - a.x)
	return point{x, a.y + t*(b.y-a.y)}
}

func atY(a, b point, y float64) point {
	t := (y - a.y) / (b.y - a.y)
	return point{a.x + t*(b.x-a.x), y}
}
