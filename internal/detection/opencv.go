//go:build gocv
// +build gocv

package detection

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/lane-tracker-mcp/internal/lane"
)

// OpenCV runs blur, Canny and probabilistic Hough through gocv.
type OpenCV struct {
	Edge  EdgeParams
	Hough HoughParams
}

func newOpenCV(edge EdgeParams, hough HoughParams) (Extractor, error) {
	return &OpenCV{Edge: edge, Hough: hough}, nil
}

func (o *OpenCV) Edges(frame image.Image) (*image.Gray, error) {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, float32(o.Edge.Low), float32(o.Edge.High))

	out := image.NewGray(image.Rect(0, 0, edges.Cols(), edges.Rows()))
	copy(out.Pix, edges.ToBytes())
	return out, nil
}

func (o *OpenCV) Segments(edges *image.Gray) ([]lane.RawSegment, error) {
	b := edges.Bounds()
	pix := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := edges.PixOffset(b.Min.X, y)
		pix = append(pix, edges.Pix[off:off+b.Dx()]...)
	}

	src, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8U, pix)
	if err != nil {
		return nil, fmt.Errorf("convert edges: %w", err)
	}
	defer src.Close()

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(src, &lines,
		float32(o.Hough.Rho),
		float32(o.Hough.ThetaDegrees*math.Pi/180),
		o.Hough.Threshold,
		float32(o.Hough.MinLineLength),
		float32(o.Hough.MaxLineGap),
	)

	segments := make([]lane.RawSegment, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		if len(v) < 4 {
			continue
		}
		segments = append(segments, lane.RawSegment{
			X1: int(v[0]), Y1: int(v[1]), X2: int(v[2]), Y2: int(v[3]),
		})
	}
	return segments, nil
}

func (o *OpenCV) Name() string { return BackendGoCV }
