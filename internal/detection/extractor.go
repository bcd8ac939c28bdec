package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/lane-tracker-mcp/internal/imaging"
	"github.com/ironsheep/lane-tracker-mcp/internal/lane"
)

// Backend names accepted by NewExtractor.
const (
	BackendNative = "native"
	BackendGoCV   = "gocv"
)

// Extractor produces the per-frame inputs of the lane pipeline: an edge map of the
// color frame and the raw line segments of a (masked) edge map.
type Extractor interface {
	// Edges returns a binary edge map with the frame's dimensions and a (0,0) origin.
	Edges(frame image.Image) (*image.Gray, error)

	// Segments returns candidate line segments found in edges.
	Segments(edges *image.Gray) ([]lane.RawSegment, error)

	// Name identifies the backend.
	Name() string
}

// EdgeParams configure edge extraction.
type EdgeParams struct {
	Low        int     `json:"low"`
	High       int     `json:"high"`
	BlurRadius float64 `json:"blur_radius"`
}

// DefaultEdgeParams use higher thresholds suited to noisy road cameras.
var DefaultEdgeParams = EdgeParams{Low: 80, High: 150, BlurRadius: 2}

// NewExtractor returns the extractor for backend. An empty backend selects the
// native implementation.
func NewExtractor(backend string, edge EdgeParams, hough HoughParams) (Extractor, error) {
	if err := hough.Validate(); err != nil {
		return nil, err
	}
	switch backend {
	case "", BackendNative:
		return &Native{Edge: edge, Hough: hough}, nil
	case BackendGoCV:
		return newOpenCV(edge, hough)
	default:
		return nil, fmt.Errorf("unknown extractor backend: %s", backend)
	}
}

// Native is the pure-Go extractor.
type Native struct {
	Edge  EdgeParams
	Hough HoughParams
}

func (n *Native) Edges(frame image.Image) (*image.Gray, error) {
	return imaging.EdgeMap(frame, n.Edge.Low, n.Edge.High, n.Edge.BlurRadius)
}

func (n *Native) Segments(edges *image.Gray) ([]lane.RawSegment, error) {
	return DetectSegments(edges, n.Hough)
}

func (n *Native) Name() string { return BackendNative }
