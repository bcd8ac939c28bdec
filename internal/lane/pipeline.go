package lane

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/ironsheep/lane-tracker-mcp/internal/logging"
)

// LineStyle controls how lane lines are drawn.
type LineStyle struct {
	Color     color.NRGBA
	Thickness int
}

// DefaultLineStyle draws 4px green lines.
var DefaultLineStyle = LineStyle{
	Color:     color.NRGBA{R: 0, G: 255, B: 0, A: 255},
	Thickness: 4,
}

// FrameResult is the outcome of processing one frame.
type FrameResult struct {
	// Index is the 1-based position of the frame in its stream.
	Index uint64

	// Annotated is a copy of the color frame with the smoothed lines drawn on it.
	Annotated *image.NRGBA

	// Masked is the edge map restricted to the region of interest.
	Masked *image.Gray

	// Left and Right are the smoothed lines; nil when the side has no history yet.
	Left  *LaneLine
	Right *LaneLine

	// DetectedLeft and DetectedRight are this frame's aggregated detections before
	// smoothing; nil when the side produced no candidate.
	DetectedLeft  *LaneLine
	DetectedRight *LaneLine

	LeftCandidates  int
	RightCandidates int

	// Metrics is set when both smoothed lines are present.
	Metrics *Metrics
}

// FramePipeline runs classification, aggregation, smoothing and rendering for a
// sequence of frames. It owns the stream's TemporalSmoother and is not safe for
// concurrent use.
type FramePipeline struct {
	smoother *TemporalSmoother
	style    LineStyle
	logger   *zap.Logger
	frames   uint64
}

// Option configures a FramePipeline.
type Option func(*FramePipeline)

// WithHistorySize sets the smoothing window per side.
func WithHistorySize(n int) Option {
	return func(p *FramePipeline) { p.smoother = NewTemporalSmoother(n) }
}

// WithLineStyle sets the color and thickness of drawn lines.
func WithLineStyle(s LineStyle) Option {
	return func(p *FramePipeline) { p.style = s }
}

// WithLogger attaches a logger for per-frame debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *FramePipeline) { p.logger = logging.OrNop(l) }
}

// NewFramePipeline creates a pipeline at the start of a stream.
func NewFramePipeline(opts ...Option) *FramePipeline {
	p := &FramePipeline{
		smoother: NewTemporalSmoother(DefaultHistorySize),
		style:    DefaultLineStyle,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process handles one frame. frame is the color frame to annotate, edges the edge map
// of the same size and segments the line detector's candidates for this frame.
//
// Missing detections never produce an error: the affected side is drawn from history,
// or not at all when the history is empty. Only a zero-area frame (ErrEmptyFrame) or
// an edge map whose size differs from the frame (ErrDimensionMismatch) fail.
// The input frame is never modified.
func (p *FramePipeline) Process(frame image.Image, edges *image.Gray, segments []RawSegment) (*FrameResult, error) {
	if err := checkDimensions(frame, edges); err != nil {
		return nil, err
	}

	masked, err := MaskRegion(edges)
	if err != nil {
		return nil, err
	}

	p.frames++
	height := frame.Bounds().Dy()
	width := frame.Bounds().Dx()

	leftCands, rightCands := Classify(segments)
	detectedLeft, detectedRight := assignSides(averageLines(leftCands, rightCands, height))

	result := &FrameResult{
		Index:           p.frames,
		Masked:          masked,
		DetectedLeft:    detectedLeft,
		DetectedRight:   detectedRight,
		LeftCandidates:  len(leftCands),
		RightCandidates: len(rightCands),
	}

	if l, ok := p.smoother.Update(Left, detectedLeft); ok {
		result.Left = &l
	}
	if r, ok := p.smoother.Update(Right, detectedRight); ok {
		result.Right = &r
	}
	if result.Left != nil && result.Right != nil {
		m := Measure(*result.Left, *result.Right, width)
		result.Metrics = &m
	}

	annotated := imaging.Clone(frame)
	for _, l := range []*LaneLine{result.Left, result.Right} {
		if l != nil {
			DrawLine(annotated, *l, p.style)
		}
	}
	result.Annotated = annotated

	p.logger.Debug("frame processed",
		zap.Uint64("frame", result.Index),
		zap.Int("segments", len(segments)),
		zap.Int("left_candidates", result.LeftCandidates),
		zap.Int("right_candidates", result.RightCandidates),
		zap.Bool("left_detected", detectedLeft != nil),
		zap.Bool("right_detected", detectedRight != nil),
		zap.Bool("left_drawn", result.Left != nil),
		zap.Bool("right_drawn", result.Right != nil),
	)

	return result, nil
}

// Frames returns the number of frames processed since the last reset.
func (p *FramePipeline) Frames() uint64 { return p.frames }

// Smoother exposes the pipeline's history state.
func (p *FramePipeline) Smoother() *TemporalSmoother { return p.smoother }

// Reset returns the pipeline to the start-of-stream state.
func (p *FramePipeline) Reset() {
	p.smoother.Reset()
	p.frames = 0
}

func checkDimensions(frame image.Image, edges *image.Gray) error {
	if frame == nil {
		return fmt.Errorf("process frame: %w", ErrEmptyFrame)
	}
	fb := frame.Bounds()
	if fb.Dx() < 1 || fb.Dy() < 1 {
		return fmt.Errorf("process frame %dx%d: %w", fb.Dx(), fb.Dy(), ErrEmptyFrame)
	}
	if edges == nil {
		return fmt.Errorf("process frame: missing edge map: %w", ErrDimensionMismatch)
	}
	eb := edges.Bounds()
	if eb.Dx() != fb.Dx() || eb.Dy() != fb.Dy() {
		return fmt.Errorf("process frame: frame %dx%d, edges %dx%d: %w",
			fb.Dx(), fb.Dy(), eb.Dx(), eb.Dy(), ErrDimensionMismatch)
	}
	return nil
}
