// Package tracker runs the complete lane pipeline over a stream of frames.
//
// A Tracker owns one extractor and one FramePipeline, so one pair of lane histories.
// Frames are processed strictly in call order; concurrent callers are serialized.
package tracker

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	imgio "github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/lane-tracker-mcp/internal/config"
	"github.com/ironsheep/lane-tracker-mcp/internal/detection"
	"github.com/ironsheep/lane-tracker-mcp/internal/imaging"
	"github.com/ironsheep/lane-tracker-mcp/internal/lane"
	"github.com/ironsheep/lane-tracker-mcp/internal/logging"
)

// FrameReport summarizes one processed frame.
type FrameReport struct {
	Index           uint64         `json:"index"`
	Left            *lane.LaneLine `json:"left,omitempty"`
	Right           *lane.LaneLine `json:"right,omitempty"`
	DetectedLeft    *lane.LaneLine `json:"detected_left,omitempty"`
	DetectedRight   *lane.LaneLine `json:"detected_right,omitempty"`
	Segments        int            `json:"segments"`
	LeftCandidates  int            `json:"left_candidates"`
	RightCandidates int            `json:"right_candidates"`
	Metrics         *lane.Metrics  `json:"metrics,omitempty"`
	ElapsedMillis   float64        `json:"elapsed_ms"`

	// Prepared is the resized, contrast-boosted frame the pipeline ran on.
	Prepared image.Image `json:"-"`
	// Edges is the full-frame edge map.
	Edges *image.Gray `json:"-"`
	// Annotated is Prepared with the smoothed lane lines drawn.
	Annotated *image.NRGBA `json:"-"`
}

// Tracker processes the frames of a single stream.
type Tracker struct {
	mu        sync.Mutex
	id        string
	cfg       config.Config
	extractor detection.Extractor
	pipeline  *lane.FramePipeline
	load      func(string) (image.Image, error)
	logger    *zap.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.logger = logging.OrNop(l) }
}

// WithCache loads frames through cache instead of reading them from disk directly.
func WithCache(cache *imaging.ImageCache) Option {
	return func(t *Tracker) {
		if cache != nil {
			t.load = cache.Load
		}
	}
}

// New creates a tracker for a fresh stream. cfg is copied.
func New(cfg *config.Config, opts ...Option) (*Tracker, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	extractor, err := detection.NewExtractor(cfg.Backend, cfg.EdgeParams(), cfg.HoughParams())
	if err != nil {
		return nil, err
	}
	style, err := cfg.LineStyle()
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		id:        uuid.NewString(),
		cfg:       *cfg,
		extractor: extractor,
		load:      openFrame,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(zap.String("stream", t.id))
	t.pipeline = lane.NewFramePipeline(
		lane.WithHistorySize(cfg.Lane.HistorySize),
		lane.WithLineStyle(style),
		lane.WithLogger(t.logger),
	)
	return t, nil
}

// ID is the stream identifier assigned at creation.
func (t *Tracker) ID() string { return t.id }

// Backend names the edge and segment extractor in use.
func (t *Tracker) Backend() string { return t.extractor.Name() }

// HistorySize is the smoothing window per side.
func (t *Tracker) HistorySize() int { return t.cfg.Lane.HistorySize }

// Frames returns the number of frames processed since creation or the last Reset.
func (t *Tracker) Frames() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pipeline.Frames()
}

// Reset clears both lane histories and the frame counter.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pipeline.Reset()
	t.logger.Info("stream reset")
}

// ProcessFile loads the frame at path and processes it.
func (t *Tracker) ProcessFile(path string) (*FrameReport, error) {
	img, err := t.load(path)
	if err != nil {
		return nil, err
	}
	return t.ProcessImage(img)
}

// ProcessImage runs one frame through preparation, edge extraction, masking,
// segment detection and the lane pipeline.
func (t *Tracker) ProcessImage(img image.Image) (*FrameReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()

	prepared, err := imaging.PrepareFrame(img, t.cfg.Frame.Width, t.cfg.Frame.Height, t.cfg.Frame.Alpha, t.cfg.Frame.Beta)
	if err != nil {
		t.logger.Warn("frame rejected", zap.Error(err))
		return nil, err
	}

	edges, err := t.extractor.Edges(prepared)
	if err != nil {
		return nil, fmt.Errorf("edge extraction: %w", err)
	}

	masked, err := lane.MaskRegion(edges)
	if err != nil {
		return nil, err
	}

	segments, err := t.extractor.Segments(masked)
	if err != nil {
		return nil, fmt.Errorf("segment detection: %w", err)
	}

	result, err := t.pipeline.Process(prepared, edges, segments)
	if err != nil {
		t.logger.Warn("frame rejected", zap.Error(err))
		return nil, err
	}

	if t.cfg.Debug.SaveROI {
		if err := t.dumpROI(result.Index, prepared, result.Masked); err != nil {
			t.logger.Warn("roi dump failed", zap.Uint64("frame", result.Index), zap.Error(err))
		}
	}

	return &FrameReport{
		Index:           result.Index,
		Left:            result.Left,
		Right:           result.Right,
		DetectedLeft:    result.DetectedLeft,
		DetectedRight:   result.DetectedRight,
		Segments:        len(segments),
		LeftCandidates:  result.LeftCandidates,
		RightCandidates: result.RightCandidates,
		Metrics:         result.Metrics,
		ElapsedMillis:   float64(time.Since(start).Microseconds()) / 1000,
		Prepared:        prepared,
		Edges:           edges,
		Annotated:       result.Annotated,
	}, nil
}

// dumpROI writes the masked edges and the cropped region of interest for a frame.
func (t *Tracker) dumpROI(index uint64, frame image.Image, masked *image.Gray) error {
	dir := t.cfg.Debug.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := imgio.Save(masked, filepath.Join(dir, fmt.Sprintf("roi_masked_%04d.png", index))); err != nil {
		return err
	}
	cropped, err := imaging.CropROI(frame)
	if err != nil {
		return err
	}
	return imgio.Save(cropped, filepath.Join(dir, fmt.Sprintf("roi_cropped_%04d.png", index)))
}

func openFrame(path string) (image.Image, error) {
	img, err := imgio.Open(path, imgio.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	return img, nil
}
