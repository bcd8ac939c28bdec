package tracker

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	imgio "github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/ironsheep/lane-tracker-mcp/internal/imaging"
)

// RunSummary counts the outcome of a directory run.
type RunSummary struct {
	Frames    int      `json:"frames"`
	Failed    int      `json:"failed"`
	WithLeft  int      `json:"with_left"`
	WithRight int      `json:"with_right"`
	WithBoth  int      `json:"with_both"`
	Outputs   []string `json:"outputs"`
}

var frameExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// ListFrames returns the frame files of dir in lexical order.
func ListFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}
	var frames []string
	for _, e := range entries {
		if e.IsDir() || !frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		frames = append(frames, filepath.Join(dir, e.Name()))
	}
	sort.Strings(frames)
	return frames, nil
}

// RunDirectory feeds every frame in inDir through t and writes lane_NNNN.png files to
// outDir. With stack set each output shows the prepared frame, its edge map and the
// annotated frame side by side. Frames that fail to decode are counted and skipped.
// Cancellation is checked between frames; the partial summary is returned with the
// context's error.
func RunDirectory(ctx context.Context, t *Tracker, inDir, outDir string, stack bool) (*RunSummary, error) {
	frames, err := ListFrames(inDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := &RunSummary{Outputs: make([]string, 0, len(frames))}
	for _, path := range frames {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		report, err := t.ProcessFile(path)
		if err != nil {
			summary.Failed++
			t.logger.Warn("skipping frame", zap.String("path", path), zap.Error(err))
			continue
		}
		summary.Frames++
		if report.Left != nil {
			summary.WithLeft++
		}
		if report.Right != nil {
			summary.WithRight++
		}
		if report.Left != nil && report.Right != nil {
			summary.WithBoth++
		}

		var out image.Image = report.Annotated
		if stack {
			stacked, err := imaging.StackPanels(report.Prepared, report.Edges, report.Annotated)
			if err != nil {
				return summary, err
			}
			out = stacked
		}
		name := filepath.Join(outDir, fmt.Sprintf("lane_%04d.png", report.Index))
		if err := imgio.Save(out, name); err != nil {
			return summary, fmt.Errorf("failed to save %s: %w", name, err)
		}
		summary.Outputs = append(summary.Outputs, name)
	}

	t.logger.Info("run complete",
		zap.Int("frames", summary.Frames),
		zap.Int("failed", summary.Failed),
		zap.Int("with_both", summary.WithBoth),
	)
	return summary, nil
}
