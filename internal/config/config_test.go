package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/lane-tracker-mcp/internal/detection"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 480, cfg.Frame.Width)
	assert.Equal(t, 320, cfg.Frame.Height)
	assert.Equal(t, 1.5, cfg.Frame.Alpha)
	assert.Equal(t, 20.0, cfg.Frame.Beta)
	assert.Equal(t, detection.DefaultEdgeParams, cfg.EdgeParams())
	assert.Equal(t, detection.DefaultHoughParams, cfg.HoughParams())
	assert.Equal(t, 5, cfg.Lane.HistorySize)
	assert.Equal(t, "roi_frames", cfg.Debug.OutputDir)
	assert.False(t, cfg.Debug.SaveROI)
	assert.Equal(t, detection.BackendNative, cfg.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "release", cfg.Log.Mode)
	require.NoError(t, cfg.Validate())

	style, err := cfg.LineStyle()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, style.Color)
	assert.Equal(t, 4, style.Thickness)
}

func TestConfig_ExtractorParams(t *testing.T) {
	cfg := Default()
	cfg.Edge = EdgeConfig{Low: 20, High: 90, BlurRadius: 1.5}
	cfg.Hough = HoughConfig{Rho: 2, ThetaDegrees: 0.5, Threshold: 15, MinLineLength: 10, MaxLineGap: 5, MaxSegments: 64}

	assert.Equal(t, detection.EdgeParams{Low: 20, High: 90, BlurRadius: 1.5}, cfg.EdgeParams())
	assert.Equal(t, detection.HoughParams{
		Rho: 2, ThetaDegrees: 0.5, Threshold: 15, MinLineLength: 10, MaxLineGap: 5, MaxSegments: 64,
	}, cfg.HoughParams())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().HoughParams(), cfg.HoughParams())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lane.yaml")
	content := `
frame:
  width: 640
  height: 360
hough:
  threshold: 40
lane:
  history_size: 8
  line_color: "#FF0000"
debug:
  save_roi: true
  output_dir: /tmp/roi
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Frame.Width)
	assert.Equal(t, 360, cfg.Frame.Height)
	assert.Equal(t, 40, cfg.Hough.Threshold)
	assert.Equal(t, 30, cfg.Hough.MinLineLength, "unset keys keep defaults")
	assert.Equal(t, 8, cfg.Lane.HistorySize)
	assert.True(t, cfg.Debug.SaveROI)

	style, err := cfg.LineStyle()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, style.Color)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LANE_MCP_LANE_HISTORY_SIZE", "3")
	t.Setenv("LANE_MCP_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Lane.HistorySize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lane:\n  history_size: 0\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "history size")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Frame.Width = 0 }, "frame size"},
		{"inverted thresholds", func(c *Config) { c.Edge.Low, c.Edge.High = 200, 100 }, "edge thresholds"},
		{"bad hough", func(c *Config) { c.Hough.Rho = 0 }, "hough"},
		{"zero history", func(c *Config) { c.Lane.HistorySize = 0 }, "history size"},
		{"zero thickness", func(c *Config) { c.Lane.LineThickness = 0 }, "thickness"},
		{"bad color", func(c *Config) { c.Lane.LineColor = "chartreuse" }, "color"},
		{"unknown backend", func(c *Config) { c.Backend = "cuda" }, "backend"},
		{"dump without dir", func(c *Config) { c.Debug.SaveROI, c.Debug.OutputDir = true, "" }, "output dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
