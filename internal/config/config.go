// Package config loads tracker settings from an optional YAML file, a .env file
// and LANE_MCP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ironsheep/lane-tracker-mcp/internal/detection"
	"github.com/ironsheep/lane-tracker-mcp/internal/imaging"
	"github.com/ironsheep/lane-tracker-mcp/internal/lane"
)

// EnvPrefix prefixes every environment override, e.g. LANE_MCP_HOUGH_THRESHOLD.
const EnvPrefix = "LANE_MCP"

// Config holds every tracker setting. Load validates the result before returning it.
type Config struct {
	Frame   FrameConfig `mapstructure:"frame"`
	Edge    EdgeConfig  `mapstructure:"edge"`
	Hough   HoughConfig `mapstructure:"hough"`
	Lane    LaneConfig  `mapstructure:"lane"`
	Debug   DebugConfig `mapstructure:"debug"`
	Backend string      `mapstructure:"backend"`
	Log     LogConfig   `mapstructure:"log"`
}

// FrameConfig controls resizing and contrast before edge extraction.
type FrameConfig struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Alpha  float64 `mapstructure:"alpha"`
	Beta   float64 `mapstructure:"beta"`
}

// EdgeConfig sets the hysteresis thresholds and pre-blur of the edge detector.
type EdgeConfig struct {
	Low        int     `mapstructure:"low"`
	High       int     `mapstructure:"high"`
	BlurRadius float64 `mapstructure:"blur_radius"`
}

// HoughConfig tunes the probabilistic Hough transform that yields raw segments.
type HoughConfig struct {
	Rho           float64 `mapstructure:"rho"`
	ThetaDegrees  float64 `mapstructure:"theta_degrees"`
	Threshold     int     `mapstructure:"threshold"`
	MinLineLength int     `mapstructure:"min_line_length"`
	MaxLineGap    int     `mapstructure:"max_line_gap"`
	MaxSegments   int     `mapstructure:"max_segments"`
}

// LaneConfig sets the smoothing window and how lane lines are drawn.
// LineColor is a "#RRGGBB" hex string.
type LaneConfig struct {
	HistorySize   int    `mapstructure:"history_size"`
	LineColor     string `mapstructure:"line_color"`
	LineThickness int    `mapstructure:"line_thickness"`
}

// DebugConfig enables per-frame dumps of the region of interest.
type DebugConfig struct {
	SaveROI   bool   `mapstructure:"save_roi"`
	OutputDir string `mapstructure:"output_dir"`
}

// LogConfig selects the zap level and the release or development encoder.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
}

// Load reads configPath (skipped when empty) on top of the defaults, then applies
// environment overrides. A .env file in the working directory is loaded first if
// present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in settings without consulting files or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("frame.width", 480)
	v.SetDefault("frame.height", 320)
	v.SetDefault("frame.alpha", 1.5)
	v.SetDefault("frame.beta", 20.0)

	v.SetDefault("edge.low", detection.DefaultEdgeParams.Low)
	v.SetDefault("edge.high", detection.DefaultEdgeParams.High)
	v.SetDefault("edge.blur_radius", detection.DefaultEdgeParams.BlurRadius)

	v.SetDefault("hough.rho", detection.DefaultHoughParams.Rho)
	v.SetDefault("hough.theta_degrees", detection.DefaultHoughParams.ThetaDegrees)
	v.SetDefault("hough.threshold", detection.DefaultHoughParams.Threshold)
	v.SetDefault("hough.min_line_length", detection.DefaultHoughParams.MinLineLength)
	v.SetDefault("hough.max_line_gap", detection.DefaultHoughParams.MaxLineGap)
	v.SetDefault("hough.max_segments", detection.DefaultHoughParams.MaxSegments)

	v.SetDefault("lane.history_size", lane.DefaultHistorySize)
	v.SetDefault("lane.line_color", "#00FF00")
	v.SetDefault("lane.line_thickness", lane.DefaultLineStyle.Thickness)

	v.SetDefault("debug.save_roi", false)
	v.SetDefault("debug.output_dir", "roi_frames")

	v.SetDefault("backend", detection.BackendNative)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.mode", "release")
}

// Validate rejects settings the tracker cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Frame.Width < 1 || c.Frame.Height < 1 {
		errs = append(errs, fmt.Errorf("frame size must be positive, got %dx%d", c.Frame.Width, c.Frame.Height))
	}
	if c.Edge.Low < 0 || c.Edge.High > 255 || c.Edge.Low > c.Edge.High {
		errs = append(errs, fmt.Errorf("edge thresholds must satisfy 0 <= low <= high <= 255, got %d/%d", c.Edge.Low, c.Edge.High))
	}
	if err := c.HoughParams().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Lane.HistorySize < 1 {
		errs = append(errs, fmt.Errorf("history size must be at least 1, got %d", c.Lane.HistorySize))
	}
	if c.Lane.LineThickness < 1 {
		errs = append(errs, fmt.Errorf("line thickness must be at least 1, got %d", c.Lane.LineThickness))
	}
	if _, err := imaging.ParseLineColor(c.Lane.LineColor); err != nil {
		errs = append(errs, err)
	}
	switch c.Backend {
	case detection.BackendNative, detection.BackendGoCV:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.Debug.SaveROI && c.Debug.OutputDir == "" {
		errs = append(errs, errors.New("debug output dir is required when save_roi is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// EdgeParams converts the edge settings for detection.NewExtractor.
func (c *Config) EdgeParams() detection.EdgeParams {
	return detection.EdgeParams{Low: c.Edge.Low, High: c.Edge.High, BlurRadius: c.Edge.BlurRadius}
}

// HoughParams converts the Hough settings for detection.NewExtractor.
func (c *Config) HoughParams() detection.HoughParams {
	return detection.HoughParams{
		Rho:           c.Hough.Rho,
		ThetaDegrees:  c.Hough.ThetaDegrees,
		Threshold:     c.Hough.Threshold,
		MinLineLength: c.Hough.MinLineLength,
		MaxLineGap:    c.Hough.MaxLineGap,
		MaxSegments:   c.Hough.MaxSegments,
	}
}

// LineStyle resolves the configured overlay color and thickness.
func (c *Config) LineStyle() (lane.LineStyle, error) {
	col, err := imaging.ParseLineColor(c.Lane.LineColor)
	if err != nil {
		return lane.LineStyle{}, err
	}
	return lane.LineStyle{Color: col, Thickness: c.Lane.LineThickness}, nil
}
