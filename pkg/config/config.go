// Package config holds the analysis settings shared by the CLI commands and
// their defaults, file and environment loading.
package config

import (
	"fmt"
	"log/slog"
)

// Config carries every tunable of an analysis run. Zero values are invalid;
// build instances with New or Load.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// OutDir receives chart files and the HTML report.
	OutDir string `koanf:"out_dir"`

	// Format selects the chart file format: png or svg.
	Format string `koanf:"format"`

	// Palette names the brewer qualitative palette used for series colors.
	Palette string `koanf:"palette"`

	// FigWidthIn and FigHeightIn size the chart canvas in inches.
	FigWidthIn  float64 `koanf:"fig_width_in"`
	FigHeightIn float64 `koanf:"fig_height_in"`

	// DetailResolution is the grid resolution shown in the time
	// decomposition chart.
	DetailResolution float64 `koanf:"detail_resolution"`

	// MaxThreads bounds the x axis of the isoefficiency and decomposition
	// charts.
	MaxThreads int `koanf:"max_threads"`

	// IsoTargets lists the efficiency levels drawn as isoefficiency lines.
	IsoTargets []float64 `koanf:"iso_targets"`

	// WeakTarget is the efficiency goal marked on the weak scaling chart,
	// evaluated over resolutions [WeakMinResolution, WeakMaxResolution].
	WeakTarget        float64 `koanf:"weak_target"`
	WeakMinResolution float64 `koanf:"weak_min_resolution"`
	WeakMaxResolution float64 `koanf:"weak_max_resolution"`
}

// New returns a Config with the default analysis settings.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		OutDir:            "out",
		Format:            "png",
		Palette:           "Set1",
		FigWidthIn:        10,
		FigHeightIn:       6,
		DetailResolution:  0.05,
		MaxThreads:        32,
		IsoTargets:        []float64{0.5, 0.7, 0.8, 0.9},
		WeakTarget:        0.8,
		WeakMinResolution: 0.01,
		WeakMaxResolution: 0.3,
	}
}

// Validate checks every field and reports the first violation.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q (want debug, info, warn or error)", ErrInvalid, c.LogLevel)
	}
	if c.OutDir == "" {
		return fmt.Errorf("%w: out_dir must not be empty", ErrInvalid)
	}
	if c.Format != "png" && c.Format != "svg" {
		return fmt.Errorf("%w: format %q (want png or svg)", ErrInvalid, c.Format)
	}
	if c.Palette == "" {
		return fmt.Errorf("%w: palette must not be empty", ErrInvalid)
	}
	if c.FigWidthIn <= 0 || c.FigHeightIn <= 0 {
		return fmt.Errorf("%w: figure size %gx%g in must be positive", ErrInvalid, c.FigWidthIn, c.FigHeightIn)
	}
	if !(c.DetailResolution > 0 && c.DetailResolution < 1) {
		return fmt.Errorf("%w: detail_resolution %g must be in (0, 1)", ErrInvalid, c.DetailResolution)
	}
	if c.MaxThreads < 1 {
		return fmt.Errorf("%w: max_threads %d must be at least 1", ErrInvalid, c.MaxThreads)
	}
	if len(c.IsoTargets) == 0 {
		return fmt.Errorf("%w: iso_targets must not be empty", ErrInvalid)
	}
	for _, e := range c.IsoTargets {
		if !(e > 0 && e < 1) {
			return fmt.Errorf("%w: iso target %g must be in (0, 1)", ErrInvalid, e)
		}
	}
	if !(c.WeakTarget > 0 && c.WeakTarget < 1) {
		return fmt.Errorf("%w: weak_target %g must be in (0, 1)", ErrInvalid, c.WeakTarget)
	}
	if !(c.WeakMinResolution > 0 && c.WeakMinResolution < c.WeakMaxResolution && c.WeakMaxResolution < 1) {
		return fmt.Errorf("%w: weak resolution range [%g, %g] must satisfy 0 < min < max < 1",
			ErrInvalid, c.WeakMinResolution, c.WeakMaxResolution)
	}
	return nil
}

// SlogLevel maps LogLevel to its slog value, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
