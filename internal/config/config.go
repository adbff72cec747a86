// Package config manages application configuration.
package config

import (
	"time"

	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/images"
	"htmlimage/pkg/page"
)

// Config represents the application configuration.
type Config struct {
	Image ImageConfig `yaml:"image"`
	Probe ProbeConfig `yaml:"probe"`
	Sheet SheetConfig `yaml:"sheet"`
	Fetch FetchConfig `yaml:"fetch"`
}

// ImageConfig controls how display sizes are chosen.
type ImageConfig struct {
	InitialDimensions htmlimage.Dimensions `yaml:"initial_dimensions"`
	FallbackSize      htmlimage.Dimensions `yaml:"fallback_size"`
	MaxWidth          float64              `yaml:"max_width"` // 0 disables the cap
	SkipUnchanged     bool                 `yaml:"skip_unchanged"`
}

// ProbeConfig controls intrinsic size probing.
type ProbeConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxConcurrent int64         `yaml:"max_concurrent"`
}

// SheetConfig sizes the contact sheet written by the page command.
type SheetConfig struct {
	Width          int     `yaml:"width"`
	ViewportHeight int     `yaml:"viewport_height"`
	Margin         float64 `yaml:"margin"`
	Gap            float64 `yaml:"gap"`
}

// FetchConfig controls how image and stylesheet bytes are loaded.
type FetchConfig struct {
	BaseURL   string        `yaml:"base_url,omitempty"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	sheet := page.DefaultSheetOptions()
	return &Config{
		Image: ImageConfig{
			InitialDimensions: htmlimage.DefaultInitialDimensions,
			FallbackSize:      htmlimage.DefaultInitialDimensions,
		},
		Probe: ProbeConfig{
			Timeout:       10 * time.Second,
			MaxConcurrent: 8,
		},
		Sheet: SheetConfig{
			Width:          sheet.Width,
			ViewportHeight: sheet.ViewportHeight,
			Margin:         sheet.Margin,
			Gap:            sheet.Gap,
		},
		Fetch: FetchConfig{
			UserAgent: "${HTMLIMAGE_USER_AGENT}",
			Timeout:   30 * time.Second,
		},
	}
}

// ImageOptions converts the image section to component options.
func (c *Config) ImageOptions() htmlimage.Options {
	opts := htmlimage.DefaultOptions()
	if c.Image.InitialDimensions.Width > 0 && c.Image.InitialDimensions.Height > 0 {
		opts.InitialDimensions = c.Image.InitialDimensions
	}
	if c.Image.FallbackSize.Width > 0 && c.Image.FallbackSize.Height > 0 {
		opts.FallbackSize = c.Image.FallbackSize
	}
	opts.SkipUnchanged = c.Image.SkipUnchanged
	return opts
}

// ProberOptions converts the probe section to prober options.
func (c *Config) ProberOptions() images.ProberOptions {
	return images.ProberOptions{
		Timeout:       c.Probe.Timeout,
		MaxConcurrent: c.Probe.MaxConcurrent,
	}
}

// SheetOptions converts the sheet section to layout options. Unset sizes
// take the defaults.
func (c *Config) SheetOptions() page.SheetOptions {
	opts := page.DefaultSheetOptions()
	if c.Sheet.Width > 0 {
		opts.Width = c.Sheet.Width
	}
	if c.Sheet.ViewportHeight > 0 {
		opts.ViewportHeight = c.Sheet.ViewportHeight
	}
	opts.Margin = c.Sheet.Margin
	opts.Gap = c.Sheet.Gap
	return opts
}
