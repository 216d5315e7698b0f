package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"tri-raster/internal/output"
	"tri-raster/internal/raster"
)

// Defaults applied by Resolve.
const (
	DefaultWidth     = 200
	DefaultHeight    = 200
	DefaultFormat    = output.FormatWebP
	DefaultOutputDir = "renders"
)

// Config holds output paths and render settings.
type Config struct {
	OutputDir string `json:"output_dir" toml:"output_dir"`

	// Render settings
	Width         int `json:"width" toml:"width"`
	Height        int `json:"height" toml:"height"`
	Supersample   int `json:"supersample" toml:"supersample"`
	Workers       int `json:"workers" toml:"workers"`               // scenes rendered concurrently
	RenderWorkers int `json:"render_workers" toml:"render_workers"` // row bands per composite

	// Output
	Format string `json:"format" toml:"format"`
	Scale  int    `json:"scale" toml:"scale"`
	Filter string `json:"filter" toml:"filter"`
	Verify bool   `json:"verify" toml:"verify"` // re-decode written files
}

// Load reads a JSON or TOML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir     string
	Width         int
	Height        int
	Supersample   int
	Workers       int
	RenderWorkers int
	Format        string
	Scale         int
	Filter        string
	Verify        bool
}

// Resolve applies CLI overrides, then fills empty fields with defaults.
// Flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.RenderWorkers > 0 {
		c.RenderWorkers = flags.RenderWorkers
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}
	if flags.Verify {
		c.Verify = true
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Supersample <= 0 {
		c.Supersample = raster.DefaultSupersample
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.RenderWorkers <= 0 {
		c.RenderWorkers = 1
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	c.Filter = strings.ToLower(c.Filter)
	if c.Filter == "" {
		c.Filter = output.FilterNearest
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	if !output.ValidFormat(c.Format) {
		return fmt.Errorf("config: format %q not one of %s", c.Format, strings.Join(output.Formats(), ", "))
	}
	switch c.Filter {
	case output.FilterNearest, output.FilterCatmullRom:
	default:
		return fmt.Errorf("config: unknown filter %q", c.Filter)
	}
	return nil
}

// Raster returns the rasterizer settings.
func (c *Config) Raster() raster.Config {
	return raster.Config{
		Width:       c.Width,
		Height:      c.Height,
		Supersample: c.Supersample,
		Workers:     c.RenderWorkers,
	}
}

// Sink returns a file sink writing into OutputDir.
func (c *Config) Sink() *output.FileSink {
	return &output.FileSink{
		Dir:    c.OutputDir,
		Format: c.Format,
		Scale:  c.Scale,
		Filter: c.Filter,
		Verify: c.Verify,
	}
}
