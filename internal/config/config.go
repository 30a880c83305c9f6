package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configurable paths and preview settings for the offline
// harness.
type Config struct {
	// Paths
	ScenePath     string `json:"scene"`     // JSON scene: eye, triangles, lights
	AlbedoPath    string `json:"albedo"`    // TGA or PNG bitmap
	PositionsPath string `json:"positions"` // raw little-endian float32 RGBA
	NormalsPath   string `json:"normals"`   // raw little-endian float32 RGBA
	OutputDir     string `json:"output_dir"`

	// Preview settings
	Width     int `json:"width"`  // raw layer dimensions
	Height    int `json:"height"` //
	Scale     int `json:"scale"`  // output upscale factor
	MaxFrames int `json:"max_frames"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// relative paths resolve against the config file's directory
	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.ScenePath, &cfg.AlbedoPath, &cfg.PositionsPath, &cfg.NormalsPath, &cfg.OutputDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return cfg, nil
}

// Resolve fills in any empty fields with defaults. CLI flags take priority
// when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.MaxFrames > 0 {
		c.MaxFrames = flags.MaxFrames
	}

	if c.OutputDir == "" {
		c.OutputDir = "preview-out"
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.MaxFrames <= 0 {
		c.MaxFrames = 64
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Scale     int
	MaxFrames int
}
