// Package config loads renderer configuration from JSON files. All fields
// are optional pointers so partial configs merge cleanly over defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spatialkit/admrender/layout"
)

// RendererConfig is the root configuration for a gain-engine instance.
// The zero value (all nil) means "use every default".
type RendererConfig struct {
	// Output layout name, e.g. "0+5+0" or "2OA".
	Layout *string `json:"layout,omitempty"`

	// Ambisonic processing params, used when the layout is an HOA one.
	Order *int  `json:"order,omitempty"`
	Is3D  *bool `json:"is_3d,omitempty"`

	// Block processing params for the optimisation filters.
	BlockSize  *int `json:"block_size,omitempty"`
	SampleRate *int `json:"sample_rate,omitempty"`
}

// Helper functions to create pointers
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }

// Empty returns a RendererConfig with all fields set to nil.
func Empty() *RendererConfig {
	return &RendererConfig{}
}

// Load reads a RendererConfig from a JSON file. Fields omitted from the
// file fall back to defaults through the Get* methods, so partial configs
// are safe.
func Load(path string) (*RendererConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Merge overlays the set fields of other onto a copy of c.
func (c *RendererConfig) Merge(other *RendererConfig) *RendererConfig {
	out := *c
	if other == nil {
		return &out
	}
	if other.Layout != nil {
		out.Layout = other.Layout
	}
	if other.Order != nil {
		out.Order = other.Order
	}
	if other.Is3D != nil {
		out.Is3D = other.Is3D
	}
	if other.BlockSize != nil {
		out.BlockSize = other.BlockSize
	}
	if other.SampleRate != nil {
		out.SampleRate = other.SampleRate
	}
	return &out
}

// Validate checks that the configuration values are valid.
func (c *RendererConfig) Validate() error {
	if c.Layout != nil {
		if _, err := layout.Get(*c.Layout); err != nil {
			return fmt.Errorf("invalid layout %q: %w", *c.Layout, err)
		}
	}
	if c.Order != nil {
		if *c.Order < 1 || *c.Order > 3 {
			return fmt.Errorf("order must be between 1 and 3, got %d", *c.Order)
		}
	}
	if c.BlockSize != nil {
		if *c.BlockSize <= 0 {
			return fmt.Errorf("block_size must be positive, got %d", *c.BlockSize)
		}
	}
	if c.SampleRate != nil {
		if *c.SampleRate <= 0 {
			return fmt.Errorf("sample_rate must be positive, got %d", *c.SampleRate)
		}
	}
	return nil
}

// GetLayout returns the layout name or the default.
func (c *RendererConfig) GetLayout() string {
	if c.Layout == nil {
		return "0+5+0" // default
	}
	return *c.Layout
}

// GetOrder returns the ambisonic order or the default.
func (c *RendererConfig) GetOrder() int {
	if c.Order == nil {
		return 1
	}
	return *c.Order
}

// GetIs3D returns the is_3d value or the default.
func (c *RendererConfig) GetIs3D() bool {
	if c.Is3D == nil {
		return true
	}
	return *c.Is3D
}

// GetBlockSize returns the block_size value or the default.
func (c *RendererConfig) GetBlockSize() int {
	if c.BlockSize == nil {
		return 512
	}
	return *c.BlockSize
}

// GetSampleRate returns the sample_rate value or the default.
func (c *RendererConfig) GetSampleRate() int {
	if c.SampleRate == nil {
		return 48000
	}
	return *c.SampleRate
}
