package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// TuningConfig represents the root configuration for analysis parameters.
// All fields are pointers so a partial JSON file only overrides what it
// names; the Get* accessors supply defaults for everything else.
type TuningConfig struct {
	// Intersection params
	NumWorkers       *int  `json:"num_workers,omitempty"`
	UseSplittingLine *bool `json:"use_splitting_line,omitempty"`

	// Event params
	EventOffsetX *float64 `json:"event_offset_x,omitempty"`
	EventOffsetY *float64 `json:"event_offset_y,omitempty"`

	// Logging params
	LogSectionCounts *bool `json:"log_section_counts,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to override values from a JSON file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
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

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.NumWorkers != nil {
		if *c.NumWorkers < 1 {
			return fmt.Errorf("num_workers must be at least 1, got %d", *c.NumWorkers)
		}
	}

	if c.EventOffsetX != nil {
		if *c.EventOffsetX < 0 || *c.EventOffsetX > 1 {
			return fmt.Errorf("event_offset_x must be between 0 and 1, got %f", *c.EventOffsetX)
		}
	}

	if c.EventOffsetY != nil {
		if *c.EventOffsetY < 0 || *c.EventOffsetY > 1 {
			return fmt.Errorf("event_offset_y must be between 0 and 1, got %f", *c.EventOffsetY)
		}
	}

	return nil
}

// GetNumWorkers returns the num_workers value or the default.
func (c *TuningConfig) GetNumWorkers() int {
	if c.NumWorkers == nil {
		return runtime.NumCPU() // default: one worker per core
	}
	return *c.NumWorkers
}

// GetUseSplittingLine returns the use_splitting_line value or the default.
func (c *TuningConfig) GetUseSplittingLine() bool {
	if c.UseSplittingLine == nil {
		return false // default: segment-wise line intersection
	}
	return *c.UseSplittingLine
}

// GetEventOffsetX returns the event_offset_x value or the default.
func (c *TuningConfig) GetEventOffsetX() float64 {
	if c.EventOffsetX == nil {
		return 0.5 // default: bounding box center
	}
	return *c.EventOffsetX
}

// GetEventOffsetY returns the event_offset_y value or the default.
func (c *TuningConfig) GetEventOffsetY() float64 {
	if c.EventOffsetY == nil {
		return 0.5 // default: bounding box center
	}
	return *c.EventOffsetY
}

// GetLogSectionCounts returns the log_section_counts value or the default.
func (c *TuningConfig) GetLogSectionCounts() bool {
	if c.LogSectionCounts == nil {
		return true
	}
	return *c.LogSectionCounts
}
