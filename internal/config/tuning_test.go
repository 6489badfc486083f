package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	t.Parallel()

	t.Run("full config", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.json", `{
			"num_workers": 8,
			"use_splitting_line": true,
			"event_offset_x": 0.25,
			"event_offset_y": 1,
			"log_section_counts": false
		}`)

		cfg, err := LoadTuningConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.GetNumWorkers())
		assert.True(t, cfg.GetUseSplittingLine())
		assert.Equal(t, 0.25, cfg.GetEventOffsetX())
		assert.Equal(t, 1.0, cfg.GetEventOffsetY())
		assert.False(t, cfg.GetLogSectionCounts())
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.json", `{"num_workers": 2}`)

		cfg, err := LoadTuningConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.GetNumWorkers())
		assert.False(t, cfg.GetUseSplittingLine())
		assert.Equal(t, 0.5, cfg.GetEventOffsetX())
		assert.Equal(t, 0.5, cfg.GetEventOffsetY())
		assert.True(t, cfg.GetLogSectionCounts())
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.yaml", `{}`)
		_, err := LoadTuningConfig(path)
		assert.Error(t, err)
	})

	t.Run("rejects missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.json", `{not json`)
		_, err := LoadTuningConfig(path)
		assert.Error(t, err)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.json", `{"num_workers": 0}`)
		_, err := LoadTuningConfig(path)
		assert.Error(t, err)
	})
}

func TestTuningConfigValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, EmptyTuningConfig().Validate())

	valid := &TuningConfig{
		NumWorkers:   ptrInt(4),
		EventOffsetX: ptrFloat64(0),
		EventOffsetY: ptrFloat64(1),
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&TuningConfig{NumWorkers: ptrInt(-1)}).Validate())
	assert.Error(t, (&TuningConfig{EventOffsetX: ptrFloat64(1.5)}).Validate())
	assert.Error(t, (&TuningConfig{EventOffsetY: ptrFloat64(-0.5)}).Validate())
}

func TestTuningConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyTuningConfig()
	assert.Equal(t, runtime.NumCPU(), cfg.GetNumWorkers(), "worker count defaults to the core count")
	assert.False(t, cfg.GetUseSplittingLine())
	assert.Equal(t, 0.5, cfg.GetEventOffsetX())
	assert.Equal(t, 0.5, cfg.GetEventOffsetY())
	assert.True(t, cfg.GetLogSectionCounts())

	overridden := &TuningConfig{UseSplittingLine: ptrBool(true)}
	assert.True(t, overridden.GetUseSplittingLine())
}
