package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MinimalConfig(t *testing.T) {
	cfg := &Config{LogLevel: "info"}
	assert.NoError(t, Validate(cfg))
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := &Config{
		DateOverrides: []DateOverride{{RRule: "NOT_AN_RRULE"}},
	}
	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "verbose"}
	err := Validate(cfg)
	assert.Error(t, err)
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	contents := `
logLevel: debug
defaultAlgorithmParameters:
  population_size: "200"
dateOverrides:
  - rrule: "FREQ=WEEKLY;BYDAY=SU"
    forceDayOffStaffIDs:
      - "staff-1"
    note: "Sunday closure"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "200", cfg.DefaultAlgorithmParameters["population_size"])
	require.Len(t, cfg.DateOverrides, 1)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=SU", cfg.DateOverrides[0].RRule)
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/rostercraft_config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestForcedDaysOff_ExpandsWithinWindow(t *testing.T) {
	cfg := &Config{
		DateOverrides: []DateOverride{
			{RRule: "FREQ=WEEKLY;BYDAY=SU", ForceDayOffID: []string{"staff-1"}},
		},
	}

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) // Thursday
	end := start.AddDate(0, 0, 13)                                  // two full weeks

	forced := cfg.ForcedDaysOff(start, end)

	sundayCount := 0
	for _, staffSet := range forced {
		if staffSet["staff-1"] {
			sundayCount++
		}
	}
	assert.Equal(t, 2, sundayCount)
}
