// Package config loads the engine's run-time configuration: default
// algorithm parameters and calendar-driven date overrides, validated
// and rrule-expanded the way the teacher's internal/config package
// validates sheet-backed rota overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// DateOverride forces a set of staff onto a day-off on every date the
// RRule matches within the planning window — e.g. a public holiday
// recurrence or a site-wide closure pattern.
type DateOverride struct {
	RRule         string   `yaml:"rrule" validate:"required"`
	ForceDayOffID []string `yaml:"forceDayOffStaffIDs,omitempty"`
	Note          string   `yaml:"note,omitempty"`
}

// Config is the engine's run-time configuration.
type Config struct {
	DefaultAlgorithmParameters map[string]string `yaml:"defaultAlgorithmParameters,omitempty"`
	DateOverrides              []DateOverride     `yaml:"dateOverrides,omitempty" validate:"dive"`
	LogLevel                   string             `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an
// environment suffix, e.g. env="test" looks for
// "rostercraft_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	path, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation and checks every override's rrule
// syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.DateOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in dateOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// ForcedDaysOff expands every DateOverride's rrule across
// [start, end] and returns, for each matching date, the set of staff
// ids that must be a day-off on it. A rule that carries no DTSTART of
// its own is anchored at start.
func (cfg *Config) ForcedDaysOff(start, end time.Time) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	if cfg == nil {
		return out
	}

	for _, override := range cfg.DateOverrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			continue
		}
		if !strings.Contains(strings.ToUpper(override.RRule), "DTSTART") {
			rule.DTStart(start)
		}
		for _, occurrence := range rule.Between(start, end.AddDate(0, 0, 1), true) {
			date := occurrence.Format("2006-01-02")
			if out[date] == nil {
				out[date] = make(map[string]bool)
			}
			for _, staffID := range override.ForceDayOffID {
				out[date][staffID] = true
			}
		}
	}

	return out
}

func findConfigFile(env string) (string, error) {
	fileName := "rostercraft_config.yaml"
	if env != "" {
		fileName = "rostercraft_config." + env + ".yaml"
	}

	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
