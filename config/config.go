// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig         `yaml:"screen"`
	Params     ecosystem.Params     `yaml:"params"`
	Simulation SimulationConfig     `yaml:"simulation"`
	Analysis   ecosystem.Thresholds `yaml:"analysis"`
	Telemetry  TelemetryConfig      `yaml:"telemetry"`
	Bookmarks  BookmarksConfig      `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	TargetFPS  int  `yaml:"target_fps"`
	Fullscreen bool `yaml:"fullscreen"`
}

// SimulationConfig holds stepping parameters.
type SimulationConfig struct {
	TickMS          int `yaml:"tick_ms"`          // Wall-clock milliseconds per simulated day (graphical mode)
	HistoryCapacity int `yaml:"history_capacity"` // Snapshots kept for charts and analysis
	StepsPerUpdate  int `yaml:"steps_per_update"` // Days advanced per headless update
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Days per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash          PreyCrashConfig          `yaml:"prey_crash"`
	PredatorRecovery   PredatorRecoveryConfig   `yaml:"predator_recovery"`
	StableEcosystem    StableEcosystemConfig    `yaml:"stable_ecosystem"`
	ProducerSaturation ProducerSaturationConfig `yaml:"producer_saturation"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"` // Fraction below the recent peak
	MinDrop     float64 `yaml:"min_drop"`     // Absolute drop required
}

// PredatorRecoveryConfig holds predator recovery detection parameters.
type PredatorRecoveryConfig struct {
	MaxLow             float64 `yaml:"max_low"`             // Low point must be at or below this
	RecoveryMultiplier float64 `yaml:"recovery_multiplier"` // Current must reach low * this
	MinFinal           float64 `yaml:"min_final"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinFoxes      float64 `yaml:"min_foxes"`
	MinRabbits    float64 `yaml:"min_rabbits"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// ProducerSaturationConfig holds carrot saturation detection parameters.
type ProducerSaturationConfig struct {
	WastedFraction float64 `yaml:"wasted_fraction"` // Wasted regrowth / total regrowth over a window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval time.Duration // Simulation.TickMS as a duration
	ScreenW32    float32
	ScreenH32    float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the parameter set and the run settings.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Simulation.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_ms must be > 0, got %d", c.Simulation.TickMS))
	}
	if c.Simulation.HistoryCapacity < 2 {
		errs = append(errs, fmt.Errorf("simulation.history_capacity must be >= 2, got %d", c.Simulation.HistoryCapacity))
	}
	if c.Simulation.StepsPerUpdate < 1 {
		errs = append(errs, fmt.Errorf("simulation.steps_per_update must be >= 1, got %d", c.Simulation.StepsPerUpdate))
	}
	if c.Telemetry.StatsWindow < 1 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be >= 1, got %d", c.Telemetry.StatsWindow))
	}
	if c.Analysis.ProlongedWindow < 1 {
		errs = append(errs, fmt.Errorf("analysis.prolonged_window must be >= 1, got %d", c.Analysis.ProlongedWindow))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickInterval = time.Duration(c.Simulation.TickMS) * time.Millisecond
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// EngineOptions returns the engine options described by the config.
func (c *Config) EngineOptions() ecosystem.Options {
	th := c.Analysis
	return ecosystem.Options{
		HistoryCapacity: c.Simulation.HistoryCapacity,
		Thresholds:      &th,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
