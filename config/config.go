// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	World     WorldConfig     `yaml:"world"`
	Sim       SimConfig       `yaml:"sim"`
	Rules     RulesConfig     `yaml:"rules"`
	Cows      CowsConfig      `yaml:"cows"`
	Houses    HousesConfig    `yaml:"houses"`
	Presets   PresetsConfig   `yaml:"presets"`
	AI        AIConfig        `yaml:"ai"`
	Entities  EntitiesConfig  `yaml:"entities"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig holds viewer zoom limits.
type CameraConfig struct {
	MinZoom float64 `yaml:"min_zoom"`
	MaxZoom float64 `yaml:"max_zoom"`
}

// WorldConfig holds world dimensions and boundary mode.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Wrap   bool    `yaml:"wrap"` // periodic (toroidal) boundaries instead of clamping
}

// SimConfig holds day cycle and indexing parameters.
type SimConfig struct {
	DayDurationSec      float64 `yaml:"day_duration_sec"`
	AutoWaitSec         float64 `yaml:"auto_wait_sec"`  // pause between days in Auto mode
	MaxDt               float64 `yaml:"max_dt"`         // clamp for a single Advance step
	DT                  float64 `yaml:"dt"`             // fixed step used by headless runs
	SpatialCellAgents   float64 `yaml:"spatial_cell_agents"`
	SpatialCellCows     float64 `yaml:"spatial_cell_cows"`
	InitialMode         string  `yaml:"initial_mode"`   // "auto" or "manual"
	InitialPreset       string  `yaml:"initial_preset"` // "uniform", "all70", "all30"
	TotalAgentsOverride int     `yaml:"total_agents_override"`
	SingleEgoPercent    int     `yaml:"single_ego_percent"` // used with total_agents_override (0..100)
}

// RulesConfig holds the economic and demographic rules.
type RulesConfig struct {
	CowValue         float64 `yaml:"cow_value"`
	TargetCows       int     `yaml:"target_cows"`
	SurvivePoints    float64 `yaml:"survive_points"`
	ReproEvery       float64 `yaml:"repro_every"`    // points above threshold per child
	HouseCapacity    int     `yaml:"house_capacity"` // agents per house
	MutationKeepProb float64 `yaml:"mutation_keep_prob"`
}

// CowsConfig holds cow spawn parameters.
type CowsConfig struct {
	Radius      float64 `yaml:"radius"`
	HouseBuffer float64 `yaml:"house_buffer"` // min distance between a cow spawn and any house edge
}

// HousesConfig holds house geometry.
type HousesConfig struct {
	Radius float64 `yaml:"radius"`
}

// PresetsConfig holds initial population sizes.
type PresetsConfig struct {
	UniformEach int `yaml:"uniform_each"` // agents per ego percent in the uniform preset
	AllCount    int `yaml:"all_count"`    // agents in the all70/all30 presets
}

// AIConfig selects and tunes the behavior policy.
type AIConfig struct {
	Policy string       `yaml:"policy"` // "greedy" or "wanderer"
	Greedy GreedyConfig `yaml:"greedy"`
}

// GreedyConfig tunes the greedy policy.
type GreedyConfig struct {
	CenterBias float64 `yaml:"center_bias"` // probability per tick of heading to the world center when idle
	TurnRate   float64 `yaml:"turn_rate"`   // rad/s
}

// EntitiesConfig holds entity defaults.
type EntitiesConfig struct {
	AgentDefaults AgentDefaults `yaml:"agent_defaults"`
}

// AgentDefaults holds per-agent movement and sensing parameters.
type AgentDefaults struct {
	Speed        float64 `yaml:"speed"`
	SenseRadius  float64 `yaml:"sense_radius"`
	PickupRadius float64 `yaml:"pickup_radius"`
	BodyRadius   float64 `yaml:"body_radius"`
}

// AnalysisConfig holds observational grid parameters.
type AnalysisConfig struct {
	CoverageCellSize float64 `yaml:"coverage_cell_size"`
}

// TelemetryConfig holds history parameters.
type TelemetryConfig struct {
	HistoryCap int `yaml:"history_cap"` // max days kept in memory
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32 float32 // World.Width as float32
	WorldH32 float32 // World.Height as float32
	MaxDt32  float32 // Sim.MaxDt as float32
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

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

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
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
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"world.width", c.World.Width},
		{"world.height", c.World.Height},
		{"sim.day_duration_sec", c.Sim.DayDurationSec},
		{"sim.max_dt", c.Sim.MaxDt},
		{"sim.dt", c.Sim.DT},
		{"sim.spatial_cell_agents", c.Sim.SpatialCellAgents},
		{"sim.spatial_cell_cows", c.Sim.SpatialCellCows},
		{"analysis.coverage_cell_size", c.Analysis.CoverageCellSize},
		{"rules.repro_every", c.Rules.ReproEvery},
		{"rules.house_capacity", float64(c.Rules.HouseCapacity)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalid, p.name, p.value)
		}
	}
	counts := []struct {
		name  string
		value int
	}{
		{"rules.target_cows", c.Rules.TargetCows},
		{"presets.uniform_each", c.Presets.UniformEach},
		{"presets.all_count", c.Presets.AllCount},
		{"sim.total_agents_override", c.Sim.TotalAgentsOverride},
	}
	for _, n := range counts {
		if n.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalid, n.name, n.value)
		}
	}
	if c.Sim.SingleEgoPercent < 0 || c.Sim.SingleEgoPercent > 100 {
		return fmt.Errorf("%w: sim.single_ego_percent must be in [0,100], got %d", ErrInvalid, c.Sim.SingleEgoPercent)
	}
	if c.Rules.MutationKeepProb < 0 || c.Rules.MutationKeepProb > 1 {
		return fmt.Errorf("%w: rules.mutation_keep_prob must be in [0,1], got %v", ErrInvalid, c.Rules.MutationKeepProb)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call again after mutating a loaded config in code.
func (c *Config) ComputeDerived() {
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.MaxDt32 = float32(c.Sim.MaxDt)
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
