// Package config provides configuration loading and access for the
// simulation, mirroring the nested mapping described in spec §6.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Env    EnvConfig    `yaml:"env"`
	Output OutputConfig `yaml:"output"`
}

// EnvConfig holds the physical/behavioural constants of spec §6.
type EnvConfig struct {
	AirCellSize      float64 `yaml:"AirCellSize"`
	MobilityCellSize float64 `yaml:"MobilityCellSize"`
	AgentReach       float64 `yaml:"AgentReach"`
	SimulationTimeStep float64 `yaml:"SimulationTimeStep"`

	HandwashingContaminationFraction float64 `yaml:"HandwashingContaminationFraction"`
	HandwashingEffectDuration        float64 `yaml:"HandwashingEffectDuration"`

	MaskEmissionAerosolReductionEfficiency float64 `yaml:"MaskEmissionAerosolReductionEfficiency"`
	MaskEmissionDropletReductionEfficiency float64 `yaml:"MaskEmissionDropletReductionEfficiency"`
	MaskAerosolProtectionEfficiency        float64 `yaml:"MaskAerosolProtectionEfficiency"`
	MaskDropletProtectionEfficiency        float64 `yaml:"MaskDropletProtectionEfficiency"`

	CleaningInterval        float64 `yaml:"CleaningInterval"`
	Diffusivity             float64 `yaml:"Diffusivity"`
	WallAbsorbingProportion float64 `yaml:"WallAbsorbingProportion"`

	CoughingRate             float64 `yaml:"CoughingRate"`
	CoughingFactor           float64 `yaml:"CoughingFactor"`
	CoughingAerosolPercentage float64 `yaml:"CoughingAerosolPercentage"`
	CoughingDropletPercentage float64 `yaml:"CoughingDropletPercentage"`

	SurfaceExposureRatio float64 `yaml:"SurfaceExposureRatio"`
}

// OutputConfig holds the write-interval/precision and suppression knobs for
// observation output. The core engine only reads these to gate how often it
// calls observation hooks (see simmodel.Model); it does not itself write
// files.
type OutputConfig struct {
	Suppress bool   `yaml:"Suppress"`
	Path     string `yaml:"Path"`

	AerosolContaminationWriteInterval int `yaml:"AerosolContaminationWriteInterval"`
	DropletContaminationWriteInterval int `yaml:"DropletContaminationWriteInterval"`
	SurfaceContaminationWriteInterval int `yaml:"SurfaceContaminationWriteInterval"`

	AerosolContaminationPrecision int `yaml:"AerosolContaminationPrecision"`
	DropletContaminationPrecision int `yaml:"DropletContaminationPrecision"`
	SurfaceContaminationPrecision int `yaml:"SurfaceContaminationPrecision"`
}

// global holds the loaded configuration for callers that prefer the
// singleton convenience over threading a *Config by hand.
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
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// MobilityRatio returns R = MobilityCellSize / AirCellSize.
func (e EnvConfig) MobilityRatio() float64 {
	return e.MobilityCellSize / e.AirCellSize
}

// CleaningIntervalTicks returns ceil(CleaningInterval/SimulationTimeStep), the
// tick modulus at which the environment's fixed surfaces are cleaned.
func (e EnvConfig) CleaningIntervalTicks() int {
	ticks := e.CleaningInterval / e.SimulationTimeStep
	n := int(ticks)
	if float64(n) < ticks {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// HandwashDurationTicks returns HandwashingEffectDuration/SimulationTimeStep
// rounded to the nearest whole tick, reading "SimulationTimeStep" consistently
// (the reference implementation's mis-cased "SimulationtimeStep" lookup is
// normalized here per spec §9's design note).
func (e EnvConfig) HandwashDurationTicks() int {
	return int(e.HandwashingEffectDuration/e.SimulationTimeStep + 0.5)
}
