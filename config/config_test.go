package config

import (
	"math"
	"os"
	"testing"
)

func TestLoadEmptyPathUsesEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Env.AirCellSize != 0.1 {
		t.Errorf("AirCellSize = %v, want 0.1", cfg.Env.AirCellSize)
	}
	if cfg.Env.MobilityCellSize != 0.5 {
		t.Errorf("MobilityCellSize = %v, want 0.5", cfg.Env.MobilityCellSize)
	}
	if cfg.Output.AerosolContaminationWriteInterval != 60 {
		t.Errorf("AerosolContaminationWriteInterval = %v, want 60", cfg.Output.AerosolContaminationWriteInterval)
	}
}

func TestMobilityRatio(t *testing.T) {
	e := EnvConfig{MobilityCellSize: 0.5, AirCellSize: 0.1}
	if got := e.MobilityRatio(); math.Abs(got-5) > 1e-9 {
		t.Errorf("MobilityRatio() = %v, want 5", got)
	}
}

func TestCleaningIntervalTicksRoundsUp(t *testing.T) {
	e := EnvConfig{CleaningInterval: 3600, SimulationTimeStep: 1}
	if got := e.CleaningIntervalTicks(); got != 3600 {
		t.Errorf("CleaningIntervalTicks() = %d, want 3600", got)
	}

	e2 := EnvConfig{CleaningInterval: 10, SimulationTimeStep: 3}
	if got := e2.CleaningIntervalTicks(); got != 4 {
		t.Errorf("CleaningIntervalTicks() = %d, want 4 (ceil(10/3))", got)
	}
}

func TestCleaningIntervalTicksMinimumOne(t *testing.T) {
	e := EnvConfig{CleaningInterval: 0, SimulationTimeStep: 1}
	if got := e.CleaningIntervalTicks(); got != 1 {
		t.Errorf("CleaningIntervalTicks() = %d, want 1 (minimum)", got)
	}
}

func TestHandwashDurationTicksRoundsToNearest(t *testing.T) {
	e := EnvConfig{HandwashingEffectDuration: 300, SimulationTimeStep: 1}
	if got := e.HandwashDurationTicks(); got != 300 {
		t.Errorf("HandwashDurationTicks() = %d, want 300", got)
	}

	e2 := EnvConfig{HandwashingEffectDuration: 10, SimulationTimeStep: 3}
	if got := e2.HandwashDurationTicks(); got != 3 {
		t.Errorf("HandwashDurationTicks() = %d, want 3 (round(10/3)=round(3.33))", got)
	}

	e3 := EnvConfig{HandwashingEffectDuration: 11, SimulationTimeStep: 3}
	if got := e3.HandwashDurationTicks(); got != 4 {
		t.Errorf("HandwashDurationTicks() = %d, want 4 (round(11/3)=round(3.67))", got)
	}
}

func TestLoadOverlayOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/overlay.yaml"
	if err := os.WriteFile(path, []byte("env:\n  CoughingRate: 0.5\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env.CoughingRate != 0.5 {
		t.Errorf("CoughingRate = %v, want 0.5 (overlay applied)", cfg.Env.CoughingRate)
	}
	// Fields the overlay doesn't mention keep their embedded default.
	if cfg.Env.AirCellSize != 0.1 {
		t.Errorf("AirCellSize = %v, want 0.1 (unset by overlay, kept from defaults)", cfg.Env.AirCellSize)
	}
}
