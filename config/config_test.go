package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Params != ecosystem.DefaultParams() {
		t.Errorf("default params = %+v, want %+v", cfg.Params, ecosystem.DefaultParams())
	}
	if cfg.Analysis != ecosystem.DefaultThresholds() {
		t.Errorf("default thresholds = %+v, want %+v", cfg.Analysis, ecosystem.DefaultThresholds())
	}
	if cfg.Simulation.HistoryCapacity != ecosystem.DefaultHistoryCapacity {
		t.Errorf("history capacity = %d, want %d", cfg.Simulation.HistoryCapacity, ecosystem.DefaultHistoryCapacity)
	}
	if cfg.Derived.TickInterval != 200*time.Millisecond {
		t.Errorf("tick interval = %v, want 200ms", cfg.Derived.TickInterval)
	}
}

func TestLoad_MergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("params:\n  foxes_init: 25\nsimulation:\n  tick_ms: 50\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Params.FoxesInit != 25 {
		t.Errorf("foxes_init = %v, want 25", cfg.Params.FoxesInit)
	}
	if cfg.Params.RabbitsInit != 50 {
		t.Errorf("rabbits_init = %v, want default 50", cfg.Params.RabbitsInit)
	}
	if cfg.Derived.TickInterval != 50*time.Millisecond {
		t.Errorf("tick interval = %v, want 50ms", cfg.Derived.TickInterval)
	}
}

func TestLoad_RejectsInvalidParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("params:\n  max_carrots: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ecosystem.ErrInvalidParam) {
		t.Errorf("Load error = %v, want ErrInvalidParam", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Params.RabbitBirthRate = 0.25

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Params != cfg.Params {
		t.Errorf("params after round trip = %+v, want %+v", loaded.Params, cfg.Params)
	}
}

func TestInitAndCfg(t *testing.T) {
	MustInit("")
	if Cfg().Screen.Width == 0 {
		t.Error("screen width not loaded")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	err = cfg.ApplyOverrides([]string{
		"fox_death_rate=0.08",
		"params.rabbits_init=64.5",
		"simulation.tick_ms=40",
		"screen.fullscreen=true",
	})
	if err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}

	if cfg.Params.FoxDeathRate != 0.08 {
		t.Errorf("fox_death_rate = %v, want 0.08", cfg.Params.FoxDeathRate)
	}
	if cfg.Params.RabbitsInit != 64.5 {
		t.Errorf("rabbits_init = %v, want 64.5", cfg.Params.RabbitsInit)
	}
	if cfg.Derived.TickInterval != 40*time.Millisecond {
		t.Errorf("tick interval = %v, want 40ms", cfg.Derived.TickInterval)
	}
	if !cfg.Screen.Fullscreen {
		t.Error("fullscreen override not applied")
	}
}

func TestApplyOverrides_Errors(t *testing.T) {
	tests := []struct {
		name       string
		override   string
		suggestion string
		unknown    bool
		invalid    bool
	}{
		{"typo suggests param", "rabit_birth_rate=0.2", "rabbit_birth_rate", true, false},
		{"typo in dotted key", "simulation.tick_mss=10", "simulation.tick_ms", true, false},
		{"nonsense key", "zzzzzzzzzzzz=1", "", true, false},
		{"non-numeric value", "fox_death_rate=lots", "", false, false},
		{"out of domain", "fox_death_rate=3", "", false, true},
		{"missing equals", "fox_death_rate", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			before := cfg.Params

			err = cfg.ApplyOverrides([]string{"rabbits_init=70", tt.override})
			if err == nil {
				t.Fatal("expected error")
			}
			if cfg.Params != before {
				t.Error("config changed despite failed override")
			}

			if errors.Is(err, ErrUnknownKey) != tt.unknown {
				t.Errorf("unknown key = %v, want %v (%v)", errors.Is(err, ErrUnknownKey), tt.unknown, err)
			}
			if errors.Is(err, ecosystem.ErrInvalidParam) != tt.invalid {
				t.Errorf("invalid param = %v, want %v (%v)", errors.Is(err, ecosystem.ErrInvalidParam), tt.invalid, err)
			}

			var oe *OverrideError
			if errors.As(err, &oe) && oe.Suggestion != tt.suggestion {
				t.Errorf("suggestion = %q, want %q", oe.Suggestion, tt.suggestion)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	keys := cfg.Keys()
	want := map[string]bool{
		"params.max_carrots":        false,
		"analysis.crisis_ratio":     false,
		"simulation.tick_ms":        false,
		"telemetry.stats_window":    false,
		"screen.target_fps":         false,
		"params.fox_conversion":     false,
		"analysis.prolonged_window": false,
	}
	for _, k := range keys {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("key %q missing from Keys()", k)
		}
	}
}
