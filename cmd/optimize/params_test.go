package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/vivarium/config"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector("grazer", "hunter", "meadow")
	raw := pv.Clamp(pv.ExtractFromConfig(loadDefaults(t)))

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVector_Clamp(t *testing.T) {
	pv := NewParamVector("grazer", "hunter", "meadow")

	v := make([]float64, pv.Dim())
	for i := range v {
		v[i] = -1e6
	}
	v[0] = 1e6

	clamped := pv.Clamp(v)
	if clamped[0] != pv.Specs[0].Max {
		t.Errorf("clamped[0] = %v, want %v", clamped[0], pv.Specs[0].Max)
	}
	for i := 1; i < len(clamped); i++ {
		if clamped[i] != pv.Specs[i].Min {
			t.Errorf("clamped[%d] = %v, want %v", i, clamped[i], pv.Specs[i].Min)
		}
	}
}

func TestParamVector_ApplyExtract(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector("grazer", "hunter", "meadow")

	want := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		want[i] = (spec.Min + spec.Max) / 2
	}
	pv.ApplyToConfig(cfg, want)

	got := pv.ExtractFromConfig(cfg)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}

	grazer, _ := cfg.Archetype("grazer")
	if grazer.Vision != want[0] {
		t.Errorf("grazer vision = %v, want %v", grazer.Vision, want[0])
	}
}

func TestParamVector_Validate(t *testing.T) {
	cfg := loadDefaults(t)

	if err := NewParamVector("grazer", "hunter", "meadow").Validate(cfg); err != nil {
		t.Errorf("Validate defaults: %v", err)
	}
	if err := NewParamVector("grazer", "dragon", "meadow").Validate(cfg); err == nil {
		t.Error("expected error for unknown archetype")
	}
}
