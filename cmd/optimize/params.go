package main

import (
	"fmt"

	"github.com/pthm-cable/vivarium/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound

	field func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// archetypeParam tunes one float field of a named archetype.
func archetypeParam(arch, key string, lo, hi float64, field func(*config.ArchetypeConfig) *float64) ParamSpec {
	return ParamSpec{
		Name: arch + "_" + key,
		Path: fmt.Sprintf("archetypes[%s].%s", arch, key),
		Min:  lo,
		Max:  hi,
		field: func(cfg *config.Config) *float64 {
			i, ok := cfg.Derived.ArchetypeIndex[arch]
			if !ok {
				return nil
			}
			return field(&cfg.Archetypes[i])
		},
	}
}

func vision(a *config.ArchetypeConfig) *float64        { return &a.Vision }
func rate(a *config.ArchetypeConfig) *float64          { return &a.Rate }
func breedDelay(a *config.ArchetypeConfig) *float64    { return &a.BreedDelay }
func spawnInterval(a *config.ArchetypeConfig) *float64 { return &a.SpawnInterval }

// NewParamVector creates the parameter set for a prey/predator/spawner trio.
func NewParamVector(prey, predator, spawner string) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			archetypeParam(prey, "vision", 40, 300, vision),
			archetypeParam(prey, "rate", 5, 120, rate),
			archetypeParam(prey, "breed_delay", 0.5, 10, breedDelay),
			archetypeParam(predator, "vision", 40, 400, vision),
			archetypeParam(predator, "rate", 5, 150, rate),
			archetypeParam(predator, "breed_delay", 1, 20, breedDelay),
			archetypeParam(spawner, "spawn_interval", 0.5, 10, spawnInterval),
			archetypeParam(spawner, "rate", 5, 120, rate),
			{Name: "friction", Path: "physics.friction", Min: 0, Max: 30,
				field: func(cfg *config.Config) *float64 { return &cfg.Physics.Friction }},
			{Name: "speed_limit", Path: "physics.speed_limit", Min: 30, Max: 300,
				field: func(cfg *config.Config) *float64 { return &cfg.Physics.SpeedLimit }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Validate reports parameters whose config field does not exist.
func (pv *ParamVector) Validate(cfg *config.Config) error {
	for _, spec := range pv.Specs {
		if spec.field(cfg) == nil {
			return fmt.Errorf("parameter %s: %s not found in config", spec.Name, spec.Path)
		}
	}
	return nil
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		if p := pv.Specs[i].field(cfg); p != nil {
			*p = v
		}
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
// Missing fields read as the parameter's lower bound.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	values := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		values[i] = spec.Min
		if p := spec.field(cfg); p != nil {
			values[i] = *p
		}
	}
	return values
}
