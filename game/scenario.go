package game

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/vivarium/components"
	"github.com/pthm-cable/vivarium/config"
	"github.com/pthm-cable/vivarium/sim"
)

// BuildEnvironment populates a new environment from the configured
// archetypes and physics. Objects are placed uniformly at random with rng.
// The kernel time source must already be installed, since every clock is
// created here.
func BuildEnvironment(cfg *config.Config, rng *rand.Rand) (*sim.Environment, error) {
	env := sim.NewEnvironment()

	for _, arch := range cfg.Archetypes {
		proto, err := Prototype(cfg, arch)
		if err != nil {
			return nil, err
		}
		for i := 0; i < arch.Count; i++ {
			obj := proto.Copy()
			c := obj.Core()
			c.Location = components.Location{
				X: rng.Float64() * cfg.Derived.WorldW,
				Y: rng.Float64() * cfg.Derived.WorldH,
			}
			c.Vector = components.NewVector(arch.Speed, rng.Float64()*360)
			env.Add(obj)
		}
	}

	for _, f := range Factors(cfg) {
		env.AddFactor(f)
	}
	return env, nil
}

// Factors returns the environmental factors for the configured physics:
// gravity, friction, speed limit, world enclosure and population limit, in
// that order. Zero-valued settings are left out.
func Factors(cfg *config.Config) []sim.Factor {
	p := cfg.Physics
	var factors []sim.Factor
	if p.Gravity != 0 {
		factors = append(factors, sim.NewGravity(p.Gravity))
	}
	if p.Friction > 0 {
		factors = append(factors, sim.NewFriction(p.Friction))
	}
	if p.SpeedLimit > 0 {
		factors = append(factors, sim.NewSpeedLimit(p.SpeedLimit))
	}
	factors = append(factors, sim.NewEnclosure(0, 0, cfg.Derived.WorldW, cfg.Derived.WorldH))
	if p.PopulationLimit > 0 {
		factors = append(factors, sim.NewPopulationLimit(p.PopulationLimit))
	}
	return factors
}

// Prototype builds the template object for an archetype, at the origin and
// at rest. Every archetype carries its own name as a tag.
func Prototype(cfg *config.Config, arch config.ArchetypeConfig) (sim.Object, error) {
	switch arch.Role {
	case config.RolePlant:
		obj := sim.NewGameObject(arch.Name)
		decorate(obj, arch)
		return obj, nil

	case config.RoleGrazer, config.RoleHunter:
		c := sim.NewCreature(arch.Name)
		decorate(&c.GameObject, arch)
		for _, b := range forager(arch) {
			c.AddBehavior(b)
		}
		return c, nil

	case config.RoleSpawner:
		offspring, ok := cfg.Archetype(arch.Offspring)
		if !ok {
			return nil, fmt.Errorf("archetype %q: unknown offspring %q", arch.Name, arch.Offspring)
		}
		child, err := Prototype(cfg, offspring)
		if err != nil {
			return nil, fmt.Errorf("archetype %q: %w", arch.Name, err)
		}
		child.Core().Vector = components.NewVector(arch.Rate, 0)

		c := sim.NewCreature(arch.Name)
		decorate(&c.GameObject, arch)
		c.AddBehavior(sim.NewBehavior().
			AddCondition(sim.NewElapsedTimeCondition(arch.SpawnInterval)).
			AddAction(sim.NewShootAction([]sim.Object{child})))
		return c, nil
	}
	return nil, fmt.Errorf("archetype %q: unknown role %q", arch.Name, arch.Role)
}

func decorate(obj *sim.GameObject, arch config.ArchetypeConfig) {
	obj.SetSize(arch.Size)
	obj.Color = components.NewColor(arch.Color[0], arch.Color[1], arch.Color[2])
	obj.Tags = components.NewTags(arch.Tags...)
	obj.Tags.Add(arch.Name)
}

// forager returns the behaviors of a moving creature: steer towards food in
// sight, eat smaller food on contact, run from threats and breed with its
// own kind.
func forager(arch config.ArchetypeConfig) []*sim.Behavior {
	var behaviors []*sim.Behavior

	if arch.Food != "" {
		behaviors = append(behaviors,
			sim.NewBehavior().
				AddCondition(sim.NewTagCondition(arch.Food)).
				AddCondition(sim.NewProximityCondition(arch.Vision)).
				AddAction(sim.NewApproachAction(arch.Rate)),
			sim.NewBehavior().
				AddCondition(sim.NewTagCondition(arch.Food)).
				AddCondition(sim.NewCollisionCondition()).
				AddCondition(sim.NewStrengthCondition()).
				AddAction(sim.NewEatAction()),
		)
	}

	if arch.Threat != "" {
		behaviors = append(behaviors, sim.NewBehavior().
			AddCondition(sim.NewTagCondition(arch.Threat)).
			AddCondition(sim.NewProximityCondition(arch.Vision)).
			AddAction(sim.NewFleeAction(arch.Rate)))
	}

	if arch.BreedDelay > 0 {
		behaviors = append(behaviors, sim.NewBehavior().
			AddCondition(sim.NewClassCondition(sim.ClassCreature)).
			AddCondition(sim.NewTagCondition(arch.Name)).
			AddCondition(sim.NewCollisionCondition()).
			AddAction(sim.NewBreedAction(arch.BreedDelay)))
	}

	return behaviors
}
