package sim

import (
	"math"

	"github.com/pthm-cable/vivarium/components"
	"github.com/pthm-cable/vivarium/geom"
)

// Factor is an environmental effect applied to every object once per tick.
type Factor interface {
	Act(target Object)
}

// TickStarter is implemented by factors that sample a clock. The
// environment calls StartTick once per tick before any Act so every object
// sees the same delta, and EndTick after the last one. Outside that bracket
// each Act samples the clock itself.
type TickStarter interface {
	StartTick()
	EndTick()
}

// sampler holds a clock reading for the duration of a tick.
type sampler struct {
	clock   *Clock
	held    bool
	elapsed float64
}

func newSampler() sampler { return sampler{clock: NewClock()} }

func (s *sampler) StartTick() {
	s.elapsed = s.clock.ElapsedTime()
	s.held = true
}

func (s *sampler) EndTick() { s.held = false }

func (s *sampler) seconds() float64 {
	if s.held {
		return s.elapsed
	}
	return s.clock.ElapsedTime()
}

// Enclosure keeps objects inside a rectangle, bouncing them off its walls.
type Enclosure struct {
	Left, Top, Right, Bottom float64
}

func NewEnclosure(left, top, right, bottom float64) *Enclosure {
	return &Enclosure{Left: left, Top: top, Right: right, Bottom: bottom}
}

func (e *Enclosure) Act(target Object) {
	c := target.Core()
	bounce := func(normal float64) {
		c.Vector.SetHeading(geom.ReflectionAngle(normal, c.Vector.Heading()))
	}

	if c.Location.X < e.Left {
		c.Location.X = e.Left
		bounce(geom.NormalLeft)
	} else if c.Location.X > e.Right {
		c.Location.X = e.Right
		bounce(geom.NormalRight)
	}
	if c.Location.Y < e.Top {
		c.Location.Y = e.Top
		bounce(geom.NormalTop)
	} else if c.Location.Y > e.Bottom {
		c.Location.Y = e.Bottom
		bounce(geom.NormalBottom)
	}
}

// SpeedLimit caps the magnitude of every object's speed in either direction.
type SpeedLimit struct {
	Max float64
}

func NewSpeedLimit(limit float64) *SpeedLimit {
	return &SpeedLimit{Max: limit}
}

func (s *SpeedLimit) Act(target Object) {
	v := &target.Core().Vector
	v.SetSpeed(math.Max(-s.Max, math.Min(s.Max, v.Speed())))
}

// Accelerator adds Force, scaled by the seconds since the previous tick, to
// every object's vector.
type Accelerator struct {
	sampler
	Force components.Vector
}

func NewAccelerator(force components.Vector) *Accelerator {
	return &Accelerator{sampler: newSampler(), Force: force}
}

func (a *Accelerator) Act(target Object) {
	c := target.Core()
	c.Vector = c.Vector.Add(a.Force.Scale(a.seconds()))
}

// Gravity is an accelerator that always pulls towards +Y.
type Gravity struct {
	Accelerator
}

func NewGravity(strength float64) *Gravity {
	return &Gravity{Accelerator: *NewAccelerator(components.NewVector(strength, 90))}
}

// Strength returns the magnitude of the pull.
func (g *Gravity) Strength() float64 { return g.Force.Speed() }

// SetStrength changes the magnitude; the direction stays downward.
func (g *Gravity) SetStrength(s float64) { g.Force = components.NewVector(s, 90) }

// Friction slows every object by Force units per second, stopping at zero.
type Friction struct {
	sampler
	Force float64
}

func NewFriction(force float64) *Friction {
	return &Friction{sampler: newSampler(), Force: force}
}

func (f *Friction) Act(target Object) {
	v := &target.Core().Vector
	step := f.Force * f.seconds()
	switch s := v.Speed(); {
	case s > 0:
		v.SetSpeed(math.Max(0, s-step))
	case s < 0:
		v.SetSpeed(math.Min(0, s+step))
	}
}

// PopulationLimit removes the oldest-inserted objects while the population
// exceeds Max.
type PopulationLimit struct {
	Max int
}

func NewPopulationLimit(limit int) *PopulationLimit {
	return &PopulationLimit{Max: limit}
}

func (p *PopulationLimit) Act(target Object) {
	if env := target.Core().Environment(); env != nil {
		env.trimOldest(p.Max)
	}
}
