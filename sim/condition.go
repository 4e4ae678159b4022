package sim

import "math"

// Condition filters a candidate target list down to the targets that
// satisfy its predicate. Implementations never modify the input slice.
type Condition interface {
	Select(actor Object, candidates []Object) []Object
	Copy() Condition
}

func filter(candidates []Object, keep func(Object) bool) []Object {
	var out []Object
	for _, c := range candidates {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// TagCondition selects targets carrying Tag.
type TagCondition struct {
	owned
	Tag string
}

func NewTagCondition(tag string) *TagCondition {
	return &TagCondition{Tag: tag}
}

func (c *TagCondition) Select(_ Object, candidates []Object) []Object {
	return filter(candidates, func(t Object) bool {
		return t.Core().Tags.Has(c.Tag)
	})
}

func (c *TagCondition) Copy() Condition { return NewTagCondition(c.Tag) }

// AgeCondition selects targets older than MinAge seconds.
type AgeCondition struct {
	owned
	MinAge float64
}

func NewAgeCondition(minAge float64) *AgeCondition {
	return &AgeCondition{MinAge: minAge}
}

func (c *AgeCondition) Select(_ Object, candidates []Object) []Object {
	return filter(candidates, func(t Object) bool {
		return t.Core().Age() > c.MinAge
	})
}

func (c *AgeCondition) Copy() Condition { return NewAgeCondition(c.MinAge) }

// ProximityCondition selects targets within Distance of the actor.
type ProximityCondition struct {
	owned
	Distance float64
}

func NewProximityCondition(distance float64) *ProximityCondition {
	return &ProximityCondition{Distance: distance}
}

func (c *ProximityCondition) Select(actor Object, candidates []Object) []Object {
	origin := actor.Core().Location
	return filter(candidates, func(t Object) bool {
		return origin.DistanceTo(t.Core().Location) <= c.Distance
	})
}

func (c *ProximityCondition) Copy() Condition { return NewProximityCondition(c.Distance) }

// CollisionCondition selects targets whose circle overlaps the actor's.
type CollisionCondition struct {
	owned
}

func NewCollisionCondition() *CollisionCondition {
	return &CollisionCondition{}
}

func (c *CollisionCondition) Select(actor Object, candidates []Object) []Object {
	a := actor.Core()
	ar := a.Radius()
	return filter(candidates, func(t Object) bool {
		tc := t.Core()
		reach := ar + tc.Radius()
		// Box rejection before the exact circle test.
		if math.Abs(tc.Location.X-a.Location.X) >= reach || math.Abs(tc.Location.Y-a.Location.Y) >= reach {
			return false
		}
		return Collided(actor, t)
	})
}

func (c *CollisionCondition) Copy() Condition { return NewCollisionCondition() }

// StrengthCondition selects targets no larger than the actor.
type StrengthCondition struct {
	owned
}

func NewStrengthCondition() *StrengthCondition {
	return &StrengthCondition{}
}

func (c *StrengthCondition) Select(actor Object, candidates []Object) []Object {
	size := actor.Core().Size()
	return filter(candidates, func(t Object) bool {
		return size >= t.Core().Size()
	})
}

func (c *StrengthCondition) Copy() Condition { return NewStrengthCondition() }

// ClassCondition selects targets of a given variant. Every entity is a
// game object; only creatures match ClassCreature.
type ClassCondition struct {
	owned
	Class Class
}

func NewClassCondition(class Class) *ClassCondition {
	return &ClassCondition{Class: class}
}

func (c *ClassCondition) Select(_ Object, candidates []Object) []Object {
	if c.Class == ClassGameObject {
		return filter(candidates, func(Object) bool { return true })
	}
	return filter(candidates, func(t Object) bool {
		return t.Class() == c.Class
	})
}

func (c *ClassCondition) Copy() Condition { return NewClassCondition(c.Class) }

// ElapsedTimeCondition passes every candidate once Interval seconds have
// accumulated since it last passed, then starts accumulating again.
type ElapsedTimeCondition struct {
	owned
	Interval float64

	clock       *Clock
	accumulated float64
}

func NewElapsedTimeCondition(interval float64) *ElapsedTimeCondition {
	return &ElapsedTimeCondition{Interval: interval, clock: NewClock()}
}

func (c *ElapsedTimeCondition) Select(_ Object, candidates []Object) []Object {
	c.accumulated += c.clock.ElapsedTime()
	if c.accumulated < c.Interval {
		return nil
	}
	c.accumulated = 0
	return candidates
}

// Copy returns a condition with the same interval and a new clock.
func (c *ElapsedTimeCondition) Copy() Condition { return NewElapsedTimeCondition(c.Interval) }
