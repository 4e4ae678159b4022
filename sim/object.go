package sim

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vivarium/components"
	"github.com/pthm-cable/vivarium/geom"
)

// Class identifies an entity variant.
type Class uint8

const (
	ClassGameObject Class = iota
	ClassCreature
)

// String returns the variant name.
func (c Class) String() string {
	switch c {
	case ClassGameObject:
		return "game_object"
	case ClassCreature:
		return "creature"
	default:
		return "unknown"
	}
}

// ParseClass is the inverse of Class.String.
func ParseClass(s string) (Class, bool) {
	switch s {
	case "game_object":
		return ClassGameObject, true
	case "creature":
		return ClassCreature, true
	default:
		return 0, false
	}
}

// Object is any entity that can live in an Environment.
type Object interface {
	// Core returns the shared entity state.
	Core() *GameObject
	// Class returns the entity variant.
	Class() Class
	// Copy returns a deep copy with a fresh identifier, outside any environment.
	Copy() Object
}

// GameObject is a passive entity: it moves and can be acted upon but has
// no behaviors of its own.
type GameObject struct {
	ID       uuid.UUID
	Name     string
	Location components.Location
	Color    components.Color
	Vector   components.Vector
	Tags     components.Tags

	born time.Time
	size float64

	// Set by the owning Environment on Add, cleared on Remove.
	env    *Environment
	handle ecs.Entity
}

// NewGameObject creates a game object born now.
func NewGameObject(name string) *GameObject {
	return &GameObject{
		ID:    uuid.New(),
		Name:  name,
		Color: components.NewColor(1, 1, 1),
		Tags:  components.NewTags(),
		born:  Now(),
	}
}

func (o *GameObject) Core() *GameObject { return o }
func (o *GameObject) Class() Class      { return ClassGameObject }
func (o *GameObject) Copy() Object      { return o.clone() }

func (o *GameObject) clone() *GameObject {
	return &GameObject{
		ID:       uuid.New(),
		Name:     o.Name,
		Location: o.Location,
		Color:    o.Color,
		Vector:   o.Vector,
		Tags:     o.Tags.Copy(),
		born:     Now(),
		size:     o.size,
	}
}

// Size returns the entity's area.
func (o *GameObject) Size() float64 { return o.size }

// SetSize sets the area. Negative values clamp to zero.
func (o *GameObject) SetSize(s float64) { o.size = math.Max(0, s) }

// Radius returns the radius of a circle whose area is Size.
func (o *GameObject) Radius() float64 { return geom.RadiusFromArea(o.size) }

// Age returns the seconds since the entity was born.
func (o *GameObject) Age() float64 { return Now().Sub(o.born).Seconds() }

// SetAge moves the birth time so that Age reports sec.
func (o *GameObject) SetAge(sec float64) {
	o.born = Now().Add(-time.Duration(sec * float64(time.Second)))
}

// Environment returns the owning environment, or nil when detached.
func (o *GameObject) Environment() *Environment { return o.env }

// Creature is a GameObject driven by an ordered list of behaviors.
type Creature struct {
	GameObject
	behaviors []*Behavior
}

// NewCreature creates a creature with no behaviors.
func NewCreature(name string) *Creature {
	return &Creature{GameObject: *NewGameObject(name)}
}

func (c *Creature) Class() Class { return ClassCreature }

// Copy deep-copies the creature, including every behavior.
func (c *Creature) Copy() Object {
	cp := &Creature{GameObject: *c.GameObject.clone()}
	for _, b := range c.behaviors {
		cp.AddBehavior(b.Copy())
	}
	return cp
}

// AddBehavior appends a behavior and takes ownership of it.
func (c *Creature) AddBehavior(b *Behavior) {
	b.owner = c
	c.behaviors = append(c.behaviors, b)
}

// Behaviors returns the creature's behaviors in evaluation order.
func (c *Creature) Behaviors() []*Behavior {
	return c.behaviors
}

// Act runs every behavior against the single candidate target.
func (c *Creature) Act(target Object) {
	targets := []Object{target}
	for _, b := range c.behaviors {
		b.Perform(c, targets)
	}
}

// Collided reports whether two entities' circles overlap, treating each
// Size as a circle area.
func Collided(a, b Object) bool {
	ac, bc := a.Core(), b.Core()
	return geom.CirclesOverlap(ac.Location.DistanceTo(bc.Location), ac.Radius(), bc.Radius())
}
