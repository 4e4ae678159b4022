package sim

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
)

// Observer is notified once after every completed tick.
type Observer interface {
	EnvironmentChanged(env *Environment)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(env *Environment)

func (f ObserverFunc) EnvironmentChanged(env *Environment) { f(env) }

// Counters are cumulative environment statistics.
type Counters struct {
	Ticks   uint64
	Added   uint64
	Removed uint64
}

// entry is the single component stored per object in the arena.
type entry struct {
	obj Object
}

// Environment owns a population of objects and the factors acting on them,
// and advances them one tick per Interact call.
//
// Objects live in an ECS arena; each holds its entity handle. Insertion
// order is kept as a handle list. Removal frees the entity immediately and
// leaves a tombstone in the list until the tick ends, so objects removed
// mid-tick are skipped and objects added mid-tick are visited later in the
// same tick.
type Environment struct {
	world   *ecs.World
	entries *ecs.Map1[entry]
	order   []ecs.Entity
	byID    map[uuid.UUID]ecs.Entity
	live    int

	factors   []Factor
	clock     *Clock
	observers []Observer
	logger    *slog.Logger

	counters  Counters
	iterating bool
	// swept is counters.Removed as of the last behavior sweep.
	swept uint64
}

// NewEnvironment creates an empty environment whose clock starts now.
func NewEnvironment() *Environment {
	world := ecs.NewWorld()
	return &Environment{
		world:   world,
		entries: ecs.NewMap1[entry](world),
		byID:    make(map[uuid.UUID]ecs.Entity),
		clock:   NewClock(),
		logger:  slog.Default(),
	}
}

// SetLogger replaces the logger used for structural events.
func (e *Environment) SetLogger(l *slog.Logger) {
	e.logger = l
}

// Add inserts an object at the end of the insertion order. An object that
// belongs to another environment is moved.
func (e *Environment) Add(o Object) {
	c := o.Core()
	if c.env == e {
		return
	}
	if c.env != nil {
		c.env.Remove(o)
	}

	h := e.entries.NewEntity(&entry{obj: o})
	c.env = e
	c.handle = h
	e.order = append(e.order, h)
	e.byID[c.ID] = h
	e.live++
	e.counters.Added++
}

// Remove takes an object out of the environment. Removing an object that is
// not present is a no-op and returns false.
func (e *Environment) Remove(o Object) bool {
	c := o.Core()
	if c.env != e || !e.world.Alive(c.handle) {
		e.logger.Debug("remove of absent object", "id", c.ID, "name", c.Name)
		return false
	}

	e.world.RemoveEntity(c.handle)
	delete(e.byID, c.ID)
	c.env = nil
	e.live--
	e.counters.Removed++

	if !e.iterating {
		e.compact()
	}
	return true
}

// AddFactor appends an environmental factor.
func (e *Environment) AddFactor(f Factor) {
	e.factors = append(e.factors, f)
}

// RemoveFactor removes the first occurrence of f.
func (e *Environment) RemoveFactor(f Factor) bool {
	for i, x := range e.factors {
		if x == f {
			e.factors = append(e.factors[:i], e.factors[i+1:]...)
			return true
		}
	}
	return false
}

// Objects returns the live objects in insertion order.
func (e *Environment) Objects() []Object {
	out := make([]Object, 0, e.live)
	for _, h := range e.order {
		if o := e.at(h); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// Factors returns the factors in application order.
func (e *Environment) Factors() []Factor {
	out := make([]Factor, len(e.factors))
	copy(out, e.factors)
	return out
}

// Len returns the number of live objects.
func (e *Environment) Len() int { return e.live }

// Find returns the object with the given identifier.
func (e *Environment) Find(id uuid.UUID) (Object, bool) {
	h, ok := e.byID[id]
	if !ok {
		return nil, false
	}
	o := e.at(h)
	return o, o != nil
}

// Subscribe registers an observer for tick notifications.
func (e *Environment) Subscribe(obs Observer) {
	e.observers = append(e.observers, obs)
}

// Tick returns the number of completed Interact calls.
func (e *Environment) Tick() uint64 { return e.counters.Ticks }

// Counters returns cumulative tick, insertion and removal counts.
func (e *Environment) Counters() Counters { return e.counters }

// Interact advances the environment by one tick:
//  1. sample the elapsed time once,
//  2. move every object by its vector scaled by that time,
//  3. let every creature act on every other object,
//  4. apply every factor to every object,
//  5. notify observers once.
//
// Not safe for concurrent use.
func (e *Environment) Interact() {
	e.iterating = true

	elapsed := e.clock.ElapsedTime()
	for _, h := range e.order {
		if o := e.at(h); o != nil {
			c := o.Core()
			c.Location.X += c.Vector.X() * elapsed
			c.Location.Y += c.Vector.Y() * elapsed
		}
	}

	// Index loops: actions may append to e.order while we walk it.
	for i := 0; i < len(e.order); i++ {
		actor, ok := e.at(e.order[i]).(*Creature)
		if !ok {
			continue
		}
		for j := 0; j < len(e.order) && e.contains(actor); j++ {
			t := e.at(e.order[j])
			if t == nil || t == Object(actor) {
				continue
			}
			actor.Act(t)
		}
	}

	for _, f := range e.factors {
		if ts, ok := f.(TickStarter); ok {
			ts.StartTick()
		}
	}
	for i := 0; i < len(e.order); i++ {
		for _, f := range e.factors {
			o := e.at(e.order[i])
			if o == nil {
				break
			}
			f.Act(o)
		}
	}

	for _, f := range e.factors {
		if ts, ok := f.(TickStarter); ok {
			ts.EndTick()
		}
	}

	e.iterating = false
	e.compact()
	e.sweepBehaviors()
	e.counters.Ticks++

	for _, obs := range e.observers {
		obs.EnvironmentChanged(e)
	}
}

// LogValue implements slog.LogValuer.
func (e *Environment) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", e.counters.Ticks),
		slog.Int("objects", e.live),
		slog.Int("factors", len(e.factors)),
		slog.Uint64("added", e.counters.Added),
		slog.Uint64("removed", e.counters.Removed),
	)
}

// at resolves a handle, returning nil for tombstones.
func (e *Environment) at(h ecs.Entity) Object {
	if !e.world.Alive(h) {
		return nil
	}
	return e.entries.Get(h).obj
}

func (e *Environment) contains(o Object) bool {
	c := o.Core()
	return c.env == e && e.world.Alive(c.handle)
}

// sweepBehaviors retires behavior state held for objects that have left the
// environment since the last sweep.
func (e *Environment) sweepBehaviors() {
	if e.counters.Removed == e.swept {
		return
	}
	e.swept = e.counters.Removed

	gone := func(id uuid.UUID) bool {
		_, ok := e.byID[id]
		return !ok
	}
	for _, h := range e.order {
		if c, ok := e.at(h).(*Creature); ok {
			for _, b := range c.behaviors {
				b.forget(gone)
			}
		}
	}
}

// compact drops tombstones from the insertion order.
func (e *Environment) compact() {
	if len(e.order) == e.live {
		return
	}
	kept := e.order[:0]
	for _, h := range e.order {
		if e.world.Alive(h) {
			kept = append(kept, h)
		}
	}
	clear(e.order[len(kept):])
	e.order = kept
}

// trimOldest removes objects from the front of the insertion order until at
// most limit remain.
func (e *Environment) trimOldest(limit int) {
	outer := e.iterating
	e.iterating = true
	defer func() {
		e.iterating = outer
		if !outer {
			e.compact()
		}
	}()

	for i := 0; e.live > limit && i < len(e.order); i++ {
		o := e.at(e.order[i])
		if o == nil {
			continue
		}
		e.Remove(o)
		e.logger.Debug("population limit", "removed", o.Core().ID, "limit", limit, "population", e.live)
	}
}
