package sim

// BreedAction produces a child with a creature target once Delay seconds
// of activity have accumulated.
type BreedAction struct {
	owned
	Delay float64

	clock       *Clock
	accumulated float64
}

func NewBreedAction(delay float64) *BreedAction {
	return &BreedAction{Delay: delay, clock: NewClock()}
}

func (a *BreedAction) Start() { a.clock.Reset() }
func (a *BreedAction) Stop()  { a.clock.Reset() }

func (a *BreedAction) Do(actor Object, targets []Object) {
	a.accumulated += a.clock.ElapsedTime()
	if a.accumulated < a.Delay {
		return
	}

	var mate *Creature
	for _, t := range targets {
		if c, ok := t.(*Creature); ok {
			mate = c
			break
		}
	}
	env := actor.Core().Environment()
	if mate == nil || env == nil {
		return
	}

	env.Add(Offspring(actor, mate))
	a.accumulated = 0
}

// Copy returns a breed action with the same delay, a new clock and no
// accumulated time.
func (a *BreedAction) Copy() Action { return NewBreedAction(a.Delay) }

// Offspring builds the child of two parents. The child takes the actor's
// location and name, the clamped sum of both colors, the sum of both
// vectors, the union of both tag sets, a quarter of the combined size, and
// copies of every parent behavior that does not itself breed.
func Offspring(actor Object, mate *Creature) *Creature {
	a := actor.Core()

	child := NewCreature(a.Name)
	child.Location = a.Location
	child.Color = a.Color.Add(mate.Color)
	child.Vector = a.Vector.Add(mate.Vector)
	child.SetSize((a.Size() + mate.Size()) / 2 / 2)
	for l := range a.Tags {
		child.Tags.Add(l)
	}
	for l := range mate.Tags {
		child.Tags.Add(l)
	}

	inherit := func(parent *Creature) {
		for _, b := range parent.behaviors {
			if !b.breeds() {
				child.AddBehavior(b.Copy())
			}
		}
	}
	if c, ok := actor.(*Creature); ok {
		inherit(c)
	}
	inherit(mate)

	return child
}

// SpawnAction inserts a copy of each prototype at the actor's location.
type SpawnAction struct {
	instant
	Prototypes []Object
}

func NewSpawnAction(prototypes ...Object) *SpawnAction {
	return &SpawnAction{Prototypes: prototypes}
}

func (a *SpawnAction) Do(actor Object, _ []Object) {
	spawn(actor, a.Prototypes)
}

// Copy shares the prototype list; prototypes are templates and are only
// ever copied, never inserted.
func (a *SpawnAction) Copy() Action { return NewSpawnAction(a.Prototypes...) }

func spawn(actor Object, prototypes []Object) []Object {
	a := actor.Core()
	env := a.Environment()
	if env == nil {
		return nil
	}
	out := make([]Object, 0, len(prototypes))
	for _, p := range prototypes {
		child := p.Copy()
		child.Core().Location = a.Location
		env.Add(child)
		out = append(out, child)
	}
	return out
}

// ExplodeAction spawns the prototypes, splits the actor's size evenly
// between them, gives each the actor's momentum, then removes the actor.
type ExplodeAction struct {
	instant
	Prototypes []Object
}

func NewExplodeAction(prototypes ...Object) *ExplodeAction {
	return &ExplodeAction{Prototypes: prototypes}
}

func (a *ExplodeAction) Do(actor Object, _ []Object) {
	c := actor.Core()
	env := c.Environment()
	if env == nil {
		return
	}
	for _, child := range spawn(actor, a.Prototypes) {
		cc := child.Core()
		cc.Vector = cc.Vector.Add(c.Vector)
		cc.SetSize(c.Size() / float64(len(a.Prototypes)))
	}
	env.Remove(actor)
}

func (a *ExplodeAction) Copy() Action { return NewExplodeAction(a.Prototypes...) }

// ShootAction fires one volley per call at one target per call, cycling
// through both lists independently. Each projectile's heading is rotated
// by the angle from the actor to the current target.
type ShootAction struct {
	instant
	Volleys [][]Object

	volley int
	target int
}

// NewShootAction creates a shoot action. A volley with several prototypes
// is fired all at once.
func NewShootAction(volleys ...[]Object) *ShootAction {
	return &ShootAction{Volleys: volleys}
}

func (a *ShootAction) Do(actor Object, targets []Object) {
	if len(targets) == 0 || len(a.Volleys) == 0 {
		return
	}
	// The target list may be shorter than on the previous call.
	a.target %= len(targets)

	aim := actor.Core().Location.AngleTo(targets[a.target].Core().Location)
	for _, p := range spawn(actor, a.Volleys[a.volley]) {
		v := &p.Core().Vector
		v.SetHeading(v.Heading() + aim)
	}

	a.volley = (a.volley + 1) % len(a.Volleys)
	a.target = (a.target + 1) % len(targets)
}

// Copy returns a shoot action over the same volleys with both cycles reset.
func (a *ShootAction) Copy() Action { return NewShootAction(a.Volleys...) }
