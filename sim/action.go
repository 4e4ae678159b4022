package sim

import "github.com/pthm-cable/vivarium/components"

// Action mutates the actor, its targets, or the environment. Start and
// Stop bracket each period during which the owning behavior keeps firing.
type Action interface {
	Start()
	Do(actor Object, targets []Object)
	Stop()
	Copy() Action
}

// instant is embedded by actions without timing state.
type instant struct {
	owned
}

func (instant) Start() {}
func (instant) Stop()  {}

// rated is embedded by actions whose effect is Rate units per second of
// continuous activity. The clock restarts on Start and Stop.
type rated struct {
	owned
	Rate float64

	clock *Clock
}

func newRated(rate float64) rated {
	return rated{Rate: rate, clock: NewClock()}
}

func (r *rated) Start() { r.clock.Reset() }
func (r *rated) Stop()  { r.clock.Reset() }

// delta reads the clock and scales the elapsed seconds by Rate.
func (r *rated) delta() float64 {
	return r.Rate * r.clock.ElapsedTime()
}

// FaceAction turns the actor to point at its first target.
type FaceAction struct {
	instant
}

func NewFaceAction() *FaceAction { return &FaceAction{} }

func (a *FaceAction) Do(actor Object, targets []Object) {
	if len(targets) == 0 {
		return
	}
	c := actor.Core()
	c.Vector.SetHeading(c.Location.AngleTo(targets[0].Core().Location))
}

func (a *FaceAction) Copy() Action { return NewFaceAction() }

// AccelerateAction changes the actor's speed by Rate per second.
type AccelerateAction struct {
	rated
}

func NewAccelerateAction(rate float64) *AccelerateAction {
	return &AccelerateAction{rated: newRated(rate)}
}

func (a *AccelerateAction) Do(actor Object, _ []Object) {
	v := &actor.Core().Vector
	v.SetSpeed(v.Speed() + a.delta())
}

func (a *AccelerateAction) Copy() Action { return NewAccelerateAction(a.Rate) }

// TurnAction adds a vector of magnitude Rate per second, pointing Angle
// degrees off the actor's current heading, to the actor's vector.
type TurnAction struct {
	rated
	Angle float64
}

func NewTurnAction(rate, angle float64) *TurnAction {
	return &TurnAction{rated: newRated(rate), Angle: angle}
}

func (a *TurnAction) Do(actor Object, _ []Object) {
	c := actor.Core()
	c.Vector = c.Vector.Add(newVector(a.delta(), c.Vector.Heading()+a.Angle))
}

func (a *TurnAction) Copy() Action { return NewTurnAction(a.Rate, a.Angle) }

// ApproachAction steers the actor towards its first target.
type ApproachAction struct {
	rated
}

func NewApproachAction(rate float64) *ApproachAction {
	return &ApproachAction{rated: newRated(rate)}
}

func (a *ApproachAction) Do(actor Object, targets []Object) {
	steer(actor, targets, a.delta(), 0)
}

func (a *ApproachAction) Copy() Action { return NewApproachAction(a.Rate) }

// FleeAction steers the actor directly away from its first target.
type FleeAction struct {
	rated
}

func NewFleeAction(rate float64) *FleeAction {
	return &FleeAction{rated: newRated(rate)}
}

func (a *FleeAction) Do(actor Object, targets []Object) {
	steer(actor, targets, a.delta(), 180)
}

func (a *FleeAction) Copy() Action { return NewFleeAction(a.Rate) }

func steer(actor Object, targets []Object, magnitude, offset float64) {
	if len(targets) == 0 {
		return
	}
	c := actor.Core()
	heading := c.Location.AngleTo(targets[0].Core().Location) + offset
	c.Vector = c.Vector.Add(newVector(magnitude, heading))
}

// DestroyAction removes every target from its environment.
type DestroyAction struct {
	instant
}

func NewDestroyAction() *DestroyAction { return &DestroyAction{} }

func (a *DestroyAction) Do(_ Object, targets []Object) {
	destroy(targets)
}

func (a *DestroyAction) Copy() Action { return NewDestroyAction() }

func destroy(targets []Object) {
	for _, t := range targets {
		if env := t.Core().Environment(); env != nil {
			env.Remove(t)
		}
	}
}

// EatAction grows the actor by the targets' combined size, then destroys them.
type EatAction struct {
	instant
}

func NewEatAction() *EatAction { return &EatAction{} }

func (a *EatAction) Do(actor Object, targets []Object) {
	c := actor.Core()
	gained := 0.0
	for _, t := range targets {
		gained += t.Core().Size()
	}
	c.SetSize(c.Size() + gained)
	destroy(targets)
}

func (a *EatAction) Copy() Action { return NewEatAction() }

// TagAction labels every target with Tag.
type TagAction struct {
	instant
	Tag string
}

func NewTagAction(tag string) *TagAction { return &TagAction{Tag: tag} }

func (a *TagAction) Do(_ Object, targets []Object) {
	for _, t := range targets {
		t.Core().Tags.Add(a.Tag)
	}
}

func (a *TagAction) Copy() Action { return NewTagAction(a.Tag) }

// BlendAction moves each channel of the actor's color by (target - channel)
// scaled by the rate delta. Large deltas overshoot and are clamped.
type BlendAction struct {
	rated
	Color components.Color
}

func NewBlendAction(rate float64, color components.Color) *BlendAction {
	return &BlendAction{rated: newRated(rate), Color: color}
}

func (a *BlendAction) Do(actor Object, _ []Object) {
	c := actor.Core()
	c.Color = c.Color.Blend(a.Color, a.delta())
}

func (a *BlendAction) Copy() Action { return NewBlendAction(a.Rate, a.Color) }

// PushAction accelerates every target away from the actor.
type PushAction struct {
	rated
}

func NewPushAction(rate float64) *PushAction {
	return &PushAction{rated: newRated(rate)}
}

func (a *PushAction) Do(actor Object, targets []Object) {
	shove(actor, targets, a.delta(), false)
}

func (a *PushAction) Copy() Action { return NewPushAction(a.Rate) }

// PullAction accelerates every target towards the actor.
type PullAction struct {
	rated
}

func NewPullAction(rate float64) *PullAction {
	return &PullAction{rated: newRated(rate)}
}

func (a *PullAction) Do(actor Object, targets []Object) {
	shove(actor, targets, a.delta(), true)
}

func (a *PullAction) Copy() Action { return NewPullAction(a.Rate) }

func shove(actor Object, targets []Object, magnitude float64, inward bool) {
	origin := actor.Core().Location
	for _, t := range targets {
		tc := t.Core()
		heading := origin.AngleTo(tc.Location)
		if inward {
			heading = tc.Location.AngleTo(origin)
		}
		tc.Vector = tc.Vector.Add(newVector(magnitude, heading))
	}
}

func newVector(speed, headingDeg float64) components.Vector {
	return components.NewVector(speed, headingDeg)
}
