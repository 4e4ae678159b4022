package sim

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pthm-cable/vivarium/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a serializable copy of an environment: its objects in
// insertion order and its factors. Clocks are not captured; a restored
// environment starts every clock fresh.
type Snapshot struct {
	Version int           `json:"version"`
	Tick    uint64        `json:"tick"`
	Objects []ObjectState `json:"objects"`
	Factors []FactorState `json:"factors,omitempty"`
}

// ObjectState holds one object, including any behaviors.
type ObjectState struct {
	ID    string     `json:"id"`
	Class string     `json:"class"`
	Name  string     `json:"name,omitempty"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	RGB   [3]float64 `json:"rgb"`

	Speed   float64 `json:"speed"`
	Heading float64 `json:"heading"`

	Age  float64  `json:"age"`
	Size float64  `json:"size"`
	Tags []string `json:"tags,omitempty"`

	Behaviors []BehaviorState `json:"behaviors,omitempty"`
}

// BehaviorState holds a behavior's rules in order.
type BehaviorState struct {
	Conditions []RuleState `json:"conditions,omitempty"`
	Actions    []RuleState `json:"actions,omitempty"`
}

// RuleState holds one condition or action. Value carries the variant's
// single numeric parameter (threshold, distance, interval, rate or delay).
type RuleState struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value,omitempty"`
	Angle float64 `json:"angle,omitempty"`
	Tag   string  `json:"tag,omitempty"`
	Class string  `json:"class,omitempty"`

	RGB        *[3]float64     `json:"rgb,omitempty"`
	Prototypes []ObjectState   `json:"prototypes,omitempty"`
	Volleys    [][]ObjectState `json:"volleys,omitempty"`
}

// FactorState holds one environmental factor.
type FactorState struct {
	Kind string `json:"kind"`

	Left   float64 `json:"left,omitempty"`
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`

	Value   float64 `json:"value,omitempty"`
	Heading float64 `json:"heading,omitempty"`
	Limit   int     `json:"limit,omitempty"`
}

// Capture records the environment's current state.
func Capture(env *Environment) (*Snapshot, error) {
	s := &Snapshot{
		Version: SnapshotVersion,
		Tick:    env.Tick(),
	}
	for _, o := range env.Objects() {
		st, err := captureObject(o)
		if err != nil {
			return nil, err
		}
		s.Objects = append(s.Objects, st)
	}
	for _, f := range env.factors {
		st, err := captureFactor(f)
		if err != nil {
			return nil, err
		}
		s.Factors = append(s.Factors, st)
	}
	return s, nil
}

func captureObject(o Object) (ObjectState, error) {
	c := o.Core()
	r, g, b := c.Color.RGB()
	st := ObjectState{
		ID:      c.ID.String(),
		Class:   o.Class().String(),
		Name:    c.Name,
		X:       c.Location.X,
		Y:       c.Location.Y,
		RGB:     [3]float64{r, g, b},
		Speed:   c.Vector.Speed(),
		Heading: c.Vector.Heading(),
		Age:     c.Age(),
		Size:    c.Size(),
		Tags:    c.Tags.List(),
	}

	cr, ok := o.(*Creature)
	if !ok {
		return st, nil
	}
	for _, beh := range cr.behaviors {
		var bs BehaviorState
		for _, cond := range beh.conditions {
			rs, err := captureCondition(cond)
			if err != nil {
				return st, fmt.Errorf("object %s: %w", c.ID, err)
			}
			bs.Conditions = append(bs.Conditions, rs)
		}
		for _, act := range beh.actions {
			rs, err := captureAction(act)
			if err != nil {
				return st, fmt.Errorf("object %s: %w", c.ID, err)
			}
			bs.Actions = append(bs.Actions, rs)
		}
		st.Behaviors = append(st.Behaviors, bs)
	}
	return st, nil
}

func captureCondition(c Condition) (RuleState, error) {
	switch c := c.(type) {
	case *TagCondition:
		return RuleState{Kind: "tag", Tag: c.Tag}, nil
	case *AgeCondition:
		return RuleState{Kind: "age", Value: c.MinAge}, nil
	case *ProximityCondition:
		return RuleState{Kind: "proximity", Value: c.Distance}, nil
	case *CollisionCondition:
		return RuleState{Kind: "collision"}, nil
	case *StrengthCondition:
		return RuleState{Kind: "strength"}, nil
	case *ClassCondition:
		return RuleState{Kind: "class", Class: c.Class.String()}, nil
	case *ElapsedTimeCondition:
		return RuleState{Kind: "elapsed_time", Value: c.Interval}, nil
	default:
		return RuleState{}, fmt.Errorf("unknown condition type %T", c)
	}
}

func captureAction(a Action) (RuleState, error) {
	switch a := a.(type) {
	case *FaceAction:
		return RuleState{Kind: "face"}, nil
	case *AccelerateAction:
		return RuleState{Kind: "accelerate", Value: a.Rate}, nil
	case *TurnAction:
		return RuleState{Kind: "turn", Value: a.Rate, Angle: a.Angle}, nil
	case *ApproachAction:
		return RuleState{Kind: "approach", Value: a.Rate}, nil
	case *FleeAction:
		return RuleState{Kind: "flee", Value: a.Rate}, nil
	case *DestroyAction:
		return RuleState{Kind: "destroy"}, nil
	case *EatAction:
		return RuleState{Kind: "eat"}, nil
	case *TagAction:
		return RuleState{Kind: "tag", Tag: a.Tag}, nil
	case *BlendAction:
		r, g, b := a.Color.RGB()
		return RuleState{Kind: "blend", Value: a.Rate, RGB: &[3]float64{r, g, b}}, nil
	case *PushAction:
		return RuleState{Kind: "push", Value: a.Rate}, nil
	case *PullAction:
		return RuleState{Kind: "pull", Value: a.Rate}, nil
	case *BreedAction:
		return RuleState{Kind: "breed", Value: a.Delay}, nil
	case *SpawnAction:
		protos, err := captureObjects(a.Prototypes)
		return RuleState{Kind: "spawn", Prototypes: protos}, err
	case *ExplodeAction:
		protos, err := captureObjects(a.Prototypes)
		return RuleState{Kind: "explode", Prototypes: protos}, err
	case *ShootAction:
		rs := RuleState{Kind: "shoot"}
		for _, v := range a.Volleys {
			protos, err := captureObjects(v)
			if err != nil {
				return rs, err
			}
			rs.Volleys = append(rs.Volleys, protos)
		}
		return rs, nil
	default:
		return RuleState{}, fmt.Errorf("unknown action type %T", a)
	}
}

func captureObjects(objs []Object) ([]ObjectState, error) {
	out := make([]ObjectState, 0, len(objs))
	for _, o := range objs {
		st, err := captureObject(o)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func captureFactor(f Factor) (FactorState, error) {
	switch f := f.(type) {
	case *Enclosure:
		return FactorState{Kind: "enclosure", Left: f.Left, Top: f.Top, Right: f.Right, Bottom: f.Bottom}, nil
	case *SpeedLimit:
		return FactorState{Kind: "speed_limit", Value: f.Max}, nil
	case *Gravity:
		return FactorState{Kind: "gravity", Value: f.Strength()}, nil
	case *Accelerator:
		return FactorState{Kind: "accelerator", Value: f.Force.Speed(), Heading: f.Force.Heading()}, nil
	case *Friction:
		return FactorState{Kind: "friction", Value: f.Force}, nil
	case *PopulationLimit:
		return FactorState{Kind: "population_limit", Limit: f.Max}, nil
	default:
		return FactorState{}, fmt.Errorf("unknown factor type %T", f)
	}
}

// Restore builds a new environment from the snapshot. Identifiers, ages and
// insertion order are preserved; every clock starts fresh.
func (s *Snapshot) Restore() (*Environment, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	env := NewEnvironment()
	for i := range s.Objects {
		o, err := restoreObject(&s.Objects[i])
		if err != nil {
			return nil, err
		}
		env.Add(o)
	}
	for _, fs := range s.Factors {
		f, err := restoreFactor(fs)
		if err != nil {
			return nil, err
		}
		env.AddFactor(f)
	}
	env.counters.Ticks = s.Tick
	return env, nil
}

func restoreObject(st *ObjectState) (Object, error) {
	id, err := uuid.Parse(st.ID)
	if err != nil {
		return nil, fmt.Errorf("object id %q: %w", st.ID, err)
	}
	class, ok := ParseClass(st.Class)
	if !ok {
		return nil, fmt.Errorf("object %s: unknown class %q", st.ID, st.Class)
	}

	var o Object
	var core *GameObject
	switch class {
	case ClassCreature:
		cr := NewCreature(st.Name)
		o, core = cr, &cr.GameObject
	default:
		g := NewGameObject(st.Name)
		o, core = g, g
	}

	core.ID = id
	core.Location = components.Location{X: st.X, Y: st.Y}
	core.Color = components.NewColor(st.RGB[0], st.RGB[1], st.RGB[2])
	core.Vector = components.NewVector(st.Speed, st.Heading)
	core.Tags = components.NewTags(st.Tags...)
	core.SetSize(st.Size)
	core.SetAge(st.Age)

	if len(st.Behaviors) > 0 && class != ClassCreature {
		return nil, fmt.Errorf("object %s: behaviors on a %s", st.ID, st.Class)
	}
	for _, bs := range st.Behaviors {
		beh := NewBehavior()
		for _, rs := range bs.Conditions {
			c, err := restoreCondition(rs)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", st.ID, err)
			}
			beh.AddCondition(c)
		}
		for _, rs := range bs.Actions {
			a, err := restoreAction(rs)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", st.ID, err)
			}
			beh.AddAction(a)
		}
		o.(*Creature).AddBehavior(beh)
	}
	return o, nil
}

func restoreCondition(rs RuleState) (Condition, error) {
	switch rs.Kind {
	case "tag":
		return NewTagCondition(rs.Tag), nil
	case "age":
		return NewAgeCondition(rs.Value), nil
	case "proximity":
		return NewProximityCondition(rs.Value), nil
	case "collision":
		return NewCollisionCondition(), nil
	case "strength":
		return NewStrengthCondition(), nil
	case "class":
		class, ok := ParseClass(rs.Class)
		if !ok {
			return nil, fmt.Errorf("class condition: unknown class %q", rs.Class)
		}
		return NewClassCondition(class), nil
	case "elapsed_time":
		return NewElapsedTimeCondition(rs.Value), nil
	default:
		return nil, fmt.Errorf("unknown condition kind %q", rs.Kind)
	}
}

func restoreAction(rs RuleState) (Action, error) {
	switch rs.Kind {
	case "face":
		return NewFaceAction(), nil
	case "accelerate":
		return NewAccelerateAction(rs.Value), nil
	case "turn":
		return NewTurnAction(rs.Value, rs.Angle), nil
	case "approach":
		return NewApproachAction(rs.Value), nil
	case "flee":
		return NewFleeAction(rs.Value), nil
	case "destroy":
		return NewDestroyAction(), nil
	case "eat":
		return NewEatAction(), nil
	case "tag":
		return NewTagAction(rs.Tag), nil
	case "blend":
		if rs.RGB == nil {
			return nil, fmt.Errorf("blend action: missing rgb")
		}
		return NewBlendAction(rs.Value, components.NewColor(rs.RGB[0], rs.RGB[1], rs.RGB[2])), nil
	case "push":
		return NewPushAction(rs.Value), nil
	case "pull":
		return NewPullAction(rs.Value), nil
	case "breed":
		return NewBreedAction(rs.Value), nil
	case "spawn":
		protos, err := restoreObjects(rs.Prototypes)
		if err != nil {
			return nil, err
		}
		return NewSpawnAction(protos...), nil
	case "explode":
		protos, err := restoreObjects(rs.Prototypes)
		if err != nil {
			return nil, err
		}
		return NewExplodeAction(protos...), nil
	case "shoot":
		volleys := make([][]Object, 0, len(rs.Volleys))
		for _, v := range rs.Volleys {
			protos, err := restoreObjects(v)
			if err != nil {
				return nil, err
			}
			volleys = append(volleys, protos)
		}
		return NewShootAction(volleys...), nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", rs.Kind)
	}
}

func restoreObjects(states []ObjectState) ([]Object, error) {
	out := make([]Object, 0, len(states))
	for i := range states {
		o, err := restoreObject(&states[i])
		if err != nil {
			return nil, fmt.Errorf("prototype: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}

func restoreFactor(fs FactorState) (Factor, error) {
	switch fs.Kind {
	case "enclosure":
		return NewEnclosure(fs.Left, fs.Top, fs.Right, fs.Bottom), nil
	case "speed_limit":
		return NewSpeedLimit(fs.Value), nil
	case "accelerator":
		return NewAccelerator(components.NewVector(fs.Value, fs.Heading)), nil
	case "gravity":
		return NewGravity(fs.Value), nil
	case "friction":
		return NewFriction(fs.Value), nil
	case "population_limit":
		return NewPopulationLimit(fs.Limit), nil
	default:
		return nil, fmt.Errorf("unknown factor kind %q", fs.Kind)
	}
}
