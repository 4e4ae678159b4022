package sim

import (
	"strings"

	"github.com/google/uuid"
)

// Behavior pairs an ordered condition pipeline with the actions it fires.
//
// Conditions narrow the candidate targets left to right; an empty result
// short-circuits. When targets survive, every action is started (once) and
// then run. When a previously started candidate set stops qualifying, every
// action is stopped once.
type Behavior struct {
	conditions []Condition
	actions    []Action
	owner      *Creature

	// started tracks active candidate sets, keyed by their joined
	// identifiers.
	started map[string][]uuid.UUID
}

// NewBehavior creates an empty behavior.
func NewBehavior() *Behavior {
	return &Behavior{started: make(map[string][]uuid.UUID)}
}

// AddCondition appends a condition and binds it to b.
func (b *Behavior) AddCondition(c Condition) *Behavior {
	bindTo(c, b)
	b.conditions = append(b.conditions, c)
	return b
}

// AddAction appends an action and binds it to b.
func (b *Behavior) AddAction(a Action) *Behavior {
	bindTo(a, b)
	b.actions = append(b.actions, a)
	return b
}

// Conditions returns the condition pipeline.
func (b *Behavior) Conditions() []Condition { return b.conditions }

// Actions returns the actions in execution order.
func (b *Behavior) Actions() []Action { return b.actions }

// Owner returns the creature this behavior belongs to, if any.
func (b *Behavior) Owner() *Creature { return b.owner }

// Perform evaluates the behavior for actor against the candidate targets.
func (b *Behavior) Perform(actor Object, targets []Object) {
	key := targetKey(targets)

	selected := targets
	for _, c := range b.conditions {
		selected = c.Select(actor, selected)
		if len(selected) == 0 {
			break
		}
	}

	if len(selected) == 0 {
		if _, ok := b.started[key]; ok {
			b.stop(key)
		}
		return
	}

	if _, ok := b.started[key]; !ok {
		for _, a := range b.actions {
			a.Start()
		}
		b.started[key] = targetIDs(targets)
	}
	for _, a := range b.actions {
		a.Do(actor, selected)
	}
}

func (b *Behavior) stop(key string) {
	for _, a := range b.actions {
		a.Stop()
	}
	delete(b.started, key)
}

// forget stops and drops every started candidate set that includes an
// object for which gone reports true. Sets whose members were removed can
// never fail their conditions, so they are retired here instead.
func (b *Behavior) forget(gone func(uuid.UUID) bool) {
	for key, ids := range b.started {
		for _, id := range ids {
			if gone(id) {
				b.stop(key)
				break
			}
		}
	}
}

// Copy returns an independent behavior with copied conditions and actions
// in a fresh, not-started state. The copy has no owner.
func (b *Behavior) Copy() *Behavior {
	cp := NewBehavior()
	for _, c := range b.conditions {
		cp.AddCondition(c.Copy())
	}
	for _, a := range b.actions {
		cp.AddAction(a.Copy())
	}
	return cp
}

// breeds reports whether any action is a BreedAction.
func (b *Behavior) breeds() bool {
	for _, a := range b.actions {
		if _, ok := a.(*BreedAction); ok {
			return true
		}
	}
	return false
}

func targetIDs(targets []Object) []uuid.UUID {
	ids := make([]uuid.UUID, len(targets))
	for i, t := range targets {
		ids[i] = t.Core().ID
	}
	return ids
}

func targetKey(targets []Object) string {
	if len(targets) == 1 {
		return targets[0].Core().ID.String()
	}
	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.Core().ID.String()
	}
	return strings.Join(ids, ",")
}

// owned is embedded by conditions and actions to hold the non-owning
// reference back to their Behavior.
type owned struct {
	behavior *Behavior
}

func (o *owned) bind(b *Behavior) { o.behavior = b }

// Behavior returns the behavior this rule was added to.
func (o *owned) Behavior() *Behavior { return o.behavior }

func bindTo(v any, b *Behavior) {
	if o, ok := v.(interface{ bind(*Behavior) }); ok {
		o.bind(b)
	}
}
