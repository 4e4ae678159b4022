package sim

import (
	"testing"

	"github.com/pthm-cable/vivarium/components"
)

func TestInteractMovesAndNotifiesOnce(t *testing.T) {
	st := useSteppedTime(t)
	env := NewEnvironment()
	o := NewGameObject("o")
	o.Vector = components.NewVector(1, 0)
	env.Add(o)

	notified := 0
	env.Subscribe(ObserverFunc(func(e *Environment) {
		if e != env {
			t.Error("observer got a different environment")
		}
		notified++
	}))

	st.AdvanceSeconds(1)
	env.Interact()

	if o.Location.X != 1 || o.Location.Y != 0 {
		t.Errorf("location = %v, want (1, 0)", o.Location)
	}
	if notified != 1 {
		t.Errorf("notified %d times, want 1", notified)
	}
	if env.Tick() != 1 {
		t.Errorf("Tick() = %d, want 1", env.Tick())
	}
}

func TestCreatureNeverActsOnItself(t *testing.T) {
	env := NewEnvironment()
	c := NewCreature("loner")
	counter := &countingCondition{}
	c.AddBehavior(NewBehavior().AddCondition(counter))
	env.Add(c)

	env.Interact()
	if counter.calls != 0 {
		t.Errorf("evaluated %d times alone, want 0", counter.calls)
	}

	env.Add(NewGameObject("other"))
	env.Interact()
	if counter.calls != 1 {
		t.Errorf("evaluated %d times with one other object, want 1", counter.calls)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	env := NewEnvironment()
	kept := NewGameObject("kept")
	env.Add(kept)

	if env.Remove(NewGameObject("stranger")) {
		t.Error("Remove of an absent object returned true")
	}
	if !env.Remove(kept) {
		t.Error("Remove of a present object returned false")
	}
	if env.Remove(kept) {
		t.Error("second Remove returned true")
	}
	if got := env.Counters(); got.Added != 1 || got.Removed != 1 {
		t.Errorf("Counters() = %+v, want 1 added 1 removed", got)
	}
}

func TestAddMovesBetweenEnvironments(t *testing.T) {
	a, b := NewEnvironment(), NewEnvironment()
	o := NewGameObject("o")
	a.Add(o)
	b.Add(o)

	if a.Len() != 0 || b.Len() != 1 {
		t.Errorf("lengths = %d, %d, want 0, 1", a.Len(), b.Len())
	}
	if o.Environment() != b {
		t.Error("object does not reference its new environment")
	}

	b.Add(o)
	if b.Len() != 1 {
		t.Errorf("re-adding duplicated the object: Len() = %d", b.Len())
	}
}

func TestFind(t *testing.T) {
	env := NewEnvironment()
	o := NewGameObject("o")
	env.Add(o)

	got, ok := env.Find(o.ID)
	if !ok || got != Object(o) {
		t.Errorf("Find() = %v, %v, want o", got, ok)
	}
	env.Remove(o)
	if _, ok := env.Find(o.ID); ok {
		t.Error("Find() found a removed object")
	}
}

func TestRemovalDuringTickIsSkipped(t *testing.T) {
	env := NewEnvironment()

	hunter := NewCreature("hunter")
	hunter.AddBehavior(NewBehavior().
		AddCondition(NewTagCondition("prey")).
		AddAction(NewDestroyAction()))

	watcher := NewCreature("watcher")
	counter := &countingCondition{}
	watcher.AddBehavior(NewBehavior().AddCondition(counter))

	prey := NewGameObject("prey")
	prey.Tags.Add("prey")

	env.Add(hunter)
	env.Add(watcher)
	env.Add(prey)
	env.Interact()

	if !equalNames(env.Objects(), "hunter", "watcher") {
		t.Errorf("objects = %v, want [hunter watcher]", names(env.Objects()))
	}
	// The watcher only sees the hunter; the prey died earlier in the tick.
	if counter.calls != 1 {
		t.Errorf("watcher evaluated %d targets, want 1", counter.calls)
	}
}

func TestActorRemovedMidTickStopsActing(t *testing.T) {
	env := NewEnvironment()

	bomb := NewCreature("bomb")
	after := &recordingAction{}
	bomb.AddBehavior(NewBehavior().AddAction(NewExplodeAction()))
	bomb.AddBehavior(NewBehavior().AddAction(after))

	env.Add(bomb)
	env.Add(NewGameObject("a"))
	env.Add(NewGameObject("b"))
	env.Interact()

	// The second behavior still runs against the first target in the same
	// Act call, but the bomb stops visiting further targets.
	if after.dos != 1 {
		t.Errorf("actions after removal ran %d times, want 1", after.dos)
	}
	if env.Len() != 2 {
		t.Errorf("env.Len() = %d, want 2", env.Len())
	}
}

func TestObjectsAddedMidTickAreVisited(t *testing.T) {
	env := NewEnvironment()

	child := NewCreature("child")
	prototypeCounter := &countingCondition{}
	child.AddBehavior(NewBehavior().AddCondition(prototypeCounter))

	spawner := NewCreature("spawner")
	spawner.AddBehavior(NewBehavior().
		AddCondition(NewTagCondition("trigger")).
		AddAction(NewSpawnAction(child)))
	trigger := NewGameObject("trigger")
	trigger.Tags.Add("trigger")

	env.Add(spawner)
	env.Add(trigger)
	env.Interact()

	if env.Len() != 3 {
		t.Fatalf("env.Len() = %d, want 3", env.Len())
	}
	if prototypeCounter.calls != 0 {
		t.Errorf("prototype evaluated %d times, want 0", prototypeCounter.calls)
	}
	spawned := env.Objects()[2].(*Creature)
	// The copy acted on the spawner and the trigger in the same tick.
	if got := spawned.Behaviors()[0].Conditions()[0].(*countingCondition).calls; got != 2 {
		t.Errorf("spawned copy evaluated %d targets, want 2", got)
	}
}

func TestFactorsApplyToEveryObject(t *testing.T) {
	st := useSteppedTime(t)
	env := NewEnvironment()
	env.AddFactor(NewFriction(1))
	limit := NewSpeedLimit(0.5)
	env.AddFactor(limit)

	for _, n := range []string{"a", "b"} {
		o := NewGameObject(n)
		o.Vector = components.NewVector(2, 0)
		env.Add(o)
	}

	st.AdvanceSeconds(0.25)
	env.Interact()
	for _, o := range env.Objects() {
		if got := o.Core().Vector.Speed(); got != 0.5 {
			t.Errorf("%s speed = %v, want 0.5", o.Core().Name, got)
		}
	}

	if !env.RemoveFactor(limit) || len(env.Factors()) != 1 {
		t.Error("RemoveFactor did not remove the speed limit")
	}
	if env.RemoveFactor(limit) {
		t.Error("RemoveFactor removed an absent factor")
	}
}

func TestEatenTargetsReleaseBehaviorState(t *testing.T) {
	useSteppedTime(t)
	env := NewEnvironment()
	hunter := NewCreature("hunter")
	act := &recordingAction{}
	b := NewBehavior().
		AddCondition(NewTagCondition("food")).
		AddAction(NewEatAction()).
		AddAction(act)
	hunter.AddBehavior(b)
	env.Add(hunter)

	const meals = 50
	for i := 0; i < meals; i++ {
		food := NewGameObject("food")
		food.Tags.Add("food")
		env.Add(food)
		env.Interact()
	}

	if env.Len() != 1 {
		t.Errorf("Len = %d, want 1", env.Len())
	}
	if len(b.started) != 0 {
		t.Errorf("started sets = %d, want 0", len(b.started))
	}
	if act.starts != meals || act.stops != meals {
		t.Errorf("starts=%d stops=%d, want %d %d", act.starts, act.stops, meals, meals)
	}
}

func TestRemovalOutsideTickReleasesBehaviorState(t *testing.T) {
	useSteppedTime(t)
	env := NewEnvironment()
	actor := NewCreature("actor")
	b := NewBehavior().AddAction(&recordingAction{})
	actor.AddBehavior(b)
	target := NewGameObject("target")
	env.Add(actor)
	env.Add(target)

	env.Interact()
	if len(b.started) != 1 {
		t.Fatalf("started sets = %d, want 1", len(b.started))
	}

	env.Remove(target)
	env.Interact()
	if len(b.started) != 0 {
		t.Errorf("started sets after removal = %d, want 0", len(b.started))
	}
}
