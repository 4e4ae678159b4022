package sim

import "testing"

func TestBehaviorStartsOnceAndStopsOnce(t *testing.T) {
	actor := NewCreature("actor")
	target := NewGameObject("target")
	target.Tags.Add("food")

	act := &recordingAction{}
	b := NewBehavior().AddCondition(NewTagCondition("food")).AddAction(act)
	actor.AddBehavior(b)

	b.Perform(actor, []Object{target})
	b.Perform(actor, []Object{target})
	if act.starts != 1 || act.dos != 2 || act.stops != 0 {
		t.Fatalf("while passing: starts=%d dos=%d stops=%d, want 1 2 0", act.starts, act.dos, act.stops)
	}

	target.Tags.Remove("food")
	b.Perform(actor, []Object{target})
	b.Perform(actor, []Object{target})
	if act.starts != 1 || act.dos != 2 || act.stops != 1 {
		t.Errorf("after failing: starts=%d dos=%d stops=%d, want 1 2 1", act.starts, act.dos, act.stops)
	}
}

func TestBehaviorNeverStartedDoesNotStop(t *testing.T) {
	act := &recordingAction{}
	b := NewBehavior().AddCondition(NewTagCondition("food")).AddAction(act)
	b.Perform(NewCreature("actor"), []Object{NewGameObject("rock")})
	if act.stops != 0 {
		t.Errorf("stops = %d, want 0", act.stops)
	}
}

func TestBehaviorShortCircuits(t *testing.T) {
	counter := &countingCondition{}
	act := &recordingAction{}
	b := NewBehavior().
		AddCondition(NewTagCondition("missing")).
		AddCondition(counter).
		AddAction(act)

	b.Perform(NewCreature("actor"), []Object{NewGameObject("rock")})
	if counter.calls != 0 {
		t.Errorf("later condition evaluated %d times, want 0", counter.calls)
	}
	if act.dos != 0 {
		t.Errorf("action ran %d times, want 0", act.dos)
	}
}

func TestBehaviorPassesNarrowedTargets(t *testing.T) {
	a, b := NewGameObject("a"), NewGameObject("b")
	b.Tags.Add("keep")
	act := &recordingAction{}
	beh := NewBehavior().AddCondition(NewTagCondition("keep")).AddAction(act)

	beh.Perform(NewCreature("actor"), []Object{a, b})
	if len(act.last) != 1 || act.last[0] != Object(b) {
		t.Errorf("action targets = %v, want [b]", act.last)
	}
}

func TestBehaviorTracksTargetSetsIndependently(t *testing.T) {
	a, b := NewGameObject("a"), NewGameObject("b")
	a.Tags.Add("food")
	act := &recordingAction{}
	beh := NewBehavior().AddCondition(NewTagCondition("food")).AddAction(act)
	actor := NewCreature("actor")

	// Alternating candidates must not restart the passing one.
	for range 3 {
		beh.Perform(actor, []Object{a})
		beh.Perform(actor, []Object{b})
	}
	if act.starts != 1 || act.stops != 0 {
		t.Errorf("starts=%d stops=%d, want 1 0", act.starts, act.stops)
	}
}

func TestBehaviorBindsRules(t *testing.T) {
	cond := NewTagCondition("x")
	act := NewFaceAction()
	b := NewBehavior().AddCondition(cond).AddAction(act)
	if cond.Behavior() != b || act.Behavior() != b {
		t.Error("rules not bound to their behavior")
	}

	cp := b.Copy()
	if cp.Owner() != nil {
		t.Error("copy has an owner")
	}
	if cp.Conditions()[0].(*TagCondition).Behavior() != cp {
		t.Error("copied condition not bound to the copy")
	}
	if cp.Actions()[0] == Action(act) {
		t.Error("action shared between copy and original")
	}
}
