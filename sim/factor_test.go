package sim

import (
	"testing"

	"github.com/pthm-cable/vivarium/components"
)

func TestFrictionNeverReverses(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		want  []float64
	}{
		{"forward", 1, []float64{0.9, 0.9, 0.8, 0}},
		{"reverse", -1, []float64{-0.9, -0.9, -0.8, 0}},
	}
	advances := []float64{0.1, 0, 0.1, 5}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := useSteppedTime(t)
			f := NewFriction(1)
			o := NewGameObject("o")
			o.Vector = components.NewVector(tt.start, 0)

			for i, adv := range advances {
				st.AdvanceSeconds(adv)
				f.StartTick()
				f.Act(o)
				if got := o.Vector.Speed(); !near(got, tt.want[i]) {
					t.Errorf("step %d: speed = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestEnclosureReflects(t *testing.T) {
	tests := []struct {
		name        string
		x, y        float64
		heading     float64
		wantX       float64
		wantY       float64
		wantHeading float64
	}{
		{"left wall", 0, 5, 170, 1, 5, 10},
		{"right wall", 12, 5, 10, 10, 5, 170},
		{"top wall", 5, 0, 300, 5, 1, 60},
		{"bottom wall", 5, 11, 45, 5, 10, 315},
		{"inside", 5, 5, 33, 5, 5, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnclosure(1, 1, 10, 10)
			o := objectAt("o", tt.x, tt.y)
			o.Vector = components.NewVector(1, tt.heading)
			e.Act(o)

			if o.Location.X != tt.wantX || o.Location.Y != tt.wantY {
				t.Errorf("location = %v, want (%v, %v)", o.Location, tt.wantX, tt.wantY)
			}
			if !nearAngle(o.Vector.Heading(), tt.wantHeading) {
				t.Errorf("heading = %v, want %v", o.Vector.Heading(), tt.wantHeading)
			}
		})
	}
}

func TestSpeedLimit(t *testing.T) {
	s := NewSpeedLimit(2)
	for _, tc := range []struct{ in, want float64 }{{5, 2}, {-5, -2}, {1.5, 1.5}} {
		o := NewGameObject("o")
		o.Vector.SetSpeed(tc.in)
		s.Act(o)
		if got := o.Vector.Speed(); got != tc.want {
			t.Errorf("speed %v: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGravityPullsDown(t *testing.T) {
	st := useSteppedTime(t)
	g := NewGravity(2)
	if g.Strength() != 2 {
		t.Errorf("Strength() = %v, want 2", g.Strength())
	}

	a, b := NewGameObject("a"), NewGameObject("b")
	st.AdvanceSeconds(0.5)
	g.StartTick()
	g.Act(a)
	g.Act(b)

	for _, o := range []*GameObject{a, b} {
		if !near(o.Vector.Speed(), 1) || !nearAngle(o.Vector.Heading(), 90) {
			t.Errorf("%s vector = (%v, %v°), want (1, 90°)", o.Name, o.Vector.Speed(), o.Vector.Heading())
		}
	}

	g.SetStrength(4)
	if !nearAngle(g.Force.Heading(), 90) || g.Strength() != 4 {
		t.Errorf("force = (%v, %v°), want (4, 90°)", g.Force.Speed(), g.Force.Heading())
	}
}

func TestAccelerator(t *testing.T) {
	st := useSteppedTime(t)
	a := NewAccelerator(components.NewVector(1, 0))
	o := NewGameObject("o")
	o.Vector = components.NewVector(1, 90)

	st.AdvanceSeconds(1)
	a.StartTick()
	a.Act(o)
	if !near(o.Vector.X(), 1) || !near(o.Vector.Y(), 1) {
		t.Errorf("vector = (%v, %v), want (1, 1)", o.Vector.X(), o.Vector.Y())
	}
}

func TestClockedFactorsSampleWithoutTick(t *testing.T) {
	st := useSteppedTime(t)
	f := NewFriction(1)
	g := NewGravity(10)
	o := NewGameObject("o")
	o.Vector = components.NewVector(1, 0)

	st.AdvanceSeconds(0.1)
	f.Act(o)
	if !near(o.Vector.Speed(), 0.9) {
		t.Errorf("speed after friction = %v, want 0.9", o.Vector.Speed())
	}
	g.Act(o)
	if !near(o.Vector.Y(), 1) {
		t.Errorf("y after gravity = %v, want 1", o.Vector.Y())
	}

	// Inside a tick every Act sees the same delta.
	st.AdvanceSeconds(0.1)
	g.StartTick()
	a, b := NewGameObject("a"), NewGameObject("b")
	g.Act(a)
	g.Act(b)
	g.EndTick()
	if !near(a.Vector.Y(), 1) || !near(b.Vector.Y(), 1) {
		t.Errorf("y = %v, %v, want 1, 1", a.Vector.Y(), b.Vector.Y())
	}

	// After the tick, Act samples again; no time has passed.
	c := NewGameObject("c")
	g.Act(c)
	if c.Vector.Y() != 0 {
		t.Errorf("y after tick = %v, want 0", c.Vector.Y())
	}
}

func TestPopulationLimitRemovesOldest(t *testing.T) {
	env := NewEnvironment()
	first, second, third := NewGameObject("first"), NewGameObject("second"), NewGameObject("third")
	env.AddFactor(NewPopulationLimit(2))
	env.Add(first)
	env.Add(second)
	env.Add(third)

	env.Interact()

	if !equalNames(env.Objects(), "second", "third") {
		t.Errorf("objects = %v, want [second third]", names(env.Objects()))
	}
	if first.Environment() != nil {
		t.Error("removed object still references the environment")
	}
}

func TestPopulationLimitOutsideTick(t *testing.T) {
	env := NewEnvironment()
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		env.Add(NewGameObject(n))
	}
	NewPopulationLimit(2).Act(env.Objects()[4])
	if !equalNames(env.Objects(), "d", "e") {
		t.Errorf("objects = %v, want [d e]", names(env.Objects()))
	}
}
