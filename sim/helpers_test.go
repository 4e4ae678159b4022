package sim

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/vivarium/geom"
)

const eps = 1e-9

// useSteppedTime swaps in a manual time source for the duration of the test.
// Create objects and environments after calling it so their clocks anchor to
// stepped time.
func useSteppedTime(t *testing.T) *SteppedTime {
	t.Helper()
	st := NewSteppedTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	t.Cleanup(UseTimeSource(st.Now))
	return st
}

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func nearAngle(a, b float64) bool {
	return geom.AngularDistance(a, b) < eps
}

// countingCondition passes everything and counts evaluations.
type countingCondition struct {
	owned
	calls int
}

func (c *countingCondition) Select(_ Object, candidates []Object) []Object {
	c.calls++
	return candidates
}

func (c *countingCondition) Copy() Condition { return &countingCondition{} }

// recordingAction counts lifecycle calls and remembers the last targets.
type recordingAction struct {
	owned
	starts, dos, stops int
	last               []Object
}

func (a *recordingAction) Start() { a.starts++ }
func (a *recordingAction) Stop()  { a.stops++ }

func (a *recordingAction) Do(_ Object, targets []Object) {
	a.dos++
	a.last = targets
}

func (a *recordingAction) Copy() Action { return &recordingAction{} }

func objectAt(name string, x, y float64) *GameObject {
	o := NewGameObject(name)
	o.Location.X, o.Location.Y = x, y
	return o
}

func creatureAt(name string, x, y float64) *Creature {
	c := NewCreature(name)
	c.Location.X, c.Location.Y = x, y
	return c
}
